package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"chatdesk/internal/events"
	"chatdesk/internal/models"
)

var messageCmd = &cobra.Command{
	Use:     "message",
	Aliases: []string{"msg"},
	Short:   "Manage messages of a session topic",
}

var messageRole string

var messageAddCmd = &cobra.Command{
	Use:   "add <content|->",
	Short: "Add a message to the active topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content := args[0]
		if content == "-" {
			data, err := readAll(os.Stdin)
			if err != nil {
				return err
			}
			content = strings.TrimRight(string(data), "\n")
		}
		msg, err := svc.Messages.Create(cmd.Context(), messageRole, content)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(msg)
			return nil
		}
		fmt.Printf("Created %s\n", msg.ID)
		return nil
	},
}

var messageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List messages of the active topic",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		list := svc.Messages.List()
		if jsonOutput {
			printJSON(list)
			return
		}
		printMessageTable(list)
	},
}

var messageShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		msg, err := activate(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(msg)
			return nil
		}
		printMessage(*msg)
		return nil
	},
}

var translateTo string

var messageTranslateCmd = &cobra.Command{
	Use:   "translate <id>",
	Short: "Translate a message, streaming the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if _, err := activate(ctx, args[0]); err != nil {
			return err
		}
		if cfg.Events.NATSURL == "" && !jsonOutput {
			events.SetCustomEmitter(streamPrinter(os.Stdout))
		}

		if err := svc.Enhance.TranslateMessage(ctx, args[0], translateTo); err != nil {
			return err
		}

		msg, _ := svc.Messages.Get(args[0])
		if jsonOutput {
			printJSON(msg.Translate)
			return nil
		}
		fmt.Printf("\n(%s)\n", translationLabel(msg.Translate))
		return nil
	},
}

var messageClearTranslateCmd = &cobra.Command{
	Use:   "clear-translate <id>",
	Short: "Remove the translation of a message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := activate(cmd.Context(), args[0]); err != nil {
			return err
		}
		return svc.Enhance.ClearTranslate(cmd.Context(), args[0])
	},
}

var (
	ttsFile  string
	ttsVoice string
	ttsMd5   string
)

var messageTTSCmd = &cobra.Command{
	Use:   "tts <id>",
	Short: "Record the generated speech of a message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := activate(cmd.Context(), args[0]); err != nil {
			return err
		}
		return svc.Enhance.TTSMessage(cmd.Context(), args[0], models.ChatTTS{
			ContentMd5: ttsMd5,
			File:       ttsFile,
			Voice:      ttsVoice,
		})
	},
}

var messageClearTTSCmd = &cobra.Command{
	Use:   "clear-tts <id>",
	Short: "Remove the speech of a message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := activate(cmd.Context(), args[0]); err != nil {
			return err
		}
		return svc.Enhance.ClearTTS(cmd.Context(), args[0])
	},
}

var messageDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete one or more messages",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, id := range args {
			if err := svc.Messages.DeleteMessage(cmd.Context(), id); err != nil {
				return fmt.Errorf("deleting %s: %w", id, err)
			}
			fmt.Printf("Deleted %s\n", id)
		}
		return nil
	},
}

// activate switches to the topic owning id and returns the message.
func activate(ctx context.Context, id string) (*models.Message, error) {
	if err := svc.Messages.Activate(ctx, id); err != nil {
		return nil, err
	}
	msg, ok := svc.Messages.Get(id)
	if !ok {
		return nil, fmt.Errorf("message %s not found", id)
	}
	return msg, nil
}

// streamPrinter writes the new part of every streamed translation to w.
func streamPrinter(w io.Writer) func(context.Context, string, any) {
	var (
		mu      sync.Mutex
		printed = map[string]int{}
	)
	return func(_ context.Context, name string, payload any) {
		evt, ok := payload.(events.TranslateEvent)
		if name != events.ChatTranslate || !ok || evt.Final || evt.Translate == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		content := evt.Translate.Content
		if n := printed[evt.MessageID]; n < len(content) {
			fmt.Fprint(w, content[n:])
			printed[evt.MessageID] = len(content)
		}
	}
}

func readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func init() {
	messageAddCmd.Flags().StringVar(&messageRole, "role", "user", "message role")
	messageTranslateCmd.Flags().StringVar(&translateTo, "to", "en-US", "target locale")
	messageTTSCmd.Flags().StringVar(&ttsFile, "file", "", "audio file")
	messageTTSCmd.Flags().StringVar(&ttsVoice, "voice", "", "voice name")
	messageTTSCmd.Flags().StringVar(&ttsMd5, "md5", "", "md5 of the spoken content")

	messageCmd.AddCommand(messageAddCmd)
	messageCmd.AddCommand(messageListCmd)
	messageCmd.AddCommand(messageShowCmd)
	messageCmd.AddCommand(messageTranslateCmd)
	messageCmd.AddCommand(messageClearTranslateCmd)
	messageCmd.AddCommand(messageTTSCmd)
	messageCmd.AddCommand(messageClearTTSCmd)
	messageCmd.AddCommand(messageDeleteCmd)
}
