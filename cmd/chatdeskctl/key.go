package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage provider API keys in the keyring",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		return requireKeyring()
	},
}

var keySetCmd = &cobra.Command{
	Use:   "set <provider>",
	Short: "Store the API key of a provider (read from the terminal or stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := readSecret(fmt.Sprintf("API key for %s: ", args[0]))
		if err != nil {
			return err
		}
		if err := svc.Keyring.StoreApiKey(args[0], key); err != nil {
			return err
		}
		fmt.Printf("Stored API key for %s\n", args[0])
		return nil
	},
}

var keyDeleteCmd = &cobra.Command{
	Use:   "delete <provider>",
	Short: "Delete the API key of a provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.Keyring.DeleteApiKey(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted API key for %s\n", args[0])
		return nil
	},
}

var keyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List providers with a stored API key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, err := svc.Keyring.ListApiKeys()
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(keys)
			return nil
		}
		for _, k := range keys {
			fmt.Println(k["provider"])
		}
		return nil
	},
}

// readSecret reads without echo from a terminal, or one line from piped
// stdin.
func readSecret(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, prompt)
		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("read API key: %w", err)
		}
		return []byte(strings.TrimSpace(string(secret))), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return nil, fmt.Errorf("read API key: %w", err)
	}
	return []byte(strings.TrimSpace(line)), nil
}

func init() {
	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyDeleteCmd)
	keyCmd.AddCommand(keyListCmd)
}
