package main

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"chatdesk/internal/models"
	"chatdesk/internal/utils"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show and change user settings",
}

var settingsShowDiff bool

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if settingsShowDiff {
			printJSON(svc.Settings.Diff())
			return nil
		}
		if jsonOutput {
			printJSON(svc.Settings.ExportAppSettings())
			return nil
		}
		printSettings(svc.Settings.Settings())
		return nil
	},
}

var settingsTranslationAgentCmd = &cobra.Command{
	Use:   "set-translation-agent <provider> <model>",
	Short: "Set the model used for translation and language detection",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return svc.Settings.SetTranslationSystemAgent(cmd.Context(), args[0], args[1])
	},
}

var settingsFunctionAgentCmd = &cobra.Command{
	Use:   "set-function-agent <provider> <model>",
	Short: "Set the model used for titles and other helper tasks",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return svc.Settings.SetFunctionSystemAgent(cmd.Context(), args[0], args[1])
	},
}

var settingsThemeCmd = &cobra.Command{
	Use:       "theme <light|dark|auto>",
	Short:     "Switch the theme mode",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"light", "dark", "auto"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return svc.Settings.SwitchThemeMode(cmd.Context(), models.ThemeMode(args[0]))
	},
}

var settingsLanguageCmd = &cobra.Command{
	Use:   "language <locale>",
	Short: "Switch the UI language",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return svc.Settings.SwitchLanguage(cmd.Context(), args[0])
	},
}

var settingsToggleProviderCmd = &cobra.Command{
	Use:   "toggle-provider <provider> <true|false>",
	Short: "Enable or disable a model provider",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		enabled, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("invalid enabled value %q: %w", args[1], err)
		}
		return svc.Settings.ToggleProviderEnabled(cmd.Context(), args[0], enabled)
	},
}

var (
	providerEndpoint string
	providerModels   []string
)

var settingsProviderCmd = &cobra.Command{
	Use:   "provider <provider>",
	Short: "Configure a model provider endpoint and models",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch models.ProviderConfigPatch
		if cmd.Flags().Changed("endpoint") {
			patch.Endpoint = lo.ToPtr(strings.TrimSpace(providerEndpoint))
		}
		if cmd.Flags().Changed("models") {
			patch.EnabledModels = lo.Uniq(providerModels)
		}
		if err := svc.Settings.SetModelProviderConfig(cmd.Context(), args[0], patch); err != nil {
			return err
		}
		svc.Chat.InvalidateProvider(args[0])
		return nil
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop every stored settings change",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.Settings.ResetSettings(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Settings reset to defaults")
		return nil
	},
}

var settingsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the settings as JSON, without the password",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printJSON(svc.Settings.ExportAppSettings())
	},
}

var settingsImportCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Import settings exported as JSON; the password is ignored",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if args[0] == "-" {
			data, err = readAll(os.Stdin)
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("read settings: %w", err)
		}
		tree := utils.Tree{}
		if err := json.Unmarshal(data, &tree); err != nil {
			return fmt.Errorf("decode settings: %w", err)
		}
		return svc.Settings.ImportAppSettings(cmd.Context(), tree)
	},
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}

func init() {
	settingsShowCmd.Flags().BoolVar(&settingsShowDiff, "diff", false, "show only the stored changes")
	settingsProviderCmd.Flags().StringVar(&providerEndpoint, "endpoint", "", "custom API endpoint")
	settingsProviderCmd.Flags().StringSliceVar(&providerModels, "models", nil, "enabled models")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsTranslationAgentCmd)
	settingsCmd.AddCommand(settingsFunctionAgentCmd)
	settingsCmd.AddCommand(settingsThemeCmd)
	settingsCmd.AddCommand(settingsLanguageCmd)
	settingsCmd.AddCommand(settingsToggleProviderCmd)
	settingsCmd.AddCommand(settingsProviderCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	settingsCmd.AddCommand(settingsExportCmd)
	settingsCmd.AddCommand(settingsImportCmd)
}
