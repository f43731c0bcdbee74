package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/granola-sync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/granola-sync/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and set the persistent settings in config.toml.

Keys:
  webhook.url                       Webhook endpoint for 'sync'
  sync.hours                        Default lookback window in hours
  classification.internal_domains   Comma-separated internal e-mail domains
  granola.supabase_path             Path to the desktop app's supabase.json`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a settings value",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	cmd.Printf("Settings file: %s\n\n", settingsStore.Path())

	printSetting(cmd, configfile.KeyWebhookURL, settingsStore.GetString(configfile.KeyWebhookURL))
	if hours := settingsStore.GetInt(configfile.KeySyncHours); hours > 0 {
		printSetting(cmd, configfile.KeySyncHours, strconv.Itoa(hours))
	} else {
		printSetting(cmd, configfile.KeySyncHours, "")
	}
	printSetting(cmd, configfile.KeyInternalDomains,
		strings.Join(settingsStore.GetStringSlice(configfile.KeyInternalDomains), ", "))
	printSetting(cmd, configfile.KeySupabasePath, settingsStore.GetString(configfile.KeySupabasePath))

	return nil
}

func printSetting(cmd *cobra.Command, key, value string) {
	if value == "" {
		value = "(not set)"
	}
	cmd.Printf("  %-36s %s\n", key, value)
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]

	var value any
	switch key {
	case configfile.KeyWebhookURL, configfile.KeySupabasePath:
		value = raw
	case configfile.KeySyncHours:
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		value = int64(hours)
	case configfile.KeyInternalDomains:
		parts := strings.Split(raw, ",")
		domains := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				domains = append(domains, p)
			}
		}
		value = domains
	default:
		return fmt.Errorf("%w: unknown settings key %q", domain.ErrInvalidInput, key)
	}

	if err := settingsStore.Set(key, value); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	cmd.Printf("Set %s\n", key)
	return nil
}
