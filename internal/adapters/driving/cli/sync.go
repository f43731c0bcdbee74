package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/granola-sync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/granola-sync/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/granola-sync/internal/adapters/driven/webhook"
	"github.com/custodia-labs/granola-sync/internal/connectors/granola"
	"github.com/custodia-labs/granola-sync/internal/core/domain"
	"github.com/custodia-labs/granola-sync/internal/core/ports/driven"
	"github.com/custodia-labs/granola-sync/internal/core/ports/driving"
	"github.com/custodia-labs/granola-sync/internal/core/services"
	"github.com/custodia-labs/granola-sync/internal/logger"
)

// defaultSinceHours is the lookback window when neither the flag nor
// the settings file specify one.
const defaultSinceHours = 24

var (
	syncHours      int
	syncAll        bool
	syncDryRun     bool
	syncWebhookURL string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch new meetings and deliver them to the webhook",
	Long: `Fetches meeting documents created within the lookback window and posts
each one that has not been delivered before to the webhook endpoint.

The webhook URL comes from --webhook or the webhook.url setting.
With --dry-run the payloads are built and logged but nothing is
delivered and no state is written.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().IntVar(&syncHours, "hours", 0, "Lookback window in hours (default from settings, else 24)")
	syncCmd.Flags().BoolVar(&syncAll, "all", false, "Re-deliver documents that were already synced")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Build payloads without delivering or persisting state")
	syncCmd.Flags().StringVar(&syncWebhookURL, "webhook", "", "Webhook URL (overrides the webhook.url setting)")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	webhookURL := syncWebhookURL
	if webhookURL == "" {
		webhookURL = settingsStore.GetString(configfile.KeyWebhookURL)
	}
	if webhookURL == "" && !syncDryRun {
		return fmt.Errorf("%w: no webhook URL; pass --webhook or set webhook.url", domain.ErrInvalidInput)
	}

	hours := syncHours
	if hours <= 0 {
		hours = settingsStore.GetInt(configfile.KeySyncHours)
	}
	if hours <= 0 {
		hours = defaultSinceHours
	}

	archive, err := sqlite.NewArchive(dataDir())
	if err != nil {
		// The archive is a journal for 'status', not part of delivery.
		logger.Warn("Delivery archive unavailable: %v", err)
		archive = nil
	}
	if archive != nil {
		defer archive.Close()
	}

	source := granola.NewClient(ctx, tokenManager)
	classifier := services.NewClassifier(settingsStore.GetStringSlice(configfile.KeyInternalDomains))

	engine := services.NewSyncEngine(
		tokenManager,
		source,
		stateStore,
		webhook.NewSink(webhookURL),
		classifier,
		archiveOrNil(archive),
	)

	stats, err := engine.Sync(ctx, driving.SyncOptions{
		SinceHours: hours,
		ForceAll:   syncAll,
		DryRun:     syncDryRun,
	})
	if err != nil {
		return err
	}

	if syncDryRun {
		cmd.Printf("Dry run: %d of %d documents would be delivered.\n", stats.New, stats.Total)
		return nil
	}

	cmd.Printf("Synced %d documents (%d new of %d in window).\n", stats.Synced, stats.New, stats.Total)
	if stats.Failed > 0 {
		return fmt.Errorf("%w: %d of %d deliveries failed", domain.ErrDeliveryFailed, stats.Failed, stats.New)
	}
	return nil
}

// archiveOrNil keeps a typed nil *sqlite.Archive from sneaking into the
// engine's interface field.
func archiveOrNil(a *sqlite.Archive) driven.DeliveryArchive {
	if a == nil {
		return nil
	}
	return a
}

func dataDir() string {
	return filepath.Join(configDir, "data")
}
