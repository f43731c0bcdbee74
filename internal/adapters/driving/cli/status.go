package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/granola-sync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/granola-sync/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/granola-sync/internal/core/domain"
	"github.com/custodia-labs/granola-sync/internal/logger"
)

var statusRecent int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync state and recent deliveries",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().IntVar(&statusRecent, "recent", 10, "Number of recent deliveries to show")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Config.
	cmd.Println("[Config]")
	if url := settingsStore.GetString(configfile.KeyWebhookURL); url != "" {
		cmd.Printf("  Webhook: %s\n", url)
	} else {
		cmd.Println("  Webhook: not set (pass --webhook or set webhook.url)")
	}
	if hours := settingsStore.GetInt(configfile.KeySyncHours); hours > 0 {
		cmd.Printf("  Lookback: %d hours\n", hours)
	} else {
		cmd.Printf("  Lookback: %d hours (default)\n", defaultSinceHours)
	}
	cmd.Println()

	// Credential.
	cmd.Println("[Credential]")
	cred, err := credentialStore.Load(ctx)
	switch {
	case errors.Is(err, domain.ErrCredentialMissing):
		cmd.Println("  Not configured. Run 'granola-sync auth set'.")
	case err != nil:
		return err
	default:
		cmd.Printf("  Refresh token: %s\n", maskToken(cred.RefreshToken))
		if cred.TokenExpiry.IsZero() {
			cmd.Println("  Access token: none cached")
		} else if cred.Expired(time.Now(), domain.TokenBuffer) {
			cmd.Printf("  Access token: expired %s\n", cred.TokenExpiry.Format(time.RFC3339))
		} else {
			cmd.Printf("  Access token: valid until %s\n", cred.TokenExpiry.Format(time.RFC3339))
		}
	}
	cmd.Println()

	// Sync state.
	cmd.Println("[Sync state]")
	state, err := stateStore.Load(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("  Synced documents: %d\n", state.Count())
	if state.LastSync.IsZero() {
		cmd.Println("  Last sync: never")
	} else {
		cmd.Printf("  Last sync: %s\n", state.LastSync.Format(time.RFC3339))
	}
	cmd.Println()

	// Delivery archive.
	cmd.Println("[Deliveries]")
	archive, err := sqlite.NewArchive(dataDir())
	if err != nil {
		logger.Debug("Archive unavailable: %v", err)
		cmd.Println("  No delivery archive.")
		return nil
	}
	defer archive.Close()

	summary, err := archive.Summary(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("  Total: %d across %d runs\n", summary.Deliveries, summary.Runs)
	if !summary.LastDelivered.IsZero() {
		cmd.Printf("  Last delivered: %s\n", summary.LastDelivered.Format(time.RFC3339))
	}

	if statusRecent > 0 && summary.Deliveries > 0 {
		recent, err := archive.Recent(ctx, statusRecent)
		if err != nil {
			return err
		}
		cmd.Println()
		for _, rec := range recent {
			cmd.Printf("  %s  %s\n", rec.DeliveredAt.Format("2006-01-02 15:04"), rec.Title)
		}
	}

	return nil
}

// maskToken shows just enough of a secret to recognise it.
func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
