// Package cli implements the granola-sync command line interface.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/granola-sync/internal/adapters/driven/auth"
	configfile "github.com/custodia-labs/granola-sync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/granola-sync/internal/adapters/driven/mirror"
	storagefile "github.com/custodia-labs/granola-sync/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/granola-sync/internal/core/domain"
	"github.com/custodia-labs/granola-sync/internal/logger"
)

// Exit codes. Cron wrappers and alerting key off these.
const (
	ExitOK           = 0
	ExitSyncFailed   = 1
	ExitAuthRequired = 2
)

// version is set via Execute from the build.
var version = "dev"

// Services wired by initServices and consumed by the subcommands.
var (
	configDir       string
	verbose         bool
	settingsStore   *configfile.ConfigStore
	credentialStore *storagefile.CredentialStore
	stateStore      *storagefile.SyncStateStore
	tokenManager    *auth.TokenManager
)

var rootCmd = &cobra.Command{
	Use:   "granola-sync",
	Short: "Sync Granola meeting transcripts to a webhook",
	Long: `granola-sync pulls meeting documents from the Granola API and posts
each new one, with its transcript and AI notes, to a webhook endpoint.

Sync state is kept locally so repeated runs only deliver meetings that
have not been delivered before, which makes the tool safe to run from
cron.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Config directory (default ~/.granola-sync)")
}

// initServices builds the stores and the token manager shared by the
// subcommands.
func initServices() error {
	dir := configDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".granola-sync")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	configDir = dir

	store, err := configfile.NewConfigStore(dir)
	if err != nil {
		return fmt.Errorf("opening settings: %w", err)
	}
	settingsStore = store

	credentialStore = storagefile.NewCredentialStore(filepath.Join(dir, "credentials.json"))
	stateStore = storagefile.NewSyncStateStore(filepath.Join(dir, "sync_state.json"))

	supabase := mirror.NewSupabaseMirror(supabasePath(store))
	tokenManager = auth.NewTokenManager(credentialStore, supabase)

	return nil
}

// supabasePath resolves the desktop app's credential cache location,
// preferring an explicit setting over the platform default.
func supabasePath(store *configfile.ConfigStore) string {
	if p := store.GetString(configfile.KeySupabasePath); p != "" {
		return p
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Granola", "supabase.json")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Granola", "supabase.json")
	default:
		return filepath.Join(home, ".config", "Granola", "supabase.json")
	}
}

// Execute runs the CLI and returns the process exit code.
func Execute(buildVersion string) int {
	if buildVersion != "" {
		version = buildVersion
	}

	if err := rootCmd.Execute(); err != nil {
		logger.Error("%v", err)
		return exitCode(err)
	}
	return ExitOK
}

// exitCode maps an error to the process exit code. Auth problems get
// their own code so a cron wrapper can page for "needs a new token"
// separately from transient delivery trouble.
func exitCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrRefreshTokenInvalid),
		errors.Is(err, domain.ErrCredentialMissing),
		errors.Is(err, domain.ErrTokenUnavailable):
		return ExitAuthRequired
	default:
		return ExitSyncFailed
	}
}
