package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/granola-sync/internal/core/domain"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Granola credentials",
	Long: `Set, refresh, and inspect the WorkOS credential used to call the
Granola API.

The refresh token rotates on every use: each refresh invalidates the
previous token and returns a new one, which is stored automatically.
Capture the initial token from the Granola desktop app's supabase.json.

Examples:
  # Store a refresh token (prompts without echo)
  granola-sync auth set

  # Store non-interactively
  granola-sync auth set --refresh-token "xxx" --client-id "client_yyy"

  # Exercise a refresh now and rotate the stored token
  granola-sync auth refresh

  # Show the stored credential, masked
  granola-sync auth show`,
}

var authSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store a refresh token and client ID",
	RunE:  runAuthSet,
}

var authRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Force a token refresh and rotate the stored refresh token",
	RunE:  runAuthRefresh,
}

var authShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored credential, masked",
	RunE:  runAuthShow,
}

// Flags for auth set.
var (
	authSetRefreshToken string
	authSetClientID     string
)

func init() {
	authSetCmd.Flags().StringVar(
		&authSetRefreshToken, "refresh-token", "", "WorkOS refresh token (prompted if omitted)")
	authSetCmd.Flags().StringVar(
		&authSetClientID, "client-id", "", "WorkOS client ID (prompted if omitted)")

	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authRefreshCmd)
	authCmd.AddCommand(authShowCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthSet(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	clientID := authSetClientID
	if clientID == "" {
		cmd.Print("Client ID: ")
		clientID = readLine(reader)
	}
	if clientID == "" {
		return fmt.Errorf("%w: client ID is required", domain.ErrInvalidInput)
	}

	refreshToken := authSetRefreshToken
	if refreshToken == "" {
		cmd.Print("Refresh token: ")
		refreshToken = readSecret()
		cmd.Println()
	}
	if refreshToken == "" {
		return fmt.Errorf("%w: refresh token is required", domain.ErrInvalidInput)
	}

	// Any cached access token in the existing file belongs to the old
	// session, so it is dropped rather than carried over.
	cred := &domain.Credential{
		RefreshToken: refreshToken,
		ClientID:     clientID,
	}
	if err := credentialStore.Save(ctx, cred); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}

	cmd.Printf("Credential stored in %s\n", credentialStore.Path())
	cmd.Println("Run 'granola-sync auth refresh' to verify it works.")
	return nil
}

func runAuthRefresh(cmd *cobra.Command, _ []string) error {
	cred, err := tokenManager.ForceRefresh(context.Background())
	if err != nil {
		return err
	}

	cmd.Println("Token refreshed; stored refresh token rotated.")
	cmd.Printf("Access token valid until %s\n", cred.TokenExpiry.Format(time.RFC3339))
	return nil
}

func runAuthShow(cmd *cobra.Command, _ []string) error {
	cred, err := credentialStore.Load(context.Background())
	if err != nil {
		if errors.Is(err, domain.ErrCredentialMissing) {
			cmd.Println("No credential stored. Run 'granola-sync auth set'.")
			return nil
		}
		return err
	}

	cmd.Printf("Client ID: %s\n", cred.ClientID)
	cmd.Printf("Refresh token: %s\n", maskToken(cred.RefreshToken))
	if cred.AccessToken == "" {
		cmd.Println("Access token: none cached")
	} else {
		cmd.Printf("Access token: %s (expires %s)\n",
			maskToken(cred.AccessToken), cred.TokenExpiry.Format(time.RFC3339))
	}
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readSecret() string {
	// Try to read without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
