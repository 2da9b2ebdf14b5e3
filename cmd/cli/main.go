// File: cmd/cli/main.go

// Command legacyvault is the terminal client for the LegacyVault API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"legacyvault/internal/client"
	"legacyvault/internal/common"

	"github.com/spf13/cobra"
)

var (
	serverURL   string
	sessionPath string
	timeout     time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "legacyvault",
	Short: "Manage your digital legacy vault from the terminal",
	Long: `legacyvault talks to a LegacyVault server.

Sign in once; the session is kept in a yaml file and reused by every
other command until you sign out or it expires.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	defaultServer := os.Getenv("LEGACYVAULT_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer, "LegacyVault server URL")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", client.DefaultSessionPath(), "Session file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", client.DefaultTimeout, "Timeout for each API call")

	rootCmd.AddCommand(signupCmd, signinCmd, signoutCmd, dashboardCmd, assetsCmd, beneficiariesCmd, profileCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describe(err))
		os.Exit(1)
	}
}

func sessionFile() client.SessionFile {
	return client.SessionFile{Path: sessionPath}
}

// newAPI builds a client carrying the saved token, if any.
func newAPI() (*client.APIClient, error) {
	stored, err := sessionFile().Load()
	if err != nil {
		return nil, err
	}
	token := ""
	server := serverURL
	if stored != nil {
		token = stored.AccessToken
		if !rootCmd.PersistentFlags().Changed("server") && stored.Server != "" {
			server = stored.Server
		}
	}
	return client.NewAPIClient(server, token, timeout), nil
}

// activate opens a protected view and turns the non-data states into errors.
func activate(ctx context.Context, api *client.APIClient) (*client.View, client.Snapshot, error) {
	view := client.NewView(api, nil)
	snap := view.Activate(ctx)
	switch snap.State {
	case client.StateUnauthenticated:
		return nil, snap, errNotSignedIn
	case client.StateFetchError:
		return nil, snap, snap.Err
	}
	return view, snap, nil
}

var errNotSignedIn = errors.New("not signed in; run `legacyvault signin` first")

func describe(err error) string {
	if apiErr, ok := common.IsAPIError(err); ok {
		if errors.Is(err, common.ErrUnauthenticated) {
			return errNotSignedIn.Error()
		}
		if apiErr.Details != nil {
			return fmt.Sprintf("%s (%v)", apiErr.Message, apiErr.Details)
		}
		return apiErr.Message
	}
	return err.Error()
}
