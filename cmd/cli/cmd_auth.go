// File: cmd/cli/cmd_auth.go
package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	authEmail    string
	authPassword string
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, password, err := credentials(cmd)
		if err != nil {
			return err
		}
		api, err := newAPI()
		if err != nil {
			return err
		}
		identity, err := api.SignUp(cmd.Context(), email, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Account created for %s. Run `legacyvault signin` to continue.\n", identity.Email)
		return nil
	},
}

var signinCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in and store the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, password, err := credentials(cmd)
		if err != nil {
			return err
		}
		api, err := newAPI()
		if err != nil {
			return err
		}
		session, err := api.SignIn(cmd.Context(), email, password)
		if err != nil {
			return err
		}
		if err := sessionFile().Save(serverURL, session); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", session.Identity.Email)
		return nil
	},
}

var signoutCmd = &cobra.Command{
	Use:   "signout",
	Short: "End the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPI()
		if err != nil {
			return err
		}
		// The local session goes even if the server could not be told.
		remoteErr := api.SignOut(cmd.Context())
		if err := sessionFile().Clear(); err != nil {
			return err
		}
		if remoteErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: server sign-out failed: %s\n", describe(remoteErr))
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{signupCmd, signinCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "Account email")
		c.Flags().StringVar(&authPassword, "password", "", "Account password (read from stdin when omitted)")
	}
}

func credentials(cmd *cobra.Command) (string, string, error) {
	email := strings.TrimSpace(authEmail)
	password := authPassword
	reader := bufio.NewReader(cmd.InOrStdin())

	if email == "" {
		fmt.Fprint(cmd.ErrOrStderr(), "Email: ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", "", fmt.Errorf("read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}
	if password == "" {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if email == "" || password == "" {
		return "", "", fmt.Errorf("email and password are required")
	}
	return email, password, nil
}
