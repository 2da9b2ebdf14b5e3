// File: cmd/cli/cmd_profile.go
package main

import (
	"fmt"
	"strings"

	"legacyvault/internal/profile"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or rename your profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPI()
		if err != nil {
			return err
		}
		p, err := api.Profile(cmd.Context())
		if err != nil {
			return err
		}
		printProfile(cmd, p)
		return nil
	},
}

var profileRenameCmd = &cobra.Command{
	Use:   "rename <full name>",
	Short: "Change the name shown on your profile",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPI()
		if err != nil {
			return err
		}
		p, err := api.RenameProfile(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		printProfile(cmd, p)
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileShowCmd, profileRenameCmd)
}

func printProfile(cmd *cobra.Command, p *profile.ProfileResponse) {
	name := p.FullName
	if name == "" {
		name = "(not set)"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Name:    %s\nEmail:   %s\nProfile: %s\nSince:   %s\n",
		name, p.Email, p.ID, p.CreatedAt.Format("2006-01-02"))
}
