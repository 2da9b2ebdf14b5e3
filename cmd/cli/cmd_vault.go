// File: cmd/cli/cmd_vault.go
package main

import (
	"context"
	"fmt"
	"strings"

	"legacyvault/internal/asset"
	"legacyvault/internal/client"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the vault summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPI()
		if err != nil {
			return err
		}
		dash, err := api.Dashboard(cmd.Context())
		if err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), dash.Summary)
		fmt.Fprintln(cmd.OutOrStdout())
		printListing(cmd.OutOrStdout(), &dash.Listing)
		return nil
	},
}

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "List and add digital assets",
}

var assetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your assets and their beneficiaries",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPI()
		if err != nil {
			return err
		}
		_, snap, err := activate(cmd.Context(), api)
		if err != nil {
			return err
		}
		printListing(cmd.OutOrStdout(), snap.Listing)
		return nil
	},
}

var newAsset struct {
	name, username, password, notes string
	assetType, action, status       string
	beneficiaries                   []string
}

var assetsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an asset, optionally naming beneficiaries",
	Example: `  legacyvault assets add --name Gmail --type email --action transfer \
    --beneficiary sister@example.com:sister`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := asset.CreateAssetRequest{
			Name:          newAsset.name,
			Username:      newAsset.username,
			Password:      newAsset.password,
			Notes:         newAsset.notes,
			AssetType:     asset.AssetType(newAsset.assetType),
			Action:        asset.Action(newAsset.action),
			Status:        asset.Status(newAsset.status),
			Beneficiaries: parseBeneficiaries(newAsset.beneficiaries),
		}
		return submit(cmd, func(ctx context.Context, api *client.APIClient) error {
			_, err := api.CreateAsset(ctx, req)
			return err
		})
	},
}

var beneficiariesCmd = &cobra.Command{
	Use:   "beneficiaries",
	Short: "Manage who receives your assets",
}

var beneficiariesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List everyone named as a beneficiary",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPI()
		if err != nil {
			return err
		}
		entries, err := api.Directory(cmd.Context())
		if err != nil {
			return err
		}
		printDirectory(cmd.OutOrStdout(), entries)
		return nil
	},
}

var beneficiariesAddCmd = &cobra.Command{
	Use:   "add <asset-id> <email[:relationship]>...",
	Short: "Name beneficiaries for an asset",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		assetID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid asset id %q", args[0])
		}
		rows := parseBeneficiaries(args[1:])
		return submit(cmd, func(ctx context.Context, api *client.APIClient) error {
			res, err := api.AddBeneficiaries(ctx, assetID, rows)
			if err == nil && res.Listing == nil && res.RefetchError == nil {
				fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			}
			return err
		})
	},
}

var beneficiariesRemoveCmd = &cobra.Command{
	Use:   "remove <beneficiary-id>",
	Short: "Remove a beneficiary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid beneficiary id %q", args[0])
		}
		return submit(cmd, func(ctx context.Context, api *client.APIClient) error {
			_, err := api.RemoveBeneficiary(ctx, id)
			return err
		})
	},
}

func init() {
	f := assetsAddCmd.Flags()
	f.StringVar(&newAsset.name, "name", "", "Account name, e.g. Gmail")
	f.StringVar(&newAsset.username, "username", "", "Login name")
	f.StringVar(&newAsset.password, "password", "", "Password, sealed at rest")
	f.StringVar(&newAsset.notes, "notes", "", "Free-form notes")
	f.StringVar(&newAsset.assetType, "type", string(asset.TypeOther), "email|banking|social|cloud|crypto|subscription|other")
	f.StringVar(&newAsset.action, "action", string(asset.ActionTransfer), "transfer|delete|memorialize|notify")
	f.StringVar(&newAsset.status, "status", "", "safe|warning|locked (derived when empty)")
	f.StringArrayVar(&newAsset.beneficiaries, "beneficiary", nil, "email[:relationship], repeatable")
	_ = assetsAddCmd.MarkFlagRequired("name")

	assetsCmd.AddCommand(assetsListCmd, assetsAddCmd)
	beneficiariesCmd.AddCommand(beneficiariesListCmd, beneficiariesAddCmd, beneficiariesRemoveCmd)
}

// submit runs a write through the view so the printed listing is the one
// fetched after it.
func submit(cmd *cobra.Command, write func(ctx context.Context, api *client.APIClient) error) error {
	api, err := newAPI()
	if err != nil {
		return err
	}
	view, _, err := activate(cmd.Context(), api)
	if err != nil {
		return err
	}
	defer view.Close()

	snap, err := view.Submit(cmd.Context(), func(ctx context.Context) error { return write(ctx, api) })
	if err != nil {
		return err
	}
	switch snap.State {
	case client.StateSubmitError, client.StateFetchError:
		return snap.Err
	}
	printListing(cmd.OutOrStdout(), snap.Listing)
	return nil
}

// parseBeneficiaries reads "email[:relationship]" arguments. Blank emails are
// passed through; the server drops them.
func parseBeneficiaries(raw []string) []asset.BeneficiaryInput {
	rows := make([]asset.BeneficiaryInput, 0, len(raw))
	for _, r := range raw {
		email, relationship, _ := strings.Cut(r, ":")
		rows = append(rows, asset.BeneficiaryInput{
			Email:        strings.TrimSpace(email),
			Relationship: strings.TrimSpace(relationship),
		})
	}
	return rows
}
