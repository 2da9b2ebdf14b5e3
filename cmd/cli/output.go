// File: cmd/cli/output.go
package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"legacyvault/internal/asset"
)

func printListing(w io.Writer, listing *asset.Listing) {
	if listing == nil || listing.State == asset.ListingEmpty {
		fmt.Fprintln(w, "Your vault is empty. Add an asset with `legacyvault assets add`.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tACTION\tSTATUS\tBENEFICIARIES")
	for _, a := range listing.Assets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.Name, a.AssetType, a.Action, a.EffectiveStatus, beneficiaryList(a.Beneficiaries))
	}
	_ = tw.Flush()
}

func beneficiaryList(bs []asset.Beneficiary) string {
	if len(bs) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(bs))
	for _, b := range bs {
		if b.Relationship != "" {
			parts = append(parts, fmt.Sprintf("%s (%s) [%s]", b.Email, b.Relationship, b.ID))
		} else {
			parts = append(parts, fmt.Sprintf("%s [%s]", b.Email, b.ID))
		}
	}
	return strings.Join(parts, ", ")
}

func printSummary(w io.Writer, s asset.Summary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total assets\t%d\n", s.TotalAssets)
	fmt.Fprintf(tw, "Beneficiaries\t%d\n", s.Beneficiaries)
	fmt.Fprintf(tw, "Protected\t%d\n", s.Protected)
	fmt.Fprintf(tw, "Needs attention\t%d\n", s.NeedsAttention)
	fmt.Fprintf(tw, "Locked\t%d\n", s.Locked)
	fmt.Fprintf(tw, "Release trigger\t%d days of inactivity\n", s.ReleaseTriggerDays)
	_ = tw.Flush()
}

func printDirectory(w io.Writer, entries []asset.DirectoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No beneficiaries yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "EMAIL\tRELATIONSHIP\tASSETS")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Email, e.Relationship, strings.Join(e.AssetNames, ", "))
	}
	_ = tw.Flush()
}
