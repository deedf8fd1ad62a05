package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/medseg/scanflow/internal/classify"
	"github.com/medseg/scanflow/internal/cli"
	"github.com/medseg/scanflow/internal/model"
	"github.com/medseg/scanflow/internal/store"
	"github.com/medseg/scanflow/internal/tui"
)

func scansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scans",
		Short: "List scans awaiting review",
		Long: `List every scan the backend knows about, grouped by dataset type.
With --interactive an inline picker opens where scans can be selected
for a following annotate or discard.`,
		RunE: runScans,
	}

	cmd.Flags().String("filter", "all", "dataset filter (all, brain, heart, unknown)")
	cmd.Flags().Bool("interactive", false, "open the interactive picker")

	return cmd
}

func runScans(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, cleanup, err := initApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	filterFlag, _ := cmd.Flags().GetString("filter")
	filter, err := store.ParseFilter(filterFlag)
	if err != nil {
		return err
	}

	interactive, _ := cmd.Flags().GetBool("interactive")
	if interactive {
		confirmed, err := tui.RunPicker(ctx, a.pipeline, a.coordinator.Scans(), a.coordinator.Selection())
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println(cli.FormatInfo("Selection abandoned."))
			return nil
		}
		for _, id := range a.coordinator.Selection().IDs() {
			fmt.Println(id)
		}
		return nil
	}

	if err := a.coordinator.RefreshScans(ctx); err != nil {
		return err
	}

	records := a.coordinator.Scans().Filtered(filter)
	if len(records) == 0 {
		fmt.Println(cli.FormatInfo("No scans match this filter."))
		return nil
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Scans (%s)", filter)))
	for _, r := range records {
		name := classify.DisplayName(r.Filename, classify.ViewPredictions)
		fmt.Printf("  %-14s %-24s %s\n",
			cli.SubtleStyle.Render(string(r.DatasetType)),
			name,
			cli.SubtleStyle.Render(r.ID))
	}

	counts := a.coordinator.Scans().Counts()
	fmt.Println()
	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("%d total • %d brain • %d heart • %d unknown",
		a.coordinator.Scans().Len(),
		counts[model.DatasetBrain],
		counts[model.DatasetHeart],
		counts[model.DatasetUnknown])))
	return nil
}
