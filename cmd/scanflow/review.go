package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/medseg/scanflow/internal/tui"
)

func reviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review <scan-id>",
		Short: "Review the segmentation for one scan slice by slice",
		Long: `Open the comparison viewer for a scan: the original slices and the
predicted segmentation side by side, with an adjustable overlay.
Navigation never leaves the valid slice range and nothing here
modifies the scan.`,
		Args: cobra.ExactArgs(1),
		RunE: runReview,
	}
}

func runReview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, cleanup, err := initApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := a.coordinator.RefreshScans(ctx); err != nil {
		return err
	}

	record, ok := a.coordinator.Scans().Get(args[0])
	if !ok {
		return fmt.Errorf("unknown scan %q; run scanflow scans to list them", args[0])
	}

	return tui.RunViewer(ctx, a.pipeline, record.ID, record.JobID)
}
