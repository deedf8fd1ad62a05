package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/medseg/scanflow/internal/cli"
)

func discardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discard [scan-id...]",
		Short: "Permanently delete scans and their slices",
		Long: `Delete the given scans from the backend, including their extracted
slices. This cannot be undone, so a confirmation is required unless
--yes is passed. With no arguments an interactive picker opens.`,
		RunE: runDiscard,
	}

	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func runDiscard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, cleanup, err := initApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := selectScans(ctx, a, args); err != nil {
		return err
	}

	count := a.coordinator.Selection().Count()
	skipConfirm, _ := cmd.Flags().GetBool("yes")
	if count > 0 && !skipConfirm {
		ok, err := confirm(fmt.Sprintf("Permanently delete %d scan(s)?", count))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println(cli.FormatInfo("Discard canceled; nothing deleted."))
			return nil
		}
	}

	ids, err := a.coordinator.Discard(ctx)
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted %d scan(s)", len(ids))))
	return nil
}
