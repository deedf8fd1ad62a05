package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/medseg/scanflow/internal/cli"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent pipeline actions from this machine",
		Long: `Show the local audit trail of uploads, dispatches, discards,
submissions and training runs. The journal is informational only; the
backend remains the source of truth for scan state.`,
		RunE: runHistory,
	}

	cmd.Flags().Int("limit", 20, "maximum entries to show (0 for all)")

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, cleanup, err := initApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if a.journal == nil {
		return fmt.Errorf("action journal is unavailable")
	}

	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := a.journal.ListActions(ctx, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println(cli.FormatInfo("No recorded actions yet."))
		return nil
	}

	fmt.Println(cli.FormatTitle("Action History"))
	for _, entry := range entries {
		detail := entry.Detail
		if len(entry.IDs) > 0 {
			if detail != "" {
				detail += " • "
			}
			detail += strings.Join(entry.IDs, ", ")
		}
		fmt.Printf("  %s %-10s %s\n",
			cli.SubtleStyle.Render(entry.RecordedAt.Local().Format("2006-01-02 15:04")),
			entry.Action,
			detail)
	}
	return nil
}
