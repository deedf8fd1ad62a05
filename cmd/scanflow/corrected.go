package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/medseg/scanflow/internal/cli"
)

func correctedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "corrected",
		Short: "List tasks with completed expert corrections",
		Long: `List the annotation tasks whose corrections have been completed and
are ready to be submitted into a training dataset.`,
		RunE: runCorrected,
	}
}

func runCorrected(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, cleanup, err := initApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	tasks, err := a.annotation.ListCorrectedTasks(ctx)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Println(cli.FormatInfo("No corrected tasks yet."))
		return nil
	}

	fmt.Println(cli.FormatTitle("Corrected Tasks"))
	for _, task := range tasks {
		fmt.Printf("  %-6d %-24s %-10s %s\n",
			task.TaskID,
			task.DisplayName,
			cli.SubtleStyle.Render(string(task.DatasetType)),
			cli.SubtleStyle.Render(task.ScanID))
	}
	fmt.Println()
	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("%d task(s) • submit with: scanflow submit <task-id>...", len(tasks))))
	return nil
}
