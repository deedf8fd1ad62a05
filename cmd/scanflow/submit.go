package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/medseg/scanflow/internal/cli"
	"github.com/medseg/scanflow/internal/model"
)

func submitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit <task-id>...",
		Short: "Submit corrected tasks into their training dataset",
		Long: `Promote corrected annotation tasks into the training dataset. The
display name shown at submission time is what the backend records as
the case name. Results are reported per task; a partial failure does
not roll back the tasks that succeeded.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSubmit,
	}
}

func runSubmit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, cleanup, err := initApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	wanted := make(map[int]bool, len(args))
	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid task id %q", arg)
		}
		wanted[id] = true
	}

	// Snapshot display names from the current corrected list so a
	// later rename cannot change what this submission records.
	tasks, err := a.annotation.ListCorrectedTasks(ctx)
	if err != nil {
		return err
	}
	submissions := make([]model.TaskSubmission, 0, len(wanted))
	for _, task := range tasks {
		if wanted[task.TaskID] {
			submissions = append(submissions, model.TaskSubmission{
				TaskID:      task.TaskID,
				DisplayName: task.DisplayName,
			})
			delete(wanted, task.TaskID)
		}
	}
	for id := range wanted {
		return fmt.Errorf("task %d is not in the corrected list; run scanflow corrected", id)
	}

	creds, err := promptCredentials(ctx)
	if err != nil {
		return err
	}

	results, err := a.coordinator.SubmitToDataset(ctx, submissions, creds)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Succeeded() {
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Task %d accepted as case %s", r.TaskID, r.NewCaseID)))
		} else {
			failed++
			fmt.Println(cli.FormatError(fmt.Sprintf("Task %d failed: %s", r.TaskID, r.Detail)))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d submission(s) failed", failed, len(results))
	}
	return nil
}
