package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/medseg/scanflow/internal/cli"
	"github.com/medseg/scanflow/internal/common"
	"github.com/medseg/scanflow/internal/store"
	"github.com/medseg/scanflow/internal/tui"
)

func annotateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "annotate [scan-id...]",
		Short: "Send scans to the annotation service for correction",
		Long: `Create an annotation task for each given scan. With no arguments an
interactive picker opens. The annotation service login is asked for
per invocation and never stored.`,
		RunE: runAnnotate,
	}
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, cleanup, err := initApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := selectScans(ctx, a, args); err != nil {
		return err
	}
	// Validate the selection before asking for a login so an abandoned
	// picker never reaches the credential prompt.
	if err := ensureSelection(a.coordinator.Selection()); err != nil {
		return err
	}

	creds, err := promptCredentials(ctx)
	if err != nil {
		return err
	}

	result, err := a.coordinator.DispatchToAnnotation(ctx, creds)
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created %d annotation task(s)", len(result.Tasks))))
	for _, task := range result.Tasks {
		fmt.Printf("  %-6d %-30s %s\n", task.TaskID, task.TaskName, cli.SubtleStyle.Render(task.URL))
	}
	return nil
}

// ensureSelection rejects an empty selection up front, before any
// prompt or network call.
func ensureSelection(selection *store.Selection) error {
	if selection.Count() == 0 {
		return common.NewValidationError(common.ErrEmptySelection)
	}
	return nil
}

// selectScans fills the coordinator's selection either from explicit
// ids or via the interactive picker.
func selectScans(ctx context.Context, a *app, ids []string) error {
	if err := a.coordinator.RefreshScans(ctx); err != nil {
		return err
	}

	if len(ids) == 0 {
		confirmed, err := tui.RunPicker(ctx, a.pipeline, a.coordinator.Scans(), a.coordinator.Selection())
		if err != nil {
			return err
		}
		if !confirmed {
			a.coordinator.Selection().Clear()
		}
		return nil
	}

	for _, id := range ids {
		if !a.coordinator.Scans().Has(id) {
			return fmt.Errorf("unknown scan %q; run scanflow scans to list them", id)
		}
		if !a.coordinator.Selection().IsSelected(id) {
			a.coordinator.Selection().Toggle(id)
		}
	}
	return nil
}
