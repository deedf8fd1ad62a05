// Package tui implements the interactive scan picker and the
// slice-comparison review viewer on bubbletea.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/medseg/scanflow/internal/gallery"
	"github.com/medseg/scanflow/internal/service"
	"github.com/medseg/scanflow/internal/store"
)

// RunPicker runs the interactive picker and reports whether the user
// confirmed. The selection set is shared state; the caller reads the
// chosen ids from it afterwards.
func RunPicker(ctx context.Context, client service.PipelineClient, scans *store.Store, selection *store.Selection) (bool, error) {
	program := tea.NewProgram(NewPicker(client, scans, selection), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return false, fmt.Errorf("scan picker failed: %w", err)
	}

	picker, ok := final.(PickerModel)
	if !ok {
		return false, fmt.Errorf("unexpected final model type %T", final)
	}
	return picker.Confirmed(), nil
}

// RunViewer opens the review viewer for one scan and blocks until the
// user closes it.
func RunViewer(ctx context.Context, fetcher gallery.SliceFetcher, scanID, jobID string) error {
	program := tea.NewProgram(NewViewer(fetcher, scanID, jobID), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("review viewer failed: %w", err)
	}
	return nil
}
