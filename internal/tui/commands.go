package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/medseg/scanflow/internal/gallery"
	"github.com/medseg/scanflow/internal/service"
)

const loadTimeout = 30 * time.Second

// loadScans fetches the current scan list from the backend.
func loadScans(client service.PipelineClient) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		records, err := client.ListScans(ctx)
		return scansLoadedMsg{records: records, err: err}
	}
}

// openSession fetches the comparison slices for one scan and opens a
// review session on them.
func openSession(fetcher gallery.SliceFetcher, scanID, jobID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		session, err := gallery.Open(ctx, fetcher, scanID, jobID)
		return sessionOpenedMsg{session: session, err: err}
	}
}
