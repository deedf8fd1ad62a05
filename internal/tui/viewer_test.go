package tui

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medseg/scanflow/internal/gallery"
)

type fakeFetcher struct {
	original []string
	result   []string
	err      error
}

func (f *fakeFetcher) FetchComparisonSlices(_ context.Context, _, _ string) ([]string, []string, error) {
	return f.original, f.result, f.err
}

func slices(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s_%03d.png", prefix, i)
	}
	return out
}

func viewerFixture(t *testing.T, total int) ViewerModel {
	t.Helper()

	fetcher := &fakeFetcher{original: slices("orig", total), result: slices("seg", total)}
	session, err := gallery.Open(context.Background(), fetcher, "j1_BRATS_006.nii.gz", "j1")
	require.NoError(t, err)

	m := NewViewer(fetcher, "j1_BRATS_006.nii.gz", "j1")
	m.loading = false
	m.session = session
	return m
}

func viewerUpdate(t *testing.T, m tea.Model, msgs ...tea.Msg) ViewerModel {
	t.Helper()

	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	viewer, ok := m.(ViewerModel)
	require.True(t, ok)
	return viewer
}

func TestViewerNavigation(t *testing.T) {
	m := viewerFixture(t, 5)

	m = viewerUpdate(t, m, keyPress("l"), keyPress("l"))
	assert.Equal(t, 2, m.session.CurrentIndex())

	m = viewerUpdate(t, m, keyPress("h"), keyPress("h"), keyPress("h"))
	assert.Equal(t, 0, m.session.CurrentIndex(), "navigating past the first slice is a no-op")
}

func TestViewerQuickJumpDigits(t *testing.T) {
	m := viewerFixture(t, 11)

	m = viewerUpdate(t, m, keyPress("5"))
	assert.Equal(t, 5, m.session.CurrentIndex())

	m = viewerUpdate(t, m, keyPress("G"))
	assert.Equal(t, 10, m.session.CurrentIndex())

	m = viewerUpdate(t, m, keyPress("g"))
	assert.Equal(t, 0, m.session.CurrentIndex())
}

func TestViewerOpacityAndBlend(t *testing.T) {
	m := viewerFixture(t, 3)

	m = viewerUpdate(t, m, keyPress("+"))
	assert.InDelta(t, 0.6, m.session.OverlayOpacity(), 1e-9)

	m = viewerUpdate(t, m, keyPress("b"))
	assert.Equal(t, gallery.BlendScreen, m.session.CurrentBlendMode())
	m = viewerUpdate(t, m, keyPress("b"))
	assert.Equal(t, gallery.BlendNormal, m.session.CurrentBlendMode())
}

func TestViewerViewShowsSliceCounter(t *testing.T) {
	m := viewerFixture(t, 5)
	assert.Contains(t, m.View(), "slice 1/5")
	assert.Contains(t, m.View(), "original")
	assert.Contains(t, m.View(), "segmentation")
}

func TestViewerOpenError(t *testing.T) {
	m := NewViewer(&fakeFetcher{err: assert.AnError}, "j1_x", "j1")

	updated, _ := m.Update(sessionOpenedMsg{err: assert.AnError})
	viewer, ok := updated.(ViewerModel)
	require.True(t, ok)
	assert.Contains(t, viewer.View(), "Failed to open review session")
}
