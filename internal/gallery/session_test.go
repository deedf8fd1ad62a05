package gallery

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	original []string
	result   []string
	err      error
	calls    int
}

func (f *fakeFetcher) FetchComparisonSlices(_ context.Context, _, _ string) ([]string, []string, error) {
	f.calls++
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.original, f.result, nil
}

func slices(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s/slice_%03d.png", prefix, i)
	}
	return out
}

func newTestSession(t *testing.T, n int) *Session {
	t.Helper()
	s, err := Open(context.Background(), &fakeFetcher{
		original: slices("orig", n),
		result:   slices("res", n),
	}, "scan-1", "job-1")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return s
}

func TestOpenStartsAtFirstSlice(t *testing.T) {
	s := newTestSession(t, 5)
	if s.CurrentIndex() != 0 {
		t.Errorf("index = %d, want 0", s.CurrentIndex())
	}
	if s.TotalSlices() != 5 {
		t.Errorf("total = %d, want 5", s.TotalSlices())
	}
	if s.OverlayOpacity() != DefaultOpacity {
		t.Errorf("opacity = %v, want %v", s.OverlayOpacity(), DefaultOpacity)
	}
	if s.CurrentBlendMode() != BlendNormal {
		t.Errorf("blend = %v, want normal", s.CurrentBlendMode())
	}
}

func TestOpenEmptySequences(t *testing.T) {
	s, err := Open(context.Background(), &fakeFetcher{}, "scan-1", "job-1")
	require.NoError(t, err)

	// No slices is a degraded session, not a failure; both layers of
	// the current frame come back empty.
	assert.Equal(t, 0, s.TotalSlices())
	frame := s.Current()
	assert.Empty(t, frame.OriginalRef)
	assert.Empty(t, frame.ResultRef)
	assert.Equal(t, 0, frame.Total)
}

func TestOpenSurfacesFetchError(t *testing.T) {
	_, err := Open(context.Background(), &fakeFetcher{err: errors.New("boom")}, "scan-1", "job-1")
	if err == nil {
		t.Fatal("expected fetch error to surface")
	}
}

func TestNavigateBoundaries(t *testing.T) {
	s := newTestSession(t, 3)

	s.Navigate(Prev)
	if s.CurrentIndex() != 0 {
		t.Errorf("Prev at index 0 moved to %d, want no-op", s.CurrentIndex())
	}

	s.Navigate(Next)
	s.Navigate(Next)
	if s.CurrentIndex() != 2 {
		t.Fatalf("index = %d, want 2", s.CurrentIndex())
	}
	s.Navigate(Next)
	if s.CurrentIndex() != 2 {
		t.Errorf("Next at last index moved to %d, want no-op", s.CurrentIndex())
	}
}

func TestSeekClamps(t *testing.T) {
	s := newTestSession(t, 4)

	s.Seek(99)
	if s.CurrentIndex() != 3 {
		t.Errorf("Seek(99) index = %d, want 3", s.CurrentIndex())
	}
	s.Seek(-5)
	if s.CurrentIndex() != 0 {
		t.Errorf("Seek(-5) index = %d, want 0", s.CurrentIndex())
	}
}

func TestQuickJump(t *testing.T) {
	tests := []struct {
		fraction float64
		total    int
		want     int
	}{
		{fraction: 0, total: 9, want: 0},
		{fraction: 0.25, total: 9, want: 2},
		{fraction: 0.5, total: 9, want: 4},
		{fraction: 0.75, total: 9, want: 6},
		{fraction: 1, total: 9, want: 8},
		{fraction: 0.5, total: 1, want: 0},
		{fraction: -1, total: 9, want: 0},
		{fraction: 2, total: 9, want: 8},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v_of_%d", tt.fraction, tt.total), func(t *testing.T) {
			s := newTestSession(t, tt.total)
			s.QuickJump(tt.fraction)
			if s.CurrentIndex() != tt.want {
				t.Errorf("QuickJump(%v) index = %d, want %d", tt.fraction, s.CurrentIndex(), tt.want)
			}
		})
	}
}

func TestReloadClampsShrunkIndex(t *testing.T) {
	f := &fakeFetcher{original: slices("orig", 10), result: slices("res", 10)}
	s, err := Open(context.Background(), f, "scan-1", "job-1")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	s.Seek(9)
	f.original = slices("orig", 4)
	f.result = slices("res", 4)
	if err := s.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if s.CurrentIndex() != 3 {
		t.Errorf("index after shrink = %d, want 3", s.CurrentIndex())
	}
}

func TestOpacityClamped(t *testing.T) {
	s := newTestSession(t, 2)

	s.SetOverlayOpacity(1.7)
	if s.OverlayOpacity() != 1 {
		t.Errorf("opacity = %v, want 1", s.OverlayOpacity())
	}
	s.SetOverlayOpacity(-0.3)
	if s.OverlayOpacity() != 0 {
		t.Errorf("opacity = %v, want 0", s.OverlayOpacity())
	}
}

func TestCurrentOmitsMissingLayer(t *testing.T) {
	// Result sequence is shorter than the original; past its end the
	// result layer is simply absent.
	f := &fakeFetcher{original: slices("orig", 5), result: slices("res", 3)}
	s, err := Open(context.Background(), f, "scan-1", "job-1")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if s.TotalSlices() != 5 {
		t.Fatalf("total = %d, want 5", s.TotalSlices())
	}

	s.Seek(4)
	frame := s.Current()
	if frame.OriginalRef == "" {
		t.Error("original layer should be present at index 4")
	}
	if frame.ResultRef != "" {
		t.Error("result layer should be omitted at index 4")
	}
}

func TestBlendModeSelection(t *testing.T) {
	s := newTestSession(t, 2)
	s.SetBlendMode(BlendScreen)
	if s.Current().BlendMode != BlendScreen {
		t.Errorf("blend = %v, want screen", s.Current().BlendMode)
	}
}
