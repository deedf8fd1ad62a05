// Package gallery manages the slice-comparison session used when
// reviewing an inference result against its original scan.
package gallery

import (
	"context"
	"fmt"
	"math"
)

// Direction moves the current slice index by one.
type Direction int

const (
	// Next advances to the following slice.
	Next Direction = iota
	// Prev steps back to the previous slice.
	Prev
)

// BlendMode is the pixel-combination rule the viewer applies when
// drawing the result layer above the original.
type BlendMode string

const (
	// BlendNormal draws the result layer as a plain alpha composite.
	BlendNormal BlendMode = "normal"
	// BlendScreen uses a lightening composite.
	BlendScreen BlendMode = "screen"
)

// DefaultOpacity is the overlay opacity a fresh session starts with.
const DefaultOpacity = 0.5

// SliceFetcher retrieves the paired slice sequences for one scan.
type SliceFetcher interface {
	FetchComparisonSlices(ctx context.Context, scanID, jobID string) (original, result []string, err error)
}

// Frame is what the viewer composites for the current index. A missing
// layer is an empty reference, not an error; the view degrades to the
// layer that exists.
type Frame struct {
	OriginalRef string
	ResultRef   string
	BlendMode   BlendMode
	Opacity     float64
	Index       int
	Total       int
}

// Session is the review state for exactly one scan. It lives only as
// long as the viewer is open and is never persisted.
type Session struct {
	fetcher  SliceFetcher
	scanID   string
	jobID    string
	original []string
	result   []string
	index    int
	opacity  float64
	blend    BlendMode
}

// Open fetches the paired slice sequences for a scan and returns a
// session positioned at the first slice. A failed fetch is a
// reportable error; an empty fetch opens a zero-slice session and the
// viewer degrades to an empty frame.
func Open(ctx context.Context, fetcher SliceFetcher, scanID, jobID string) (*Session, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("slice fetcher is required")
	}
	s := &Session{
		fetcher: fetcher,
		scanID:  scanID,
		jobID:   jobID,
		opacity: DefaultOpacity,
		blend:   BlendNormal,
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload refetches both sequences. The current index is clamped into
// the new valid range so it can never dangle after a shrink.
func (s *Session) Reload(ctx context.Context) error {
	original, result, err := s.fetcher.FetchComparisonSlices(ctx, s.scanID, s.jobID)
	if err != nil {
		return fmt.Errorf("fetching comparison slices for %s: %w", s.scanID, err)
	}
	s.original = original
	s.result = result
	s.index = clamp(s.index, 0, s.TotalSlices()-1)
	return nil
}

// ScanID returns the scan this session reviews.
func (s *Session) ScanID() string { return s.scanID }

// TotalSlices is the logical length of the paired sequences. When the
// two sequences disagree the longer one wins; the shorter layer is
// simply absent past its end.
func (s *Session) TotalSlices() int {
	if len(s.original) > len(s.result) {
		return len(s.original)
	}
	return len(s.result)
}

// CurrentIndex returns the slice the viewer is on.
func (s *Session) CurrentIndex() int { return s.index }

// Navigate moves by one slice. At either boundary it is a no-op, not a
// wraparound.
func (s *Session) Navigate(d Direction) {
	switch d {
	case Next:
		if s.index < s.TotalSlices()-1 {
			s.index++
		}
	case Prev:
		if s.index > 0 {
			s.index--
		}
	}
}

// Seek jumps to an absolute index, silently clamping out-of-range
// values into [0, TotalSlices-1].
func (s *Session) Seek(index int) {
	s.index = clamp(index, 0, s.TotalSlices()-1)
}

// QuickJump maps a fraction of the full range to an absolute index,
// floor-rounded. Used by the 0/25/50/75/100% shortcuts.
func (s *Session) QuickJump(fraction float64) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	total := s.TotalSlices()
	if total == 0 {
		s.index = 0
		return
	}
	s.index = int(math.Floor(fraction * float64(total-1)))
}

// SetOverlayOpacity sets the result-layer opacity, clamped to [0,1].
// Pure state mutation; no network.
func (s *Session) SetOverlayOpacity(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	s.opacity = v
}

// OverlayOpacity returns the current overlay opacity.
func (s *Session) OverlayOpacity() float64 { return s.opacity }

// SetBlendMode selects the composition rule.
func (s *Session) SetBlendMode(m BlendMode) { s.blend = m }

// CurrentBlendMode returns the active composition rule.
func (s *Session) CurrentBlendMode() BlendMode { return s.blend }

// Current returns the frame to composite at the current index. Layers
// without an entry at this index come back as empty references.
func (s *Session) Current() Frame {
	f := Frame{
		BlendMode: s.blend,
		Opacity:   s.opacity,
		Index:     s.index,
		Total:     s.TotalSlices(),
	}
	if s.index < len(s.original) {
		f.OriginalRef = s.original[s.index]
	}
	if s.index < len(s.result) {
		f.ResultRef = s.result[s.index]
	}
	return f
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
