// Package progress renders a simulated progress bar for backend
// operations that report no intermediate progress. The bar ticks
// toward 99% on a timer and snaps to 100% when the operation
// completes; it is cosmetic and never gates workflow state.
package progress

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

const (
	// simulatedCeiling is where the bar parks until Finish.
	simulatedCeiling = 99
	defaultInterval  = 150 * time.Millisecond
)

// Simulator drives a progress bar without real progress signals.
type Simulator struct {
	bar      *progressbar.ProgressBar
	done     chan struct{}
	interval time.Duration
	once     sync.Once
	wg       sync.WaitGroup
}

// NewSimulator creates a simulator rendering to w with the given
// description. Pass io.Discard to silence it.
func NewSimulator(w io.Writer, description string) *Simulator {
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan][bold]%s[reset]", description)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)

	return &Simulator{
		bar:      bar,
		done:     make(chan struct{}),
		interval: defaultInterval,
	}
}

// Start begins ticking the bar toward the ceiling. Safe to call once.
func (s *Simulator) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		current := 0
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				if current >= simulatedCeiling {
					continue
				}
				current++
				if err := s.bar.Set(current); err != nil {
					slog.Warn("Failed to update progress bar", "error", err)
				}
			}
		}
	}()
}

// Finish stops the ticker and snaps the bar to 100%. Idempotent.
func (s *Simulator) Finish() {
	s.once.Do(func() {
		close(s.done)
		s.wg.Wait()
		if err := s.bar.Set(100); err != nil {
			slog.Warn("Failed to complete progress bar", "error", err)
		}
	})
}

// Abort stops the ticker without completing the bar, for the failure
// path. Idempotent with Finish; whichever runs first wins.
func (s *Simulator) Abort() {
	s.once.Do(func() {
		close(s.done)
		s.wg.Wait()
		if err := s.bar.Exit(); err != nil {
			slog.Warn("Failed to clear progress bar", "error", err)
		}
	})
}
