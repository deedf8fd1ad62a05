package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/medseg/scanflow/internal/cli"
	"github.com/medseg/scanflow/internal/gallery"
)

var (
	sliceBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cli.SubtleColor).
			Padding(0, 1)
	layerLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(cli.InfoColor)
)

// ViewerModel is the slice-by-slice comparison viewer for one scan.
// It wraps a gallery session; all navigation and overlay rules live
// there, the model only translates keys and renders.
type ViewerModel struct {
	fetcher gallery.SliceFetcher
	session *gallery.Session
	keymap  KeyMap
	err     error
	scanID  string
	jobID   string
	width   int
	height  int
	loading bool
}

// NewViewer creates a viewer that opens a session for the given scan.
func NewViewer(fetcher gallery.SliceFetcher, scanID, jobID string) ViewerModel {
	return ViewerModel{
		fetcher: fetcher,
		keymap:  DefaultKeyMap(),
		scanID:  scanID,
		jobID:   jobID,
		loading: true,
	}
}

// Init starts the slice fetch.
func (m ViewerModel) Init() tea.Cmd {
	return openSession(m.fetcher, m.scanID, m.jobID)
}

// Update handles key presses and the session-open result.
func (m ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case sessionOpenedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.session = msg.session
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m ViewerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.Quit) {
		return m, tea.Quit
	}
	if m.session == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Left):
		m.session.Navigate(gallery.Prev)
	case key.Matches(msg, m.keymap.Right):
		m.session.Navigate(gallery.Next)
	case key.Matches(msg, m.keymap.Home):
		m.session.QuickJump(0)
	case key.Matches(msg, m.keymap.End):
		m.session.QuickJump(1)
	case key.Matches(msg, m.keymap.OpacityUp):
		m.session.SetOverlayOpacity(m.session.OverlayOpacity() + 0.1)
	case key.Matches(msg, m.keymap.OpacityDown):
		m.session.SetOverlayOpacity(m.session.OverlayOpacity() - 0.1)
	case key.Matches(msg, m.keymap.ToggleBlend):
		if m.session.CurrentBlendMode() == gallery.BlendNormal {
			m.session.SetBlendMode(gallery.BlendScreen)
		} else {
			m.session.SetBlendMode(gallery.BlendNormal)
		}
	default:
		// Digits 1-9 jump to that tenth of the sequence.
		if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			m.session.QuickJump(float64(s[0]-'0') / 10)
		}
	}
	return m, nil
}

// View renders the current frame's two layers side by side with the
// overlay settings in the footer.
func (m ViewerModel) View() string {
	if m.loading {
		return cli.SubtleStyle.Render("Loading comparison slices...")
	}
	if m.err != nil {
		return errStyle.Render(fmt.Sprintf("Failed to open review session: %v", m.err))
	}

	frame := m.session.Current()

	var b strings.Builder
	b.WriteString(cli.FormatTitle(fmt.Sprintf("Reviewing %s", m.scanID)))
	b.WriteString("\n")
	b.WriteString(renderLayers(frame))
	b.WriteString("\n")
	b.WriteString(cli.SubtleStyle.Render(fmt.Sprintf(
		"slice %d/%d • overlay %.0f%% (%s) • ←/→ navigate • 1-9 jump • +/- opacity • b blend • q quit",
		frame.Index+1, frame.Total, frame.Opacity*100, frame.BlendMode)))
	return b.String()
}

func renderLayers(frame gallery.Frame) string {
	boxes := make([]string, 0, 2)
	if frame.OriginalRef != "" {
		boxes = append(boxes, sliceBoxStyle.Render(
			layerLabelStyle.Render("original")+"\n"+frame.OriginalRef))
	}
	if frame.ResultRef != "" {
		boxes = append(boxes, sliceBoxStyle.Render(
			layerLabelStyle.Render("segmentation")+"\n"+frame.ResultRef))
	}
	if len(boxes) == 0 {
		return cli.SubtleStyle.Render("No slices available for this scan.")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}
