package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/medseg/scanflow/internal/classify"
	"github.com/medseg/scanflow/internal/cli"
	"github.com/medseg/scanflow/internal/model"
	"github.com/medseg/scanflow/internal/service"
	"github.com/medseg/scanflow/internal/store"
)

// filterOrder is the tab cycle for the picker.
var filterOrder = []store.Filter{
	store.FilterAll,
	store.FilterBrain,
	store.FilterHeart,
	store.FilterUnknown,
}

var (
	tabStyle = lipgloss.NewStyle().
			Foreground(cli.SubtleColor).
			Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(cli.PrimaryColor).
			Padding(0, 1).
			Underline(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(cli.PrimaryColor).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(cli.SuccessColor)
	errStyle      = lipgloss.NewStyle().Foreground(cli.ErrorColor)
	brainStyle    = lipgloss.NewStyle().Foreground(cli.BrainColor)
	heartStyle    = lipgloss.NewStyle().Foreground(cli.HeartColor)
)

// PickerModel is the interactive scan picker: filter tabs across the
// top, one scan per row, space to toggle selection. Selection
// membership belongs to the shared Selection set and deliberately
// survives filter switches.
type PickerModel struct {
	client    service.PipelineClient
	scans     *store.Store
	selection *store.Selection
	keymap    KeyMap
	err       error
	filterIdx int
	cursor    int
	width     int
	height    int
	loading   bool
	confirmed bool
	quitting  bool
}

// NewPicker creates a picker over the given store and selection.
func NewPicker(client service.PipelineClient, scans *store.Store, selection *store.Selection) PickerModel {
	return PickerModel{
		client:    client,
		scans:     scans,
		selection: selection,
		keymap:    DefaultKeyMap(),
		loading:   true,
	}
}

// Confirmed reports whether the user accepted the selection rather
// than quitting out.
func (m PickerModel) Confirmed() bool { return m.confirmed }

func (m PickerModel) filter() store.Filter {
	return filterOrder[m.filterIdx]
}

func (m PickerModel) visible() []model.ScanRecord {
	return m.scans.Filtered(m.filter())
}

// Init starts the initial scan load.
func (m PickerModel) Init() tea.Cmd {
	return loadScans(m.client)
}

// Update handles key presses and load results.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case scansLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if err := m.scans.Replace(msg.records); err != nil {
			m.err = err
			return m, nil
		}
		m.selection.Prune(m.scans.Has)
		m.cursor = clampCursor(m.cursor, len(m.visible()))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m PickerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Confirm):
		m.confirmed = true
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keymap.Down):
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keymap.NextFilter):
		m.filterIdx = (m.filterIdx + 1) % len(filterOrder)
		m.cursor = clampCursor(m.cursor, len(m.visible()))

	case key.Matches(msg, m.keymap.PrevFilter):
		m.filterIdx = (m.filterIdx + len(filterOrder) - 1) % len(filterOrder)
		m.cursor = clampCursor(m.cursor, len(m.visible()))

	case key.Matches(msg, m.keymap.ToggleSelect):
		if records := m.visible(); m.cursor < len(records) {
			m.selection.Toggle(records[m.cursor].ID)
		}

	case key.Matches(msg, m.keymap.SelectAll):
		for _, r := range m.visible() {
			if !m.selection.IsSelected(r.ID) {
				m.selection.Toggle(r.ID)
			}
		}

	case key.Matches(msg, m.keymap.DeselectAll):
		m.selection.Clear()
	}
	return m, nil
}

// View renders the tabs, the filtered scan rows, and a status line.
func (m PickerModel) View() string {
	if m.quitting {
		return ""
	}
	if m.loading {
		return cli.SubtleStyle.Render("Loading scans...")
	}
	if m.err != nil {
		return errStyle.Render(fmt.Sprintf("Failed to load scans: %v", m.err))
	}

	var b strings.Builder
	b.WriteString(cli.FormatTitle("Scan Review Queue"))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	records := m.visible()
	if len(records) == 0 {
		b.WriteString(cli.SubtleStyle.Render("No scans match this filter."))
		b.WriteString("\n")
	}
	for i, r := range records {
		b.WriteString(m.renderRow(i, r))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(cli.SubtleStyle.Render(fmt.Sprintf(
		"%d selected • space toggle • tab filter • enter confirm • q quit",
		m.selection.Count())))
	return b.String()
}

func (m PickerModel) renderTabs() string {
	counts := m.scans.Counts()
	tabs := make([]string, 0, len(filterOrder))
	for i, f := range filterOrder {
		label := fmt.Sprintf("%s (%d)", f, filterCount(f, counts, m.scans.Len()))
		if i == m.filterIdx {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m PickerModel) renderRow(i int, r model.ScanRecord) string {
	cursor := "  "
	if i == m.cursor {
		cursor = cursorStyle.Render("> ")
	}

	check := "[ ]"
	if m.selection.IsSelected(r.ID) {
		check = selectedStyle.Render("[x]")
	}

	name := classify.DisplayName(r.Filename, classify.ViewPredictions)
	return fmt.Sprintf("%s%s %s %s %s",
		cursor, check, datasetIcon(r.DatasetType),
		datasetStyle(r.DatasetType).Render(name),
		cli.SubtleStyle.Render(r.Filename))
}

func datasetIcon(t model.DatasetType) string {
	switch t {
	case model.DatasetBrain:
		return cli.ScanIcon
	case model.DatasetHeart:
		return cli.HeartIcon
	default:
		return "•"
	}
}

func datasetStyle(t model.DatasetType) lipgloss.Style {
	switch t {
	case model.DatasetBrain:
		return brainStyle
	case model.DatasetHeart:
		return heartStyle
	default:
		return cli.SubtleStyle
	}
}

func filterCount(f store.Filter, counts map[model.DatasetType]int, total int) int {
	switch f {
	case store.FilterAll:
		return total
	case store.FilterBrain:
		return counts[model.DatasetBrain]
	case store.FilterHeart:
		return counts[model.DatasetHeart]
	case store.FilterUnknown:
		return counts[model.DatasetUnknown]
	default:
		return 0
	}
}

func clampCursor(cursor, length int) int {
	if length == 0 {
		return 0
	}
	if cursor >= length {
		return length - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}
