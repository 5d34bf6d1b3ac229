package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/h0rv/fetchlist/internal/domain"
	"github.com/h0rv/fetchlist/internal/present"
	"github.com/h0rv/fetchlist/internal/store"
	"github.com/muesli/reflow/truncate"
	"github.com/pkg/browser"
)

// Layout constants
const (
	defaultWidth  = 80
	defaultHeight = 24
	chromeLines   = 3 // header + search line + hint line
	minBodyLines  = 3
	pageJumpSize  = 10
	minNameWidth  = 8
)

// Styles for the list view
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("78"))

	nameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	selectedNameStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	itemIDStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

// ListModel renders the searchable, grouped record list.
type ListModel struct {
	// Dependencies
	store    *store.Store
	ctx      context.Context
	endpoint string

	// UI components
	keymap      KeyMap
	help        HelpModel
	spinner     spinner.Model
	searchInput textinput.Model

	// Data
	state  store.ViewState
	filter present.FilterInput
	view   present.View
	rows   []present.Row

	// Cursor
	selected int // index into rows, always a record row when any exist
	offset   int // first visible row

	// View state
	width      int
	height     int
	showHelp   bool
	searchMode bool
	errorToast string
	infoToast  string
}

// NewListModel creates the list view over s. endpoint is the URL opened by
// the open-source key.
func NewListModel(ctx context.Context, s *store.Store, endpoint string) ListModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.Prompt = "/ "

	m := ListModel{
		store:       s,
		ctx:         ctx,
		endpoint:    endpoint,
		keymap:      DefaultKeyMap(),
		help:        NewHelpModel(DefaultKeyMap()),
		spinner:     sp,
		searchInput: ti,
		filter:      present.FilterInput{Group: present.AllGroups},
	}
	if s != nil {
		m.state = s.Snapshot()
	}
	m.rebuild()
	return m
}

// Init starts the spinner.
func (m ListModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.WindowSize())
}

// Update handles messages
func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.searchInput.Width = msg.Width - 4
		(&m).adjustScroll()
		return m, nil

	case stateChangedMsg:
		(&m).applyState(msg.state)
		return m, nil

	case GroupSelectedMsg:
		(&m).setGroup(msg.Filter)
		return m, nil

	case actionResultMsg:
		if msg.err != nil {
			m.errorToast = msg.err.Error()
			m.infoToast = ""
		} else {
			m.infoToast = msg.info
			m.errorToast = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	return m, nil
}

func (m ListModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchMode {
		switch {
		case key.Matches(msg, m.keymap.ApplySearch):
			m.searchMode = false
			m.searchInput.Blur()
			return m, nil
		case key.Matches(msg, m.keymap.ClearSearch):
			m.searchMode = false
			m.searchInput.Blur()
			m.searchInput.SetValue("")
			(&m).setSearch("")
			return m, nil
		case key.Matches(msg, m.keymap.ForceQuit):
			return m, func() tea.Msg { return QuitMsg{} }
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		// Every keystroke re-runs the pipeline.
		(&m).setSearch(m.searchInput.Value())
		return m, cmd
	}

	if m.showHelp {
		// Any key closes the help overlay; quit keys still quit.
		m.showHelp = false
		if key.Matches(msg, m.keymap.Quit, m.keymap.ForceQuit) {
			return m, func() tea.Msg { return QuitMsg{} }
		}
		return m, nil
	}

	m.errorToast = ""
	m.infoToast = ""

	switch {
	case key.Matches(msg, m.keymap.Quit, m.keymap.ForceQuit):
		return m, func() tea.Msg { return QuitMsg{} }

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keymap.Search):
		m.searchMode = true
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keymap.ClearSearch):
		if m.filter.SearchText != "" {
			m.searchInput.SetValue("")
			(&m).setSearch("")
		}
		return m, nil

	case key.Matches(msg, m.keymap.Group):
		return m, func() tea.Msg { return openGroupPickerMsg{} }

	case key.Matches(msg, m.keymap.AllGroups):
		(&m).setGroup(present.AllGroups)
		return m, nil

	case key.Matches(msg, m.keymap.Up):
		(&m).moveSelection(-1)
	case key.Matches(msg, m.keymap.Down):
		(&m).moveSelection(1)
	case key.Matches(msg, m.keymap.PageUp):
		(&m).moveSelection(-pageJumpSize)
	case key.Matches(msg, m.keymap.PageDown):
		(&m).moveSelection(pageJumpSize)
	case key.Matches(msg, m.keymap.Top):
		(&m).moveSelection(-len(m.rows))
	case key.Matches(msg, m.keymap.Bottom):
		(&m).moveSelection(len(m.rows))

	case key.Matches(msg, m.keymap.Detail):
		if rec, ok := m.selectedRecord(); ok {
			return m, func() tea.Msg { return openDetailMsg{record: rec} }
		}

	case key.Matches(msg, m.keymap.Refresh):
		return m, m.refresh()

	case key.Matches(msg, m.keymap.OpenSource):
		return m, openInBrowser(m.endpoint)

	case key.Matches(msg, m.keymap.Copy):
		if rec, ok := m.selectedRecord(); ok {
			return m, copyToClipboard(rec.Name)
		}
	}

	return m, nil
}

// View renders the list - fills the terminal exactly
func (m ListModel) View() string {
	width := m.width
	if width == 0 {
		width = defaultWidth
	}

	sections := []string{
		m.renderHeader(width),
		m.renderSearchLine(width),
	}

	bodyHeight := m.bodyHeight()

	var body string
	switch {
	case m.showHelp:
		lines := strings.Split(m.help.View(width), "\n")
		if len(lines) > bodyHeight {
			lines = lines[:bodyHeight]
		}
		body = strings.Join(lines, "\n")
	case m.view.Status == present.StatusLoading:
		body = lipgloss.Place(width, bodyHeight, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading...")
	case m.view.Status == present.StatusEmpty:
		body = lipgloss.Place(width, bodyHeight, lipgloss.Center, lipgloss.Center,
			PlaceholderStyle.Render("Nothing's here... press r to refresh"))
	case m.view.Status == present.StatusNoMatches:
		body = lipgloss.Place(width, bodyHeight, lipgloss.Center, lipgloss.Center,
			PlaceholderStyle.Render("Nothing matches your search"))
	default:
		body = m.renderRows(width, bodyHeight)
	}
	sections = append(sections, body)
	sections = append(sections, m.renderHint(width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the title on the left and status on the right
func (m ListModel) renderHeader(width int) string {
	title := "fetchlist"

	var statusParts []string
	if m.state.IsLoading {
		statusParts = append(statusParts, m.spinner.View()+"loading")
	}
	statusParts = append(statusParts, fmt.Sprintf("%d/%d items", m.view.Len(), m.view.Total))
	statusParts = append(statusParts, "list: "+m.filter.Group.String())
	if m.filter.SearchText != "" && !m.searchMode {
		statusParts = append(statusParts, "/"+m.filter.SearchText)
	}
	if !m.state.UpdatedAt.IsZero() {
		statusParts = append(statusParts, "updated "+m.state.UpdatedAt.Format(time.TimeOnly))
	}
	status := strings.Join(statusParts, " | ")

	padding := width - lipgloss.Width(title) - lipgloss.Width(status) - 1
	if padding < 1 {
		padding = 1
	}
	return titleStyle.Render(title) + strings.Repeat(" ", padding) + dimStyle.Render(status)
}

// renderSearchLine shows the search input while editing, otherwise toasts or position.
func (m ListModel) renderSearchLine(width int) string {
	if m.searchMode {
		return m.searchInput.View()
	}
	switch {
	case m.errorToast != "":
		return ErrorStyle.Render(truncate.StringWithTail(m.errorToast, uint(width), "…"))
	case m.infoToast != "":
		return infoStyle.Render(m.infoToast)
	case m.state.LastError != nil:
		msg := "Refresh failed: " + m.state.LastError.Error()
		return ErrorStyle.Render(truncate.StringWithTail(msg, uint(width), "…"))
	}
	if rec, ok := m.selectedRecord(); ok {
		return dimStyle.Render(fmt.Sprintf("item %d of %d | list %d", m.recordIndex()+1, m.view.Len(), rec.ListID))
	}
	return ""
}

func (m ListModel) renderHint(width int) string {
	return m.help.ShortView(width)
}

// renderRows draws the visible window of rows.
func (m ListModel) renderRows(width, height int) string {
	lines := make([]string, 0, height)
	end := m.offset + height
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := m.offset; i < end; i++ {
		row := m.rows[i]
		if row.Header {
			lines = append(lines, m.renderGroupHeader(row.ListID, width))
			continue
		}
		lines = append(lines, m.renderRecord(row.Record, i == m.selected, width))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m ListModel) renderGroupHeader(listID int, width int) string {
	return GroupHeaderStyle.Width(width).Render(fmt.Sprintf("List %d", listID))
}

// renderRecord draws one record: cursor, tag glyph, name, and the right-aligned id.
func (m ListModel) renderRecord(rec domain.Record, selected bool, width int) string {
	cursor := "  "
	style := nameStyle
	if selected {
		cursor = "> "
		style = selectedNameStyle
	}

	prefix := cursor + rec.Tag.Glyph() + " "
	idText := fmt.Sprintf("Item ID: %d", rec.ID)

	nameWidth := width - lipgloss.Width(prefix) - len(idText) - 2
	if nameWidth < minNameWidth {
		nameWidth = minNameWidth
	}
	name := truncate.StringWithTail(rec.Name, uint(nameWidth), "…")

	line := prefix + style.Render(name)
	padding := width - lipgloss.Width(line) - len(idText) - 1
	if padding < 1 {
		padding = 1
	}
	return line + strings.Repeat(" ", padding) + itemIDStyle.Render(idText)
}

// applyState takes a new store snapshot and re-runs the pipeline.
func (m *ListModel) applyState(st store.ViewState) {
	var keep int
	var hadSelection bool
	if rec, ok := m.selectedRecord(); ok {
		keep, hadSelection = rec.ID, true
	}
	m.state = st
	m.rebuild()
	if hadSelection {
		m.selectRecordID(keep)
	}
}

func (m *ListModel) setSearch(text string) {
	m.filter.SearchText = text
	m.rebuild()
}

func (m *ListModel) setGroup(g present.GroupFilter) {
	m.filter.Group = g
	m.rebuild()
}

// rebuild recomputes the view and clamps the cursor to a record row.
func (m *ListModel) rebuild() {
	m.view = present.ForState(m.state.Records, m.state.IsLoading, m.filter)
	m.rows = m.view.Rows()
	if m.selected >= len(m.rows) {
		m.selected = len(m.rows) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	m.snapToRecord(1)
	m.adjustScroll()
}

// snapToRecord moves the cursor off a header row, preferring dir.
func (m *ListModel) snapToRecord(dir int) {
	if len(m.rows) == 0 || !m.rows[m.selected].Header {
		return
	}
	for _, d := range []int{dir, -dir} {
		for i := m.selected + d; i >= 0 && i < len(m.rows); i += d {
			if !m.rows[i].Header {
				m.selected = i
				return
			}
		}
	}
}

// moveSelection moves the cursor by delta records, skipping headers.
func (m *ListModel) moveSelection(delta int) {
	if len(m.rows) == 0 || delta == 0 {
		return
	}
	step := 1
	if delta < 0 {
		step = -1
		delta = -delta
	}
	i := m.selected
	for moved := 0; moved < delta; {
		next := i + step
		if next < 0 || next >= len(m.rows) {
			break
		}
		i = next
		if !m.rows[i].Header {
			moved++
			m.selected = i
		}
	}
	m.adjustScroll()
}

func (m *ListModel) selectRecordID(id int) {
	for i, row := range m.rows {
		if !row.Header && row.Record.ID == id {
			m.selected = i
			m.adjustScroll()
			return
		}
	}
}

// adjustScroll keeps the cursor visible, along with its group header when
// the cursor sits on the first record of a group.
func (m *ListModel) adjustScroll() {
	height := m.bodyHeight()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+height {
		m.offset = m.selected - height + 1
	}
	if m.offset == m.selected && m.selected > 0 && m.rows[m.selected-1].Header {
		m.offset--
	}
	if maxOffset := len(m.rows) - height; m.offset > maxOffset {
		m.offset = maxOffset
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m ListModel) bodyHeight() int {
	height := m.height
	if height == 0 {
		height = defaultHeight
	}
	body := height - chromeLines
	if body < minBodyLines {
		body = minBodyLines
	}
	return body
}

// selectedRecord returns the record under the cursor.
func (m ListModel) selectedRecord() (domain.Record, bool) {
	if m.selected < 0 || m.selected >= len(m.rows) || m.rows[m.selected].Header {
		return domain.Record{}, false
	}
	return m.rows[m.selected].Record, true
}

// recordIndex is the cursor position counted in records only.
func (m ListModel) recordIndex() int {
	n := 0
	for i := 0; i < m.selected && i < len(m.rows); i++ {
		if !m.rows[i].Header {
			n++
		}
	}
	return n
}

// allRecords returns the unfiltered records, used to build the group picker.
func (m ListModel) allRecords() []domain.Record {
	return m.state.Records
}

// refresh runs a store refresh; the result arrives through the subscription.
func (m ListModel) refresh() tea.Cmd {
	if m.store == nil {
		return nil
	}
	s, ctx := m.store, m.ctx
	return func() tea.Msg {
		s.Refresh(ctx)
		return nil
	}
}

func openInBrowser(url string) tea.Cmd {
	return func() tea.Msg {
		if url == "" {
			return actionResultMsg{err: fmt.Errorf("no source url")}
		}
		if err := browser.OpenURL(url); err != nil {
			return actionResultMsg{err: fmt.Errorf("open browser: %w", err)}
		}
		return actionResultMsg{info: "Opened " + url}
	}
}

func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return actionResultMsg{err: fmt.Errorf("copy: %w", err)}
		}
		return actionResultMsg{info: fmt.Sprintf("Copied %q", text)}
	}
}
