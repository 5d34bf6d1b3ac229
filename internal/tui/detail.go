package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/h0rv/fetchlist/internal/domain"
	"github.com/muesli/reflow/wordwrap"
)

// Detail view styles
var (
	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	detailLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241")).
				Width(10)

	detailValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))

	panelBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("205")).
				Padding(1, 2)
)

// DetailModel shows every field of one record.
type DetailModel struct {
	record   domain.Record
	endpoint string
	status   string
	isError  bool
	width    int
	height   int
}

// NewDetailModel creates a detail view for rec.
func NewDetailModel(rec domain.Record, endpoint string) DetailModel {
	return DetailModel{record: rec, endpoint: endpoint}
}

// Init requests the window size.
func (m DetailModel) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update handles messages
func (m DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case actionResultMsg:
		m.isError = msg.err != nil
		if msg.err != nil {
			m.status = msg.err.Error()
		} else {
			m.status = msg.info
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "enter", "backspace":
			return m, func() tea.Msg { return closeDetailMsg{} }
		case "y":
			return m, copyToClipboard(m.record.Name)
		case "o":
			return m, openInBrowser(m.endpoint)
		}
	}
	return m, nil
}

// View renders the record panel.
func (m DetailModel) View() string {
	width := m.width
	if width == 0 {
		width = defaultWidth
	}
	inner := width - 8 // border + padding
	if inner < 20 {
		inner = 20
	}

	var b strings.Builder
	b.WriteString(detailTitleStyle.Render(m.record.Tag.Glyph() + " " + wordwrap.String(m.record.Name, inner-3)))
	b.WriteString("\n\n")
	b.WriteString(m.field("Item ID", fmt.Sprintf("%d", m.record.ID)))
	b.WriteString(m.field("List", fmt.Sprintf("%d", m.record.ListID)))
	b.WriteString(m.field("Icon", m.record.Tag.String()))
	if m.endpoint != "" {
		b.WriteString(m.field("Source", wordwrap.String(m.endpoint, inner-10)))
	}

	footer := dimStyle.Render("esc:back y:copy name o:open source")
	if m.status != "" {
		if m.isError {
			footer = ErrorStyle.Render(m.status)
		} else {
			footer = infoStyle.Render(m.status)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		panelBorderStyle.Width(width-2).Render(b.String()),
		footer,
	)
}

func (m DetailModel) field(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		detailLabelStyle.Render(label),
		detailValueStyle.Render(value),
	) + "\n"
}
