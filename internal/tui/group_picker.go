package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/h0rv/fetchlist/internal/present"
)

// groupItem wraps a present.GroupOption for use in bubbles/list.
type groupItem struct {
	option present.GroupOption
	count  int
}

func (i groupItem) FilterValue() string {
	return i.option.Label
}

func (i groupItem) Title() string {
	if i.option.Filter.IsAll() {
		return present.AllLabel
	}
	return "List " + i.option.Label
}

func (i groupItem) Description() string {
	if i.count == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", i.count)
}

// groupDelegate is a custom item delegate for group items.
type groupDelegate struct{}

func (d groupDelegate) Height() int                             { return 2 }
func (d groupDelegate) Spacing() int                            { return 0 }
func (d groupDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d groupDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(groupItem)
	if !ok {
		return
	}

	desc := i.Description()
	if index == m.Index() {
		fmt.Fprint(w, SelectedItemStyle.Render("> "+i.Title()))
		fmt.Fprint(w, "\n  "+NormalItemStyle.Render(desc))
	} else {
		fmt.Fprint(w, NormalItemStyle.Render("  "+i.Title()))
		fmt.Fprint(w, "\n  "+lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(desc))
	}
}

// GroupPickerModel lets the user restrict the list to one listId or show all.
// "All" is always the first entry.
type GroupPickerModel struct {
	list list.Model
}

// NewGroupPickerModel builds the picker from selector options, with counts
// taken from the unfiltered record set, and preselects current.
func NewGroupPickerModel(options []present.GroupOption, counts map[int]int, total int, current present.GroupFilter) GroupPickerModel {
	items := make([]list.Item, len(options))
	selected := 0
	for i, opt := range options {
		count := total
		if id, ok := opt.Filter.ListID(); ok {
			count = counts[id]
		}
		items[i] = groupItem{option: opt, count: count}
		if opt.Filter == current {
			selected = i
		}
	}

	l := list.New(items, groupDelegate{}, 40, 20)
	l.Title = "Filter by List"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = TitleStyle
	l.Styles.HelpStyle = HelpStyle
	l.Select(selected)

	return GroupPickerModel{list: l}
}

// Init initializes the model.
func (m GroupPickerModel) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update handles messages and updates the model state.
func (m GroupPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 2)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "g":
			return m, func() tea.Msg { return closeGroupPickerMsg{} }
		case "enter":
			if item, ok := m.list.SelectedItem().(groupItem); ok {
				return m, func() tea.Msg {
					return GroupSelectedMsg{Filter: item.option.Filter}
				}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the model.
func (m GroupPickerModel) View() string {
	return m.list.View()
}
