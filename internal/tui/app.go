package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/h0rv/fetchlist/internal/present"
	"github.com/h0rv/fetchlist/internal/store"
)

// AppScreen represents the different screens in the application.
type AppScreen int

const (
	ScreenList AppScreen = iota
	ScreenGroupPicker
	ScreenDetail
)

// AppModel is the root Bubble Tea model. It owns the store subscription and
// switches between the list, the group picker, and the detail view.
type AppModel struct {
	// Dependencies
	store    *store.Store
	ctx      context.Context
	endpoint string

	updates     <-chan store.ViewState
	unsubscribe func()

	// Current state
	currentScreen AppScreen
	currentModel  tea.Model
	width         int
	height        int

	// The list keeps its search and cursor across screen transitions.
	list ListModel
}

// NewAppModel subscribes to s and builds the list screen.
func NewAppModel(ctx context.Context, s *store.Store, endpoint string) AppModel {
	updates, unsubscribe := s.Subscribe()
	return AppModel{
		store:         s,
		ctx:           ctx,
		endpoint:      endpoint,
		updates:       updates,
		unsubscribe:   unsubscribe,
		currentScreen: ScreenList,
		list:          NewListModel(ctx, s, endpoint),
	}
}

// Init starts the list and listens for store changes.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.list.Init(), waitForState(m.updates))
}

// Update handles messages and transitions between screens.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		var listModel tea.Model
		listModel, _ = m.list.Update(msg)
		m.list = listModel.(ListModel)
		if m.currentScreen != ScreenList && m.currentModel != nil {
			var cmd tea.Cmd
			m.currentModel, cmd = m.currentModel.Update(msg)
			return m, cmd
		}
		return m, nil

	case stateChangedMsg:
		// The list always tracks the store, even behind another screen.
		listModel, cmd := m.list.Update(msg)
		m.list = listModel.(ListModel)
		return m, tea.Batch(cmd, waitForState(m.updates))

	case spinner.TickMsg:
		// Keep the list spinner alive behind other screens.
		listModel, cmd := m.list.Update(msg)
		m.list = listModel.(ListModel)
		return m, cmd

	case QuitMsg:
		return m, m.quit()

	case openGroupPickerMsg:
		records := m.list.allRecords()
		counts := make(map[int]int)
		for _, r := range records {
			counts[r.ListID]++
		}
		m.currentScreen = ScreenGroupPicker
		picker := NewGroupPickerModel(present.GroupOptions(records), counts, len(records), m.list.filter.Group)
		m.currentModel = picker
		return m, picker.Init()

	case GroupSelectedMsg:
		listModel, cmd := m.list.Update(msg)
		m.list = listModel.(ListModel)
		m.currentScreen = ScreenList
		m.currentModel = nil
		return m, cmd

	case closeGroupPickerMsg, closeDetailMsg:
		m.currentScreen = ScreenList
		m.currentModel = nil
		return m, tea.WindowSize()

	case openDetailMsg:
		m.currentScreen = ScreenDetail
		detail := NewDetailModel(msg.record, m.endpoint)
		m.currentModel = detail
		return m, detail.Init()
	}

	if m.currentScreen == ScreenList {
		listModel, cmd := m.list.Update(msg)
		m.list = listModel.(ListModel)
		return m, cmd
	}

	if m.currentModel != nil {
		var cmd tea.Cmd
		m.currentModel, cmd = m.currentModel.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the current screen.
func (m AppModel) View() string {
	if m.currentScreen != ScreenList && m.currentModel != nil {
		return m.currentModel.View()
	}
	return m.list.View()
}

// Screen reports the active screen.
func (m AppModel) Screen() AppScreen {
	return m.currentScreen
}

func (m AppModel) quit() tea.Cmd {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	return tea.Quit
}
