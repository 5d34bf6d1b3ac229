// Package tui provides Bubble Tea models for the interactive list.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/h0rv/fetchlist/internal/domain"
	"github.com/h0rv/fetchlist/internal/present"
	"github.com/h0rv/fetchlist/internal/store"
)

// GroupSelectedMsg is emitted when the user picks an entry in the group picker.
type GroupSelectedMsg struct {
	Filter present.GroupFilter
}

// QuitMsg is emitted when the user requests to quit.
type QuitMsg struct{}

// Internal transitions between screens and async results.
type (
	stateChangedMsg struct {
		state store.ViewState
	}

	openGroupPickerMsg  struct{}
	closeGroupPickerMsg struct{}

	openDetailMsg struct {
		record domain.Record
	}
	closeDetailMsg struct{}

	// actionResultMsg reports the outcome of a side action (clipboard, browser).
	actionResultMsg struct {
		info string
		err  error
	}
)

// waitForState turns the next store update into a message.
// Returns nil once the subscription is closed.
func waitForState(updates <-chan store.ViewState) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-updates
		if !ok {
			return nil
		}
		return stateChangedMsg{state: st}
	}
}
