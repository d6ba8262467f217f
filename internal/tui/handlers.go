package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// handleKey routes keyboard input to the appropriate handler based on the current view
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.currentView {
	case viewUpload:
		return m, m.updateUploadView(msg)
	case viewPicker:
		return m, m.updatePickerView(msg)
	default:
		return m, nil
	}
}

// updateUploadView handles keyboard input on the main upload screen
func (m *Model) updateUploadView(msg tea.KeyMsg) tea.Cmd {
	// A file dropped onto the terminal arrives as a paste of its path.
	if msg.Paste {
		cmd := m.setFocus(focusPath)
		m.SelectStatement(string(msg.Runes))
		return cmd
	}

	switch msg.String() {
	case "ctrl+q", "ctrl+c":
		m.cancelInFlight()
		return tea.Quit
	case "esc":
		if m.state.Loading {
			m.cancelAnalysis()
		}
		return nil
	case "ctrl+s":
		return m.submit()
	case "ctrl+o":
		return m.openPicker()
	case "ctrl+y":
		m.copyReport()
		return nil
	case "tab":
		return m.moveFocus(1)
	case "shift+tab":
		return m.moveFocus(-1)
	case "pgdown":
		m.scrollPage(m.pageStep())
		return nil
	case "pgup":
		m.scrollPage(-m.pageStep())
		return nil
	case "enter":
		return m.activateFocused()
	}

	switch m.focus {
	case focusMatches:
		switch msg.String() {
		case "up", "k":
			m.moveMatchCursor(-1)
		case "down", "j":
			m.moveMatchCursor(1)
		case "home", "g":
			m.moveMatchCursor(-len(m.matches()))
		case "end", "G":
			m.moveMatchCursor(len(m.matches()))
		}
		return nil
	case focusPath:
		var cmd tea.Cmd
		m.pathInput, cmd = m.pathInput.Update(msg)
		return cmd
	}
	return nil
}

// activateFocused performs the action of the focused element
func (m *Model) activateFocused() tea.Cmd {
	switch m.focus {
	case focusPath:
		m.SelectStatement(m.pathInput.Value())
	case focusBrowse:
		return m.openPicker()
	case focusScan:
		return m.submit()
	}
	return nil
}

// updatePickerView handles keyboard input while the file picker is open
func (m *Model) updatePickerView(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+q", "ctrl+c":
		m.cancelInFlight()
		return tea.Quit
	case "esc":
		m.closePicker()
		return nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.closePicker()
		m.SelectStatement(path)
		return cmd
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.closePicker()
		m.SelectStatement(path)
		return cmd
	}
	return cmd
}

// focusOrder lists the focusable elements in visual order
func (m *Model) focusOrder() []focusedField {
	order := []focusedField{focusPath, focusBrowse, focusScan}
	if len(m.matches()) > 0 {
		order = append(order, focusMatches)
	}
	return order
}

// moveFocus advances focus by delta positions, wrapping around
func (m *Model) moveFocus(delta int) tea.Cmd {
	order := m.focusOrder()
	current := 0
	for i, f := range order {
		if f == m.focus {
			current = i
			break
		}
	}
	next := (current + delta + len(order)) % len(order)
	return m.setFocus(order[next])
}

// setFocus moves focus to field, focusing or blurring the path input
func (m *Model) setFocus(field focusedField) tea.Cmd {
	m.focus = field
	if field == focusPath {
		return m.pathInput.Focus()
	}
	m.pathInput.Blur()
	return nil
}
