// Package tui implements the terminal interface for the bank fee scanner.
// The user stages a CSV or PDF statement by typing, pasting or dropping its
// path, or by browsing with a file picker, submits it to the analysis
// service, and reads the fee summary, category breakdown and itemized
// matches. All session state lives in a session.State value; this package
// routes terminal events to its transitions and renders the result.
package tui

import (
	"fmt"
	"os"
	"time"

	"git.sr.ht/~jakintosh/feescan/internal/core"
	"git.sr.ht/~jakintosh/feescan/internal/logging"
	"git.sr.ht/~jakintosh/feescan/internal/session"
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// NewModel creates a new TUI model submitting statements to analyzer
func NewModel(analyzer Analyzer, settings Settings) *Model {
	m := &Model{
		analyzer:    analyzer,
		formatter:   settings.Formatter,
		timeout:     settings.Timeout,
		logger:      settings.Logger,
		copier:      settings.Copier,
		renderer:    settings.Renderer,
		startDir:    settings.StartDir,
		currentView: viewUpload,
		focus:       focusPath,
	}
	if m.formatter == nil {
		m.formatter = core.DefaultFormatter()
	}
	if m.logger == nil {
		m.logger = logging.Discard()
	}
	if m.renderer == nil {
		m.renderer = lipgloss.DefaultRenderer()
	}
	if m.startDir == "" {
		if wd, err := os.Getwd(); err == nil {
			m.startDir = wd
		} else {
			m.startDir = "."
		}
	}
	m.styles = newStyles(m.renderer)

	m.pathInput = textinput.New()
	m.pathInput.Prompt = "Path: "
	m.pathInput.Placeholder = "~/Downloads/statement.csv"
	m.pathInput.Focus()

	m.spinner = spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(m.styles.spinner))
	m.picker = m.newPicker()
	return m
}

// SelectStatement stages the statement at path, as if it had been typed
func (m *Model) SelectStatement(path string) {
	path = core.CleanPath(path)
	m.pathInput.SetValue(path)
	m.pathInput.CursorEnd()
	m.stage(path)
}

// State returns the current upload-session state
func (m *Model) State() session.State {
	return m.state
}

// Init initializes the model and returns the initial command
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tea.Tick(time.Second, func(time.Time) tea.Msg { return statusTick{} }),
	)
}

// Update handles incoming messages and updates the model state
func (m *Model) Update(msg tea.Msg) (updated tea.Model, cmd tea.Cmd) {
	defer func() {
		if recovered := recover(); recovered != nil {
			m.cancelInFlight()
			m.err = fmt.Errorf("unexpected internal error: %v", recovered)
			m.logger.Error("recovered from panic", "panic", recovered)
			updated = m
			cmd = nil
		}
	}()

	if m.err != nil {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "ctrl+q", "ctrl+c":
				return m, tea.Quit
			}
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.pathInput.Width = max(m.contentWidth()-len(m.pathInput.Prompt)-6, 10)
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	case analysisDoneMsg:
		m.completeAnalysis(msg)
		return m, nil
	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case statusTick:
		if !m.statusExpiry.IsZero() && time.Now().After(m.statusExpiry) {
			m.statusMessage = ""
			m.statusExpiry = time.Time{}
		}
		return m, tea.Tick(time.Second, func(time.Time) tea.Msg { return statusTick{} })
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Everything else belongs to a bubble: directory listings to the picker,
	// cursor blinks to the path input.
	switch m.currentView {
	case viewPicker:
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	default:
		var cmd tea.Cmd
		m.pathInput, cmd = m.pathInput.Update(msg)
		return m, cmd
	}
}

// View renders the current view based on the model state
func (m *Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress ctrl+q to quit.", m.err)
	}

	switch m.currentView {
	case viewUpload:
		return m.visiblePage(m.renderUploadView())
	case viewPicker:
		return m.renderPickerView()
	default:
		return "Unknown view"
	}
}

func (m *Model) newPicker() filepicker.Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".csv", ".pdf", ".CSV", ".PDF"}
	fp.CurrentDirectory = m.startDir
	fp.AutoHeight = true
	fp.ShowHidden = false
	return fp
}
