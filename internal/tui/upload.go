package tui

import (
	"context"
	"fmt"
	"time"

	"git.sr.ht/~jakintosh/feescan/internal/core"
	"git.sr.ht/~jakintosh/feescan/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

// stage applies a file selection to the session
func (m *Model) stage(path string) {
	m.state = m.state.Select(core.NewStatement(path))
	if m.state.Err != "" {
		m.logger.Debug("statement rejected", "path", path)
		return
	}
	if m.state.Statement != nil {
		m.logger.Debug("statement staged", "path", m.state.Statement.Path)
	}
}

// submit starts an analysis of the staged statement. While a request is in
// flight it does nothing at all.
func (m *Model) submit() tea.Cmd {
	next, req := m.state.Submit()
	m.state = next
	if req == nil {
		return nil
	}

	ctx, cancel := m.requestContext()
	m.cancel = cancel
	m.matchCursor = 0
	m.matchOffset = 0
	if m.focus == focusMatches {
		m.setFocus(focusScan)
	}
	m.logger.Info("analysis started", "request", req.ID, "file", req.Statement.Name)
	return tea.Batch(m.analyzeCmd(ctx, *req), m.spinner.Tick)
}

func (m *Model) requestContext() (context.Context, context.CancelFunc) {
	if m.timeout > 0 {
		return context.WithTimeout(context.Background(), m.timeout)
	}
	return context.WithCancel(context.Background())
}

// analyzeCmd performs the upload off the event loop
func (m *Model) analyzeCmd(ctx context.Context, req session.Request) tea.Cmd {
	analyzer := m.analyzer
	return func() tea.Msg {
		result, err := analyzer.Analyze(ctx, req.Statement)
		return analysisDoneMsg{id: req.ID, result: result, err: err}
	}
}

// completeAnalysis applies a finished request; stale completions are dropped
func (m *Model) completeAnalysis(msg analysisDoneMsg) {
	if !m.state.IsPending(msg.id) {
		m.logger.Debug("dropping stale analysis", "request", msg.id)
		return
	}
	m.releaseRequest()
	m.state = m.state.Complete(msg.id, msg.result, msg.err)
	if msg.err != nil {
		m.logger.Info("analysis failed", "request", msg.id, "error", m.state.Err)
		return
	}
	m.logger.Info("analysis complete", "request", msg.id)
	m.pageOffset = m.resultsLine()
}

// cancelAnalysis abandons the in-flight request
func (m *Model) cancelAnalysis() {
	if !m.state.Loading {
		return
	}
	m.releaseRequest()
	m.state = m.state.Cancel()
	m.logger.Info("analysis cancelled")
}

// cancelInFlight aborts any running request without touching the session
func (m *Model) cancelInFlight() {
	m.releaseRequest()
}

func (m *Model) releaseRequest() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// openPicker switches to the file picker, re-reading the directory
func (m *Model) openPicker() tea.Cmd {
	m.picker = m.newPicker()
	m.currentView = viewPicker
	var sizeCmd tea.Cmd
	if m.height > 0 {
		m.picker, sizeCmd = m.picker.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	}
	return tea.Batch(m.picker.Init(), sizeCmd)
}

// closePicker returns to the upload view, remembering the directory
func (m *Model) closePicker() {
	if m.picker.CurrentDirectory != "" {
		m.startDir = m.picker.CurrentDirectory
	}
	m.currentView = viewUpload
}

// copyReport places a plain-text report on the clipboard
func (m *Model) copyReport() {
	if m.state.Result == nil {
		m.setStatus("Nothing to copy yet", statusInfo)
		return
	}
	if m.copier == nil {
		m.setStatus("Clipboard is not available", statusError)
		return
	}
	report := RenderReport(m.state.Result, m.formatter, PlainRenderer(), m.contentWidth())
	if err := m.copier.Copy(report); err != nil {
		m.setStatus(fmt.Sprintf("Copy failed: %v", err), statusError)
		return
	}
	m.setStatus("Report copied to clipboard", statusSuccess)
}

// matches returns the current result's line items
func (m *Model) matches() []core.Match {
	if m.state.Result == nil {
		return nil
	}
	return m.state.Result.Matches
}

// moveMatchCursor moves the highlighted row, scrolling the table window
func (m *Model) moveMatchCursor(delta int) {
	n := len(m.matches())
	if n == 0 {
		return
	}
	m.matchCursor = min(max(m.matchCursor+delta, 0), n-1)
	if m.matchCursor < m.matchOffset {
		m.matchOffset = m.matchCursor
	}
	if m.matchCursor >= m.matchOffset+maxVisibleMatches {
		m.matchOffset = m.matchCursor - maxVisibleMatches + 1
	}
}

// setStatus sets a temporary status message
func (m *Model) setStatus(message string, kind statusKind) {
	m.statusMessage = message
	m.statusKind = kind
	m.statusExpiry = time.Now().Add(statusDuration)
}

// statusLine returns the current status message if it hasn't expired
func (m *Model) statusLine() string {
	if m.statusMessage == "" {
		return ""
	}
	if !m.statusExpiry.IsZero() && time.Now().After(m.statusExpiry) {
		return ""
	}
	return m.styles.formatStatus(m.statusMessage, m.statusKind)
}
