package tui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color definitions for the TUI
const (
	emerald = lipgloss.Color("10")
	red     = lipgloss.Color("9")
	blue    = lipgloss.Color("12")
	grey    = lipgloss.Color("8")
	white   = lipgloss.Color("15")
	magenta = lipgloss.Color("13")
)

// styles holds every style bound to one renderer, so the same layout can be
// drawn for a color terminal, a pipe, or the clipboard.
type styles struct {
	title       lipgloss.Style
	tagline     lipgloss.Style
	teaserBox   lipgloss.Style
	teaserLabel lipgloss.Style
	teaserValue lipgloss.Style

	uploadCard lipgloss.Style
	dropHint   lipgloss.Style
	muted      lipgloss.Style
	selected   lipgloss.Style
	focused    lipgloss.Style
	button     lipgloss.Style
	buttonBusy lipgloss.Style
	spinner    lipgloss.Style
	errorPanel lipgloss.Style

	panel         lipgloss.Style
	heading       lipgloss.Style
	card          lipgloss.Style
	cardLabel     lipgloss.Style
	cardAmount    lipgloss.Style
	tableHeader   lipgloss.Style
	tableCursor   lipgloss.Style
	placeholder   lipgloss.Style
	footer        lipgloss.Style
	successText   lipgloss.Style
	errorText     lipgloss.Style
	infoText      lipgloss.Style
	commandActive lipgloss.Style
	commandDimmed lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:       r.NewStyle().Bold(true),
		tagline:     r.NewStyle().Foreground(grey),
		teaserBox:   r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(emerald).Padding(0, 1),
		teaserLabel: r.NewStyle().Foreground(grey),
		teaserValue: r.NewStyle().Bold(true),

		uploadCard: r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(grey).Padding(0, 1),
		dropHint:   r.NewStyle().Bold(true).Foreground(emerald),
		muted:      r.NewStyle().Foreground(grey),
		selected:   r.NewStyle().Foreground(emerald),
		focused:    r.NewStyle().Foreground(magenta).Bold(true),
		button:     r.NewStyle().Bold(true).Foreground(white).Background(emerald).Padding(0, 2),
		buttonBusy: r.NewStyle().Foreground(grey).Padding(0, 2),
		spinner:    r.NewStyle().Foreground(emerald),
		errorPanel: r.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(red).Foreground(red).Padding(0, 1),

		panel:         r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(grey).Padding(0, 1),
		heading:       r.NewStyle().Bold(true),
		card:          r.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(grey).Padding(0, 1),
		cardLabel:     r.NewStyle().Foreground(grey),
		cardAmount:    r.NewStyle().Bold(true),
		tableHeader:   r.NewStyle().Bold(true),
		tableCursor:   r.NewStyle().Foreground(magenta).Bold(true),
		placeholder:   r.NewStyle().Foreground(grey),
		footer:        r.NewStyle().Foreground(grey),
		successText:   r.NewStyle().Foreground(emerald),
		errorText:     r.NewStyle().Foreground(red),
		infoText:      r.NewStyle().Foreground(blue),
		commandActive: r.NewStyle().Foreground(white),
		commandDimmed: r.NewStyle().Foreground(grey),
	}
}

// PlainRenderer draws without colors, for pipes and the clipboard.
func PlainRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)
	return r
}

// formatStatus returns a colored status message based on the status kind
func (s styles) formatStatus(message string, kind statusKind) string {
	switch kind {
	case statusSuccess:
		return s.successText.Render(message)
	case statusError:
		return s.errorText.Render(message)
	case statusInfo:
		return s.infoText.Render(message)
	default:
		return message
	}
}

// formatCommand returns a command hint, dimmed if disabled, white if enabled
func (s styles) formatCommand(text string, enabled bool) string {
	if enabled {
		return s.commandActive.Render(text)
	}
	return s.commandDimmed.Render(text)
}
