package tui

import (
	"context"
	"time"

	"git.sr.ht/~jakintosh/feescan/internal/core"
	"git.sr.ht/~jakintosh/feescan/internal/logging"
	"git.sr.ht/~jakintosh/feescan/internal/session"
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// Constants define UI behavior and layout limits
const (
	statusDuration     = 3 * time.Second
	maxVisibleMatches  = 10
	defaultWidth       = 80
	maxContentWidth    = 100
	teaserMinWidth     = 70
	descriptionMinCols = 12
)

// viewState represents the current screen being displayed
type viewState int

const (
	viewUpload viewState = iota
	viewPicker
)

// focusedField represents which element currently has user focus
type focusedField int

const (
	focusPath focusedField = iota
	focusBrowse
	focusScan
	focusMatches
)

// statusKind represents the type of status message being displayed
type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusError
)

// Analyzer submits a statement to the analysis service.
type Analyzer interface {
	Analyze(ctx context.Context, statement core.Statement) (*core.AnalysisResult, error)
}

// Copier places text on a clipboard.
type Copier interface {
	Copy(text string) error
}

// Settings tune the model; zero values pick sensible defaults.
type Settings struct {
	Formatter *core.Formatter
	Timeout   time.Duration // 0 leaves requests unbounded
	Logger    *logging.Logger
	Renderer  *lipgloss.Renderer
	Copier    Copier
	StartDir  string // where the file picker opens
}

// Model is the main application state container for the TUI
type Model struct {
	analyzer  Analyzer
	formatter *core.Formatter
	timeout   time.Duration
	logger    *logging.Logger
	copier    Copier
	renderer  *lipgloss.Renderer
	styles    styles

	state  session.State
	cancel context.CancelFunc

	currentView viewState
	focus       focusedField
	pathInput   textinput.Model
	picker      filepicker.Model
	startDir    string
	spinner     spinner.Model

	matchCursor int
	matchOffset int
	pageOffset  int

	width         int
	height        int
	statusMessage string
	statusKind    statusKind
	statusExpiry  time.Time
	err           error
}

// analysisDoneMsg carries the outcome of request id back to Update
type analysisDoneMsg struct {
	id     uint64
	result *core.AnalysisResult
	err    error
}

// statusTick is sent periodically to update status message expiry
type statusTick struct{}
