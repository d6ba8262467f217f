// Package clipboard copies text to the system clipboard, falling back to an
// OSC 52 escape sequence when no clipboard utility is available (e.g. over
// SSH).
package clipboard

import (
	"fmt"
	"io"
	"os"

	sysclip "github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// Copier writes text to a clipboard.
type Copier struct {
	// System writes to the native clipboard; nil disables it.
	System func(string) error
	// Terminal receives the OSC 52 fallback sequence.
	Terminal io.Writer
	// Multiplexer wraps the sequence for "tmux" or "screen" passthrough.
	Multiplexer string
}

// Default uses the native clipboard when supported and stderr otherwise.
func Default() *Copier {
	c := &Copier{Terminal: os.Stderr}
	if !sysclip.Unsupported {
		c.System = sysclip.WriteAll
	}
	switch {
	case os.Getenv("TMUX") != "":
		c.Multiplexer = "tmux"
	case os.Getenv("STY") != "":
		c.Multiplexer = "screen"
	}
	return c
}

// Copy places text on the clipboard.
func (c *Copier) Copy(text string) error {
	if c.System != nil {
		if err := c.System(text); err == nil {
			return nil
		}
	}
	if c.Terminal == nil {
		return fmt.Errorf("no clipboard available")
	}
	seq := osc52.New(text)
	switch c.Multiplexer {
	case "tmux":
		seq = seq.Tmux()
	case "screen":
		seq = seq.Screen()
	}
	if _, err := seq.WriteTo(c.Terminal); err != nil {
		return fmt.Errorf("write clipboard sequence: %w", err)
	}
	return nil
}
