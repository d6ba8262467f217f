package core

import (
	"context"
	"errors"
	"strings"
)

// Validation failures that never reach the network.
var (
	ErrUnsupportedFile = errors.New("unsupported statement file type")
	ErrNoStatement     = errors.New("no statement selected")
)

// Messages shown to the user in place of an error's own text.
const (
	UnsupportedFileMessage = "Please upload a CSV or PDF bank statement"
	NoStatementMessage     = "Choose a CSV or PDF statement first"
	FallbackErrorMessage   = "Upload failed"
	CancelledMessage       = "Upload cancelled"
	TimedOutMessage        = "Upload timed out"
)

// ErrorMessage extracts the text shown to the user for err.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrUnsupportedFile):
		return UnsupportedFileMessage
	case errors.Is(err, ErrNoStatement):
		return NoStatementMessage
	case errors.Is(err, context.Canceled):
		return CancelledMessage
	case errors.Is(err, context.DeadlineExceeded):
		return TimedOutMessage
	}
	if msg := err.Error(); strings.TrimSpace(msg) != "" {
		return msg
	}
	return FallbackErrorMessage
}
