package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatementValidateAcceptsSupportedExtensions(t *testing.T) {
	for _, name := range []string{"jan.csv", "JAN.CSV", "stmt.pdf", "Stmt.Pdf", "a.b.csv"} {
		assert.NoError(t, NewStatement("/tmp/"+name).Validate(), name)
	}
}

func TestStatementValidateRejectsOtherExtensions(t *testing.T) {
	for _, name := range []string{"jan.xlsx", "notes.txt", "csv", "pdf", "archive.csv.zip", "statement.csvx", ""} {
		err := Statement{Name: name}.Validate()
		assert.ErrorIs(t, err, ErrUnsupportedFile, name)
		assert.Equal(t, "Please upload a CSV or PDF bank statement", err.Error())
	}
}

func TestNewStatementUsesBaseName(t *testing.T) {
	s := NewStatement("/home/me/Downloads/march.csv")
	assert.Equal(t, "march.csv", s.Name)
	assert.Equal(t, "/home/me/Downloads/march.csv", s.Path)
	assert.True(t, NewStatement("").IsZero())
}

func TestCleanPath(t *testing.T) {
	cases := map[string]string{
		"  /tmp/a.csv \n":             "/tmp/a.csv",
		"'/tmp/my statement.pdf'":     "/tmp/my statement.pdf",
		`"/tmp/my statement.pdf"`:     "/tmp/my statement.pdf",
		`/tmp/my\ statement.pdf`:      "/tmp/my statement.pdf",
		"file:///tmp/my%20stmt.csv":   "/tmp/my stmt.csv",
		"relative/path/statement.csv": "relative/path/statement.csv",
	}
	for in, want := range cases {
		assert.Equal(t, want, CleanPath(in), in)
	}
}

func TestCleanPathExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, "s.csv"), CleanPath("~/s.csv"))
	assert.Equal(t, filepath.Join(home, "Downloads", "my stmt.pdf"), CleanPath("'~/Downloads/my stmt.pdf'"))
	assert.Equal(t, home, CleanPath("~"))
	assert.Equal(t, "/tmp/~/s.csv", CleanPath("/tmp/~/s.csv"))
	assert.Equal(t, "~other/s.csv", CleanPath("~other/s.csv"))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, UnsupportedFileMessage, ErrorMessage(ErrUnsupportedFile))
	assert.Equal(t, NoStatementMessage, ErrorMessage(fmt.Errorf("submit: %w", ErrNoStatement)))
	assert.Equal(t, "", ErrorMessage(nil))
	assert.Equal(t, "server exploded", ErrorMessage(errors.New("server exploded")))
	assert.Equal(t, FallbackErrorMessage, ErrorMessage(errors.New("")))
	assert.Equal(t, CancelledMessage, ErrorMessage(fmt.Errorf("post: %w", context.Canceled)))
	assert.Equal(t, TimedOutMessage, ErrorMessage(fmt.Errorf("post: %w", context.DeadlineExceeded)))
}
