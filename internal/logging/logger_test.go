package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Component: "analyzer", Writer: &buf})
	logger.Info("upload finished", "status", 200)
	out := buf.String()
	if !strings.Contains(out, "component=analyzer") || !strings.Contains(out, "status=200") {
		t.Fatalf("unexpected log line: %q", out)
	}

	buf.Reset()
	logger.WithComponent("tui").Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected debug to be filtered at info level, got %q", buf.String())
	}
}

func TestOpenFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "feescan.log")
	logger, closer, err := OpenFile(path, slog.LevelDebug)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	logger.Debug("first")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "msg=first") {
		t.Fatalf("expected record in file, got %q", data)
	}
}
