package core

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// supportedExtensions lists the statement formats the analysis service accepts.
var supportedExtensions = []string{".csv", ".pdf"}

// Statement is a bank statement file staged for upload.
type Statement struct {
	Path string // location on disk, read when the upload is built
	Name string // filename sent in the multipart part
}

// NewStatement stages the file at path, naming it after its base name.
func NewStatement(path string) Statement {
	if path == "" {
		return Statement{}
	}
	return Statement{Path: path, Name: filepath.Base(path)}
}

// IsZero reports whether no file is referenced.
func (s Statement) IsZero() bool {
	return s.Path == "" && s.Name == ""
}

// Validate checks the filename extension, ignoring case.
func (s Statement) Validate() error {
	if !HasSupportedExtension(s.Name) {
		return ErrUnsupportedFile
	}
	return nil
}

// HasSupportedExtension reports whether name ends in .csv or .pdf.
func HasSupportedExtension(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range supportedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// CleanPath turns text typed or dropped into the terminal into a file path.
// Terminals deliver a dropped file as pasted text, quoted or backslash-escaped
// depending on the emulator, and some send a file:// URL instead. A leading
// ~ is expanded to the home directory.
func CleanPath(raw string) string {
	return expandHome(unquotePath(raw))
}

// expandHome replaces a leading "~" or "~/" with the user's home directory.
func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return p
	}
	return filepath.Join(home, p[1:])
}

func unquotePath(raw string) string {
	p := strings.TrimSpace(raw)
	if len(p) >= 2 {
		first, last := p[0], p[len(p)-1]
		if (first == '\'' || first == '"') && first == last {
			return p[1 : len(p)-1]
		}
	}
	if strings.HasPrefix(p, "file://") {
		if u, err := url.Parse(p); err == nil && u.Path != "" {
			return u.Path
		}
	}
	if !strings.Contains(p, `\`) || filepath.Separator == '\\' {
		return p
	}
	var b strings.Builder
	escaped := false
	for _, r := range p {
		if r == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}
