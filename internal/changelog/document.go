package changelog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Header is the fixed first line of every changelog document, followed by a
// blank line.
const Header = "# Changelogs\n\n"

// DefaultFileName is the document name used when none is configured.
const DefaultFileName = "CHANGELOG.md"

// debugLogger is a function that logs debug messages when debug mode is enabled.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for changelog operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Prepend places entry directly below the header of existing, ahead of every
// older entry. A missing header is added; an existing one is not duplicated.
func Prepend(existing, entry string) string {
	body := strings.TrimPrefix(existing, Header)
	return Header + entry + body
}

// Store reads and updates a changelog document on disk.
type Store struct {
	Path string
}

// NewStore creates a store for the document at path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Read returns the current document content. A document that cannot be read
// is treated as not existing yet and yields an empty string.
func (s *Store) Read() string {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		logDebug("[changelog] treating %s as empty: %v", s.Path, err)
		return ""
	}
	return string(data)
}

// Load parses the current document.
func (s *Store) Load() *Changelog {
	return Parse(s.Read())
}

// Prepend adds entry to the top of the document and writes it back.
// The write goes through a temporary file in the same directory so a failure
// never leaves a truncated document behind.
func (s *Store) Prepend(entry string) error {
	content := Prepend(s.Read(), entry)
	if err := writeFileAtomic(s.Path, []byte(content)); err != nil {
		return fmt.Errorf("writing changelog %s: %w", s.Path, err)
	}
	logDebug("[changelog] prepended %d bytes to %s", len(entry), s.Path)
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".changelog-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}

	return os.Rename(tmpName, path)
}
