// Package history keeps the append-only log of past draws.
//
// The log is loaded once when a session starts and written once when it ends,
// replacing the file wholesale. Nothing merges with other writers: the last
// save wins.
package history

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/sorteador/internal/errors"
)

// EmptyText is shown when the log holds no entries.
const EmptyText = "Nenhum registro no histórico."

// Log is the in-memory history bound to its file path.
type Log struct {
	path    string
	entries []Entry
	removed bool
}

// New returns an empty log bound to path.
func New(path string) *Log {
	return &Log{path: path}
}

// Load reads the log at path. The returned *Log is never nil: a missing file
// yields an empty log and nil error, and an unreadable or malformed file
// yields an empty log plus IO_ERROR or CORRUPT_STATE for the caller to report.
func Load(path string) (*Log, error) {
	l := New(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return l, nil
		}
		return l, errors.NewIO("não foi possível carregar o histórico", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return l, errors.NewCorruptState(path, fmt.Errorf("history is not a JSON array"))
	}

	var entries []Entry
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return l, errors.NewCorruptState(path, err)
	}
	l.entries = entries
	return l, nil
}

// Path returns the file the log is bound to.
func (l *Log) Path() string { return l.path }

// Len returns the number of entries.
func (l *Log) Len() int { return len(l.entries) }

// Append adds e at the end of the log.
func (l *Log) Append(e Entry) {
	l.entries = append(l.entries, e)
	l.removed = false
}

// Removed reports whether Clear deleted the file and nothing was appended
// since. Saving such a log would only recreate an empty file.
func (l *Log) Removed() bool { return l.removed }

// Entries returns a copy of the entries in creation order.
func (l *Log) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Line is one rendered history row.
type Line struct {
	Label int    `json:"label"`
	Text  string `json:"text"`
	Entry Entry  `json:"entry"`
}

// Lines returns entries most-recent-first with 1-based labels.
func (l *Log) Lines() []Line {
	lines := make([]Line, 0, len(l.entries))
	for i := len(l.entries) - 1; i >= 0; i-- {
		lines = append(lines, Line{
			Label: len(lines) + 1,
			Text:  l.entries[i].Summary(),
			Entry: l.entries[i],
		})
	}
	return lines
}

// Render returns the full history text.
func (l *Log) Render() string {
	var b strings.Builder
	b.WriteString("Histórico de Sorteios:\n\n")
	if len(l.entries) == 0 {
		b.WriteString(EmptyText)
		return b.String()
	}
	for _, line := range l.Lines() {
		fmt.Fprintf(&b, "%d. %s\n", line.Label, line.Text)
	}
	return b.String()
}

// Save overwrites the file with the current entries as indented UTF-8 JSON.
func (l *Log) Save() error {
	if l.path == "" {
		return errors.NewInvalidRequest("history path is not set")
	}

	entries := l.entries
	if entries == nil {
		entries = []Entry{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(entries); err != nil {
		return errors.NewInternal(err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return errors.NewIO("não foi possível salvar o histórico", err)
	}

	// Write to a sibling temp file, then rename over the target.
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := l.path + "." + hex.EncodeToString(randBytes) + ".tmp"
	if err := os.WriteFile(tempPath, buf.Bytes(), 0644); err != nil {
		return errors.NewIO("não foi possível salvar o histórico", err)
	}
	if err := os.Rename(tempPath, l.path); err != nil {
		os.Remove(tempPath)
		return errors.NewIO("não foi possível salvar o histórico", err)
	}
	return nil
}

// Clear empties the log and deletes its file. The in-memory log is emptied
// even when the file cannot be removed.
func (l *Log) Clear() error {
	l.entries = nil
	if l.path == "" {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return errors.NewIO("não foi possível apagar o arquivo de histórico", err)
	}
	l.removed = true
	return nil
}
