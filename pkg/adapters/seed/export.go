package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/notebox/pkg/core"
)

const (
	// TempFilePrefix is the prefix used for temporary atomic write files.
	TempFilePrefix = "notebox-tmp-"
)

// Export writes s to w in the given format ("yaml", "yml" or "json").
func (l *Loader) Export(w io.Writer, s core.State, format string) error {
	serializer, ok := l.Serializer(format)
	if !ok {
		return fmt.Errorf("unknown export format %q", format)
	}
	return serializer.Encode(w, s)
}

// WriteFile writes s to filename atomically. The format follows the
// file extension.
func (l *Loader) WriteFile(filename string, s core.State) error {
	var buf bytes.Buffer
	if err := l.Export(&buf, s, strings.TrimPrefix(filepath.Ext(filename), ".")); err != nil {
		return err
	}
	return writeFileAtomic(filename, buf.Bytes(), 0644)
}

// WriteDir writes s as a Markdown fixture directory that Load reads back.
// Notes already in dir that s no longer holds are removed; other files
// are left alone.
func (l *Loader) WriteDir(dir string, s core.State) error {
	for _, n := range s.Notes {
		if strings.HasPrefix(n.ID, TrashDir+"/") {
			return fmt.Errorf("live note id %q would be read back as trashed", n.ID)
		}
	}

	if err := os.MkdirAll(filepath.Join(dir, TrashDir), 0755); err != nil {
		return fmt.Errorf("failed to create fixture directory: %w", err)
	}

	if err := writeYAML(filepath.Join(dir, colorsFile), s.Colors); err != nil {
		return err
	}
	if err := writeYAML(filepath.Join(dir, labelsFile), s.Labels); err != nil {
		return err
	}

	written := make(map[string]bool, len(s.Notes)+len(s.Trash))
	for _, group := range []struct {
		base  string
		notes []core.Note
	}{{"", s.Notes}, {TrashDir, s.Trash}} {
		for _, n := range group.notes {
			rel, err := writeNote(dir, group.base, n)
			if err != nil {
				return err
			}
			written[rel] = true
		}
	}

	return removeStale(dir, written)
}

// removeStale deletes the notes of the fixture at dir that are not in keep.
func removeStale(dir string, keep map[string]bool) error {
	matches, err := doublestar.Glob(os.DirFS(dir), NotePattern)
	if err != nil {
		return fmt.Errorf("glob notes: %w", err)
	}
	for _, rel := range matches {
		if keep[rel] {
			continue
		}
		if err := os.Remove(filepath.Join(dir, filepath.FromSlash(rel))); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove stale note %s: %w", rel, err)
		}
	}
	return nil
}

// writeNote writes n under dir/base and returns its slash separated path
// relative to dir.
func writeNote(dir, base string, n core.Note) (string, error) {
	if n.ID == "" || strings.Contains(n.ID, "..") {
		return "", fmt.Errorf("note id %q cannot be used as a file name", n.ID)
	}

	data, err := FormatNote(n)
	if err != nil {
		return "", fmt.Errorf("format note %s: %w", n.ID, err)
	}

	rel := path.Join(base, n.ID+".md")
	filename := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return "", err
	}
	return rel, writeFileAtomic(filename, data, 0644)
}

func writeYAML(filename string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	return writeFileAtomic(filename, data, 0644)
}

// writeFileAtomic writes data to a file atomically by writing to a temp file
// and then renaming it to the target filename.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)

	tmpFile, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpFile.Name(), perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}

	return nil
}
