// Package seed loads the initial collections of a store from fixtures on
// disk and writes snapshots back out for inspection.
//
// A fixture is either a single YAML/JSON file holding notes, trash, colors
// and labels, or a directory of Markdown notes:
//
//	fixture/
//	  colors.yaml      # optional, list of colors
//	  labels.yaml      # optional, list of {id, text}
//	  groceries.md     # live note, id defaults to the path without .md
//	  work/standup.md
//	  trash/old.md     # trashed note
package seed

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/notebox/pkg/core"
)

const (
	// TrashDir is the directory of a Markdown fixture that holds trashed notes.
	TrashDir = "trash"
	// NotePattern selects the Markdown notes of a fixture directory.
	NotePattern = "**/*.md"

	labelsFile = "labels.yaml"
	colorsFile = "colors.yaml"
)

// Loader reads fixtures. The zero value is not usable; use NewLoader.
type Loader struct {
	serializers map[string]Serializer
	logger      *slog.Logger
}

// NewLoader creates a loader with the default serializers.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{
		serializers: DefaultSerializers(),
		logger:      logger,
	}
}

// RegisterSerializer adds or replaces the serializer for ext (e.g. ".toml").
func (l *Loader) RegisterSerializer(ext string, s Serializer) {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	l.serializers[strings.ToLower(ext)] = s
}

// Serializer returns the serializer registered for ext.
func (l *Loader) Serializer(ext string) (Serializer, bool) {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	s, ok := l.serializers[strings.ToLower(ext)]
	return s, ok
}

// Load reads the fixture at p, a file or a Markdown directory.
func Load(p string) (core.State, error) {
	return NewLoader(nil).Load(p)
}

// Load reads the fixture at p, a file or a Markdown directory, and checks
// the seed invariants.
func (l *Loader) Load(p string) (core.State, error) {
	info, err := os.Stat(p)
	if err != nil {
		return core.State{}, fmt.Errorf("seed %s: %w", p, err)
	}

	var s core.State
	if info.IsDir() {
		s, err = l.loadDir(os.DirFS(p))
	} else {
		s, err = l.loadFile(p)
	}
	if err != nil {
		return core.State{}, fmt.Errorf("seed %s: %w", p, err)
	}

	if err := s.Validate(); err != nil {
		return core.State{}, fmt.Errorf("seed %s: %w", p, err)
	}

	l.logger.Debug("seed loaded", "path", p, "notes", len(s.Notes), "trash", len(s.Trash), "labels", len(s.Labels))
	return s, nil
}

func (l *Loader) loadFile(p string) (core.State, error) {
	ext := strings.ToLower(filepath.Ext(p))
	serializer, ok := l.serializers[ext]
	if !ok {
		return core.State{}, fmt.Errorf("no serializer for extension %q", ext)
	}

	f, err := os.Open(p)
	if err != nil {
		return core.State{}, err
	}
	defer f.Close()

	return serializer.Decode(f)
}

func (l *Loader) loadDir(fsys fs.FS) (core.State, error) {
	var s core.State

	if err := readYAML(fsys, colorsFile, &s.Colors); err != nil {
		return core.State{}, err
	}
	if err := readYAML(fsys, labelsFile, &s.Labels); err != nil {
		return core.State{}, err
	}

	matches, err := doublestar.Glob(fsys, NotePattern)
	if err != nil {
		return core.State{}, fmt.Errorf("glob notes: %w", err)
	}
	slices.Sort(matches)

	for _, rel := range matches {
		trashed := strings.HasPrefix(rel, TrashDir+"/")
		id := strings.TrimSuffix(rel, path.Ext(rel))
		if trashed {
			id = strings.TrimPrefix(id, TrashDir+"/")
		}

		n, err := parseFile(fsys, rel, id)
		if err != nil {
			return core.State{}, err
		}

		if trashed {
			s.Trash = append(s.Trash, n)
		} else {
			s.Notes = append(s.Notes, n)
		}
	}

	return s, nil
}

func parseFile(fsys fs.FS, rel, id string) (core.Note, error) {
	f, err := fsys.Open(rel)
	if err != nil {
		return core.Note{}, err
	}
	defer f.Close()

	n, err := ParseNote(f, id)
	if err != nil {
		return core.Note{}, fmt.Errorf("%s: %w", rel, err)
	}
	return n, nil
}

// readYAML decodes an optional YAML file of the fixture into v.
func readYAML(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
