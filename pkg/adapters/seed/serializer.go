package seed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/notebox/pkg/core"
)

// Serializer defines how to read and write a whole snapshot in one format.
type Serializer interface {
	// Decode reads a snapshot from r.
	Decode(r io.Reader) (core.State, error)
	// Encode writes s to w.
	Encode(w io.Writer, s core.State) error
}

// DefaultSerializers returns the standard set of serializers keyed by
// file extension.
func DefaultSerializers() map[string]Serializer {
	return map[string]Serializer{
		".json": JSONSerializer{},
		".yaml": YAMLSerializer{},
		".yml":  YAMLSerializer{},
	}
}

// --- JSON Serializer ---

// JSONSerializer handles JSON seed files.
type JSONSerializer struct{}

func (JSONSerializer) Decode(r io.Reader) (core.State, error) {
	var s core.State
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return core.State{}, fmt.Errorf("invalid json: %w", err)
	}
	return s, nil
}

func (JSONSerializer) Encode(w io.Writer, s core.State) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// --- YAML Serializer ---

// YAMLSerializer handles YAML seed files.
type YAMLSerializer struct{}

func (YAMLSerializer) Decode(r io.Reader) (core.State, error) {
	var s core.State
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return core.State{}, nil
		}
		return core.State{}, fmt.Errorf("invalid yaml: %w", err)
	}
	return s, nil
}

func (YAMLSerializer) Encode(w io.Writer, s core.State) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

// --- Markdown notes ---

// frontmatter is the YAML header of a Markdown note.
type frontmatter struct {
	ID         string    `yaml:"id,omitempty"`
	Colors     []string  `yaml:"colors,omitempty"`
	Labels     []string  `yaml:"labels,omitempty"`
	UpdatedAt  time.Time `yaml:"updated_at,omitempty"`
	Bookmarked bool      `yaml:"bookmarked,omitempty"`
}

// ParseNote reads a Markdown note with optional YAML frontmatter.
// defaultID is used when the frontmatter carries no id.
func ParseNote(r io.Reader, defaultID string) (core.Note, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return core.Note{}, err
	}

	n := core.Note{ID: defaultID}

	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		n.Content = string(data)
		return n, nil
	}

	rest := data[3:]
	parts := bytes.SplitN(rest, []byte("\n---"), 2)
	if len(parts) == 1 {
		return core.Note{}, errors.New("frontmatter started but no closing delimiter found")
	}

	var fm frontmatter
	if err := yaml.Unmarshal(parts[0], &fm); err != nil {
		return core.Note{}, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	content := strings.TrimPrefix(string(parts[1]), "\r")
	content = strings.TrimPrefix(content, "\n")

	if fm.ID != "" {
		n.ID = fm.ID
	}
	n.Colors = fm.Colors
	n.Labels = fm.Labels
	n.UpdatedAt = fm.UpdatedAt
	n.IsBookmarked = fm.Bookmarked
	n.Content = content
	return n, nil
}

// FormatNote renders n as Markdown with a YAML frontmatter header.
func FormatNote(n core.Note) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(frontmatter{
		ID:         n.ID,
		Colors:     n.Colors,
		Labels:     n.Labels,
		UpdatedAt:  n.UpdatedAt,
		Bookmarked: n.IsBookmarked,
	}); err != nil {
		return nil, err
	}
	encoder.Close()
	buf.WriteString("---\n")
	buf.WriteString(n.Content)
	return buf.Bytes(), nil
}
