package notebox

import (
	"log/slog"
	"time"

	"github.com/aretw0/notebox/internal/platform"
	"github.com/aretw0/notebox/pkg/adapters/seed"
	"github.com/aretw0/notebox/pkg/core"
)

// --- Types ---

// Store is the note store. See core.Store.
type Store = core.Store

// State is an immutable snapshot of the collections.
type State = core.State

// Note is a public alias for the note entity.
type Note = core.Note

// Label is a public alias for the label entity.
type Label = core.Label

// --- Configuration ---

// Option defines a functional option for configuring a store.
type Option = platform.Option

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithSeed sets the initial collections.
func WithSeed(s State) Option {
	return platform.WithSeed(s)
}

// WithSeedFile loads the initial collections from a fixture.
func WithSeedFile(path string) Option {
	return platform.WithSeedFile(path)
}

// WithIDGenerator replaces the default UUIDv7 generator.
func WithIDGenerator(ids core.IDGenerator) Option {
	return platform.WithIDGenerator(ids)
}

// WithClock sets the time source used to stamp events.
func WithClock(clock func() time.Time) Option {
	return platform.WithClock(clock)
}

// WithEventBuffer allows specifying the size of each watcher buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithReadOnly makes every mutation fail with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithLabelCascade makes label deletion strip the label from every note.
func WithLabelCascade(enabled bool) Option {
	return platform.WithLabelCascade(enabled)
}

// WithSerializer registers a custom seed serializer for a specific extension.
func WithSerializer(ext string, s seed.Serializer) Option {
	return platform.WithSerializer(ext, s)
}

// --- Factory ---

// New creates a store.
func New(opts ...Option) (*Store, error) {
	return platform.New(opts...)
}

// Open creates a store seeded from the fixture at path.
func Open(path string, opts ...Option) (*Store, error) {
	return platform.New(append(opts, platform.WithSeedFile(path))...)
}

// --- Utils ---

// FindSeed recursively looks upwards for a seed fixture.
func FindSeed(startDir string) (string, error) {
	return platform.FindSeed(startDir)
}
