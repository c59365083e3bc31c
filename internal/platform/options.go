package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/notebox/pkg/adapters/seed"
	"github.com/aretw0/notebox/pkg/core"
)

// options holds the internal configuration for a notebox store.
type options struct {
	logger       *slog.Logger
	seed         *core.State
	seedFile     string
	ids          core.IDGenerator
	clock        func() time.Time
	eventBuffer  int
	readOnly     bool
	labelCascade bool
	serializers  map[string]seed.Serializer
}

// Option defines a functional option for configuring a store.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		serializers: make(map[string]seed.Serializer),
	}
}

// WithLogger sets the logger for the store and the seed loader.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSeed sets the initial collections. The store keeps its own copy.
func WithSeed(s core.State) Option {
	return func(o *options) {
		o.seed = &s
	}
}

// WithSeedFile loads the initial collections from a fixture file or a
// Markdown directory. It cannot be combined with WithSeed.
func WithSeedFile(path string) Option {
	return func(o *options) {
		o.seedFile = path
	}
}

// WithIDGenerator replaces the default UUIDv7 generator.
func WithIDGenerator(ids core.IDGenerator) Option {
	return func(o *options) {
		o.ids = ids
	}
}

// WithClock sets the time source used to stamp events.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithEventBuffer allows specifying the size of each watcher buffer.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.eventBuffer = size
	}
}

// WithReadOnly enables read-only mode.
// In this mode every mutation returns ErrReadOnly and reads keep working.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithLabelCascade makes label deletion strip the label from every note.
func WithLabelCascade(enabled bool) Option {
	return func(o *options) {
		o.labelCascade = enabled
	}
}

// WithSerializer registers a custom seed serializer for a specific extension.
func WithSerializer(ext string, s seed.Serializer) Option {
	return func(o *options) {
		o.serializers[ext] = s
	}
}
