package platform

import (
	"errors"
	"log/slog"

	"github.com/aretw0/notebox/pkg/adapters/seed"
	"github.com/aretw0/notebox/pkg/core"
)

// ErrConflictingSeed is returned when both an inline seed and a seed file are given.
var ErrConflictingSeed = errors.New("both a seed and a seed file were given")

// Init resolves opts into the initial collections and the store configuration.
func Init(opts ...Option) (core.State, core.Config, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cfg := core.Config{
		Logger:       logger,
		IDs:          o.ids,
		Clock:        o.clock,
		EventBuffer:  o.eventBuffer,
		ReadOnly:     o.readOnly,
		LabelCascade: o.labelCascade,
	}

	switch {
	case o.seed != nil && o.seedFile != "":
		return core.State{}, core.Config{}, ErrConflictingSeed
	case o.seed != nil:
		return *o.seed, cfg, nil
	case o.seedFile != "":
		s, err := Loader(opts...).Load(o.seedFile)
		if err != nil {
			return core.State{}, core.Config{}, err
		}
		return s, cfg, nil
	}
	return core.State{}, cfg, nil
}

// Loader returns a seed loader with the serializers registered through opts.
func Loader(opts ...Option) *seed.Loader {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	loader := seed.NewLoader(o.logger)
	for ext, s := range o.serializers {
		loader.RegisterSerializer(ext, s)
	}
	return loader
}
