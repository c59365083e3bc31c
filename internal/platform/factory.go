package platform

import (
	"github.com/aretw0/notebox/pkg/core"
)

// New builds a store from opts.
//
//	store, err := notebox.New(notebox.WithSeedFile("fixtures/notes"), notebox.WithLabelCascade(true))
func New(opts ...Option) (*core.Store, error) {
	initial, cfg, err := Init(opts...)
	if err != nil {
		return nil, err
	}

	store, err := core.NewStore(initial, cfg)
	if err != nil {
		return nil, err
	}

	cfg.Logger.Debug("store ready",
		"notes", len(initial.Notes),
		"trash", len(initial.Trash),
		"labels", len(initial.Labels),
		"read_only", cfg.ReadOnly,
	)
	return store, nil
}
