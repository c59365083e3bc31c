// Package lifecycle bridges store events into the lifecycle runtime so they
// can be consumed next to signals and other event sources.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/notebox/pkg/core"
)

// NewSource creates a lifecycle.Source that re-emits store events in order.
// The source stops when events is closed or the context passed to Start is
// done, and closes its own channel on the way out.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &storeSource{
		in:  events,
		out: make(chan lifecycle.Event),
	}
}

type storeSource struct {
	in  <-chan core.Event
	out chan lifecycle.Event
}

func (s *storeSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *storeSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, s.forward)
	return nil
}

// forward holds at most one event. While it is pending the input is not
// read; once it is delivered the output is disabled again.
func (s *storeSource) forward(ctx context.Context) error {
	defer close(s.out)

	var (
		in      = s.in
		out     chan<- lifecycle.Event
		pending lifecycle.Event
	)
	for in != nil || out != nil {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			pending, in, out = e, nil, s.out
		case out <- pending:
			pending, in, out = nil, s.in, nil
		}
	}
	return nil
}
