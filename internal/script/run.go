package script

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/notebox/pkg/core"
)

// Runner applies steps to a store.
type Runner struct {
	Store  *core.Store
	Logger *slog.Logger
	// Now stamps added notes and edits that carry no updated_at.
	Now func() time.Time
}

// Run applies steps to store with a default Runner.
func Run(ctx context.Context, store *core.Store, steps []Step) []Outcome {
	return Runner{Store: store}.Run(ctx, steps)
}

// Run applies every step in order and returns one outcome per step.
// A failing step does not stop the run.
func (r Runner) Run(ctx context.Context, steps []Step) []Outcome {
	if r.Logger == nil {
		r.Logger = slog.New(slog.DiscardHandler)
	}
	if r.Now == nil {
		r.Now = time.Now
	}

	refs := make(map[string]string)
	outcomes := make([]Outcome, 0, len(steps))
	for i, step := range steps {
		id, err := r.apply(ctx, refs, step)
		if err == nil && step.Ref != "" {
			refs[step.Ref] = id
		}
		if err != nil {
			r.Logger.Warn("step failed", "step", i, "op", step.Op, "error", err)
		}
		outcomes = append(outcomes, Outcome{Step: i, Op: step.Op, ID: id, Err: err})
	}
	return outcomes
}

func (r Runner) apply(ctx context.Context, refs map[string]string, step Step) (string, error) {
	if err := step.validate(); err != nil {
		return "", err
	}

	id, err := resolve(refs, step.ID)
	if err != nil {
		return "", err
	}
	patch, err := r.patch(refs, step)
	if err != nil {
		return "", err
	}

	switch step.Op {
	case OpAddNote:
		n, err := r.Store.AddNote(ctx, draft(patch.Apply(core.Note{})))
		return n.ID, err
	case OpEditNote:
		if !patch.IsEmpty() && patch.UpdatedAt == nil {
			now := r.Now()
			patch.UpdatedAt = &now
		}
		n, err := r.Store.EditNote(ctx, id, patch)
		return n.ID, err
	case OpTrashNote:
		n, err := r.Store.TrashNote(ctx, id)
		return n.ID, err
	case OpDeleteNote:
		n, err := r.Store.DeleteNote(ctx, id)
		return n.ID, err
	case OpRestoreNote:
		trashed, ok := r.Store.State().FindTrashed(id)
		if !ok {
			n, err := r.Store.RestoreNoteByID(ctx, id)
			return n.ID, err
		}
		n, err := r.Store.RestoreNote(ctx, patch.Apply(trashed))
		return n.ID, err
	case OpPurgeNote:
		n, err := r.Store.PurgeNote(ctx, id)
		return n.ID, err
	case OpAddLabel:
		l, err := r.Store.AddLabel(ctx, step.Text)
		return l.ID, err
	case OpUpdateLabel:
		l, err := r.Store.UpdateLabel(ctx, id, step.Text)
		return l.ID, err
	case OpDeleteLabel:
		l, err := r.Store.DeleteLabel(ctx, id)
		return l.ID, err
	}
	return "", fmt.Errorf("%w %q", ErrUnknownOp, step.Op)
}

// patch collects the note fields of step. Added notes are stamped with
// Now when no updated_at is given.
func (r Runner) patch(refs map[string]string, step Step) (core.NotePatch, error) {
	p := core.NotePatch{
		Colors:       step.Colors,
		Content:      step.Content,
		UpdatedAt:    step.UpdatedAt,
		IsBookmarked: step.Bookmarked,
	}
	if step.Labels != nil {
		labels := make([]string, len(*step.Labels))
		for i, l := range *step.Labels {
			id, err := resolve(refs, l)
			if err != nil {
				return core.NotePatch{}, err
			}
			labels[i] = id
		}
		p.Labels = &labels
	}
	if step.Op == OpAddNote && p.UpdatedAt == nil {
		now := r.Now()
		p.UpdatedAt = &now
	}
	return p, nil
}

func draft(n core.Note) core.NoteDraft {
	return core.NoteDraft{
		Colors:       n.Colors,
		Labels:       n.Labels,
		Content:      n.Content,
		UpdatedAt:    n.UpdatedAt,
		IsBookmarked: n.IsBookmarked,
	}
}

// resolve maps $ref to the id recorded for ref. Other values are returned as is.
func resolve(refs map[string]string, v string) (string, error) {
	name, ok := strings.CutPrefix(v, "$")
	if !ok {
		return v, nil
	}
	id, ok := refs[name]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownRef, name)
	}
	return id, nil
}
