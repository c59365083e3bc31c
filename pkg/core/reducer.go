package core

import (
	"fmt"
	"slices"
)

// Reduce applies a to s and returns the next snapshot.
//
// Reduce is pure: it never mutates s and builds fresh slices for every
// collection it changes. When a fails (unknown id, duplicate id) the
// returned state is s itself together with the error. Unknown kinds pass
// s through unchanged and return no error.
func Reduce(s State, a Action) (State, error) {
	var (
		next State
		err  error
	)

	switch a.Kind {
	case ActionAddNote:
		next, err = addNote(s, a)
	case ActionEditNote:
		next, err = editNote(s, a)
	case ActionDeleteNote, ActionTrashNote:
		next, err = trashNote(s, a.ID)
	case ActionRestoreNote:
		next, err = restoreNote(s, a.Note)
	case ActionPurgeNote:
		next, err = purgeNote(s, a.ID)
	case ActionAddLabel:
		next, err = addLabel(s, a)
	case ActionUpdateLabel:
		next, err = updateLabel(s, a)
	case ActionDeleteLabel:
		next, err = deleteLabel(s, a)
	default:
		return s, nil
	}

	if err != nil {
		return s, err
	}
	next.Version = s.Version + 1
	return next, nil
}

func addNote(s State, a Action) (State, error) {
	if a.ID == "" {
		return s, fmt.Errorf("%s: %w", a.Kind, ErrMissingID)
	}
	if s.hasNoteID(a.ID) {
		return s, fmt.Errorf("add note %q: %w", a.ID, ErrDuplicateID)
	}

	n := Note{
		ID:           a.ID,
		Colors:       slices.Clone(a.Draft.Colors),
		Labels:       slices.Clone(a.Draft.Labels),
		Content:      a.Draft.Content,
		UpdatedAt:    a.Draft.UpdatedAt,
		IsBookmarked: a.Draft.IsBookmarked,
	}

	next := s
	next.Notes = append(slices.Clip(s.Notes), n)
	return next, nil
}

func editNote(s State, a Action) (State, error) {
	i := slices.IndexFunc(s.Notes, func(n Note) bool { return n.ID == a.ID })
	if i < 0 {
		return s, fmt.Errorf("edit note %q: %w", a.ID, ErrNoteNotFound)
	}

	next := s
	next.Notes = slices.Clone(s.Notes)
	next.Notes[i] = a.Patch.Apply(s.Notes[i])
	return next, nil
}

func trashNote(s State, id string) (State, error) {
	i := slices.IndexFunc(s.Notes, func(n Note) bool { return n.ID == id })
	if i < 0 {
		return s, fmt.Errorf("trash note %q: %w", id, ErrNoteNotFound)
	}

	next := s
	next.Notes = slices.Delete(slices.Clone(s.Notes), i, i+1)
	next.Trash = append(slices.Clip(s.Trash), s.Notes[i])
	return next, nil
}

func restoreNote(s State, n Note) (State, error) {
	i := slices.IndexFunc(s.Trash, func(t Note) bool { return t.ID == n.ID })
	if i < 0 {
		return s, fmt.Errorf("restore note %q: %w", n.ID, ErrNoteNotFound)
	}

	next := s
	next.Trash = slices.Delete(slices.Clone(s.Trash), i, i+1)
	next.Notes = append(slices.Clip(s.Notes), n.Clone())
	return next, nil
}

func purgeNote(s State, id string) (State, error) {
	i := slices.IndexFunc(s.Trash, func(t Note) bool { return t.ID == id })
	if i < 0 {
		return s, fmt.Errorf("purge note %q: %w", id, ErrNoteNotFound)
	}

	next := s
	next.Trash = slices.Delete(slices.Clone(s.Trash), i, i+1)
	return next, nil
}

func addLabel(s State, a Action) (State, error) {
	if a.ID == "" {
		return s, fmt.Errorf("%s: %w", a.Kind, ErrMissingID)
	}
	if _, ok := s.FindLabel(a.ID); ok {
		return s, fmt.Errorf("add label %q: %w", a.ID, ErrDuplicateID)
	}

	next := s
	next.Labels = append(slices.Clip(s.Labels), Label{ID: a.ID, Text: a.Text})
	return next, nil
}

func updateLabel(s State, a Action) (State, error) {
	i := slices.IndexFunc(s.Labels, func(l Label) bool { return l.ID == a.ID })
	if i < 0 {
		return s, fmt.Errorf("update label %q: %w", a.ID, ErrLabelNotFound)
	}

	next := s
	next.Labels = slices.Clone(s.Labels)
	next.Labels[i].Text = a.Text
	return next, nil
}

func deleteLabel(s State, a Action) (State, error) {
	i := slices.IndexFunc(s.Labels, func(l Label) bool { return l.ID == a.ID })
	if i < 0 {
		return s, fmt.Errorf("delete label %q: %w", a.ID, ErrLabelNotFound)
	}

	next := s
	next.Labels = slices.Delete(slices.Clone(s.Labels), i, i+1)
	if a.Cascade {
		next.Notes = stripLabel(s.Notes, a.ID)
		next.Trash = stripLabel(s.Trash, a.ID)
	}
	return next, nil
}

// stripLabel returns notes without references to id. Untouched notes
// keep sharing their slices with the previous snapshot.
func stripLabel(notes []Note, id string) []Note {
	if !slices.ContainsFunc(notes, func(n Note) bool { return n.HasLabel(id) }) {
		return notes
	}
	out := slices.Clone(notes)
	for i, n := range out {
		if n.HasLabel(id) {
			out[i].Labels = slices.DeleteFunc(slices.Clone(n.Labels), func(l string) bool { return l == id })
		}
	}
	return out
}
