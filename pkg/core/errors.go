package core

import "errors"

// Common errors.
var (
	ErrReadOnly       = errors.New("store is in read-only mode")
	ErrNoteNotFound   = errors.New("note not found")
	ErrLabelNotFound  = errors.New("label not found")
	ErrDuplicateID    = errors.New("duplicate id")
	ErrMissingID      = errors.New("action has no id")
	ErrInvalidPattern = errors.New("invalid watch pattern")
)
