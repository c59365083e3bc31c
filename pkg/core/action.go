package core

// ActionKind names a state transition.
type ActionKind string

const (
	ActionAddNote     ActionKind = "ADD_NOTE"
	ActionEditNote    ActionKind = "EDIT_NOTE"
	ActionDeleteNote  ActionKind = "DELETE_NOTE"
	ActionRestoreNote ActionKind = "RESTORE_NOTE"
	ActionTrashNote   ActionKind = "TRASH_NOTE"
	ActionPurgeNote   ActionKind = "PURGE_NOTE"
	ActionAddLabel    ActionKind = "ADD_LABEL"
	ActionUpdateLabel ActionKind = "UPDATE_LABEL"
	ActionDeleteLabel ActionKind = "DELETE_LABEL"
)

// Action is the input of Reduce. Only the fields relevant to Kind are read.
type Action struct {
	Kind ActionKind

	// ID is the target note or label. For ADD_NOTE and ADD_LABEL it is the
	// identifier of the entity being created.
	ID string

	// Draft is the ADD_NOTE payload.
	Draft NoteDraft

	// Note is the full RESTORE_NOTE payload, supplied by the caller.
	Note Note

	// Patch is the EDIT_NOTE payload.
	Patch NotePatch

	// Text is the ADD_LABEL and UPDATE_LABEL payload.
	Text string

	// Cascade makes DELETE_LABEL strip the label id from every note.
	Cascade bool
}

// TargetID returns the identifier of the entity the action touches.
func (a Action) TargetID() string {
	if a.Kind == ActionRestoreNote {
		return a.Note.ID
	}
	return a.ID
}

func (a Action) eventType() EventType {
	switch a.Kind {
	case ActionAddNote, ActionAddLabel:
		return EventCreate
	case ActionEditNote, ActionUpdateLabel:
		return EventModify
	case ActionDeleteNote, ActionTrashNote:
		return EventTrash
	case ActionRestoreNote:
		return EventRestore
	default:
		return EventDelete
	}
}

// Known reports whether Reduce has a branch for the kind.
func (k ActionKind) Known() bool {
	switch k {
	case ActionAddNote, ActionEditNote, ActionDeleteNote, ActionRestoreNote, ActionTrashNote,
		ActionPurgeNote, ActionAddLabel, ActionUpdateLabel, ActionDeleteLabel:
		return true
	}
	return false
}
