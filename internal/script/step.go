// Package script replays a list of store operations read from YAML.
//
//	- op: add_label
//	  ref: work
//	  text: work
//	- op: add_note
//	  ref: first
//	  content: hello
//	  labels: [$work]
//	- op: trash_note
//	  id: $first
//
// A step with a ref records the id of the entity it creates; later steps
// refer to it as $ref in id and labels.
package script

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownOp  = errors.New("unknown op")
	ErrUnknownRef = errors.New("unknown ref")
)

// Op names a store operation.
type Op string

const (
	OpAddNote     Op = "add_note"
	OpEditNote    Op = "edit_note"
	OpTrashNote   Op = "trash_note"
	OpDeleteNote  Op = "delete_note"
	OpRestoreNote Op = "restore_note"
	OpPurgeNote   Op = "purge_note"
	OpAddLabel    Op = "add_label"
	OpUpdateLabel Op = "update_label"
	OpDeleteLabel Op = "delete_label"
)

var knownOps = map[Op]bool{
	OpAddNote: true, OpEditNote: true, OpTrashNote: true, OpDeleteNote: true,
	OpRestoreNote: true, OpPurgeNote: true,
	OpAddLabel: true, OpUpdateLabel: true, OpDeleteLabel: true,
}

// Step is one operation of a script. Nil pointer fields are left untouched
// by edits and restores.
type Step struct {
	Op         Op         `yaml:"op"`
	Ref        string     `yaml:"ref,omitempty"`
	ID         string     `yaml:"id,omitempty"`
	Content    *string    `yaml:"content,omitempty"`
	Colors     *[]string  `yaml:"colors,omitempty"`
	Labels     *[]string  `yaml:"labels,omitempty"`
	UpdatedAt  *time.Time `yaml:"updated_at,omitempty"`
	Bookmarked *bool      `yaml:"bookmarked,omitempty"`
	Text       string     `yaml:"text,omitempty"`
}

func (s Step) validate() error {
	if !knownOps[s.Op] {
		return fmt.Errorf("%w %q", ErrUnknownOp, s.Op)
	}
	return nil
}

// Outcome reports the result of one step.
type Outcome struct {
	Step int    `json:"step"`
	Op   Op     `json:"op"`
	ID   string `json:"id,omitempty"`
	Err  error  `json:"-"`
}

func (o Outcome) String() string {
	if o.Err != nil {
		return fmt.Sprintf("#%d %s: error: %v", o.Step, o.Op, o.Err)
	}
	return fmt.Sprintf("#%d %s: %s", o.Step, o.Op, o.ID)
}
