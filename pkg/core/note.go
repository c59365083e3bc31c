package core

import (
	"slices"
	"time"
)

// Color is a static color tag offered to notes. The store never mutates colors.
type Color string

// Note is the central entity of the domain.
// Colors holds color tags, Labels holds label identifiers.
type Note struct {
	ID           string    `json:"id" yaml:"id"`
	Colors       []string  `json:"colors" yaml:"colors"`
	Labels       []string  `json:"labels" yaml:"labels"`
	Content      string    `json:"content" yaml:"content"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"updated_at"`
	IsBookmarked bool      `json:"is_bookmarked" yaml:"is_bookmarked"`
}

// Clone returns a copy of the note that shares no slices with n.
func (n Note) Clone() Note {
	n.Colors = slices.Clone(n.Colors)
	n.Labels = slices.Clone(n.Labels)
	return n
}

// HasLabel reports whether the note references the label id.
func (n Note) HasLabel(id string) bool {
	return slices.Contains(n.Labels, id)
}

// NoteDraft carries the fields of a note about to be created.
// The identifier is assigned by the store.
type NoteDraft struct {
	Colors       []string
	Labels       []string
	Content      string
	UpdatedAt    time.Time
	IsBookmarked bool
}

// NotePatch is a partial update. Nil fields are left untouched.
type NotePatch struct {
	Colors       *[]string
	Labels       *[]string
	Content      *string
	UpdatedAt    *time.Time
	IsBookmarked *bool
}

// IsEmpty reports whether the patch carries no field at all.
func (p NotePatch) IsEmpty() bool {
	return p.Colors == nil && p.Labels == nil && p.Content == nil && p.UpdatedAt == nil && p.IsBookmarked == nil
}

// Apply returns n with the fields present in p replaced.
func (p NotePatch) Apply(n Note) Note {
	n = n.Clone()
	if p.Colors != nil {
		n.Colors = slices.Clone(*p.Colors)
	}
	if p.Labels != nil {
		n.Labels = slices.Clone(*p.Labels)
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.UpdatedAt != nil {
		n.UpdatedAt = *p.UpdatedAt
	}
	if p.IsBookmarked != nil {
		n.IsBookmarked = *p.IsBookmarked
	}
	return n
}

// Label is a user defined tag that notes reference by identifier.
type Label struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
}
