package core

import "github.com/google/uuid"

// IDGenerator produces identifiers for new notes and labels.
type IDGenerator interface {
	NewID() string
}

// IDFunc adapts a plain function to IDGenerator.
type IDFunc func() string

// NewID implements IDGenerator.
func (f IDFunc) NewID() string { return f() }

// UUIDGenerator issues UUIDv7 identifiers: a millisecond timestamp followed
// by random bits, so ids sort by creation time. Collisions need two ids in
// the same millisecond sharing 74 random bits.
type UUIDGenerator struct{}

// NewID implements IDGenerator.
func (UUIDGenerator) NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
