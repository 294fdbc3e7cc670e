// Package id generates entity identifiers. UUIDv7 keeps ids time-ordered,
// so primary keys sort by creation time and index locality stays good.
package id

import (
	"github.com/google/uuid"
)

// ID is the identifier type shared by all entities.
type ID = uuid.UUID

// New returns a fresh UUIDv7.
func New() ID {
	v7, err := uuid.NewV7()
	if err != nil {
		// V7 only fails if the entropy source does; fall back to V4
		return uuid.New()
	}
	return v7
}

// Parse validates and converts a string id.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// Nil returns the zero id.
func Nil() ID {
	return uuid.Nil
}

// IsNil reports whether the id is the zero value.
func IsNil(entityID ID) bool {
	return entityID == uuid.Nil
}
