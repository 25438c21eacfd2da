// Package id generates the opaque identifiers the BFF owns itself: draft ids,
// request ids and trace ids. Backend records keep their numeric keys.
//
// UUIDv7 is time-ordered, so drafts listed by id come out oldest first.
package id

import (
	"github.com/google/uuid"
)

// New returns a new UUIDv7 in its canonical string form.
func New() string {
	v, err := uuid.NewV7()
	if err != nil {
		// Fallback to V4 if V7 fails (should never happen)
		return uuid.NewString()
	}
	return v.String()
}

