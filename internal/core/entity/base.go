// Package entity holds the contracts shared by every backend-owned record the
// admin screens display and mutate.
package entity

import (
	"context"
	"time"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks client-side invariants only (required fields, formats,
// date ranges); the backend remains the authority.
type Validatable interface {
	// Validate returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Identifiable exposes the backend primary key.
type Identifiable interface {
	GetID() int64
}

// Entity is a backend record that can be listed, validated and reconciled by id.
type Entity interface {
	Validatable
	Identifiable
}

// Base contains the columns every backend resource returns.
type Base struct {
	// ID is the backend primary key (0 until created)
	ID int64 `json:"id,omitempty"`

	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// GetID implements Identifiable.
func (b Base) GetID() int64 {
	return b.ID
}

// IsNew reports whether the record has not been created on the backend yet.
func (b Base) IsNew() bool {
	return b.ID == 0
}
