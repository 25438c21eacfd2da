// Package accommodation provides aparts, rooms and beds, and the cascading
// selection that narrows a registration down to a single bed.
package accommodation

import (
	"context"
	"strings"

	"dormdesk/internal/core/apperror"
	"dormdesk/internal/core/entity"
)

// Room statuses.
const (
	RoomActive   = "active"
	RoomInactive = "inactive"
)

// Bed statuses.
const (
	BedAvailable   = "available"
	BedOccupied    = "occupied"
	BedMaintenance = "maintenance"
)

// Apart is an apartment building or unit.
type Apart struct {
	entity.Base

	Name     string  `json:"name"`
	Address  *string `json:"address,omitempty"`
	Gender   *string `json:"gender,omitempty"`
	IsActive bool    `json:"is_active"`
}

// Validate implements entity.Validatable interface.
func (a *Apart) Validate(ctx context.Context) error {
	if strings.TrimSpace(a.Name) == "" {
		return apperror.NewFieldValidation("apart is invalid", map[string][]string{
			"name": {"name is required"},
		})
	}
	return nil
}

// Room belongs to an apart.
type Room struct {
	entity.Base

	ApartID    int64  `json:"apart_id"`
	RoomNumber string `json:"room_number"`
	Floor      *int   `json:"floor,omitempty"`
	Capacity   int    `json:"capacity"`
	Status     string `json:"status"`
}

// Validate implements entity.Validatable interface.
func (r *Room) Validate(ctx context.Context) error {
	fields := map[string][]string{}
	if r.ApartID == 0 {
		fields["apart_id"] = []string{"apart is required"}
	}
	if strings.TrimSpace(r.RoomNumber) == "" {
		fields["room_number"] = []string{"room number is required"}
	}
	if r.Capacity < 0 {
		fields["capacity"] = []string{"capacity cannot be negative"}
	}
	switch r.Status {
	case "", RoomActive, RoomInactive:
	default:
		fields["status"] = []string{"status must be active or inactive"}
	}
	if len(fields) > 0 {
		return apperror.NewFieldValidation("room is invalid", fields)
	}
	return nil
}

// Bed belongs to a room.
type Bed struct {
	entity.Base

	RoomID    int64  `json:"room_id"`
	BedNumber string `json:"bed_number"`
	Status    string `json:"status"`

	// Room is embedded by the detail endpoint
	Room *Room `json:"room,omitempty"`
}

// Validate implements entity.Validatable interface.
func (b *Bed) Validate(ctx context.Context) error {
	fields := map[string][]string{}
	if b.RoomID == 0 {
		fields["room_id"] = []string{"room is required"}
	}
	if strings.TrimSpace(b.BedNumber) == "" {
		fields["bed_number"] = []string{"bed number is required"}
	}
	switch b.Status {
	case "", BedAvailable, BedOccupied, BedMaintenance:
	default:
		fields["status"] = []string{"status must be available, occupied or maintenance"}
	}
	if len(fields) > 0 {
		return apperror.NewFieldValidation("bed is invalid", fields)
	}
	return nil
}
