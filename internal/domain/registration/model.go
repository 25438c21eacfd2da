// Package registration provides the season-registration wizard: the draft that
// travels through its steps, product pricing, and the submission saga that
// turns a draft into backend records.
package registration

import (
	"context"
	"strings"

	"dormdesk/internal/core/apperror"
	"dormdesk/internal/core/entity"
	"dormdesk/internal/core/types"
)

// Person is the identity record a guest is built on.
type Person struct {
	entity.Base

	FirstName  string      `json:"first_name" validate:"required"`
	LastName   string      `json:"last_name" validate:"required"`
	NationalID *string     `json:"national_id,omitempty"`
	Email      *string     `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string     `json:"phone,omitempty"`
	BirthDate  *types.Date `json:"birth_date,omitempty"`
	Gender     *string     `json:"gender,omitempty" validate:"omitempty,oneof=male female"`
}

// Guest is a person staying (or about to stay) in a dorm.
type Guest struct {
	entity.Base

	PersonID   int64   `json:"person_id"`
	School     *string `json:"school,omitempty"`
	Department *string `json:"department,omitempty"`

	Person *Person `json:"person,omitempty"`
}

// Guardian is an emergency contact for a guest.
type Guardian struct {
	entity.Base

	GuestID      int64   `json:"guest_id"`
	FirstName    string  `json:"first_name" validate:"required"`
	LastName     string  `json:"last_name" validate:"required"`
	Phone        string  `json:"phone" validate:"required"`
	Relationship *string `json:"relationship,omitempty"`
}

// StudentInput is the "new student" form: a person, the guest profile and
// an optional guardian.
type StudentInput struct {
	Person     Person    `json:"person"`
	School     *string   `json:"school,omitempty"`
	Department *string   `json:"department,omitempty"`
	Guardian   *Guardian `json:"guardian,omitempty"`
}

// SeasonRegistration is a guest's booking of a bed for a season.
type SeasonRegistration struct {
	entity.Base

	GuestID       int64       `json:"guest_id"`
	ApartID       int64       `json:"apart_id"`
	RoomID        int64       `json:"room_id"`
	BedID         int64       `json:"bed_id"`
	SeasonCode    string      `json:"season_code"`
	CheckIn       types.Date  `json:"check_in"`
	CheckOut      types.Date  `json:"check_out"`
	DepositAmount types.Money `json:"deposit_amount"`
	TotalAmount   types.Money `json:"total_amount"`
	Notes         *string     `json:"notes,omitempty"`
	Status        string      `json:"status,omitempty"`
}

// Validate implements entity.Validatable interface.
func (r *SeasonRegistration) Validate(ctx context.Context) error {
	fields := map[string][]string{}
	if r.GuestID == 0 {
		fields["guest_id"] = []string{"guest is required"}
	}
	if r.ApartID == 0 || r.RoomID == 0 || r.BedID == 0 {
		fields["bed_id"] = []string{"select an apart, a room and a bed"}
	}
	if strings.TrimSpace(r.SeasonCode) == "" {
		fields["season_code"] = []string{"season is required"}
	}
	if !r.CheckIn.IsZero() && !r.CheckOut.IsZero() && !r.CheckOut.After(r.CheckIn) {
		fields["check_out"] = []string{"check-out must be after check-in"}
	}
	if r.DepositAmount.IsNegative() {
		fields["deposit_amount"] = []string{"deposit cannot be negative"}
	}
	if len(fields) > 0 {
		return apperror.NewFieldValidation("registration is invalid", fields)
	}
	return nil
}

// ProductLine is a product chosen for the registration.
type ProductLine struct {
	ProductID   int64       `json:"product_id"`
	ProductName string      `json:"product_name,omitempty"`
	Quantity    int         `json:"quantity"`
	UnitPrice   types.Money `json:"unit_price"`
}

// Subtotal returns quantity × unit price.
func (l ProductLine) Subtotal() types.Money {
	return l.UnitPrice.Mul(types.NewMoneyFromInt(int64(l.Quantity)))
}
