// Package season provides the Season catalog: named date ranges that prices and
// registrations are keyed by.
package season

import (
	"context"
	"regexp"

	"dormdesk/internal/core/apperror"
	"dormdesk/internal/core/entity"
	"dormdesk/internal/core/types"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9_-]{2,20}$`)

// Season is a bookable period, e.g. "2025-FALL".
type Season struct {
	entity.Base

	// Code is the business key prices and registrations refer to
	Code string `json:"code"`

	Name      string     `json:"name"`
	StartDate types.Date `json:"start_date"`
	EndDate   types.Date `json:"end_date"`
	IsActive  bool       `json:"is_active"`
}

// Validate implements entity.Validatable interface.
func (s *Season) Validate(ctx context.Context) error {
	fields := map[string][]string{}

	if !codePattern.MatchString(s.Code) {
		fields["code"] = append(fields["code"], "code must be 2-20 characters of A-Z, 0-9, _ or -")
	}
	if s.Name == "" {
		fields["name"] = append(fields["name"], "name is required")
	}
	if s.StartDate.IsZero() {
		fields["start_date"] = append(fields["start_date"], "start date is required")
	}
	if s.EndDate.IsZero() {
		fields["end_date"] = append(fields["end_date"], "end date is required")
	}
	if !s.StartDate.IsZero() && !s.EndDate.IsZero() && !s.EndDate.After(s.StartDate) {
		fields["end_date"] = append(fields["end_date"], "end date must be after start date")
	}

	if len(fields) > 0 {
		return apperror.NewFieldValidation("season is invalid", fields)
	}
	return nil
}

// Contains reports whether d falls inside the season (inclusive).
func (s *Season) Contains(d types.Date) bool {
	return !d.Before(s.StartDate) && !d.After(s.EndDate)
}
