// Package account provides the firms (tenants) and the operators that work in them.
package account

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"dormdesk/internal/core/apperror"
	"dormdesk/internal/core/entity"
)

var validate = validator.New()

// Firm is a tenant of the platform.
type Firm struct {
	entity.Base

	Name      string  `json:"name"`
	TaxNumber *string `json:"tax_number,omitempty"`
	IsActive  bool    `json:"is_active"`
}

// Validate implements entity.Validatable interface.
func (f *Firm) Validate(ctx context.Context) error {
	if strings.TrimSpace(f.Name) == "" {
		return apperror.NewFieldValidation("firm is invalid", map[string][]string{"name": {"name is required"}})
	}
	return nil
}

// User is an operator of the admin panel.
type User struct {
	entity.Base

	Name   string   `json:"name"`
	Email  string   `json:"email"`
	FirmID *int64   `json:"firm_id,omitempty"`
	Roles  []string `json:"roles,omitempty"`
}

// Validate implements entity.Validatable interface.
func (u *User) Validate(ctx context.Context) error {
	fields := map[string][]string{}
	if strings.TrimSpace(u.Name) == "" {
		fields["name"] = []string{"name is required"}
	}
	if err := validate.Var(u.Email, "required,email"); err != nil {
		fields["email"] = []string{"must be a valid email address"}
	}
	if len(fields) > 0 {
		return apperror.NewFieldValidation("user is invalid", fields)
	}
	return nil
}
