// Package paymenttype provides the Payment Type catalog (cash, card, transfer...).
package paymenttype

import (
	"context"
	"strings"

	"dormdesk/internal/core/apperror"
	"dormdesk/internal/core/entity"
)

// PaymentType is a method a planned payment is expected to be made with.
type PaymentType struct {
	entity.Base

	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// Validate implements entity.Validatable interface.
func (p *PaymentType) Validate(ctx context.Context) error {
	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewFieldValidation("payment type is invalid", map[string][]string{
			"name": {"name is required"},
		})
	}
	return nil
}

// Active filters out inactive types, keeping order.
func Active(types []*PaymentType) []*PaymentType {
	out := make([]*PaymentType, 0, len(types))
	for _, t := range types {
		if t.IsActive {
			out = append(out, t)
		}
	}
	return out
}
