// Package paymentplan provides payment-plan lines, the installment generator,
// manual line edits and reconciliation of plans against recorded payments.
package paymentplan

import (
	"context"

	"dormdesk/internal/core/apperror"
	"dormdesk/internal/core/entity"
	"dormdesk/internal/core/types"
)

// Status is set by the backend only.
type Status string

const (
	StatusPlanned     Status = "planned"
	StatusPaid        Status = "paid"
	StatusPartialPaid Status = "partial_paid"
	StatusOverdue     Status = "overdue"
)

// Line is one planned payment of a registration.
type Line struct {
	entity.Base

	SeasonRegistrationID int64 `json:"season_registration_id,omitempty"`

	PlannedAmount        types.Money `json:"planned_amount"`
	PlannedDate          types.Date  `json:"planned_date"`
	PlannedPaymentTypeID int64       `json:"planned_payment_type_id"`
	IsDeposit            bool        `json:"is_deposit"`

	// Status is read-only on this side
	Status Status `json:"status,omitempty"`
}

// Validate implements entity.Validatable interface.
func (l *Line) Validate(ctx context.Context) error {
	fields := map[string][]string{}
	if l.PlannedAmount.IsNegative() {
		fields["planned_amount"] = []string{"amount cannot be negative"}
	}
	if l.PlannedDate.IsZero() {
		fields["planned_date"] = []string{"date is required"}
	}
	if l.PlannedPaymentTypeID == 0 {
		fields["planned_payment_type_id"] = []string{"select a payment type"}
	}
	if len(fields) > 0 {
		return apperror.NewFieldValidation("payment plan line is invalid", fields)
	}
	return nil
}

// IsPaid reports the backend's verdict. Payments recorded against the line are
// never used to infer it.
func (l Line) IsPaid() bool {
	return l.Status == StatusPaid
}

// Payment is money received against a plan line.
type Payment struct {
	entity.Base

	PaymentPlanID int64       `json:"payment_plan_id"`
	Amount        types.Money `json:"amount"`
	PaymentDate   types.Date  `json:"payment_date"`
	PaymentTypeID int64       `json:"payment_type_id"`
	Notes         *string     `json:"notes,omitempty"`
}

// Validate implements entity.Validatable interface.
func (p *Payment) Validate(ctx context.Context) error {
	fields := map[string][]string{}
	if p.PaymentPlanID == 0 {
		fields["payment_plan_id"] = []string{"payment plan is required"}
	}
	if !p.Amount.IsPositive() {
		fields["amount"] = []string{"amount must be greater than zero"}
	}
	if p.PaymentDate.IsZero() {
		fields["payment_date"] = []string{"payment date is required"}
	}
	if p.PaymentTypeID == 0 {
		fields["payment_type_id"] = []string{"select a payment type"}
	}
	if len(fields) > 0 {
		return apperror.NewFieldValidation("payment is invalid", fields)
	}
	return nil
}

func cloneLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}
