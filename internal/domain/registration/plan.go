package registration

import (
	"context"

	"dormdesk/internal/core/types"
	"dormdesk/internal/domain/paymentplan"
)

// PlanRequest is the generator form of the payment-plan step.
type PlanRequest struct {
	Installments  int        `json:"installments"`
	StartDate     types.Date `json:"start_date"`
	PaymentTypeID int64      `json:"payment_type_id"`
}

// GeneratePlan replaces the plan lines with a fresh schedule over the amount
// left after the deposit. The deposit line is kept.
func (d Draft) GeneratePlan(req PlanRequest) (Draft, int, error) {
	res, err := paymentplan.Generate(d.PaymentPlans, paymentplan.GenerateInput{
		ProductTotal:  d.TotalAmount().Sub(d.DepositAmount),
		Installments:  req.Installments,
		StartDate:     req.StartDate,
		PaymentTypeID: req.PaymentTypeID,
	})
	if err != nil {
		return d, 0, err
	}
	out := d.Clone()
	out.PaymentPlans = res.Lines
	return out, res.Replaced, nil
}

// AddPlanLine appends a manual line; an invalid line leaves the draft as is.
func (d Draft) AddPlanLine(ctx context.Context, line paymentplan.Line) (Draft, error) {
	lines, err := paymentplan.AddLine(ctx, d.PaymentPlans, line)
	if err != nil {
		return d, err
	}
	out := d.Clone()
	out.PaymentPlans = lines
	return out, nil
}

// UpdatePlanLine edits the line at index.
func (d Draft) UpdatePlanLine(index int, patch paymentplan.LinePatch) (Draft, error) {
	lines, err := paymentplan.UpdateLine(d.PaymentPlans, index, patch)
	if err != nil {
		return d, err
	}
	out := d.Clone()
	out.PaymentPlans = lines
	return out, nil
}

// RemovePlanLine drops the line at index; the deposit line stays while a deposit is set.
func (d Draft) RemovePlanLine(index int) (Draft, error) {
	lines, err := paymentplan.RemoveLine(d.PaymentPlans, index, d.DepositAmount)
	if err != nil {
		return d, err
	}
	out := d.Clone()
	out.PaymentPlans = lines
	return out, nil
}
