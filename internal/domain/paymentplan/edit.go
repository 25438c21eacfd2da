package paymentplan

import (
	"context"
	"fmt"

	"dormdesk/internal/core/apperror"
	"dormdesk/internal/core/types"
)

// LinePatch is a partial edit of one line. Nil fields are left alone.
type LinePatch struct {
	PlannedAmount        *types.Money
	PlannedDate          *types.Date
	PlannedPaymentTypeID *int64
}

// AddLine appends a manual, non-deposit line. The line must carry a
// non-negative amount, a date and a payment type.
func AddLine(ctx context.Context, lines []Line, line Line) ([]Line, error) {
	line.IsDeposit = false
	line.ID = 0
	line.PlannedAmount = types.RoundMoney(line.PlannedAmount)
	if line.Status == "" {
		line.Status = StatusPlanned
	}
	if err := line.Validate(ctx); err != nil {
		return lines, err
	}
	return append(cloneLines(lines), line), nil
}

// ValidateLines checks every line and reports failures keyed by line
// position, e.g. "payment_plans[2].planned_date".
func ValidateLines(ctx context.Context, lines []Line) error {
	fields := map[string][]string{}
	for i := range lines {
		err := lines[i].Validate(ctx)
		if err == nil {
			continue
		}
		for name, msgs := range apperror.FieldErrors(err) {
			key := fmt.Sprintf("payment_plans[%d].%s", i, name)
			fields[key] = append(fields[key], msgs...)
		}
	}
	if len(fields) > 0 {
		return apperror.NewFieldValidation("payment plan has invalid lines", fields)
	}
	return nil
}

// UpdateLine applies patch to the line at index. The deposit line's amount
// follows the deposit and cannot be edited here.
func UpdateLine(lines []Line, index int, patch LinePatch) ([]Line, error) {
	if index < 0 || index >= len(lines) {
		return lines, apperror.NewNotFound("payment plan line", index)
	}
	out := cloneLines(lines)
	line := &out[index]

	if patch.PlannedAmount != nil {
		if line.IsDeposit {
			return lines, apperror.NewBusinessRule(apperror.CodeDepositProtected,
				"deposit line amount follows the deposit amount")
		}
		if patch.PlannedAmount.IsNegative() {
			return lines, apperror.NewFieldValidation("", map[string][]string{
				"planned_amount": {"amount cannot be negative"},
			})
		}
		line.PlannedAmount = types.RoundMoney(*patch.PlannedAmount)
	}
	if patch.PlannedDate != nil {
		line.PlannedDate = *patch.PlannedDate
	}
	if patch.PlannedPaymentTypeID != nil {
		line.PlannedPaymentTypeID = *patch.PlannedPaymentTypeID
	}
	return out, nil
}

// RemoveLine drops the line at index. The deposit line is protected while
// the deposit is greater than zero.
func RemoveLine(lines []Line, index int, deposit types.Money) ([]Line, error) {
	if index < 0 || index >= len(lines) {
		return lines, apperror.NewNotFound("payment plan line", index)
	}
	if lines[index].IsDeposit && deposit.IsPositive() {
		return lines, apperror.NewBusinessRule(apperror.CodeDepositProtected,
			"deposit line cannot be removed while a deposit is set")
	}
	out := make([]Line, 0, len(lines)-1)
	out = append(out, lines[:index]...)
	return append(out, lines[index+1:]...), nil
}

// SyncDeposit keeps exactly one deposit line mirroring deposit. A missing line
// is inserted first dated at date; a zero deposit removes it. Extra deposit
// lines are dropped.
func SyncDeposit(lines []Line, deposit types.Money, date types.Date) []Line {
	deposit = types.RoundMoney(deposit)
	out := make([]Line, 0, len(lines)+1)
	found := false
	for _, l := range lines {
		if !l.IsDeposit {
			out = append(out, l)
			continue
		}
		if found || !deposit.IsPositive() {
			continue
		}
		found = true
		l.PlannedAmount = deposit
		out = append(out, l)
	}
	if found || !deposit.IsPositive() {
		return out
	}

	dep := Line{
		PlannedAmount: deposit,
		PlannedDate:   date,
		IsDeposit:     true,
		Status:        StatusPlanned,
	}
	for _, l := range out {
		if l.PlannedPaymentTypeID != 0 {
			dep.PlannedPaymentTypeID = l.PlannedPaymentTypeID
			break
		}
	}
	return append([]Line{dep}, out...)
}
