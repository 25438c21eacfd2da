package paymentplan

import "dormdesk/internal/core/types"

// Warning describes how the plan compares to the amount owed.
type Warning string

const (
	WarningNone         Warning = "none"
	WarningUnderPlanned Warning = "under_planned"
	WarningOverPlanned  Warning = "over_planned"
)

// Summary holds the figures shown above a plan.
type Summary struct {
	ProductSubtotal types.Money `json:"product_subtotal"`
	DepositAmount   types.Money `json:"deposit_amount"`
	TotalAmount     types.Money `json:"total_amount"`
	PlannedTotal    types.Money `json:"planned_total"`
	Remaining       types.Money `json:"remaining"`
	Warning         Warning     `json:"warning"`
}

// PlannedTotal sums all line amounts, deposit included.
func PlannedTotal(lines []Line) types.Money {
	total := types.Zero()
	for _, l := range lines {
		total = total.Add(l.PlannedAmount)
	}
	return total
}

// Summarize computes total = subtotal + deposit and remaining = total - planned.
// A mismatch only produces a warning.
func Summarize(productSubtotal, deposit types.Money, lines []Line) Summary {
	total := productSubtotal.Add(deposit)
	planned := PlannedTotal(lines)
	remaining := total.Sub(planned)

	warning := WarningNone
	switch remaining.Sign() {
	case 1:
		warning = WarningUnderPlanned
	case -1:
		warning = WarningOverPlanned
	}

	return Summary{
		ProductSubtotal: productSubtotal,
		DepositAmount:   deposit,
		TotalAmount:     total,
		PlannedTotal:    planned,
		Remaining:       remaining,
		Warning:         warning,
	}
}
