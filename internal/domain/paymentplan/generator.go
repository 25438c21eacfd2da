package paymentplan

import (
	"github.com/shopspring/decimal"

	"dormdesk/internal/core/apperror"
	"dormdesk/internal/core/types"
)

// GenerateInput drives the installment generator.
type GenerateInput struct {
	// ProductTotal is the registration total minus the deposit
	ProductTotal  types.Money
	Installments  int
	StartDate     types.Date
	PaymentTypeID int64
}

// Validate checks the generator inputs.
func (in GenerateInput) Validate() error {
	fields := map[string][]string{}
	if in.PaymentTypeID == 0 {
		fields["payment_type_id"] = []string{"select a payment type"}
	}
	if in.Installments < 1 {
		fields["installments"] = []string{"must be at least 1"}
	}
	if in.StartDate.IsZero() {
		fields["start_date"] = []string{"select a start date"}
	}
	if in.ProductTotal.IsNegative() {
		fields["product_total"] = []string{"deposit exceeds the total amount"}
	}
	if len(fields) > 0 {
		return apperror.NewFieldValidation("cannot generate payment plan", fields)
	}
	return nil
}

// GenerateResult is the new plan and how many lines it replaced.
type GenerateResult struct {
	Lines    []Line `json:"lines"`
	Replaced int    `json:"replaced"`
}

// Generate builds an installment schedule and returns it as the complete new
// list of lines. Everything in current is discarded except the deposit line,
// which is kept first with its payment type switched to in.PaymentTypeID.
//
// Every installment gets round(total/n, 2) except the last, which takes the
// rounding remainder so the installments add up to ProductTotal exactly.
// Installment i is dated StartDate + i calendar months, clamped to month end.
func Generate(current []Line, in GenerateInput) (GenerateResult, error) {
	if err := in.Validate(); err != nil {
		return GenerateResult{}, err
	}

	n := int64(in.Installments)
	amount := types.RoundMoney(in.ProductTotal.Div(decimal.NewFromInt(n)))
	remainder := in.ProductTotal.Sub(amount.Mul(decimal.NewFromInt(n)))

	out := make([]Line, 0, in.Installments+1)
	if dep, ok := depositLine(current); ok {
		dep.PlannedPaymentTypeID = in.PaymentTypeID
		out = append(out, dep)
	}

	for i := 0; i < in.Installments; i++ {
		lineAmount := amount
		if i == in.Installments-1 {
			lineAmount = amount.Add(remainder)
		}
		out = append(out, Line{
			PlannedAmount:        lineAmount,
			PlannedDate:          in.StartDate.AddMonthsClamped(i),
			PlannedPaymentTypeID: in.PaymentTypeID,
			Status:               StatusPlanned,
		})
	}

	return GenerateResult{Lines: out, Replaced: len(current)}, nil
}

func depositLine(lines []Line) (Line, bool) {
	for _, l := range lines {
		if l.IsDeposit {
			return l, true
		}
	}
	return Line{}, false
}
