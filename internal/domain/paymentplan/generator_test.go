package paymentplan

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dormdesk/internal/core/apperror"
	"dormdesk/internal/core/entity"
	"dormdesk/internal/core/types"
)

func TestGenerate_KeepsDepositAndSpreadsGivenTotal(t *testing.T) {
	deposit := Line{
		Base:                 entity.Base{ID: 5},
		PlannedAmount:        types.MustMoney("200"),
		PlannedDate:          types.MustDate("2025-01-10"),
		PlannedPaymentTypeID: 9,
		IsDeposit:            true,
		Status:               StatusPlanned,
	}
	manual := Line{PlannedAmount: types.MustMoney("50"), PlannedDate: types.MustDate("2025-06-01"), PlannedPaymentTypeID: 9}

	res, err := Generate([]Line{manual, deposit}, GenerateInput{
		// Generate spreads exactly what it is given; the deposit line is kept
		// as is and never subtracted here.
		ProductTotal:  types.MustMoney("800"),
		Installments:  3,
		StartDate:     types.MustDate("2025-01-10"),
		PaymentTypeID: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Replaced)
	require.Len(t, res.Lines, 4)

	dep := res.Lines[0]
	assert.True(t, dep.IsDeposit)
	assert.Equal(t, int64(5), dep.ID)
	assert.Equal(t, "200", dep.PlannedAmount.String())
	assert.Equal(t, "2025-01-10", dep.PlannedDate.String())
	assert.Equal(t, int64(2), dep.PlannedPaymentTypeID)

	wantAmounts := []string{"266.67", "266.67", "266.66"}
	wantDates := []string{"2025-01-10", "2025-02-10", "2025-03-10"}
	for i, l := range res.Lines[1:] {
		assert.False(t, l.IsDeposit)
		assert.Equal(t, wantAmounts[i], l.PlannedAmount.StringFixed(2), "installment %d", i)
		assert.Equal(t, wantDates[i], l.PlannedDate.String(), "installment %d", i)
		assert.Equal(t, int64(2), l.PlannedPaymentTypeID)
		assert.True(t, l.IsNew())
	}
	assert.Equal(t, "800.00", PlannedTotal(res.Lines[1:]).StringFixed(2))
}

func TestGenerate_InstallmentsSumExactly(t *testing.T) {
	totals := []string{"0", "0.01", "1", "10", "99.99", "100", "333.33", "1000", "1234.56", "99999.99"}
	for _, total := range totals {
		for n := 1; n <= 13; n++ {
			t.Run(fmt.Sprintf("%s/%d", total, n), func(t *testing.T) {
				want := types.MustMoney(total)
				res, err := Generate(nil, GenerateInput{
					ProductTotal:  want,
					Installments:  n,
					StartDate:     types.MustDate("2024-01-31"),
					PaymentTypeID: 1,
				})
				require.NoError(t, err)
				require.Len(t, res.Lines, n)
				assert.True(t, PlannedTotal(res.Lines).Equal(want), "sum %s != %s", PlannedTotal(res.Lines), want)
				for _, l := range res.Lines {
					assert.True(t, l.PlannedAmount.Equal(types.RoundMoney(l.PlannedAmount)), "amount has sub-cent digits")
				}
			})
		}
	}
}

func TestGenerate_ExactlyOneDepositLine(t *testing.T) {
	deposit := Line{PlannedAmount: types.MustMoney("150"), PlannedDate: types.MustDate("2025-09-01"), IsDeposit: true, PlannedPaymentTypeID: 1}
	current := []Line{deposit}

	for i := 0; i < 3; i++ {
		res, err := Generate(current, GenerateInput{
			ProductTotal:  types.MustMoney("900"),
			Installments:  4,
			StartDate:     types.MustDate("2025-09-15"),
			PaymentTypeID: 3,
		})
		require.NoError(t, err)

		deposits := 0
		for _, l := range res.Lines {
			if l.IsDeposit {
				deposits++
				assert.Equal(t, "150", l.PlannedAmount.String())
				assert.Equal(t, int64(3), l.PlannedPaymentTypeID)
			}
		}
		assert.Equal(t, 1, deposits)
		current = res.Lines
	}
}

func TestGenerate_DatesClampToMonthEnd(t *testing.T) {
	res, err := Generate(nil, GenerateInput{
		ProductTotal:  types.MustMoney("400"),
		Installments:  4,
		StartDate:     types.MustDate("2024-01-31"),
		PaymentTypeID: 1,
	})
	require.NoError(t, err)

	var got []string
	for _, l := range res.Lines {
		got = append(got, l.PlannedDate.String())
	}
	assert.Equal(t, []string{"2024-01-31", "2024-02-29", "2024-03-31", "2024-04-30"}, got)
}

func TestGenerate_Validation(t *testing.T) {
	_, err := Generate(nil, GenerateInput{
		ProductTotal: types.MustMoney("100"),
		Installments: 0,
		StartDate:    types.MustDate("2025-01-01"),
	})
	require.Error(t, err)

	fields := apperror.FieldErrors(err)
	assert.Equal(t, []string{"select a payment type"}, fields["payment_type_id"])
	assert.Equal(t, []string{"must be at least 1"}, fields["installments"])
	assert.Equal(t, 422, apperror.GetHTTPStatus(err))
}

func TestGenerate_NegativeProductTotal(t *testing.T) {
	_, err := Generate(nil, GenerateInput{
		ProductTotal:  types.MustMoney("-1"),
		Installments:  1,
		StartDate:     types.MustDate("2025-01-01"),
		PaymentTypeID: 1,
	})
	assert.Contains(t, apperror.FieldErrors(err), "product_total")
}
