package paymentplan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dormdesk/internal/core/apperror"
	"dormdesk/internal/core/types"
)

func plan() []Line {
	return []Line{
		{PlannedAmount: types.MustMoney("200"), PlannedDate: types.MustDate("2025-01-10"), IsDeposit: true, PlannedPaymentTypeID: 1},
		{PlannedAmount: types.MustMoney("400"), PlannedDate: types.MustDate("2025-01-10"), PlannedPaymentTypeID: 1},
		{PlannedAmount: types.MustMoney("400"), PlannedDate: types.MustDate("2025-02-10"), PlannedPaymentTypeID: 1},
	}
}

func TestRemoveLine_DepositProtected(t *testing.T) {
	lines := plan()

	_, err := RemoveLine(lines, 0, types.MustMoney("200"))
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeDepositProtected))

	out, err := RemoveLine(lines, 0, types.Zero())
	require.NoError(t, err)
	assert.Len(t, out, 2)

	out, err = RemoveLine(lines, 2, types.MustMoney("200"))
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Len(t, lines, 3, "input untouched")

	_, err = RemoveLine(lines, 3, types.Zero())
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdateLine(t *testing.T) {
	lines := plan()
	amount := types.MustMoney("350.555")
	typeID := int64(4)

	out, err := UpdateLine(lines, 1, LinePatch{PlannedAmount: &amount, PlannedPaymentTypeID: &typeID})
	require.NoError(t, err)
	assert.Equal(t, "350.56", out[1].PlannedAmount.StringFixed(2))
	assert.Equal(t, int64(4), out[1].PlannedPaymentTypeID)
	assert.Equal(t, "400", lines[1].PlannedAmount.String())

	_, err = UpdateLine(lines, 0, LinePatch{PlannedAmount: &amount})
	assert.True(t, apperror.HasCode(err, apperror.CodeDepositProtected))

	date := types.MustDate("2025-01-15")
	out, err = UpdateLine(lines, 0, LinePatch{PlannedDate: &date})
	require.NoError(t, err)
	assert.Equal(t, "2025-01-15", out[0].PlannedDate.String())
}

func TestAddLine_IsNeverDeposit(t *testing.T) {
	out, err := AddLine(context.Background(), plan(), Line{
		PlannedAmount:        types.MustMoney("10"),
		PlannedDate:          types.MustDate("2025-03-10"),
		PlannedPaymentTypeID: 1,
		IsDeposit:            true,
	})
	require.NoError(t, err)
	require.Len(t, out, 4)
	assert.False(t, out[3].IsDeposit)
	assert.Equal(t, StatusPlanned, out[3].Status)
}

func TestAddLine_RejectsIncompleteLine(t *testing.T) {
	lines := plan()

	out, err := AddLine(context.Background(), lines, Line{PlannedAmount: types.MustMoney("-5")})
	require.Error(t, err)
	assert.Equal(t, 422, apperror.GetHTTPStatus(err))
	fields := apperror.FieldErrors(err)
	assert.Contains(t, fields, "planned_amount")
	assert.Contains(t, fields, "planned_date")
	assert.Contains(t, fields, "planned_payment_type_id")
	assert.Len(t, out, 3)
}

func TestValidateLines_KeysByPosition(t *testing.T) {
	lines := plan()
	lines[0].PlannedPaymentTypeID = 0
	lines[2].PlannedDate = types.Date{}

	err := ValidateLines(context.Background(), lines)
	require.Error(t, err)
	fields := apperror.FieldErrors(err)
	assert.Len(t, fields, 2)
	assert.Contains(t, fields, "payment_plans[0].planned_payment_type_id")
	assert.Contains(t, fields, "payment_plans[2].planned_date")

	assert.NoError(t, ValidateLines(context.Background(), plan()))
}

func TestSyncDeposit(t *testing.T) {
	date := types.MustDate("2025-01-10")

	t.Run("inserts first", func(t *testing.T) {
		out := SyncDeposit(plan()[1:], types.MustMoney("250"), date)
		require.Len(t, out, 3)
		assert.True(t, out[0].IsDeposit)
		assert.Equal(t, "250", out[0].PlannedAmount.String())
		assert.Equal(t, int64(1), out[0].PlannedPaymentTypeID)
	})

	t.Run("mirrors amount", func(t *testing.T) {
		out := SyncDeposit(plan(), types.MustMoney("300"), date)
		require.Len(t, out, 3)
		assert.Equal(t, "300", out[0].PlannedAmount.String())
	})

	t.Run("removes on zero", func(t *testing.T) {
		out := SyncDeposit(plan(), types.Zero(), date)
		require.Len(t, out, 2)
		for _, l := range out {
			assert.False(t, l.IsDeposit)
		}
	})

	t.Run("collapses duplicates", func(t *testing.T) {
		lines := append(plan(), Line{PlannedAmount: types.MustMoney("1"), IsDeposit: true})
		out := SyncDeposit(lines, types.MustMoney("200"), date)
		deposits := 0
		for _, l := range out {
			if l.IsDeposit {
				deposits++
			}
		}
		assert.Equal(t, 1, deposits)
	})
}

func TestSummarize(t *testing.T) {
	lines := plan()
	s := Summarize(types.MustMoney("800"), types.MustMoney("200"), lines)
	assert.Equal(t, "1000", s.TotalAmount.String())
	assert.Equal(t, "1000", s.PlannedTotal.String())
	assert.True(t, s.Remaining.IsZero())
	assert.Equal(t, WarningNone, s.Warning)

	s = Summarize(types.MustMoney("900"), types.MustMoney("200"), lines)
	assert.Equal(t, "100", s.Remaining.String())
	assert.Equal(t, WarningUnderPlanned, s.Warning)

	s = Summarize(types.MustMoney("700"), types.MustMoney("200"), lines)
	assert.Equal(t, "-100", s.Remaining.String())
	assert.Equal(t, WarningOverPlanned, s.Warning)
}
