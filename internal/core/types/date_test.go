package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name   string
		start  string
		months int
		want   string
	}{
		{"same day next month", "2025-01-10", 1, "2025-02-10"},
		{"zero months", "2025-01-10", 0, "2025-01-10"},
		{"clamps to february end", "2025-01-31", 1, "2025-02-28"},
		{"clamps to leap day", "2024-01-31", 1, "2024-02-29"},
		{"clamps to 30 day month", "2025-03-31", 1, "2025-04-30"},
		{"crosses year", "2025-11-15", 3, "2026-02-15"},
		{"negative months", "2025-03-31", -1, "2025-02-28"},
		{"does not drift after clamp", "2025-01-31", 2, "2025-03-31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MustDate(tt.start).AddMonthsClamped(tt.months)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		Due  Date `json:"due"`
		Paid Date `json:"paid"`
		At   Date `json:"at"`
	}
	err := json.Unmarshal([]byte(`{"due":"2025-01-10","paid":null,"at":"2025-02-01T13:45:00Z"}`), &payload)
	require.NoError(t, err)

	assert.Equal(t, NewDate(2025, time.January, 10), payload.Due)
	assert.True(t, payload.Paid.IsZero())
	assert.Equal(t, "2025-02-01", payload.At.String())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2025-01-10","paid":null,"at":"2025-02-01"}`, string(out))
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("10/01/2025")
	assert.Error(t, err)
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, "266.67", RoundMoney(MustMoney("266.666666")).String())
	assert.Equal(t, "0.01", RoundMoney(MustMoney("0.005")).String())
	assert.True(t, SumMoney(MustMoney("0.1"), MustMoney("0.2")).Equal(MustMoney("0.3")))
}
