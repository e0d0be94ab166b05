package auction

import (
	"math"
	"testing"

	"backend/internal/app/ds"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func liveAuction(ceiling, step float64) ds.Auction {
	return ds.Auction{
		Status:          ds.StatusApproved,
		Date:            "2025-01-01",
		StartTime:       "10:00:00",
		DurationMinutes: 30,
		CeilingPrice:    ceiling,
		StepAmount:      step,
		Currency:        ds.CurrencyINR,
	}
}

func TestValidateBidAmount(t *testing.T) {
	a := liveAuction(1000, 1)
	now := at(t, "2025-01-01 10:05:00")

	for _, amount := range []float64{0, -5, math.NaN(), math.Inf(1), math.Inf(-1)} {
		err := ValidateBid(amount, a, true, now)
		require.NotNil(t, err)
		assert.Equal(t, CodeInvalidAmount, err.Code)
	}

	assert.Nil(t, ValidateBid(500, a, true, now))
}

// Кратность шагу проверяется в десятичной арифметике: float64-представление
// 999.95 при шаге 0.05 не должно давать ложный отказ
func TestValidateBidStepMultiple(t *testing.T) {
	now := at(t, "2025-01-01 10:05:00")

	tests := []struct {
		ceiling float64
		step    float64
		amount  float64
		ok      bool
	}{
		{1000, 0.05, 999.95, true},
		{1000, 0.05, 999.97, false},
		{1000, 0.1, 100.0, true},
		{1000, 0.1, 100.05, false},
		{1000, 1, 500, true},
		{1000, 1, 500.5, false},
		{1000, 0.25, 750.25, true},
	}

	for _, tt := range tests {
		err := ValidateBid(tt.amount, liveAuction(tt.ceiling, tt.step), true, now)
		if tt.ok {
			assert.Nil(t, err, "amount=%v step=%v", tt.amount, tt.step)
		} else {
			require.NotNil(t, err, "amount=%v step=%v", tt.amount, tt.step)
			assert.Equal(t, CodeInvalidStepMultiple, err.Code)
		}
	}
}

// При отказе по кратности клиенту подсказываются ближайшие легальные суммы
func TestValidateBidStepHints(t *testing.T) {
	err := ValidateBid(999.97, liveAuction(1000, 0.05), true, at(t, "2025-01-01 10:05:00"))
	require.NotNil(t, err)
	assert.Equal(t, CodeInvalidStepMultiple, err.Code)
	assert.InDelta(t, 999.95, err.NearestLower, 1e-9)
	assert.InDelta(t, 1000.00, err.NearestHigher, 1e-9)
}

func TestValidateBidCeiling(t *testing.T) {
	a := liveAuction(1000, 0.05)
	now := at(t, "2025-01-01 10:05:00")

	assert.Nil(t, ValidateBid(1000, a, true, now))

	err := ValidateBid(1000.05, a, true, now)
	require.NotNil(t, err)
	assert.Equal(t, CodeExceedsCeiling, err.Code)
}

// Сообщение отказа различает "не начался", "завершён" и прочие статусы
func TestValidateBidNotLive(t *testing.T) {
	a := liveAuction(1000, 1)

	err := ValidateBid(500, a, true, at(t, "2025-01-01 09:00:00"))
	require.NotNil(t, err)
	assert.Equal(t, CodeAuctionNotLive, err.Code)
	assert.Contains(t, err.Message, "не начались")

	err = ValidateBid(500, a, true, at(t, "2025-01-01 11:00:00"))
	require.NotNil(t, err)
	assert.Equal(t, CodeAuctionNotLive, err.Code)
	assert.Contains(t, err.Message, "завершены")

	a.Status = ds.StatusPending
	err = ValidateBid(500, a, true, at(t, "2025-01-01 10:05:00"))
	require.NotNil(t, err)
	assert.Equal(t, CodeAuctionNotLive, err.Code)
	assert.Contains(t, err.Message, "pending")
}

func TestValidateBidInvitation(t *testing.T) {
	a := liveAuction(1000, 1)
	now := at(t, "2025-01-01 10:05:00")

	err := ValidateBid(500, a, false, now)
	require.NotNil(t, err)
	assert.Equal(t, CodeNotInvited, err.Code)
}

// Первый провал выигрывает: некорректная сумма сообщается раньше,
// чем отсутствие приглашения или неактивность торгов
func TestValidateBidCheckOrder(t *testing.T) {
	a := liveAuction(1000, 1)
	a.Status = ds.StatusPending

	err := ValidateBid(-1, a, false, at(t, "2025-01-01 09:00:00"))
	require.NotNil(t, err)
	assert.Equal(t, CodeInvalidAmount, err.Code)

	err = ValidateBid(500.5, a, false, at(t, "2025-01-01 09:00:00"))
	require.NotNil(t, err)
	assert.Equal(t, CodeInvalidStepMultiple, err.Code)

	err = ValidateBid(500, a, false, at(t, "2025-01-01 09:00:00"))
	require.NotNil(t, err)
	assert.Equal(t, CodeAuctionNotLive, err.Code)
}
