package ds

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidAuctionStatus(t *testing.T) {
	for _, s := range []AuctionStatus{StatusPending, StatusApproved, StatusRejected, StatusLive, StatusEnded, StatusCancelled} {
		assert.True(t, ValidAuctionStatus(s), string(s))
	}
	assert.False(t, ValidAuctionStatus(StatusError)) // только расчётный
	assert.False(t, ValidAuctionStatus("draft"))
	assert.False(t, ValidAuctionStatus(""))
}

// Статус движется только вперёд: воскрешение ended -> live невозможно
func TestAuctionStatusTransitions(t *testing.T) {
	tests := []struct {
		from AuctionStatus
		to   AuctionStatus
		ok   bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusApproved, StatusLive, true},
		{StatusApproved, StatusEnded, true},
		{StatusLive, StatusEnded, true},
		{StatusPending, StatusCancelled, true},
		{StatusApproved, StatusCancelled, true},
		{StatusLive, StatusCancelled, true},

		{StatusEnded, StatusLive, false},
		{StatusEnded, StatusCancelled, false},
		{StatusCancelled, StatusApproved, false},
		{StatusCancelled, StatusCancelled, false},
		{StatusRejected, StatusApproved, false},
		{StatusLive, StatusApproved, false},
		{StatusApproved, StatusPending, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ok, tt.from.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, StatusRejected.Terminal())
	assert.True(t, StatusEnded.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusApproved.Terminal())
	assert.False(t, StatusLive.Terminal())
}

func TestValidResultStatus(t *testing.T) {
	for _, s := range []ResultStatus{ResultShortListed, ResultNotShortListed, ResultAwarded, ResultNotAwarded, ResultDisqualified, ResultCancel} {
		assert.True(t, ValidResultStatus(s), string(s))
	}
	assert.False(t, ValidResultStatus("winner"))
}

func TestValidCurrency(t *testing.T) {
	assert.True(t, ValidCurrency(CurrencyINR))
	assert.True(t, ValidCurrency(CurrencyUSD))
	assert.False(t, ValidCurrency("EUR"))
}
