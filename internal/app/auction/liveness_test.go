package auction

import (
	"testing"
	"time"

	"backend/internal/app/ds"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scheduledAuction(status ds.AuctionStatus) ds.Auction {
	return ds.Auction{
		Status:          status,
		Date:            "2025-01-01",
		StartTime:       "10:00:00",
		DurationMinutes: 30,
		CeilingPrice:    1000,
		StepAmount:      1,
	}
}

func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02 15:04:05", value, time.UTC)
	require.NoError(t, err)
	return ts
}

// Окно торгов закрыто с обеих сторон: ровно в секунду старта и в секунду
// конца аукцион активен, секундой раньше/позже - нет
func TestEvaluateWindowInclusive(t *testing.T) {
	a := scheduledAuction(ds.StatusApproved)

	tests := []struct {
		now        string
		calculated ds.AuctionStatus
		isLive     bool
	}{
		{"2025-01-01 09:59:59", ds.StatusApproved, false},
		{"2025-01-01 10:00:00", ds.StatusLive, true},
		{"2025-01-01 10:15:00", ds.StatusLive, true},
		{"2025-01-01 10:30:00", ds.StatusLive, true},
		{"2025-01-01 10:30:01", ds.StatusEnded, false},
	}

	for _, tt := range tests {
		lv := Evaluate(a, at(t, tt.now))
		assert.Equal(t, tt.calculated, lv.Calculated, "now=%s", tt.now)
		assert.Equal(t, tt.isLive, lv.IsLive, "now=%s", tt.now)
	}
}

func TestEvaluateTerminalAndPendingStatuses(t *testing.T) {
	now := at(t, "2025-01-01 10:15:00") // внутри окна

	for _, status := range []ds.AuctionStatus{ds.StatusPending, ds.StatusRejected, ds.StatusCancelled} {
		lv := Evaluate(scheduledAuction(status), now)
		assert.Equal(t, status, lv.Calculated)
		assert.False(t, lv.IsLive)
	}
}

// Сохранённый live после конца окна считается ended - ставки больше не принимаются
func TestEvaluatePersistedLive(t *testing.T) {
	a := scheduledAuction(ds.StatusLive)

	lv := Evaluate(a, at(t, "2025-01-01 10:29:59"))
	assert.Equal(t, ds.StatusLive, lv.Calculated)
	assert.True(t, lv.IsLive)

	lv = Evaluate(a, at(t, "2025-01-01 10:30:00"))
	assert.Equal(t, ds.StatusEnded, lv.Calculated)
	assert.False(t, lv.IsLive)
}

func TestEvaluateMalformedSchedule(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*ds.Auction)
	}{
		{"bad date", func(a *ds.Auction) { a.Date = "01-01-2025" }},
		{"empty date", func(a *ds.Auction) { a.Date = "" }},
		{"bad time", func(a *ds.Auction) { a.StartTime = "25:71:00" }},
		{"zero duration", func(a *ds.Auction) { a.DurationMinutes = 0 }},
		{"negative duration", func(a *ds.Auction) { a.DurationMinutes = -30 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := scheduledAuction(ds.StatusApproved)
			tt.mut(&a)
			lv := Evaluate(a, at(t, "2025-01-01 10:15:00"))
			assert.Equal(t, ds.StatusError, lv.Calculated)
			assert.False(t, lv.IsLive)
		})
	}
}

// Время без секунд и с дробной частью нормализуется на границе хранилища
func TestEvaluateTimeNormalization(t *testing.T) {
	a := scheduledAuction(ds.StatusApproved)
	a.StartTime = "10:00"
	assert.True(t, Evaluate(a, at(t, "2025-01-01 10:00:00")).IsLive)

	a.StartTime = "10:00:00.000"
	assert.True(t, Evaluate(a, at(t, "2025-01-01 10:00:00")).IsLive)
}

// Evaluate - чистая функция: повторный вызов с теми же входами даёт тот же ответ
func TestEvaluateDeterministic(t *testing.T) {
	a := scheduledAuction(ds.StatusApproved)
	now := at(t, "2025-01-01 10:10:00")

	first := Evaluate(a, now)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Evaluate(a, now))
	}
}

func TestStartEnd(t *testing.T) {
	a := scheduledAuction(ds.StatusApproved)
	start, end, err := StartEnd(a, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, at(t, "2025-01-01 10:00:00"), start)
	assert.Equal(t, at(t, "2025-01-01 10:30:00"), end)
}

// Список приглашённых замораживается по расписанию, а не по сохранённому
// статусу: пока планировщик не перевёл approved в live, в базе ещё висит
// approved, но менять приглашения внутри окна торгов уже нельзя
func TestInvitationsMutableUsesCalculatedStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  ds.AuctionStatus
		now     string
		mutable bool
	}{
		{"черновик", ds.StatusPending, "2025-01-01 10:15:00", true},
		{"approved до старта", ds.StatusApproved, "2025-01-01 09:59:59", true},
		{"approved, окно уже открылось", ds.StatusApproved, "2025-01-01 10:00:00", false},
		{"approved, окно уже закрылось", ds.StatusApproved, "2025-01-01 11:00:00", false},
		{"live", ds.StatusLive, "2025-01-01 10:15:00", false},
		{"ended", ds.StatusEnded, "2025-01-01 12:00:00", false},
		{"rejected", ds.StatusRejected, "2025-01-01 09:00:00", false},
		{"cancelled", ds.StatusCancelled, "2025-01-01 09:00:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := scheduledAuction(tt.status)
			assert.Equal(t, tt.mutable, InvitationsMutable(a, at(t, tt.now)))
		})
	}
}

// Битое расписание у согласованного аукциона трактуем консервативно:
// приглашения менять нельзя
func TestInvitationsMutableMalformedSchedule(t *testing.T) {
	a := scheduledAuction(ds.StatusApproved)
	a.Date = "01.01.2025"

	assert.False(t, InvitationsMutable(a, at(t, "2025-01-01 09:00:00")))
}
