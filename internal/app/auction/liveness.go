package auction

import (
	"fmt"
	"time"

	"backend/internal/app/ds"
)

// Liveness - результат вычисления статуса аукциона на заданный момент.
// Calculated может временно расходиться с сохранённым статусом,
// пока планировщик его не догнал
type Liveness struct {
	Calculated ds.AuctionStatus
	IsLive     bool
}

// InvitationsMutable сообщает, можно ли ещё менять список приглашённых.
// Сохранённый статус может отставать от расписания, пока планировщик
// его не догнал, поэтому смотрим на расчётный: как только торги по
// времени начались, список заморожен
func InvitationsMutable(a ds.Auction, now time.Time) bool {
	lv := Evaluate(a, now)
	return lv.Calculated == ds.StatusPending || lv.Calculated == ds.StatusApproved
}

// StartEnd собирает момент старта и конца торгов из даты, локального
// времени и длительности. Часовой пояс берётся из loc
func StartEnd(a ds.Auction, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation("2006-01-02 15:04:05", a.Date+" "+normalizeTime(a.StartTime), loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("bad auction schedule: %w", err)
	}
	if a.DurationMinutes <= 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("bad auction duration: %d", a.DurationMinutes)
	}
	end := start.Add(time.Duration(a.DurationMinutes) * time.Minute)
	return start, end, nil
}

// normalizeTime приводит время к HH:MM:SS: дописывает секунды
// и отбрасывает дробную часть, если источник дал её
func normalizeTime(t string) string {
	if len(t) == 5 { // HH:MM
		return t + ":00"
	}
	if len(t) > 8 { // HH:MM:SS.fff
		return t[:8]
	}
	return t
}

// Evaluate - чистая функция: по сохранённому статусу и расписанию определяет
// расчётный статус и признак "идут ли торги прямо сейчас".
// Окно торгов закрыто с обеих сторон: ставка в секунду старта и в секунду
// конца легальна. Ошибочные данные расписания дают StatusError, паники нет.
// Результат детерминирован, его можно пересчитывать сколько угодно раз
func Evaluate(a ds.Auction, now time.Time) Liveness {
	switch a.Status {
	case ds.StatusPending, ds.StatusRejected, ds.StatusCancelled:
		return Liveness{Calculated: a.Status, IsLive: false}
	case ds.StatusEnded:
		return Liveness{Calculated: ds.StatusEnded, IsLive: false}
	}

	start, end, err := StartEnd(a, now.Location())
	if err != nil {
		return Liveness{Calculated: ds.StatusError, IsLive: false}
	}

	switch a.Status {
	case ds.StatusApproved:
		if now.Before(start) {
			return Liveness{Calculated: ds.StatusApproved, IsLive: false}
		}
		if now.After(end) {
			return Liveness{Calculated: ds.StatusEnded, IsLive: false}
		}
		return Liveness{Calculated: ds.StatusLive, IsLive: true}
	case ds.StatusLive:
		if !now.Before(end) {
			return Liveness{Calculated: ds.StatusEnded, IsLive: false}
		}
		return Liveness{Calculated: ds.StatusLive, IsLive: true}
	default:
		return Liveness{Calculated: ds.StatusError, IsLive: false}
	}
}
