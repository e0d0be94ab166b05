package auction

import (
	"fmt"
	"time"
)

// Clock выдаёт текущее время в гражданском часовом поясе системы.
// Интерфейс нужен для подмены фиксированным временем в тестах
type Clock interface {
	Now() time.Time
}

// CivilClock - рабочие часы системы: один настраиваемый часовой пояс
// для всей математики расписаний независимо от пояса хоста
type CivilClock struct {
	loc *time.Location
}

func NewCivilClock(timezone string) (*CivilClock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", timezone, err)
	}
	return &CivilClock{loc: loc}, nil
}

func (c *CivilClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *CivilClock) Location() *time.Location {
	return c.loc
}

// FixedClock возвращает заранее заданный момент, используется в тестах
type FixedClock struct {
	T time.Time
}

func (f FixedClock) Now() time.Time {
	return f.T
}
