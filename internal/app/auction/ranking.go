package auction

import (
	"sort"
	"time"

	"backend/internal/app/ds"
)

// Entry - строка таблицы лидеров: лучшая (наименьшая) ставка поставщика
type Entry struct {
	BidderID    uint      `json:"bidder_id"`
	BestAmount  float64   `json:"best_amount"`
	BestBidTime time.Time `json:"best_bid_time"`
	Rank        int       `json:"rank"`
}

// Standing - позиция поставщика по его последней ставке
// (для определения итогового победителя действует "последняя ставка обязывает")
type Standing struct {
	BidderID uint      `json:"bidder_id"`
	Amount   float64   `json:"amount"`
	BidTime  time.Time `json:"bid_time"`
}

// Rank строит таблицу лидеров по лучшей ставке каждого поставщика.
// Лучшая - минимальная по сумме, при равных суммах у одного поставщика
// берётся более ранняя. Порядок таблицы: сумма по возрастанию, при равенстве
// выигрывает более раннее время ставки, при полном совпадении - меньший ID
// строки (порядок вставки). Ранги с 1, без пропусков и без делёжки мест.
// Таблица каждый раз пересчитывается с нуля по полному набору ставок -
// инкрементального состояния нет, гонки чтения-записи самоисправляются
// при следующем вызове
func Rank(bids []ds.Bid) []Entry {
	best := make(map[uint]ds.Bid)
	for _, b := range bids {
		cur, ok := best[b.BidderID]
		if !ok || less(b, cur) {
			best[b.BidderID] = b
		}
	}

	ranked := make([]ds.Bid, 0, len(best))
	for _, b := range best {
		ranked = append(ranked, b)
	}
	sort.Slice(ranked, func(i, j int) bool {
		return less(ranked[i], ranked[j])
	})

	entries := make([]Entry, len(ranked))
	for i, b := range ranked {
		entries[i] = Entry{
			BidderID:    b.BidderID,
			BestAmount:  b.Amount,
			BestBidTime: b.BidTime,
			Rank:        i + 1,
		}
	}
	return entries
}

// less - общий порядок ставок: сумма, время, порядок вставки
func less(a, b ds.Bid) bool {
	if a.Amount != b.Amount {
		return a.Amount < b.Amount
	}
	if !a.BidTime.Equal(b.BidTime) {
		return a.BidTime.Before(b.BidTime)
	}
	return a.ID < b.ID
}

// RankOf возвращает место поставщика в таблице, 0 если ставок нет
func RankOf(entries []Entry, bidderID uint) int {
	for _, e := range entries {
		if e.BidderID == bidderID {
			return e.Rank
		}
	}
	return 0
}

// LastBidStandings - отдельный расчёт для исторических результатов:
// у каждого поставщика берётся самая поздняя ставка независимо от суммы.
// Поставщик, поднявший свою ставку после лидирования, может проиграть
// финал, хотя его исторический минимум был ниже. Не смешивать с Rank
func LastBidStandings(bids []ds.Bid) []Standing {
	latest := make(map[uint]ds.Bid)
	for _, b := range bids {
		cur, ok := latest[b.BidderID]
		if !ok || b.BidTime.After(cur.BidTime) || (b.BidTime.Equal(cur.BidTime) && b.ID > cur.ID) {
			latest[b.BidderID] = b
		}
	}

	standings := make([]Standing, 0, len(latest))
	order := make([]ds.Bid, 0, len(latest))
	for _, b := range latest {
		order = append(order, b)
	}
	sort.Slice(order, func(i, j int) bool {
		return less(order[i], order[j])
	})
	for _, b := range order {
		standings = append(standings, Standing{
			BidderID: b.BidderID,
			Amount:   b.Amount,
			BidTime:  b.BidTime,
		})
	}
	return standings
}

// FinalWinner - минимальная сумма среди последних ставок всех поставщиков
func FinalWinner(bids []ds.Bid) (Standing, bool) {
	standings := LastBidStandings(bids)
	if len(standings) == 0 {
		return Standing{}, false
	}
	return standings[0], true
}
