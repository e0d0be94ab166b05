package auction

import (
	"testing"
	"time"

	"backend/internal/app/ds"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bid(id, bidderID uint, amount float64, offset time.Duration) ds.Bid {
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	return ds.Bid{
		ID:        id,
		AuctionID: 1,
		BidderID:  bidderID,
		Amount:    amount,
		BidTime:   base.Add(offset),
	}
}

func TestRankLowestWins(t *testing.T) {
	bids := []ds.Bid{
		bid(1, 10, 50, 0),
		bid(2, 20, 40, time.Minute),
	}

	entries := Rank(bids)
	require.Len(t, entries, 2)
	assert.Equal(t, uint(20), entries[0].BidderID)
	assert.Equal(t, 40.0, entries[0].BestAmount)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, uint(10), entries[1].BidderID)
	assert.Equal(t, 2, entries[1].Rank)
}

// При равных суммах выше тот, кто достиг цены раньше
func TestRankTieBreakByTime(t *testing.T) {
	bids := []ds.Bid{
		bid(1, 10, 500, 0),           // A в t1
		bid(2, 20, 500, time.Minute), // B в t2 > t1
	}

	entries := Rank(bids)
	require.Len(t, entries, 2)
	assert.Equal(t, uint(10), entries[0].BidderID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, uint(20), entries[1].BidderID)
	assert.Equal(t, 2, entries[1].Rank)
}

// Полное совпадение суммы и времени разрешается порядком вставки -
// крайне маловероятно при серверных метках, но порядок обязан быть строгим
func TestRankTieBreakByInsertionOrder(t *testing.T) {
	bids := []ds.Bid{
		bid(2, 20, 500, 0),
		bid(1, 10, 500, 0), // то же время, меньший ID
	}

	entries := Rank(bids)
	require.Len(t, entries, 2)
	assert.Equal(t, uint(10), entries[0].BidderID)
	assert.Equal(t, uint(20), entries[1].BidderID)
}

// Лучшая ставка - минимальная за всю историю: ухудшение своей ставки
// не меняет позицию в таблице лидеров, но меняет "последнюю ставку"
func TestRankBestAmountVersusLastBidStanding(t *testing.T) {
	bids := []ds.Bid{
		bid(1, 10, 500, 0),             // A: 500
		bid(2, 20, 500, time.Minute),   // B: 500 позже
		bid(3, 10, 600, 2*time.Minute), // A поднял до 600
	}

	entries := Rank(bids)
	require.Len(t, entries, 2)
	assert.Equal(t, uint(10), entries[0].BidderID) // лучшая A всё ещё 500 и раньше
	assert.Equal(t, 500.0, entries[0].BestAmount)

	standings := LastBidStandings(bids)
	require.Len(t, standings, 2)
	assert.Equal(t, uint(20), standings[0].BidderID) // последняя B = 500 против A = 600
	assert.Equal(t, 500.0, standings[0].Amount)

	winner, ok := FinalWinner(bids)
	require.True(t, ok)
	assert.Equal(t, uint(20), winner.BidderID)
	assert.Equal(t, 500.0, winner.Amount)
}

// Ранги с единицы, подряд, без делёжки мест
func TestRankContiguous(t *testing.T) {
	bids := []ds.Bid{
		bid(1, 10, 300, 0),
		bid(2, 20, 300, time.Second),
		bid(3, 30, 300, 2*time.Second),
		bid(4, 40, 100, 3*time.Second),
	}

	entries := Rank(bids)
	require.Len(t, entries, 4)
	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
	}
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, Rank(nil))
	assert.Empty(t, LastBidStandings(nil))

	_, ok := FinalWinner(nil)
	assert.False(t, ok)
}

func TestRankOf(t *testing.T) {
	entries := Rank([]ds.Bid{
		bid(1, 10, 50, 0),
		bid(2, 20, 40, time.Minute),
	})

	assert.Equal(t, 1, RankOf(entries, 20))
	assert.Equal(t, 2, RankOf(entries, 10))
	assert.Equal(t, 0, RankOf(entries, 99))
}

// Сквозной сценарий: X ставит 50 и лидирует, Y ставит 40 и обходит
func TestRankEndToEndScenario(t *testing.T) {
	bids := []ds.Bid{bid(1, 1, 50, 0)} // X

	entries := Rank(bids)
	assert.Equal(t, 1, RankOf(entries, 1))

	bids = append(bids, bid(2, 2, 40, time.Minute)) // Y
	entries = Rank(bids)
	require.Len(t, entries, 2)
	assert.Equal(t, uint(2), entries[0].BidderID)
	assert.Equal(t, 40.0, entries[0].BestAmount)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, uint(1), entries[1].BidderID)
	assert.Equal(t, 50.0, entries[1].BestAmount)
	assert.Equal(t, 2, entries[1].Rank)
}
