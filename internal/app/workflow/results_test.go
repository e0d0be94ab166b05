package workflow

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/app/auction"
	"backend/internal/app/ds"
)

// fakeStore - хранилище в памяти с той же семантикой, что у репозитория
type fakeStore struct {
	auction *ds.Auction
	bids    []ds.Bid
	results []ds.AuctionResult
	users   []ds.User
}

func (s *fakeStore) GetAuctionByID(id uint) (*ds.Auction, error) {
	if s.auction == nil || s.auction.ID != id {
		return nil, errors.New("запись не найдена")
	}
	a := *s.auction
	return &a, nil
}

func (s *fakeStore) ListBids(auctionID uint) ([]ds.Bid, error) {
	var out []ds.Bid
	for _, b := range s.bids {
		if b.AuctionID == auctionID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakeStore) ListBidderIDs(auctionID uint) ([]uint, error) {
	seen := map[uint]bool{}
	var out []uint
	for _, b := range s.bids {
		if b.AuctionID == auctionID && !seen[b.BidderID] {
			seen[b.BidderID] = true
			out = append(out, b.BidderID)
		}
	}
	return out, nil
}

func (s *fakeStore) ListResults(auctionID uint) ([]ds.AuctionResult, error) {
	var out []ds.AuctionResult
	for _, r := range s.results {
		if r.AuctionID == auctionID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeStore) UpsertResult(auctionID, bidderID uint, status ds.ResultStatus, reason string, shortlistedAt *time.Time) error {
	for i, r := range s.results {
		if r.AuctionID == auctionID && r.BidderID == bidderID {
			s.results[i].Status = status
			s.results[i].Reason = reason
			if shortlistedAt != nil {
				s.results[i].ShortlistedAt = shortlistedAt
			}
			return nil
		}
	}
	s.results = append(s.results, ds.AuctionResult{
		ID:            uint(len(s.results) + 1),
		AuctionID:     auctionID,
		BidderID:      bidderID,
		Status:        status,
		Reason:        reason,
		ShortlistedAt: shortlistedAt,
	})
	return nil
}

func (s *fakeStore) AwardResult(auctionID, bidderID uint) error {
	target := -1
	for i, r := range s.results {
		if r.AuctionID == auctionID && r.BidderID == bidderID {
			target = i
		}
	}
	if target < 0 || s.results[target].Status != ds.ResultShortListed {
		return errors.New("статус уже изменён")
	}
	for i, r := range s.results {
		if i != target && r.AuctionID == auctionID &&
			(r.Status == ds.ResultShortListed || r.Status == ds.ResultAwarded) {
			s.results[i].Status = ds.ResultNotAwarded
		}
	}
	s.results[target].Status = ds.ResultAwarded
	return nil
}

func (s *fakeStore) CancelAuctionWithResults(auctionID uint, reason string, bidderIDs []uint, cancelledAt time.Time) error {
	s.auction.Status = ds.StatusCancelled
	s.auction.StatusReason = reason
	for _, id := range bidderIDs {
		if err := s.UpsertResult(auctionID, id, ds.ResultCancel, reason, nil); err != nil {
			return err
		}
	}
	return nil
}

func (s *fakeStore) GetUsers(ids []uint) ([]ds.User, error) {
	var out []ds.User
	for _, u := range s.users {
		for _, id := range ids {
			if u.ID == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (s *fakeStore) resultOf(bidderID uint) *ds.AuctionResult {
	for i, r := range s.results {
		if r.BidderID == bidderID {
			return &s.results[i]
		}
	}
	return nil
}

type fakeNotifier struct {
	sent []string
	fail bool
}

func (n *fakeNotifier) Notify(email, subject, body string) error {
	if n.fail {
		return errors.New("smtp недоступен")
	}
	n.sent = append(n.sent, email)
	return nil
}

func endedAuction() *ds.Auction {
	return &ds.Auction{
		ID:     1,
		Code:   "AUC-0001",
		Title:  "Поставка серверов",
		Status: ds.StatusEnded,
	}
}

// store с семью участниками: ставки 100..700, лучший - bidder 1
func storeWithBidders(n int) *fakeStore {
	s := &fakeStore{auction: endedAuction()}
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		s.bids = append(s.bids, ds.Bid{
			ID:        uint(i),
			AuctionID: 1,
			BidderID:  uint(i),
			Amount:    float64(i) * 100,
			BidTime:   base.Add(time.Duration(i) * time.Second),
		})
		s.users = append(s.users, ds.User{ID: uint(i), Email: "bidder" + string(rune('0'+i)) + "@test.ru"})
	}
	return s
}

func newWorkflow(s *fakeStore, n *fakeNotifier) *Workflow {
	clock := auction.FixedClock{T: time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)}
	return New(s, n, clock, 5)
}

func TestShortlistTopFive(t *testing.T) {
	store := storeWithBidders(7)
	notifier := &fakeNotifier{}
	wf := newWorkflow(store, notifier)

	results, err := wf.Shortlist(1)
	require.NoError(t, err)
	require.Len(t, results, 7)

	shortlisted := 0
	for _, r := range results {
		if r.Status == ds.ResultShortListed {
			shortlisted++
			assert.NotNil(t, r.ShortlistedAt)
		} else {
			assert.Equal(t, ds.ResultNotShortListed, r.Status)
		}
	}
	assert.Equal(t, 5, shortlisted)

	// лучшие (минимальные) ставки попадают в шорт-лист
	for id := uint(1); id <= 5; id++ {
		assert.Equal(t, ds.ResultShortListed, store.resultOf(id).Status)
	}
	assert.Equal(t, ds.ResultNotShortListed, store.resultOf(6).Status)
	assert.Equal(t, ds.ResultNotShortListed, store.resultOf(7).Status)

	// уведомлены только вошедшие в шорт-лист
	assert.Len(t, notifier.sent, 5)
}

func TestShortlistRepeatRejected(t *testing.T) {
	store := storeWithBidders(3)
	wf := newWorkflow(store, &fakeNotifier{})

	_, err := wf.Shortlist(1)
	require.NoError(t, err)

	_, err = wf.Shortlist(1)
	assert.ErrorIs(t, err, ErrAlreadyShortlisted)
}

func TestShortlistRequiresEndedAuction(t *testing.T) {
	store := storeWithBidders(3)
	store.auction.Status = ds.StatusLive
	wf := newWorkflow(store, &fakeNotifier{})

	_, err := wf.Shortlist(1)
	assert.ErrorIs(t, err, ErrAuctionNotEnded)
}

func TestShortlistWithoutBids(t *testing.T) {
	store := &fakeStore{auction: endedAuction()}
	wf := newWorkflow(store, &fakeNotifier{})

	_, err := wf.Shortlist(1)
	assert.ErrorIs(t, err, ErrNoBids)
}

func TestAwardExclusivity(t *testing.T) {
	store := storeWithBidders(3)
	wf := newWorkflow(store, &fakeNotifier{})
	_, err := wf.Shortlist(1)
	require.NoError(t, err)

	require.NoError(t, wf.Award(1, 2))

	awarded := 0
	for _, r := range store.results {
		if r.Status == ds.ResultAwarded {
			awarded++
		}
	}
	assert.Equal(t, 1, awarded)
	assert.Equal(t, ds.ResultAwarded, store.resultOf(2).Status)
	assert.Equal(t, ds.ResultNotAwarded, store.resultOf(1).Status)
	assert.Equal(t, ds.ResultNotAwarded, store.resultOf(3).Status)
}

func TestAwardRequiresShortlist(t *testing.T) {
	store := storeWithBidders(7)
	wf := newWorkflow(store, &fakeNotifier{})
	_, err := wf.Shortlist(1)
	require.NoError(t, err)

	// bidder 6 не в шорт-листе
	assert.ErrorIs(t, wf.Award(1, 6), ErrNotShortListed)

	// после назначения победителя повторное назначение невозможно:
	// остальные уже not_awarded
	require.NoError(t, wf.Award(1, 1))
	assert.ErrorIs(t, wf.Award(1, 2), ErrNotShortListed)
}

func TestNotAwardLeavesPeersUntouched(t *testing.T) {
	store := storeWithBidders(3)
	wf := newWorkflow(store, &fakeNotifier{})
	_, err := wf.Shortlist(1)
	require.NoError(t, err)

	require.NoError(t, wf.NotAward(1, 2))

	assert.Equal(t, ds.ResultNotAwarded, store.resultOf(2).Status)
	assert.Equal(t, ds.ResultShortListed, store.resultOf(1).Status)
	assert.Equal(t, ds.ResultShortListed, store.resultOf(3).Status)
}

func TestDisqualifyRequiresReason(t *testing.T) {
	store := storeWithBidders(3)
	wf := newWorkflow(store, &fakeNotifier{})
	_, err := wf.Shortlist(1)
	require.NoError(t, err)

	assert.ErrorIs(t, wf.Disqualify(1, 2, ""), ErrReasonRequired)

	require.NoError(t, wf.Disqualify(1, 2, "недействительная лицензия"))
	assert.Equal(t, ds.ResultDisqualified, store.resultOf(2).Status)
	assert.Equal(t, "недействительная лицензия", store.resultOf(2).Reason)
}

func TestDisqualifyAwardedForbidden(t *testing.T) {
	store := storeWithBidders(3)
	wf := newWorkflow(store, &fakeNotifier{})
	_, err := wf.Shortlist(1)
	require.NoError(t, err)
	require.NoError(t, wf.Award(1, 1))

	assert.ErrorIs(t, wf.Disqualify(1, 1, "причина"), ErrResultFinal)
}

func TestCancelBlockedAfterAward(t *testing.T) {
	store := storeWithBidders(3)
	wf := newWorkflow(store, &fakeNotifier{})
	_, err := wf.Shortlist(1)
	require.NoError(t, err)
	require.NoError(t, wf.Award(1, 1))

	assert.ErrorIs(t, wf.CancelAuction(1, "передумали"), ErrAwardDecided)
	assert.Equal(t, ds.StatusEnded, store.auction.Status)
}

func TestCancelMarksAllBidders(t *testing.T) {
	store := storeWithBidders(3)
	store.auction.Status = ds.StatusLive
	wf := newWorkflow(store, &fakeNotifier{})

	require.NoError(t, wf.CancelAuction(1, "закупка снята"))

	assert.Equal(t, ds.StatusCancelled, store.auction.Status)
	for id := uint(1); id <= 3; id++ {
		res := store.resultOf(id)
		require.NotNil(t, res)
		assert.Equal(t, ds.ResultCancel, res.Status)
		assert.Equal(t, "закупка снята", res.Reason)
	}
}

func TestCancelWithoutBidsProducesNoResults(t *testing.T) {
	store := &fakeStore{auction: endedAuction()}
	store.auction.Status = ds.StatusPending
	wf := newWorkflow(store, &fakeNotifier{})

	require.NoError(t, wf.CancelAuction(1, "закупка снята"))

	assert.Equal(t, ds.StatusCancelled, store.auction.Status)
	assert.Empty(t, store.results)
}

func TestCancelRequiresReason(t *testing.T) {
	store := storeWithBidders(3)
	wf := newWorkflow(store, &fakeNotifier{})

	assert.ErrorIs(t, wf.CancelAuction(1, ""), ErrReasonRequired)
}

func TestCancelTwiceRejected(t *testing.T) {
	store := storeWithBidders(3)
	store.auction.Status = ds.StatusLive
	wf := newWorkflow(store, &fakeNotifier{})

	require.NoError(t, wf.CancelAuction(1, "закупка снята"))
	assert.ErrorIs(t, wf.CancelAuction(1, "ещё раз"), ErrAlreadyCancelled)
}

// rejected - терминальный статус, отменить отклонённый аукцион нельзя
func TestCancelRejectedAuctionForbidden(t *testing.T) {
	store := storeWithBidders(0)
	store.auction.Status = ds.StatusRejected
	wf := newWorkflow(store, &fakeNotifier{})

	assert.ErrorIs(t, wf.CancelAuction(1, "передумали"), ErrAuctionRejected)
	assert.Equal(t, ds.StatusRejected, store.auction.Status)
}

func TestNotifierFailureDoesNotFailOperation(t *testing.T) {
	store := storeWithBidders(3)
	notifier := &fakeNotifier{fail: true}
	wf := newWorkflow(store, notifier)

	_, err := wf.Shortlist(1)
	require.NoError(t, err)

	require.NoError(t, wf.Award(1, 1))
	assert.Equal(t, ds.ResultAwarded, store.resultOf(1).Status)
}
