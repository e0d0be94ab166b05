package workflow

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"backend/internal/app/auction"
	"backend/internal/app/ds"
	"backend/internal/app/notify"
)

// Ошибки нарушения предусловий. Обработчики переводят их в коды API
var (
	ErrAuctionNotEnded    = errors.New("аукцион ещё не завершён")
	ErrAlreadyShortlisted = errors.New("шорт-лист уже сформирован")
	ErrNoBids             = errors.New("в аукционе не было ставок")
	ErrNotShortListed     = errors.New("поставщик не входит в шорт-лист")
	ErrResultFinal        = errors.New("по поставщику уже принято окончательное решение")
	ErrReasonRequired     = errors.New("требуется указать причину")
	ErrAlreadyCancelled   = errors.New("аукцион уже отменён")
	ErrAuctionRejected    = errors.New("отклонённый аукцион нельзя отменить")
	ErrAwardDecided       = errors.New("по аукциону уже есть решение о победителе")
)

// ResultsStore - хранилище, необходимое процессу подведения итогов.
// Реализуется репозиторием, в тестах подменяется фейком
type ResultsStore interface {
	GetAuctionByID(id uint) (*ds.Auction, error)
	ListBids(auctionID uint) ([]ds.Bid, error)
	ListBidderIDs(auctionID uint) ([]uint, error)
	ListResults(auctionID uint) ([]ds.AuctionResult, error)
	UpsertResult(auctionID, bidderID uint, status ds.ResultStatus, reason string, shortlistedAt *time.Time) error
	AwardResult(auctionID, bidderID uint) error
	CancelAuctionWithResults(auctionID uint, reason string, bidderIDs []uint, cancelledAt time.Time) error
	GetUsers(ids []uint) ([]ds.User, error)
}

// Workflow - процесс подведения итогов аукциона:
// шорт-лист -> назначение победителя / отклонение / дисквалификация,
// с отменой аукциона как ручным завершением
type Workflow struct {
	store         ResultsStore
	notifier      notify.Notifier
	clock         auction.Clock
	shortlistSize int
}

func New(store ResultsStore, notifier notify.Notifier, clock auction.Clock, shortlistSize int) *Workflow {
	return &Workflow{
		store:         store,
		notifier:      notifier,
		clock:         clock,
		shortlistSize: shortlistSize,
	}
}

// Shortlist формирует шорт-лист завершённого аукциона: верхние позиции
// рейтинга по лучшей (минимальной) ставке получают short-listed,
// остальные участники - not-short-listed. Повторный вызов отклоняется
func (w *Workflow) Shortlist(auctionID uint) ([]ds.AuctionResult, error) {
	a, err := w.store.GetAuctionByID(auctionID)
	if err != nil {
		return nil, err
	}
	if a.Status != ds.StatusEnded {
		return nil, ErrAuctionNotEnded
	}

	existing, err := w.store.ListResults(auctionID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrAlreadyShortlisted
	}

	bids, err := w.store.ListBids(auctionID)
	if err != nil {
		return nil, err
	}
	if len(bids) == 0 {
		return nil, ErrNoBids
	}

	entries := auction.Rank(bids)
	now := w.clock.Now()
	var shortlisted []uint
	for i, entry := range entries {
		status := ds.ResultNotShortListed
		var at *time.Time
		if i < w.shortlistSize {
			status = ds.ResultShortListed
			at = &now
			shortlisted = append(shortlisted, entry.BidderID)
		}
		if err := w.store.UpsertResult(auctionID, entry.BidderID, status, "", at); err != nil {
			return nil, err
		}
	}

	w.notifyBidders(a, shortlisted,
		"Вы вошли в шорт-лист",
		fmt.Sprintf("Ваша ставка по аукциону %s (%s) вошла в шорт-лист. Ожидайте решения организатора.", a.Code, a.Title))

	return w.store.ListResults(auctionID)
}

// Award назначает победителя. Целевой поставщик должен находиться в
// шорт-листе; остальные участники шорт-листа атомарно переводятся в
// not_awarded, так что победитель всегда один
func (w *Workflow) Award(auctionID, bidderID uint) error {
	a, err := w.store.GetAuctionByID(auctionID)
	if err != nil {
		return err
	}

	if err := w.requireShortListed(auctionID, bidderID); err != nil {
		return err
	}

	if err := w.store.AwardResult(auctionID, bidderID); err != nil {
		return err
	}

	w.notifyBidders(a, []uint{bidderID},
		"Вы победили в аукционе",
		fmt.Sprintf("Вы признаны победителем аукциона %s (%s). Организатор свяжется с вами.", a.Code, a.Title))
	return nil
}

// NotAward переводит поставщика из шорт-листа в not_awarded,
// статусы остальных участников не затрагиваются
func (w *Workflow) NotAward(auctionID, bidderID uint) error {
	a, err := w.store.GetAuctionByID(auctionID)
	if err != nil {
		return err
	}

	if err := w.requireShortListed(auctionID, bidderID); err != nil {
		return err
	}

	if err := w.store.UpsertResult(auctionID, bidderID, ds.ResultNotAwarded, "", nil); err != nil {
		return err
	}

	w.notifyBidders(a, []uint{bidderID},
		"Решение по аукциону",
		fmt.Sprintf("По аукциону %s (%s) ваша заявка не признана победившей.", a.Code, a.Title))
	return nil
}

// Disqualify исключает поставщика с обязательной причиной.
// Запрещено для уже назначенного победителя и отменённых результатов
func (w *Workflow) Disqualify(auctionID, bidderID uint, reason string) error {
	if reason == "" {
		return ErrReasonRequired
	}

	a, err := w.store.GetAuctionByID(auctionID)
	if err != nil {
		return err
	}

	results, err := w.store.ListResults(auctionID)
	if err != nil {
		return err
	}
	for _, res := range results {
		if res.BidderID != bidderID {
			continue
		}
		if res.Status == ds.ResultAwarded || res.Status == ds.ResultCancel {
			return ErrResultFinal
		}
	}

	if err := w.store.UpsertResult(auctionID, bidderID, ds.ResultDisqualified, reason, nil); err != nil {
		return err
	}

	w.notifyBidders(a, []uint{bidderID},
		"Дисквалификация",
		fmt.Sprintf("Ваша заявка по аукциону %s (%s) дисквалифицирована. Причина: %s", a.Code, a.Title, reason))
	return nil
}

// CancelAuction - ручная отмена аукциона с обязательной причиной.
// Необратима; запрещена для отклонённых аукционов и после того,
// как решение о победителе уже принято.
// Каждый поставщик, сделавший хотя бы одну ставку, получает статус
// результата cancel с той же причиной
func (w *Workflow) CancelAuction(auctionID uint, reason string) error {
	if reason == "" {
		return ErrReasonRequired
	}

	a, err := w.store.GetAuctionByID(auctionID)
	if err != nil {
		return err
	}
	if a.Status == ds.StatusCancelled {
		return ErrAlreadyCancelled
	}
	// rejected - терминальный статус, переход rejected -> cancelled запрещён
	if a.Status == ds.StatusRejected {
		return ErrAuctionRejected
	}

	results, err := w.store.ListResults(auctionID)
	if err != nil {
		return err
	}
	for _, res := range results {
		if res.Status == ds.ResultAwarded || res.Status == ds.ResultNotAwarded {
			return ErrAwardDecided
		}
	}

	bidderIDs, err := w.store.ListBidderIDs(auctionID)
	if err != nil {
		return err
	}

	if err := w.store.CancelAuctionWithResults(auctionID, reason, bidderIDs, w.clock.Now()); err != nil {
		return err
	}

	w.notifyBidders(a, bidderIDs,
		"Аукцион отменён",
		fmt.Sprintf("Аукцион %s (%s) отменён организатором. Причина: %s", a.Code, a.Title, reason))
	return nil
}

func (w *Workflow) requireShortListed(auctionID, bidderID uint) error {
	results, err := w.store.ListResults(auctionID)
	if err != nil {
		return err
	}
	for _, res := range results {
		if res.BidderID == bidderID && res.Status == ds.ResultShortListed {
			return nil
		}
	}
	return ErrNotShortListed
}

// notifyBidders рассылает письма поставщикам. Сбои доставки только
// логируются: решение уже зафиксировано в БД и не откатывается
func (w *Workflow) notifyBidders(a *ds.Auction, bidderIDs []uint, subject, body string) {
	if len(bidderIDs) == 0 {
		return
	}
	users, err := w.store.GetUsers(bidderIDs)
	if err != nil {
		log.WithError(err).WithField("auction_id", a.ID).Error("не удалось получить адреса для уведомления")
		return
	}
	for _, user := range users {
		if user.Email == "" {
			continue
		}
		if err := w.notifier.Notify(user.Email, subject, body); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"auction_id": a.ID,
				"bidder_id":  user.ID,
			}).Error("не удалось отправить уведомление")
		}
	}
}
