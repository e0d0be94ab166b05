package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"backend/internal/app/auction"
	"backend/internal/app/ds"
	"backend/internal/app/notify"
)

// Store - операции хранилища, нужные фоновому планировщику
type Store interface {
	ListOpenAuctions() ([]ds.Auction, error)
	UpdateAuctionStatus(id uint, to, expected ds.AuctionStatus) error
	ListBids(auctionID uint) ([]ds.Bid, error)
}

// Scheduler переводит approved-аукционы в live и live в ended строго по
// времени и периодически раздаёт таблицу лидеров идущих торгов.
// Оба прохода идемпотентны: повторный запуск без изменения времени
// ничего не пишет
type Scheduler struct {
	store       Store
	broadcaster notify.Broadcaster
	clock       auction.Clock

	statusInterval  time.Duration
	rankingInterval time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(store Store, broadcaster notify.Broadcaster, clock auction.Clock, statusInterval, rankingInterval time.Duration) *Scheduler {
	return &Scheduler{
		store:           store,
		broadcaster:     broadcaster,
		clock:           clock,
		statusInterval:  statusInterval,
		rankingInterval: rankingInterval,
	}
}

// Start запускает оба тикера в фоновых горутинах
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(2)
	go s.loop(ctx, s.statusInterval, s.SweepStatuses)
	go s.loop(ctx, s.rankingInterval, s.BroadcastRankings)

	log.WithFields(log.Fields{
		"status_interval":  s.statusInterval,
		"ranking_interval": s.rankingInterval,
	}).Info("Планировщик аукционов запущен")
}

func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	log.Info("Планировщик аукционов остановлен")
}

func (s *Scheduler) loop(ctx context.Context, interval time.Duration, tick func()) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick()
		}
	}
}

// SweepStatuses сверяет расчётный статус каждого открытого аукциона с
// сохранённым и записывает расхождение. Ошибка по одному аукциону
// логируется и не мешает остальным: следующий тик повторит попытку
func (s *Scheduler) SweepStatuses() {
	auctions, err := s.store.ListOpenAuctions()
	if err != nil {
		log.WithError(err).Error("Не удалось получить список открытых аукционов")
		return
	}

	now := s.clock.Now()
	for _, a := range auctions {
		if err := s.sweepOne(a, now); err != nil {
			log.WithError(err).WithField("auction_id", a.ID).Error("Ошибка обработки аукциона, пропускаем")
		}
	}
}

func (s *Scheduler) sweepOne(a ds.Auction, now time.Time) error {
	liveness := auction.Evaluate(a, now)
	if liveness.Calculated == ds.StatusError {
		return fmt.Errorf("некорректное расписание аукциона %s", a.Code)
	}
	if liveness.Calculated == a.Status {
		return nil
	}
	if !a.Status.CanTransition(liveness.Calculated) {
		return fmt.Errorf("недопустимый переход %s -> %s", a.Status, liveness.Calculated)
	}

	// запись с охраной по ожидаемому статусу: проигравший гонку
	// просто пропускает аукцион
	err := s.store.UpdateAuctionStatus(a.ID, liveness.Calculated, a.Status)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"auction_id": a.ID,
		"code":       a.Code,
		"from":       a.Status,
		"to":         liveness.Calculated,
	}).Info("Статус аукциона обновлён")

	message := "Торги начались"
	if liveness.Calculated == ds.StatusEnded {
		message = "Торги завершены"
	}
	s.broadcaster.BroadcastStatusChange(a.ID, liveness.Calculated, message, now)
	return nil
}

// BroadcastRankings раздаёт текущую таблицу лидеров каждого идущего
// аукциона. Рейтинг всегда пересчитывается по полному набору ставок
func (s *Scheduler) BroadcastRankings() {
	auctions, err := s.store.ListOpenAuctions()
	if err != nil {
		log.WithError(err).Error("Не удалось получить список открытых аукционов")
		return
	}

	now := s.clock.Now()
	for _, a := range auctions {
		if !auction.Evaluate(a, now).IsLive {
			continue
		}
		bids, err := s.store.ListBids(a.ID)
		if err != nil {
			log.WithError(err).WithField("auction_id", a.ID).Error("Не удалось получить ставки, пропускаем")
			continue
		}
		if len(bids) == 0 {
			continue
		}
		s.broadcaster.BroadcastRankingUpdate(a.ID, auction.Rank(bids))
	}
}
