package notify

import (
	"context"
	"encoding/json"
	"time"

	"backend/internal/app/auction"
	"backend/internal/app/ds"
	"backend/internal/app/redis"

	"github.com/sirupsen/logrus"
)

// Broadcaster рассылает события торгов подключённым клиентам.
// Fire-and-forget: ядро не ждёт подтверждений и не считает сбой
// рассылки сбоем основной операции
type Broadcaster interface {
	BroadcastStatusChange(auctionID uint, newStatus ds.AuctionStatus, message string, ts time.Time)
	BroadcastRankingUpdate(auctionID uint, entries []auction.Entry)
}

// Notifier отправляет персональные уведомления (email).
// Доставка best-effort: ошибки логируются и никогда не откатывают
// изменение статуса - оно остаётся источником истины
type Notifier interface {
	Notify(email, subject, body string) error
}

// StatusChangeEvent - полезная нагрузка события смены статуса
type StatusChangeEvent struct {
	Type      string           `json:"type"`
	AuctionID uint             `json:"auction_id"`
	Status    ds.AuctionStatus `json:"status"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
}

// RankingUpdateEvent - полезная нагрузка обновления таблицы лидеров
type RankingUpdateEvent struct {
	Type      string          `json:"type"`
	AuctionID uint            `json:"auction_id"`
	Rankings  []auction.Entry `json:"rankings"`
}

// EventPublisher публикует события в redis pub/sub; вебсокет-хаб
// подписан на канал и раздаёт их клиентам
type EventPublisher struct {
	redis *redis.Client
}

func NewEventPublisher(redisClient *redis.Client) *EventPublisher {
	return &EventPublisher{redis: redisClient}
}

func (p *EventPublisher) BroadcastStatusChange(auctionID uint, newStatus ds.AuctionStatus, message string, ts time.Time) {
	p.publish(auctionID, StatusChangeEvent{
		Type:      "status_change",
		AuctionID: auctionID,
		Status:    newStatus,
		Message:   message,
		Timestamp: ts,
	})
}

func (p *EventPublisher) BroadcastRankingUpdate(auctionID uint, entries []auction.Entry) {
	p.publish(auctionID, RankingUpdateEvent{
		Type:      "ranking_update",
		AuctionID: auctionID,
		Rankings:  entries,
	})
}

func (p *EventPublisher) publish(auctionID uint, event interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		logrus.Error("Error marshalling auction event: ", err)
		return
	}
	if err := p.redis.Publish(context.Background(), auctionID, payload); err != nil {
		logrus.Error("Error publishing auction event: ", err)
	}
}

// LogNotifier пишет уведомления в лог вместо реальной отправки почты.
// Боевой SMTP-транспорт подключается снаружи той же сигнатурой
type LogNotifier struct{}

func (LogNotifier) Notify(email, subject, body string) error {
	logrus.WithFields(logrus.Fields{
		"to":      email,
		"subject": subject,
	}).Info("notification: ", body)
	return nil
}
