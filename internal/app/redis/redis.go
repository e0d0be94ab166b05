package redis

import (
	"context"
	"fmt"
	"time"

	"backend/internal/app/config"

	"github.com/go-redis/redis/v8"
)

const (
	jwtPrefix = "jwt."
	// Канал событий аукциона для рассылки по вебсокетам,
	// {id} подставляется в имя канала
	EventChannelPrefix  = "auction_events:"
	EventChannelPattern = EventChannelPrefix + "*"
)

type Client struct {
	cfg    config.RedisConfig
	client *redis.Client
}

func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	client := &Client{cfg: cfg}

	client.client = redis.NewClient(&redis.Options{
		Password:    cfg.Password,
		Username:    cfg.User,
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		DB:          0,
		DialTimeout: cfg.DialTimeout,
		ReadTimeout: cfg.ReadTimeout,
	})

	if err := client.client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cant ping redis: %w", err)
	}

	return client, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// WriteJWTToBlacklist помещает токен в чёрный список до истечения его срока
func (c *Client) WriteJWTToBlacklist(ctx context.Context, jwtStr string, jwtTTL time.Duration) error {
	return c.client.Set(ctx, jwtPrefix+jwtStr, true, jwtTTL).Err()
}

// CheckJWTInBlacklist возвращает nil, если токен в чёрном списке
func (c *Client) CheckJWTInBlacklist(ctx context.Context, jwtStr string) error {
	return c.client.Get(ctx, jwtPrefix+jwtStr).Err()
}

// Publish отправляет событие аукциона в pub/sub канал.
// Доставка best-effort: подписчиков может не быть вовсе
func (c *Client) Publish(ctx context.Context, auctionID uint, payload []byte) error {
	channel := fmt.Sprintf("%s%d", EventChannelPrefix, auctionID)
	return c.client.Publish(ctx, channel, payload).Err()
}

// PSubscribe подписывается на события всех аукционов
func (c *Client) PSubscribe(ctx context.Context, pattern string) *redis.PubSub {
	return c.client.PSubscribe(ctx, pattern)
}
