package ws

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"backend/internal/app/redis"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client - одно вебсокет-подключение, подписанное на события аукциона
type Client struct {
	AuctionID string
	Conn      *websocket.Conn
	Send      chan []byte
}

// Hub раздаёт события торгов вебсокет-клиентам. События приходят
// из redis pub/sub (канал auction_events:{id}), поэтому рассылка
// работает и при нескольких экземплярах сервиса
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*Client]bool // auctionID -> клиенты

	redis *redis.Client
}

func NewHub(redisClient *redis.Client) *Hub {
	return &Hub{
		subscribers: make(map[string]map[*Client]bool),
		redis:       redisClient,
	}
}

// Run слушает pub/sub и раздаёт сообщения, блокирует - запускать в горутине
func (h *Hub) Run(ctx context.Context) {
	pubsub := h.redis.PSubscribe(ctx, redis.EventChannelPattern)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			auctionID := strings.TrimPrefix(msg.Channel, redis.EventChannelPrefix)
			h.broadcast(auctionID, []byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(auctionID string, payload []byte) {
	// Пишем в Send только под RLock: close(Send) в unregister берёт
	// полный лок, поэтому запись в закрытый канал невозможна
	var slow []*Client
	h.mu.RLock()
	for c := range h.subscribers[auctionID] {
		select {
		case c.Send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	// Медленный клиент не должен тормозить остальных
	for _, c := range slow {
		h.unregister(c)
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	if h.subscribers[c.AuctionID] == nil {
		h.subscribers[c.AuctionID] = make(map[*Client]bool)
	}
	h.subscribers[c.AuctionID][c] = true
	h.mu.Unlock()
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if clients, ok := h.subscribers[c.AuctionID]; ok {
		if clients[c] {
			delete(clients, c)
			close(c.Send)
		}
		if len(clients) == 0 {
			delete(h.subscribers, c.AuctionID)
		}
	}
	h.mu.Unlock()
	c.Conn.Close()
}

// SubscriberCount - число клиентов, наблюдающих за аукционом
func (h *Hub) SubscriberCount(auctionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[auctionID])
}

// HandleConnection апгрейдит HTTP-запрос до вебсокета и подписывает
// клиента на события одного аукциона
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request, auctionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Error("Error upgrading websocket connection: ", err)
		return
	}

	client := &Client{
		AuctionID: auctionID,
		Conn:      conn,
		Send:      make(chan []byte, 64),
	}
	h.register(client)

	go client.writePump()
	go client.readPump(h)
}

func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump только поддерживает соединение: клиенты ничего не шлют,
// ставки принимаются через REST
func (c *Client) readPump(h *Hub) {
	defer h.unregister(c)

	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
	}
}
