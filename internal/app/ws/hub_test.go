package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialClients поднимает тестовый сервер и подключает n вебсокет-клиентов
// к одному аукциону
func dialClients(t *testing.T, h *Hub, auctionID string, n int) []*websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.HandleConnection(w, r, auctionID)
	}))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conns := make([]*websocket.Conn, 0, n)
	for i := 0; i < n; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.NoError(t, err)
		conns = append(conns, conn)
	}

	require.Eventually(t, func() bool {
		return h.SubscriberCount(auctionID) == n
	}, 2*time.Second, 10*time.Millisecond, "не все клиенты успели зарегистрироваться")

	return conns
}

func TestBroadcastDeliversToSubscribers(t *testing.T) {
	h := NewHub(nil)
	conns := dialClients(t, h, "7", 2)

	payload := `{"event":"status_change","auction_id":7,"new_status":"live"}`
	h.broadcast("7", []byte(payload))

	for _, conn := range conns {
		conn.SetReadDeadline(time.Now().Add(time.Second))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.JSONEq(t, payload, string(msg))
	}
}

func TestBroadcastIgnoresOtherAuctions(t *testing.T) {
	h := NewHub(nil)
	conns := dialClients(t, h, "3", 1)

	h.broadcast("4", []byte(`{"event":"ranking_update"}`))

	conns[0].SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err := conns[0].ReadMessage()
	assert.Error(t, err, "клиент чужого аукциона не должен получать событие")
}

// Рассылка не должна падать, когда клиенты отключаются прямо во время
// broadcast: закрытие Send и запись в него разнесены по локам
func TestBroadcastDuringDisconnectDoesNotPanic(t *testing.T) {
	h := NewHub(nil)
	conns := dialClients(t, h, "5", 200)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			h.broadcast("5", []byte(`{"event":"ranking_update","auction_id":5}`))
		}
	}()

	for _, conn := range conns {
		conn.Close()
	}
	wg.Wait()

	assert.Eventually(t, func() bool {
		return h.SubscriberCount("5") == 0
	}, 5*time.Second, 20*time.Millisecond, "после отключения клиентов подписчиков не остаётся")
}
