package broadcast

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poolworks/pool-ledger/internal/infrastructure/adapter/logger"
	timeprovider "github.com/poolworks/pool-ledger/internal/infrastructure/adapter/time"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// dialTestClient connects one WebSocket client to the hub under the given
// subscriber ID and returns the client side of the connection.
func dialTestClient(t *testing.T, hub *Hub, server *httptest.Server, subscriberID string) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?id=" + subscriberID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// Wait for the server side to register the connection
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		_, ok := hub.clients[subscriberID]
		return ok
	}, time.Second, 10*time.Millisecond)

	return conn
}

func newTestHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub(logger.NewNoopLogger(), timeprovider.NewRealTimeProvider())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(r.URL.Query().Get("id"), conn)
	}))

	t.Cleanup(func() {
		hub.Close()
		server.Close()
	})

	return hub, server
}

func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var envelope Envelope
	require.NoError(t, json.Unmarshal(data, &envelope))
	return envelope
}

func assertNoMessage(t *testing.T, conn *websocket.Conn) {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestHub_Publish(t *testing.T) {
	t.Run("should deliver events to room members only", func(t *testing.T) {
		hub, server := newTestHub(t)

		inRoom := dialTestClient(t, hub, server, "sub-in")
		outOfRoom := dialTestClient(t, hub, server, "sub-out")

		hub.Join("sub-in")
		assert.Equal(t, 1, hub.RoomSize())

		hub.Publish("token_update", map[string]any{"total_shares": int64(12)})

		envelope := readEnvelope(t, inRoom)
		assert.Equal(t, "token_update", envelope.Event)

		data, ok := envelope.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(12), data["total_shares"])

		assertNoMessage(t, outOfRoom)
	})

	t.Run("should stop delivering after leave", func(t *testing.T) {
		hub, server := newTestHub(t)

		conn := dialTestClient(t, hub, server, "sub-a")
		hub.Join("sub-a")
		hub.Leave("sub-a")
		assert.Equal(t, 0, hub.RoomSize())

		hub.Publish("miners_count", map[string]any{"count": int64(0)})

		assertNoMessage(t, conn)
	})

	t.Run("should ignore joins from unknown subscribers", func(t *testing.T) {
		hub, _ := newTestHub(t)

		hub.Join("never-registered")
		assert.Equal(t, 0, hub.RoomSize())
	})
}

func TestHub_Send(t *testing.T) {
	t.Run("should deliver a direct reply outside the room", func(t *testing.T) {
		hub, server := newTestHub(t)

		conn := dialTestClient(t, hub, server, "sub-a")

		hub.Send("sub-a", []byte(`{"type":"ok"}`))

		require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"ok"}`, string(data))
	})

	t.Run("should drop a send to an unknown subscriber", func(t *testing.T) {
		hub, _ := newTestHub(t)

		// Must not panic or block
		hub.Send("never-registered", []byte("x"))
	})
}

func TestHub_Unregister(t *testing.T) {
	t.Run("should remove the subscriber from the room and close the connection", func(t *testing.T) {
		hub, server := newTestHub(t)

		conn := dialTestClient(t, hub, server, "sub-a")
		hub.Join("sub-a")

		hub.Unregister("sub-a")
		assert.Equal(t, 0, hub.RoomSize())

		// The write pump closes the connection; the client read fails
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
		_, _, err := conn.ReadMessage()
		assert.Error(t, err)
	})

	t.Run("should ignore an unknown subscriber", func(t *testing.T) {
		hub, _ := newTestHub(t)
		hub.Unregister("never-registered")
	})

	t.Run("should not panic when delivery races a disconnect", func(t *testing.T) {
		hub := NewHub(logger.NewNoopLogger(), timeprovider.NewRealTimeProvider())

		// Seed clients directly so no write pump drains the buffers; the
		// hub's locking alone must keep queueing and closing apart.
		for i := 0; i < 5000; i++ {
			id := "sub-" + strconv.Itoa(i)

			hub.mu.Lock()
			hub.clients[id] = newClient(id, nil)
			hub.room[id] = true
			hub.mu.Unlock()

			var wg sync.WaitGroup
			wg.Add(3)
			go func() {
				defer wg.Done()
				hub.Send(id, []byte(`{"type":"ok"}`))
			}()
			go func() {
				defer wg.Done()
				hub.Publish("miners_count", map[string]any{"count": int64(1)})
			}()
			go func() {
				defer wg.Done()
				hub.Unregister(id)
			}()
			wg.Wait()
		}

		hub.mu.RLock()
		defer hub.mu.RUnlock()
		assert.Empty(t, hub.clients)
	})
}
