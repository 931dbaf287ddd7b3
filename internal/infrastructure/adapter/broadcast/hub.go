package broadcast

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	coreport "github.com/poolworks/pool-ledger/internal/domain/port/core"
)

const (
	// Per-client send buffer. A subscriber that falls this far behind is
	// dropped rather than allowed to stall the room.
	sendBufferSize = 256

	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
	pongTimeout  = 60 * time.Second

	maxMessageSize = 4 * 1024
)

// Envelope is the wire shape of every event pushed to subscribers
type Envelope struct {
	Event     string    `json:"event"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// Client is one WebSocket subscriber managed by the hub
type Client struct {
	ID   string
	conn *websocket.Conn
	send chan []byte

	closeOnce sync.Once
}

// newClient wraps a WebSocket connection for hub management
func newClient(id string, conn *websocket.Conn) *Client {
	return &Client{
		ID:   id,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// Hub fans state-change events out to the pool room. It implements the
// broadcast gateway port: delivery is fire-and-forget, and a subscriber that
// cannot keep up is disconnected instead of backpressuring the publishers.
//
// Locking invariant: a client's send channel is only written while mu is
// held for reading and only closed while mu is held for writing, so a queue
// attempt can never hit an already-closed channel.
type Hub struct {
	logger       coreport.Logger
	timeProvider coreport.TimeProvider

	mu      sync.RWMutex
	clients map[string]*Client // all registered connections
	room    map[string]bool    // connections subscribed to the pool room
}

// NewHub creates an empty hub
func NewHub(logger coreport.Logger, timeProvider coreport.TimeProvider) *Hub {
	return &Hub{
		logger:       logger,
		timeProvider: timeProvider,
		clients:      make(map[string]*Client),
		room:         make(map[string]bool),
	}
}

// Register attaches a WebSocket connection to the hub under the given
// subscriber ID and starts its write pump. The read side stays with the
// caller, which parses inbound commands.
func (h *Hub) Register(subscriberID string, conn *websocket.Conn) {
	client := newClient(subscriberID, conn)

	conn.SetReadLimit(maxMessageSize)

	h.mu.Lock()
	h.clients[subscriberID] = client
	h.mu.Unlock()

	go h.writePump(client)

	h.logger.Info("Subscriber connected", map[string]any{
		"subscriber_id": subscriberID,
		"remote_addr":   conn.RemoteAddr().String(),
	})
}

// Unregister detaches a connection from the hub and the room and closes it
func (h *Hub) Unregister(subscriberID string) {
	h.mu.Lock()
	client, ok := h.clients[subscriberID]
	if ok {
		delete(h.clients, subscriberID)
		delete(h.room, subscriberID)
		client.close()
	}
	h.mu.Unlock()

	if !ok {
		return
	}

	h.logger.Info("Subscriber disconnected", map[string]any{
		"subscriber_id": subscriberID,
	})
}

// Join adds a registered subscriber to the pool room
func (h *Hub) Join(subscriberID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[subscriberID]; !ok {
		h.logger.Warn("Join for unknown subscriber", map[string]any{
			"subscriber_id": subscriberID,
		})
		return
	}
	h.room[subscriberID] = true
}

// Leave removes a subscriber from the pool room. The connection itself stays
// registered; unknown subscribers are ignored.
func (h *Hub) Leave(subscriberID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.room, subscriberID)
}

// Publish delivers an event to every subscriber in the pool room. Marshals
// once, then fans out without blocking: a full send buffer drops the client.
func (h *Hub) Publish(event string, payload any) {
	data, err := json.Marshal(Envelope{
		Event:     event,
		Data:      payload,
		Timestamp: h.timeProvider.Now(),
	})
	if err != nil {
		h.logger.Error("Failed to marshal broadcast event", map[string]any{
			"event": event,
			"error": err.Error(),
		})
		return
	}

	// Queue under the read lock so no send races a concurrent Unregister
	// closing the channel.
	h.mu.RLock()
	delivered := 0
	var slow []string
	for id := range h.room {
		client, ok := h.clients[id]
		if !ok {
			continue
		}
		select {
		case client.send <- data:
			delivered++
		default:
			h.logger.Warn("Subscriber send buffer full, dropping client", map[string]any{
				"subscriber_id": client.ID,
				"event":         event,
			})
			slow = append(slow, client.ID)
		}
	}
	h.mu.RUnlock()

	for _, id := range slow {
		h.Unregister(id)
	}

	h.logger.Debug("Event published", map[string]any{
		"event":       event,
		"subscribers": delivered,
	})
}

// Send queues a message for one subscriber only, bypassing the room. Used
// for direct command replies. Fire-and-forget like Publish.
func (h *Hub) Send(subscriberID string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[subscriberID]
	if !ok {
		return
	}

	select {
	case client.send <- message:
	default:
		h.logger.Warn("Subscriber send buffer full on direct reply", map[string]any{
			"subscriber_id": subscriberID,
		})
	}
}

// RoomSize returns how many subscribers are currently in the pool room
func (h *Hub) RoomSize() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.room)
}

// Close disconnects every subscriber
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		client.close()
	}
	h.clients = make(map[string]*Client)
	h.room = make(map[string]bool)
}

// writePump drains the client's send channel onto the wire and keeps the
// connection alive with pings. Exits when the send channel closes or a write
// fails, closing the connection either way.
func (h *Hub) writePump(client *Client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				h.logger.Debug("Write to subscriber failed", map[string]any{
					"subscriber_id": client.ID,
					"error":         err.Error(),
				})
				return
			}

			// Drain queued messages in the same write window
			n := len(client.send)
			for i := 0; i < n; i++ {
				if err := client.conn.WriteMessage(websocket.TextMessage, <-client.send); err != nil {
					return
				}
			}

		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ConfigurePong arms the read deadline and pong handler on a registered
// connection. Called by the read loop owner before it starts reading.
func (h *Hub) ConfigurePong(conn *websocket.Conn) {
	conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongTimeout))
		return nil
	})
}
