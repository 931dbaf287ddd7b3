package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	domainerr "github.com/poolworks/pool-ledger/internal/domain/error"
	broadcastPort "github.com/poolworks/pool-ledger/internal/domain/port/broadcast"
	coreport "github.com/poolworks/pool-ledger/internal/domain/port/core"
	sessionUseCase "github.com/poolworks/pool-ledger/internal/domain/usecase/session"
	shareUseCase "github.com/poolworks/pool-ledger/internal/domain/usecase/share"
	"github.com/poolworks/pool-ledger/internal/infrastructure/adapter/api/dto"
	broadcastAdapter "github.com/poolworks/pool-ledger/internal/infrastructure/adapter/broadcast"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Miners connect from anywhere; auth is message-level
		return true
	},
}

// WSHandler terminates miner WebSocket connections and maps inbound messages
// onto the session registry and share accumulator. Room-wide events flow back
// through the broadcast hub; direct replies go only to the submitting
// connection.
type WSHandler struct {
	registry     *sessionUseCase.Registry
	accumulator  *shareUseCase.Accumulator
	hub          *broadcastAdapter.Hub
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewWSHandler creates a new WebSocket handler instance
func NewWSHandler(
	registry *sessionUseCase.Registry,
	accumulator *shareUseCase.Accumulator,
	hub *broadcastAdapter.Hub,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *WSHandler {
	return &WSHandler{
		registry:     registry,
		accumulator:  accumulator,
		hub:          hub,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Serve handles the GET /ws endpoint
func (h *WSHandler) Serve(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection", map[string]any{
			"error":     err.Error(),
			"client_ip": c.ClientIP(),
		})
		return
	}

	subscriberID := uuid.New().String()
	h.hub.Register(subscriberID, conn)
	h.hub.ConfigurePong(conn)

	h.reply(subscriberID, dto.MinerReply{
		Type: dto.ReplyHello,
		Msg:  "connected",
		TS:   h.timeProvider.Now().UTC().Format(time.RFC3339),
	})

	go h.readLoop(conn, subscriberID)
}

// readLoop consumes inbound messages until the connection drops. A drop with
// a live session behaves like an explicit leave; the liveness sweep would
// catch it anyway, but demoting eagerly keeps the miners count honest.
func (h *WSHandler) readLoop(conn *websocket.Conn, subscriberID string) {
	var sessionID uint64

	defer func() {
		if sessionID != 0 {
			if err := h.registry.Leave(context.Background(), sessionID, subscriberID); err != nil {
				h.logger.Warn("Leave on disconnect failed", map[string]any{
					"session_id": sessionID,
					"error":      err.Error(),
				})
			}
		}
		h.hub.Unregister(subscriberID)
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.logger.Warn("WebSocket read error", map[string]any{
					"subscriber_id": subscriberID,
					"error":         err.Error(),
				})
			}
			return
		}

		var msg dto.MinerMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.replyError(subscriberID, "malformed message")
			continue
		}

		switch msg.Type {
		case dto.MessageJoinMiner:
			sessionID = h.handleJoin(subscriberID, msg, sessionID)
		case dto.MessageHeartbeat:
			h.handleHeartbeat(subscriberID, msg)
		case dto.MessageShare:
			h.handleShare(subscriberID, msg)
		case dto.MessageChat:
			h.handleChat(subscriberID, msg)
		case dto.MessageLeaveMiner:
			if h.handleLeave(subscriberID, msg) && msg.SessionID == sessionID {
				sessionID = 0
			}
		default:
			h.replyError(subscriberID, "unknown message type: "+msg.Type)
		}
	}
}

// handleJoin processes a join_miner message, returning the session ID now
// owned by this connection
func (h *WSHandler) handleJoin(subscriberID string, msg dto.MinerMessage, current uint64) uint64 {
	if msg.UserID == 0 {
		h.replyError(subscriberID, "user_id is required")
		return current
	}

	session, err := h.registry.Join(context.Background(), msg.UserID, subscriberID)
	if err != nil {
		if errors.Is(err, domainerr.ErrUnknownUser) {
			h.replyError(subscriberID, "unknown user")
		} else {
			h.replyError(subscriberID, "join failed")
		}
		return current
	}

	h.reply(subscriberID, dto.MinerReply{
		Type:      dto.ReplyJoined,
		SessionID: session.ID,
	})
	return session.ID
}

func (h *WSHandler) handleHeartbeat(subscriberID string, msg dto.MinerMessage) {
	if err := h.registry.Heartbeat(context.Background(), msg.SessionID); err != nil {
		if errors.Is(err, domainerr.ErrInvalidSession) {
			h.replyError(subscriberID, "invalid session")
		} else {
			h.replyError(subscriberID, "heartbeat failed")
		}
		return
	}

	h.reply(subscriberID, dto.MinerReply{
		Type:      dto.ReplyOK,
		SessionID: msg.SessionID,
	})
}

func (h *WSHandler) handleShare(subscriberID string, msg dto.MinerMessage) {
	totalShares, err := h.accumulator.SubmitShare(context.Background(), msg.SessionID, msg.Weight)
	if err != nil {
		switch {
		case errors.Is(err, domainerr.ErrInvalidSession):
			h.replyError(subscriberID, "invalid session")
		case domainerr.IsTotalUnavailableError(err):
			// The share itself is committed; only the fresh total is missing
			h.reply(subscriberID, dto.MinerReply{
				Type:      dto.ReplyOK,
				SessionID: msg.SessionID,
				Msg:       "share recorded, total unavailable",
			})
		default:
			h.replyError(subscriberID, "share rejected")
		}
		return
	}

	h.reply(subscriberID, dto.MinerReply{
		Type:        dto.ReplyOK,
		SessionID:   msg.SessionID,
		TotalShares: totalShares,
	})
}

// handleChat relays a chat line to everyone in the pool room. The sender does
// not need an active session; chat is social, not ledger state.
func (h *WSHandler) handleChat(subscriberID string, msg dto.MinerMessage) {
	if msg.Message == "" {
		h.replyError(subscriberID, "message is required")
		return
	}

	h.hub.Publish(broadcastPort.EventChatMessage, map[string]any{
		"username": msg.Username,
		"message":  msg.Message,
	})
}

// handleLeave reports whether the leave was accepted
func (h *WSHandler) handleLeave(subscriberID string, msg dto.MinerMessage) bool {
	if err := h.registry.Leave(context.Background(), msg.SessionID, subscriberID); err != nil {
		h.replyError(subscriberID, "leave failed")
		return false
	}

	h.reply(subscriberID, dto.MinerReply{
		Type:      dto.ReplyOK,
		SessionID: msg.SessionID,
	})
	return true
}

func (h *WSHandler) reply(subscriberID string, reply dto.MinerReply) {
	data, err := json.Marshal(reply)
	if err != nil {
		h.logger.Error("Failed to marshal reply", map[string]any{
			"error": err.Error(),
		})
		return
	}
	h.hub.Send(subscriberID, data)
}

func (h *WSHandler) replyError(subscriberID, message string) {
	h.reply(subscriberID, dto.MinerReply{
		Type: dto.ReplyError,
		Msg:  message,
	})
}
