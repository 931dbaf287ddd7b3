package dto

// MinerMessage is the inbound WebSocket message shape. Type selects the
// operation; the remaining fields apply per type.
type MinerMessage struct {
	Type      string  `json:"type"`
	UserID    uint64  `json:"user_id,omitempty"`
	SessionID uint64  `json:"session_id,omitempty"`
	Weight    float64 `json:"weight,omitempty"`
	Username  string  `json:"username,omitempty"`
	Message   string  `json:"message,omitempty"`
}

// Inbound message types
const (
	MessageJoinMiner  = "join_miner"
	MessageHeartbeat  = "heartbeat"
	MessageShare      = "share"
	MessageChat       = "chat"
	MessageLeaveMiner = "leave_miner"
)

// MinerReply is the direct reply to an inbound WebSocket message, sent only
// to the submitting connection (room events go through the broadcast hub)
type MinerReply struct {
	Type        string `json:"type"`
	SessionID   uint64 `json:"session_id,omitempty"`
	TotalShares int64  `json:"total_shares,omitempty"`
	Msg         string `json:"msg,omitempty"`
	TS          string `json:"ts,omitempty"`
}

// Reply types
const (
	ReplyHello  = "hello"
	ReplyJoined = "joined"
	ReplyOK     = "ok"
	ReplyError  = "error"
)
