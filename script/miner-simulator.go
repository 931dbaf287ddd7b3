package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// RegisterRequest is the registration payload
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterResponse is the registration response
type RegisterResponse struct {
	UserID        uint64 `json:"userId"`
	Username      string `json:"username"`
	WalletAddress string `json:"walletAddress"`
}

// MinerMessage is the outbound WebSocket message
type MinerMessage struct {
	Type      string  `json:"type"`
	UserID    uint64  `json:"user_id,omitempty"`
	SessionID uint64  `json:"session_id,omitempty"`
	Weight    float64 `json:"weight,omitempty"`
}

// MinerReply is the inbound WebSocket reply
type MinerReply struct {
	Type        string `json:"type"`
	SessionID   uint64 `json:"session_id,omitempty"`
	TotalShares int64  `json:"total_shares,omitempty"`
	Msg         string `json:"msg,omitempty"`
}

// PayoutRequest triggers a payout run
type PayoutRequest struct {
	TotalReward float64 `json:"total_reward"`
}

// MinerStats tracks per-miner activity
type MinerStats struct {
	SharesAccepted int
	SharesRejected int
	Lock           sync.Mutex
}

func main() {
	miners := flag.Int("m", 3, "Number of simulated miners")
	sharesPerMiner := flag.Int("n", 20, "Shares each miner submits")
	delayMs := flag.Int("delay", 200, "Delay between shares in milliseconds")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL for the API")
	wsURL := flag.String("ws", "ws://localhost:8080/ws", "WebSocket URL")
	reward := flag.Float64("reward", 100.0, "Reward to distribute after all miners finish (0 to skip)")
	flag.Parse()

	fmt.Printf("Simulating %d miners, %d shares each, %dms apart\n", *miners, *sharesPerMiner, *delayMs)

	stats := &MinerStats{}
	var wg sync.WaitGroup

	for i := 0; i < *miners; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			runMiner(idx, *baseURL, *wsURL, *sharesPerMiner, *delayMs, stats)
		}(i)
	}

	wg.Wait()

	fmt.Printf("Shares accepted: %d, rejected: %d\n", stats.SharesAccepted, stats.SharesRejected)

	if *reward > 0 {
		triggerPayout(*baseURL, *reward)
	}
}

// runMiner registers a throwaway account, joins over WebSocket, submits
// shares with heartbeats in between, then leaves
func runMiner(idx int, baseURL, wsURL string, shares, delayMs int, stats *MinerStats) {
	username := fmt.Sprintf("sim-miner-%d-%d", idx, time.Now().UnixNano())

	userID, err := register(baseURL, username)
	if err != nil {
		fmt.Printf("miner %d: register failed: %v\n", idx, err)
		return
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		fmt.Printf("miner %d: dial failed: %v\n", idx, err)
		return
	}
	defer conn.Close()

	// Join
	if err := conn.WriteJSON(MinerMessage{Type: "join_miner", UserID: userID}); err != nil {
		fmt.Printf("miner %d: join write failed: %v\n", idx, err)
		return
	}

	sessionID, err := awaitReply(conn, "joined")
	if err != nil {
		fmt.Printf("miner %d: join failed: %v\n", idx, err)
		return
	}

	fmt.Printf("miner %d: joined as user %d, session %d\n", idx, userID, sessionID)

	// Submit shares, with the occasional heartbeat mixed in
	for s := 0; s < shares; s++ {
		msg := MinerMessage{Type: "share", SessionID: sessionID, Weight: 1.0}
		if s%5 == 4 {
			msg = MinerMessage{Type: "heartbeat", SessionID: sessionID}
		}

		if err := conn.WriteJSON(msg); err != nil {
			fmt.Printf("miner %d: write failed: %v\n", idx, err)
			return
		}

		// Broadcast events share the connection; read until the direct
		// reply for this message arrives
		var reply *MinerReply
		for {
			reply, err = readReply(conn)
			if err != nil {
				fmt.Printf("miner %d: read failed: %v\n", idx, err)
				return
			}
			if reply.Type == "ok" || reply.Type == "error" {
				break
			}
		}

		stats.Lock.Lock()
		if reply.Type == "error" {
			stats.SharesRejected++
		} else if msg.Type == "share" {
			stats.SharesAccepted++
		}
		stats.Lock.Unlock()

		time.Sleep(time.Duration(delayMs+rand.Intn(delayMs)) * time.Millisecond)
	}

	// Leave
	if err := conn.WriteJSON(MinerMessage{Type: "leave_miner", SessionID: sessionID}); err != nil {
		fmt.Printf("miner %d: leave write failed: %v\n", idx, err)
	}
}

func register(baseURL, username string) (uint64, error) {
	body, _ := json.Marshal(RegisterRequest{Username: username, Password: "sim-pass"})

	resp, err := http.Post(baseURL+"/api/register", "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var reg RegisterResponse
	if err := json.NewDecoder(resp.Body).Decode(&reg); err != nil {
		return 0, err
	}
	return reg.UserID, nil
}

// awaitReply reads replies until one of the wanted type arrives, skipping
// room broadcasts that share the connection
func awaitReply(conn *websocket.Conn, wantType string) (uint64, error) {
	for i := 0; i < 10; i++ {
		reply, err := readReply(conn)
		if err != nil {
			return 0, err
		}
		if reply.Type == wantType {
			return reply.SessionID, nil
		}
		if reply.Type == "error" {
			return 0, fmt.Errorf("server error: %s", reply.Msg)
		}
	}
	return 0, fmt.Errorf("no %s reply", wantType)
}

func readReply(conn *websocket.Conn) (*MinerReply, error) {
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))

	var reply MinerReply
	if err := conn.ReadJSON(&reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func triggerPayout(baseURL string, reward float64) {
	body, _ := json.Marshal(PayoutRequest{TotalReward: reward})

	resp, err := http.Post(baseURL+"/api/payout", "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("payout failed: %v\n", err)
		return
	}
	defer resp.Body.Close()

	fmt.Printf("payout triggered, status %d\n", resp.StatusCode)
}
