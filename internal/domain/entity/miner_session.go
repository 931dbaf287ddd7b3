package entity

import (
	"time"

	errs "github.com/poolworks/pool-ledger/internal/domain/error"
	coreport "github.com/poolworks/pool-ledger/internal/domain/port/core"
)

// MinerSession tracks one connection-lifetime of mining activity for a user.
// A session is created active on join and transitions to inactive exactly once,
// either by an explicit leave or by the liveness sweep. It never transitions
// back: a re-joining miner gets a fresh session.
type MinerSession struct {
	ID        uint64    // Unique identifier for the session
	UserID    uint64    // Owning user
	StartedAt time.Time // When the session was created
	LastSeen  time.Time // Updated on every heartbeat and share submission
	Active    bool      // Liveness flag, true -> false only
	Shares    int64     // Shares accumulated in the current epoch, reset by payout
}

// NewMinerSession creates a new active session for the given user
func NewMinerSession(userID uint64, timeProvider coreport.TimeProvider) (*MinerSession, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}

	now := timeProvider.Now()
	return &MinerSession{
		UserID:    userID,
		StartedAt: now,
		LastSeen:  now,
		Active:    true,
		Shares:    0,
	}, nil
}

// Touch records activity on the session, pushing the liveness window forward
func (s *MinerSession) Touch(timeProvider coreport.TimeProvider) {
	s.LastSeen = timeProvider.Now()
}

// Deactivate marks the session inactive. Idempotent.
func (s *MinerSession) Deactivate() {
	s.Active = false
}

// AddShare increments the epoch share counter and records activity
func (s *MinerSession) AddShare(timeProvider coreport.TimeProvider) {
	s.Shares++
	s.LastSeen = timeProvider.Now()
}

// ResetShares clears the epoch share counter after a payout run
func (s *MinerSession) ResetShares() {
	s.Shares = 0
}

// IsStale reports whether the session's last activity falls outside the
// liveness window ending at now
func (s *MinerSession) IsStale(now time.Time, timeout time.Duration) bool {
	return s.LastSeen.Before(now.Add(-timeout))
}
