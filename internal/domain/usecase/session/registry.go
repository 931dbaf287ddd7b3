package session

import (
	"context"
	"fmt"

	"github.com/poolworks/pool-ledger/internal/domain/entity"
	errs "github.com/poolworks/pool-ledger/internal/domain/error"
	"github.com/poolworks/pool-ledger/internal/domain/port/broadcast"
	coreport "github.com/poolworks/pool-ledger/internal/domain/port/core"
	"github.com/poolworks/pool-ledger/internal/domain/port/persistence"
)

// Registry implements the join/heartbeat/leave state machine for miner
// sessions. Every mutation that changes active-session membership re-broadcasts
// the current miners count through the gateway.
type Registry struct {
	users        persistence.UserRepository
	sessions     persistence.SessionRepository
	tracker      *Tracker
	gateway      broadcast.Gateway
	timeProvider coreport.TimeProvider
	logger       coreport.Logger

	// When true, a join demotes any prior active session of the same user so
	// a user never accrues shares on two sessions at once. Off by default.
	singleSessionPerUser bool
}

// NewRegistry creates a session registry
func NewRegistry(
	users persistence.UserRepository,
	sessions persistence.SessionRepository,
	tracker *Tracker,
	gateway broadcast.Gateway,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	singleSessionPerUser bool,
) *Registry {
	return &Registry{
		users:                users,
		sessions:             sessions,
		tracker:              tracker,
		gateway:              gateway,
		timeProvider:         timeProvider,
		logger:               logger,
		singleSessionPerUser: singleSessionPerUser,
	}
}

// Join creates a new active session for the given user and subscribes the
// caller to pool broadcasts.
//
// Possible errors:
// - ErrUnknownUser: If the identity doesn't resolve to a registered user
// - ErrDatabaseConnection: If the store fails
func (r *Registry) Join(ctx context.Context, userID uint64, subscriberID string) (*entity.MinerSession, error) {
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		if errs.IsNotFoundError(err) {
			r.logger.Warn("Join rejected for unknown user", map[string]any{
				"user_id": userID,
			})
			return nil, fmt.Errorf("%w: id %d", errs.ErrUnknownUser, userID)
		}
		return nil, err
	}

	if r.singleSessionPerUser {
		demoted, err := r.sessions.DeactivateByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if demoted > 0 {
			r.logger.Info("Demoted prior active sessions on join", map[string]any{
				"user_id": userID,
				"demoted": demoted,
			})
		}
	}

	sess, err := entity.NewMinerSession(userID, r.timeProvider)
	if err != nil {
		return nil, err
	}

	if err := r.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}

	r.gateway.Join(subscriberID)
	r.gateway.Publish(broadcast.EventJoined, map[string]any{
		"session_id": sess.ID,
		"user_id":    user.ID,
		"username":   user.Username,
	})
	r.publishMinersCount(ctx)

	r.logger.Info("Miner joined the pool", map[string]any{
		"session_id": sess.ID,
		"user_id":    user.ID,
		"username":   user.Username,
	})

	return sess, nil
}

// Heartbeat records activity on an active session, pushing its liveness
// window forward.
//
// Possible errors:
// - ErrInvalidSession: If the session doesn't exist or is no longer active
// - ErrDatabaseConnection: If the store fails
func (r *Registry) Heartbeat(ctx context.Context, sessionID uint64) error {
	if err := r.sessions.Touch(ctx, sessionID, r.timeProvider.Now()); err != nil {
		if errs.IsInvalidSessionError(err) {
			r.logger.Warn("Heartbeat on invalid session", map[string]any{
				"session_id": sessionID,
			})
		}
		return err
	}

	r.publishMinersCount(ctx)
	return nil
}

// Leave deactivates the session. Idempotent: leaving a session that doesn't
// exist or is already inactive is a benign race, not an error. The subscriber
// is removed from the pool room regardless.
//
// Possible errors:
// - ErrDatabaseConnection: If the store fails
func (r *Registry) Leave(ctx context.Context, sessionID uint64, subscriberID string) error {
	err := r.sessions.Deactivate(ctx, sessionID)

	// Leave the broadcast room even when the session was already gone
	r.gateway.Leave(subscriberID)

	if err != nil {
		return err
	}

	r.publishMinersCount(ctx)

	r.logger.Info("Miner left the pool", map[string]any{
		"session_id": sessionID,
	})
	return nil
}

// publishMinersCount broadcasts the fresh active count. Broadcast is
// best-effort: a failure to count or deliver never rolls back the mutation
// that triggered it.
func (r *Registry) publishMinersCount(ctx context.Context) {
	count, err := r.tracker.MinersCount(ctx)
	if err != nil {
		r.logger.Warn("Failed to compute miners count for broadcast", map[string]any{
			"error": err.Error(),
		})
		return
	}

	r.gateway.Publish(broadcast.EventMinersCount, map[string]any{
		"count": count,
	})
}
