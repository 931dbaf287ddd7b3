package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/poolworks/pool-ledger/internal/domain/entity"
	errs "github.com/poolworks/pool-ledger/internal/domain/error"
	coreport "github.com/poolworks/pool-ledger/internal/domain/port/core"
	"github.com/poolworks/pool-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionRepository implements persistence.SessionRepository using GORM.
// Heartbeat and share-count mutations are atomic read-modify-writes on a
// single row locked with FOR UPDATE.
type SessionRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewSessionRepository creates a new SessionRepository instance
func NewSessionRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *SessionRepository {
	return &SessionRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// modelToEntity converts a session model to an entity
func (r *SessionRepository) modelToEntity(sessionModel *model.MinerSession) *entity.MinerSession {
	return &entity.MinerSession{
		ID:        sessionModel.ID,
		UserID:    sessionModel.UserID,
		StartedAt: sessionModel.StartedAt,
		LastSeen:  sessionModel.LastSeen,
		Active:    sessionModel.Active,
		Shares:    sessionModel.Shares,
	}
}

// handleDatabaseError standardizes database error handling
func (r *SessionRepository) handleDatabaseError(operation string, err error, sessionID uint64) error {
	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"session_id": sessionID,
		"error":      err.Error(),
	})

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrSessionNotFound
	}

	if r.errorClassifier.IsLockError(err) {
		return errs.ErrPoolLocked
	}

	return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
}

// GetByID retrieves a session by ID
func (r *SessionRepository) GetByID(ctx context.Context, id uint64) (*entity.MinerSession, error) {
	var sessionModel model.MinerSession
	result := r.db.WithContext(ctx).First(&sessionModel, id)

	if result.Error != nil {
		return nil, r.handleDatabaseError("getting session", result.Error, id)
	}

	return r.modelToEntity(&sessionModel), nil
}

// Create creates a new session and assigns its ID
func (r *SessionRepository) Create(ctx context.Context, session *entity.MinerSession) error {
	r.logger.Debug("Creating miner session", map[string]any{
		"user_id": session.UserID,
	})

	sessionModel := model.MinerSession{
		UserID:    session.UserID,
		StartedAt: session.StartedAt,
		LastSeen:  session.LastSeen,
		Active:    session.Active,
		Shares:    session.Shares,
	}

	result := r.db.WithContext(ctx).Create(&sessionModel)

	if result.Error != nil {
		return r.handleDatabaseError("creating session", result.Error, 0)
	}

	session.ID = sessionModel.ID

	r.logger.Info("Miner session created", map[string]any{
		"session_id": session.ID,
		"user_id":    session.UserID,
	})
	return nil
}

// Touch updates last_seen on an active session (heartbeat). Runs as a
// row-locked read-modify-write so a concurrent demotion cannot interleave.
func (r *SessionRepository) Touch(ctx context.Context, id uint64, now time.Time) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sessionModel model.MinerSession
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&sessionModel, id)

		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return errs.ErrInvalidSession
			}
			return result.Error
		}

		if !sessionModel.Active {
			return errs.ErrInvalidSession
		}

		return tx.Model(&sessionModel).Update("last_seen", now).Error
	})

	if err != nil {
		if errors.Is(err, errs.ErrInvalidSession) {
			r.logger.Warn("Heartbeat on unknown or inactive session", map[string]any{
				"session_id": id,
			})
			return err
		}
		return r.handleDatabaseError("touching session", err, id)
	}

	return nil
}

// IncrementShares atomically adds one share to an active session and updates
// last_seen. The FOR UPDATE lock is held by the surrounding transaction when
// one is present in ctx, so concurrent submissions on the same session
// serialize instead of losing updates.
func (r *SessionRepository) IncrementShares(ctx context.Context, id uint64, now time.Time) (*entity.MinerSession, error) {
	var sessionModel model.MinerSession
	result := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&sessionModel, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			r.logger.Warn("Share submission on unknown session", map[string]any{
				"session_id": id,
			})
			return nil, errs.ErrInvalidSession
		}
		return nil, r.handleDatabaseError("locking session for share", result.Error, id)
	}

	if !sessionModel.Active {
		r.logger.Warn("Share submission on inactive session", map[string]any{
			"session_id": id,
		})
		return nil, errs.ErrInvalidSession
	}

	sessionModel.Shares++
	sessionModel.LastSeen = now

	result = r.db.WithContext(ctx).Model(&sessionModel).Updates(map[string]interface{}{
		"shares":    sessionModel.Shares,
		"last_seen": sessionModel.LastSeen,
	})

	if result.Error != nil {
		return nil, r.handleDatabaseError("incrementing shares", result.Error, id)
	}

	return r.modelToEntity(&sessionModel), nil
}

// Deactivate flips active to false. Idempotent: missing or already-inactive
// sessions are not an error.
func (r *SessionRepository) Deactivate(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Model(&model.MinerSession{}).
		Where("id = ?", id).
		Update("active", false)

	if result.Error != nil {
		return r.handleDatabaseError("deactivating session", result.Error, id)
	}

	if result.RowsAffected > 0 {
		r.logger.Info("Miner session deactivated", map[string]any{
			"session_id": id,
		})
	}
	return nil
}

// DeactivateByUser flips active to false on every active session of the user
func (r *SessionRepository) DeactivateByUser(ctx context.Context, userID uint64) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.MinerSession{}).
		Where("user_id = ? AND active = ?", userID, true).
		Update("active", false)

	if result.Error != nil {
		return 0, r.handleDatabaseError("deactivating user sessions", result.Error, 0)
	}

	return result.RowsAffected, nil
}

// DemoteStale flips active to false on every active session whose last_seen
// is before the threshold. This is the liveness sweep.
func (r *SessionRepository) DemoteStale(ctx context.Context, threshold time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.MinerSession{}).
		Where("active = ? AND last_seen < ?", true, threshold).
		Update("active", false)

	if result.Error != nil {
		return 0, r.handleDatabaseError("demoting stale sessions", result.Error, 0)
	}

	return result.RowsAffected, nil
}

// ListActive returns all sessions with active = true
func (r *SessionRepository) ListActive(ctx context.Context) ([]*entity.MinerSession, error) {
	var sessionModels []model.MinerSession
	result := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("id asc").
		Find(&sessionModels)

	if result.Error != nil {
		return nil, r.handleDatabaseError("listing active sessions", result.Error, 0)
	}

	return r.modelsToEntities(sessionModels), nil
}

// ListActiveForUpdate returns all active sessions with their rows locked
// until the surrounding transaction commits
func (r *SessionRepository) ListActiveForUpdate(ctx context.Context) ([]*entity.MinerSession, error) {
	var sessionModels []model.MinerSession
	result := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("active = ?", true).
		Order("id asc").
		Find(&sessionModels)

	if result.Error != nil {
		return nil, r.handleDatabaseError("locking active sessions", result.Error, 0)
	}

	return r.modelsToEntities(sessionModels), nil
}

// CountActive returns the number of sessions with active = true
func (r *SessionRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.MinerSession{}).
		Where("active = ?", true).
		Count(&count)

	if result.Error != nil {
		return 0, r.handleDatabaseError("counting active sessions", result.Error, 0)
	}

	return count, nil
}

// SumActiveShares returns the total share count across active sessions,
// recomputed fresh on every call
func (r *SessionRepository) SumActiveShares(ctx context.Context) (int64, error) {
	var total int64
	result := r.db.WithContext(ctx).Model(&model.MinerSession{}).
		Where("active = ?", true).
		Select("COALESCE(SUM(shares), 0)").
		Scan(&total)

	if result.Error != nil {
		return 0, r.handleDatabaseError("summing active shares", result.Error, 0)
	}

	return total, nil
}

// ResetShares sets the session's share counter back to zero for the next epoch
func (r *SessionRepository) ResetShares(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Model(&model.MinerSession{}).
		Where("id = ?", id).
		Update("shares", 0)

	if result.Error != nil {
		return r.handleDatabaseError("resetting shares", result.Error, id)
	}

	if result.RowsAffected == 0 {
		return errs.ErrSessionNotFound
	}

	return nil
}

func (r *SessionRepository) modelsToEntities(sessionModels []model.MinerSession) []*entity.MinerSession {
	sessions := make([]*entity.MinerSession, 0, len(sessionModels))
	for i := range sessionModels {
		sessions = append(sessions, r.modelToEntity(&sessionModels[i]))
	}
	return sessions
}
