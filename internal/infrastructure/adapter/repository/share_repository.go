package repository

import (
	"context"
	"fmt"

	"github.com/poolworks/pool-ledger/internal/domain/entity"
	errs "github.com/poolworks/pool-ledger/internal/domain/error"
	coreport "github.com/poolworks/pool-ledger/internal/domain/port/core"
	"github.com/poolworks/pool-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// ShareRepository implements persistence.ShareRepository using GORM.
// Shares are append-only: there is no update or delete path.
type ShareRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewShareRepository creates a new ShareRepository instance
func NewShareRepository(db *gorm.DB, logger coreport.Logger) *ShareRepository {
	return &ShareRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// Create appends a new immutable share record and assigns its ID
func (r *ShareRepository) Create(ctx context.Context, share *entity.Share) error {
	shareModel := model.Share{
		MinerSessionID: share.MinerSessionID,
		Timestamp:      share.Timestamp,
		Weight:         share.Weight,
	}

	result := r.db.WithContext(ctx).Create(&shareModel)

	if result.Error != nil {
		r.logger.Error("Database error when creating share", map[string]any{
			"session_id": share.MinerSessionID,
			"error":      result.Error.Error(),
		})
		if r.errorClassifier.IsConstraintError(result.Error) {
			return errs.ErrConstraintViolation
		}
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	share.ID = shareModel.ID
	return nil
}

// CountBySession returns how many shares a session has submitted in total,
// across all epochs
func (r *ShareRepository) CountBySession(ctx context.Context, sessionID uint64) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.Share{}).
		Where("miner_session_id = ?", sessionID).
		Count(&count)

	if result.Error != nil {
		r.logger.Error("Database error when counting shares", map[string]any{
			"session_id": sessionID,
			"error":      result.Error.Error(),
		})
		return 0, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return count, nil
}
