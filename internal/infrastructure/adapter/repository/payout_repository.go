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

// PayoutRepository implements persistence.PayoutRepository using GORM.
// Payouts are append-only receipts: there is no update or delete path.
type PayoutRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewPayoutRepository creates a new PayoutRepository instance
func NewPayoutRepository(db *gorm.DB, logger coreport.Logger) *PayoutRepository {
	return &PayoutRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// modelToEntity converts a payout model to an entity
func (r *PayoutRepository) modelToEntity(payoutModel *model.Payout) *entity.Payout {
	return &entity.Payout{
		ID:        payoutModel.ID,
		UserID:    payoutModel.UserID,
		Amount:    payoutModel.Amount,
		Timestamp: payoutModel.Timestamp,
		TxID:      payoutModel.TxID,
	}
}

// Create appends a new payout receipt and assigns its ID
func (r *PayoutRepository) Create(ctx context.Context, payout *entity.Payout) error {
	payoutModel := model.Payout{
		UserID:    payout.UserID,
		Amount:    payout.Amount,
		Timestamp: payout.Timestamp,
		TxID:      payout.TxID,
	}

	result := r.db.WithContext(ctx).Create(&payoutModel)

	if result.Error != nil {
		r.logger.Error("Database error when creating payout", map[string]any{
			"user_id": payout.UserID,
			"error":   result.Error.Error(),
		})
		if r.errorClassifier.IsConstraintError(result.Error) {
			return errs.ErrConstraintViolation
		}
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	payout.ID = payoutModel.ID
	return nil
}

// ListByUser returns a user's payout history, newest first
func (r *PayoutRepository) ListByUser(ctx context.Context, userID uint64) ([]*entity.Payout, error) {
	var payoutModels []model.Payout
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp desc").
		Find(&payoutModels)

	if result.Error != nil {
		r.logger.Error("Database error when listing payouts", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	payouts := make([]*entity.Payout, 0, len(payoutModels))
	for i := range payoutModels {
		payouts = append(payouts, r.modelToEntity(&payoutModels[i]))
	}

	return payouts, nil
}
