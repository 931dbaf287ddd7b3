package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/poolworks/pool-ledger/internal/domain/entity"
	errs "github.com/poolworks/pool-ledger/internal/domain/error"
	coreport "github.com/poolworks/pool-ledger/internal/domain/port/core"
	"github.com/poolworks/pool-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WalletRepository implements persistence.WalletRepository using GORM
type WalletRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewWalletRepository creates a new WalletRepository instance
func NewWalletRepository(db *gorm.DB, logger coreport.Logger) *WalletRepository {
	return &WalletRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// modelToEntity converts a wallet model to an entity
func (r *WalletRepository) modelToEntity(walletModel *model.Wallet) *entity.Wallet {
	wallet := &entity.Wallet{
		ID:      walletModel.ID,
		UserID:  walletModel.UserID,
		Address: walletModel.Address,
	}
	wallet.SetBalance(walletModel.Balance)
	return wallet
}

// handleDatabaseError standardizes database error handling
func (r *WalletRepository) handleDatabaseError(operation string, err error, userID uint64) error {
	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"user_id": userID,
		"error":   err.Error(),
	})

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrWalletNotFound
	}

	if r.errorClassifier.IsDuplicateKeyError(err) || r.errorClassifier.IsConstraintError(err) {
		return errs.ErrConstraintViolation
	}

	return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
}

// GetByUserID retrieves the wallet owned by the given user
func (r *WalletRepository) GetByUserID(ctx context.Context, userID uint64) (*entity.Wallet, error) {
	r.logger.Debug("Getting wallet by user ID", map[string]any{
		"user_id": userID,
	})

	var walletModel model.Wallet
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&walletModel)

	if result.Error != nil {
		return nil, r.handleDatabaseError("getting wallet", result.Error, userID)
	}

	return r.modelToEntity(&walletModel), nil
}

// Create creates a new wallet and assigns its ID
func (r *WalletRepository) Create(ctx context.Context, wallet *entity.Wallet) error {
	r.logger.Debug("Creating new wallet", map[string]any{
		"user_id": wallet.UserID,
		"address": wallet.Address,
	})

	walletModel := model.Wallet{
		UserID:  wallet.UserID,
		Address: wallet.Address,
		Balance: wallet.Balance(),
	}

	result := r.db.WithContext(ctx).Create(&walletModel)

	if result.Error != nil {
		return r.handleDatabaseError("creating wallet", result.Error, wallet.UserID)
	}

	wallet.ID = walletModel.ID

	r.logger.Info("Wallet created successfully", map[string]any{
		"wallet_id": wallet.ID,
		"user_id":   wallet.UserID,
		"address":   wallet.Address,
	})
	return nil
}

// Credit atomically adds amount to the wallet of the given user. The row is
// locked with FOR UPDATE so concurrent credits never lose an increment.
func (r *WalletRepository) Credit(ctx context.Context, userID uint64, amount float64) (*entity.Wallet, error) {
	if amount < 0 {
		return nil, errs.ErrNegativeCredit
	}

	r.logger.Debug("Crediting wallet", map[string]any{
		"user_id": userID,
		"amount":  amount,
	})

	var wallet *entity.Wallet

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var walletModel model.Wallet
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&walletModel)

		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				r.logger.Warn("Wallet not found during credit", map[string]any{
					"user_id": userID,
				})
				return errs.ErrWalletNotFound
			}
			return result.Error
		}

		walletModel.Balance += amount

		result = tx.Model(&walletModel).Update("balance", walletModel.Balance)
		if result.Error != nil {
			return result.Error
		}

		wallet = r.modelToEntity(&walletModel)
		return nil
	})

	if err != nil {
		if errors.Is(err, errs.ErrWalletNotFound) {
			return nil, err
		}
		if r.errorClassifier.IsLockError(err) {
			return nil, errs.ErrPoolLocked
		}
		return nil, r.handleDatabaseError("crediting wallet", err, userID)
	}

	r.logger.Info("Wallet credited", map[string]any{
		"user_id":     userID,
		"amount":      amount,
		"new_balance": wallet.Balance(),
	})

	return wallet, nil
}

// ListAll returns every wallet, ordered by user ID
func (r *WalletRepository) ListAll(ctx context.Context) ([]*entity.Wallet, error) {
	var walletModels []model.Wallet
	result := r.db.WithContext(ctx).Order("user_id asc").Find(&walletModels)

	if result.Error != nil {
		return nil, r.handleDatabaseError("listing wallets", result.Error, 0)
	}

	wallets := make([]*entity.Wallet, 0, len(walletModels))
	for i := range walletModels {
		wallets = append(wallets, r.modelToEntity(&walletModels[i]))
	}

	return wallets, nil
}
