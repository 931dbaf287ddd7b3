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
)

// UserRepository implements persistence.UserRepository using GORM
type UserRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *UserRepository {
	return &UserRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// modelToEntity converts a user model to an entity
func (r *UserRepository) modelToEntity(userModel *model.User) *entity.User {
	return &entity.User{
		ID:           userModel.ID,
		Username:     userModel.Username,
		PasswordHash: userModel.PasswordHash,
		CreatedAt:    userModel.CreatedAt,
		IsMiner:      userModel.IsMiner,
	}
}

// handleDatabaseError standardizes database error handling
func (r *UserRepository) handleDatabaseError(operation string, err error, userID uint64) error {
	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"user_id": userID,
		"error":   err.Error(),
	})

	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.logger.Warn("User not found", map[string]any{
			"user_id": userID,
		})
		return errs.ErrUserNotFound
	}

	if r.errorClassifier.IsDuplicateKeyError(err) {
		r.logger.Warn("Duplicate user operation", map[string]any{
			"user_id": userID,
		})
		return errs.ErrDuplicateUser
	}

	return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*entity.User, error) {
	r.logger.Debug("Getting user by ID", map[string]any{
		"user_id": id,
	})

	var userModel model.User
	result := r.db.WithContext(ctx).First(&userModel, id)

	if result.Error != nil {
		return nil, r.handleDatabaseError("getting user", result.Error, id)
	}

	return r.modelToEntity(&userModel), nil
}

// GetByUsername retrieves a user by unique username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	r.logger.Debug("Getting user by username", map[string]any{
		"username": username,
	})

	var userModel model.User
	result := r.db.WithContext(ctx).Where("username = ?", username).First(&userModel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, r.handleDatabaseError("getting user by username", result.Error, 0)
	}

	return r.modelToEntity(&userModel), nil
}

// Create creates a new user and assigns its ID
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	r.logger.Debug("Creating new user", map[string]any{
		"username": user.Username,
	})

	userModel := model.User{
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
		IsMiner:      user.IsMiner,
	}

	result := r.db.WithContext(ctx).Create(&userModel)

	if result.Error != nil {
		return r.handleDatabaseError("creating user", result.Error, 0)
	}

	// Propagate the assigned ID back to the entity
	user.ID = userModel.ID

	r.logger.Info("User created successfully", map[string]any{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return nil
}
