package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/poolworks/pool-ledger/internal/domain/entity"
	errs "github.com/poolworks/pool-ledger/internal/domain/error"
	"github.com/poolworks/pool-ledger/internal/domain/port/broadcast"
	mockBroadcast "github.com/poolworks/pool-ledger/mocks/port/broadcast"
	"github.com/poolworks/pool-ledger/mocks/port/core"
	"github.com/poolworks/pool-ledger/mocks/port/persistence"
)

func TestRegistry_Join(t *testing.T) {
	fixedTime := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()
	userID := uint64(123)
	subscriberID := "sub-abc"

	t.Run("should create an active session and broadcast the join", func(t *testing.T) {
		mockUsers := new(persistence.MockUserRepository)
		mockSessions := new(persistence.MockSessionRepository)
		mockGateway := new(mockBroadcast.MockGateway)
		mockTimeProvider := new(core.MockTimeProvider)
		mockLogger := new(core.MockLogger)

		mockTimeProvider.On("Now").Return(fixedTime)

		user := &entity.User{ID: userID, Username: "miner-alice"}
		mockUsers.On("GetByID", ctx, userID).Return(user, nil)
		mockSessions.On("Create", ctx, mock.AnythingOfType("*entity.MinerSession")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*entity.MinerSession).ID = 42
			}).Return(nil)

		// Broadcasting re-reads the active count through the tracker sweep
		mockSessions.On("DemoteStale", ctx, fixedTime.Add(-60*time.Second)).Return(int64(0), nil)
		mockSessions.On("CountActive", ctx).Return(int64(1), nil)

		mockGateway.On("Join", subscriberID).Return()
		mockGateway.On("Publish", broadcast.EventJoined, mock.Anything).Return()
		mockGateway.On("Publish", broadcast.EventMinersCount, map[string]any{"count": int64(1)}).Return()
		mockLogger.On("Info", "Miner joined the pool", mock.AnythingOfType("map[string]interface {}")).Return()

		tracker := NewTracker(mockSessions, mockTimeProvider, mockLogger, 60*time.Second)
		registry := NewRegistry(mockUsers, mockSessions, tracker, mockGateway, mockTimeProvider, mockLogger, false)

		sess, err := registry.Join(ctx, userID, subscriberID)

		assert.NoError(t, err)
		assert.NotNil(t, sess)
		assert.Equal(t, uint64(42), sess.ID)
		assert.Equal(t, userID, sess.UserID)
		assert.True(t, sess.Active)
		assert.Equal(t, int64(0), sess.Shares)

		mockUsers.AssertExpectations(t)
		mockSessions.AssertExpectations(t)
		mockGateway.AssertExpectations(t)
	})

	t.Run("should reject an unknown user", func(t *testing.T) {
		mockUsers := new(persistence.MockUserRepository)
		mockSessions := new(persistence.MockSessionRepository)
		mockGateway := new(mockBroadcast.MockGateway)
		mockTimeProvider := new(core.MockTimeProvider)
		mockLogger := new(core.MockLogger)

		mockUsers.On("GetByID", ctx, userID).Return(nil, errs.ErrUserNotFound)
		mockLogger.On("Warn", "Join rejected for unknown user", mock.AnythingOfType("map[string]interface {}")).Return()

		tracker := NewTracker(mockSessions, mockTimeProvider, mockLogger, 60*time.Second)
		registry := NewRegistry(mockUsers, mockSessions, tracker, mockGateway, mockTimeProvider, mockLogger, false)

		sess, err := registry.Join(ctx, userID, subscriberID)

		assert.Error(t, err)
		assert.Nil(t, sess)
		assert.ErrorIs(t, err, errs.ErrUnknownUser)
		mockSessions.AssertNotCalled(t, "Create")
		mockGateway.AssertNotCalled(t, "Join")
	})

	t.Run("should demote prior sessions when single session per user is on", func(t *testing.T) {
		mockUsers := new(persistence.MockUserRepository)
		mockSessions := new(persistence.MockSessionRepository)
		mockGateway := new(mockBroadcast.MockGateway)
		mockTimeProvider := new(core.MockTimeProvider)
		mockLogger := new(core.MockLogger)

		mockTimeProvider.On("Now").Return(fixedTime)

		user := &entity.User{ID: userID, Username: "miner-alice"}
		mockUsers.On("GetByID", ctx, userID).Return(user, nil)
		mockSessions.On("DeactivateByUser", ctx, userID).Return(int64(1), nil)
		mockSessions.On("Create", ctx, mock.AnythingOfType("*entity.MinerSession")).Return(nil)
		mockSessions.On("DemoteStale", ctx, mock.AnythingOfType("time.Time")).Return(int64(0), nil)
		mockSessions.On("CountActive", ctx).Return(int64(1), nil)

		mockGateway.On("Join", subscriberID).Return()
		mockGateway.On("Publish", mock.AnythingOfType("string"), mock.Anything).Return()
		mockLogger.On("Info", "Demoted prior active sessions on join", mock.AnythingOfType("map[string]interface {}")).Return()
		mockLogger.On("Info", "Miner joined the pool", mock.AnythingOfType("map[string]interface {}")).Return()

		tracker := NewTracker(mockSessions, mockTimeProvider, mockLogger, 60*time.Second)
		registry := NewRegistry(mockUsers, mockSessions, tracker, mockGateway, mockTimeProvider, mockLogger, true)

		sess, err := registry.Join(ctx, userID, subscriberID)

		assert.NoError(t, err)
		assert.NotNil(t, sess)
		mockSessions.AssertExpectations(t)
	})

	t.Run("should return the store error on create failure", func(t *testing.T) {
		dbError := errors.New("database connection error")

		mockUsers := new(persistence.MockUserRepository)
		mockSessions := new(persistence.MockSessionRepository)
		mockGateway := new(mockBroadcast.MockGateway)
		mockTimeProvider := new(core.MockTimeProvider)
		mockLogger := new(core.MockLogger)

		mockTimeProvider.On("Now").Return(fixedTime)

		user := &entity.User{ID: userID, Username: "miner-alice"}
		mockUsers.On("GetByID", ctx, userID).Return(user, nil)
		mockSessions.On("Create", ctx, mock.AnythingOfType("*entity.MinerSession")).Return(dbError)

		tracker := NewTracker(mockSessions, mockTimeProvider, mockLogger, 60*time.Second)
		registry := NewRegistry(mockUsers, mockSessions, tracker, mockGateway, mockTimeProvider, mockLogger, false)

		sess, err := registry.Join(ctx, userID, subscriberID)

		assert.Error(t, err)
		assert.Nil(t, sess)
		assert.Equal(t, dbError, err)
		mockGateway.AssertNotCalled(t, "Join")
		mockGateway.AssertNotCalled(t, "Publish")
	})
}

func TestRegistry_Heartbeat(t *testing.T) {
	fixedTime := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()
	sessionID := uint64(42)

	t.Run("should touch the session and broadcast the count", func(t *testing.T) {
		mockUsers := new(persistence.MockUserRepository)
		mockSessions := new(persistence.MockSessionRepository)
		mockGateway := new(mockBroadcast.MockGateway)
		mockTimeProvider := new(core.MockTimeProvider)
		mockLogger := new(core.MockLogger)

		mockTimeProvider.On("Now").Return(fixedTime)
		mockSessions.On("Touch", ctx, sessionID, fixedTime).Return(nil)
		mockSessions.On("DemoteStale", ctx, fixedTime.Add(-60*time.Second)).Return(int64(0), nil)
		mockSessions.On("CountActive", ctx).Return(int64(2), nil)
		mockGateway.On("Publish", broadcast.EventMinersCount, map[string]any{"count": int64(2)}).Return()

		tracker := NewTracker(mockSessions, mockTimeProvider, mockLogger, 60*time.Second)
		registry := NewRegistry(mockUsers, mockSessions, tracker, mockGateway, mockTimeProvider, mockLogger, false)

		err := registry.Heartbeat(ctx, sessionID)

		assert.NoError(t, err)
		mockSessions.AssertExpectations(t)
		mockGateway.AssertExpectations(t)
	})

	t.Run("should reject a heartbeat on an invalid session", func(t *testing.T) {
		mockUsers := new(persistence.MockUserRepository)
		mockSessions := new(persistence.MockSessionRepository)
		mockGateway := new(mockBroadcast.MockGateway)
		mockTimeProvider := new(core.MockTimeProvider)
		mockLogger := new(core.MockLogger)

		mockTimeProvider.On("Now").Return(fixedTime)
		mockSessions.On("Touch", ctx, sessionID, fixedTime).Return(errs.ErrInvalidSession)
		mockLogger.On("Warn", "Heartbeat on invalid session", mock.AnythingOfType("map[string]interface {}")).Return()

		tracker := NewTracker(mockSessions, mockTimeProvider, mockLogger, 60*time.Second)
		registry := NewRegistry(mockUsers, mockSessions, tracker, mockGateway, mockTimeProvider, mockLogger, false)

		err := registry.Heartbeat(ctx, sessionID)

		assert.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidSession)
		mockGateway.AssertNotCalled(t, "Publish")
	})
}

func TestRegistry_Leave(t *testing.T) {
	fixedTime := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()
	sessionID := uint64(42)
	subscriberID := "sub-abc"

	t.Run("should deactivate the session and leave the room", func(t *testing.T) {
		mockUsers := new(persistence.MockUserRepository)
		mockSessions := new(persistence.MockSessionRepository)
		mockGateway := new(mockBroadcast.MockGateway)
		mockTimeProvider := new(core.MockTimeProvider)
		mockLogger := new(core.MockLogger)

		mockTimeProvider.On("Now").Return(fixedTime)
		mockSessions.On("Deactivate", ctx, sessionID).Return(nil)
		mockSessions.On("DemoteStale", ctx, mock.AnythingOfType("time.Time")).Return(int64(0), nil)
		mockSessions.On("CountActive", ctx).Return(int64(0), nil)
		mockGateway.On("Leave", subscriberID).Return()
		mockGateway.On("Publish", broadcast.EventMinersCount, map[string]any{"count": int64(0)}).Return()
		mockLogger.On("Info", "Miner left the pool", mock.AnythingOfType("map[string]interface {}")).Return()

		tracker := NewTracker(mockSessions, mockTimeProvider, mockLogger, 60*time.Second)
		registry := NewRegistry(mockUsers, mockSessions, tracker, mockGateway, mockTimeProvider, mockLogger, false)

		err := registry.Leave(ctx, sessionID, subscriberID)

		assert.NoError(t, err)
		mockSessions.AssertExpectations(t)
		mockGateway.AssertExpectations(t)
	})

	t.Run("should treat leaving an already inactive session as a benign race", func(t *testing.T) {
		mockUsers := new(persistence.MockUserRepository)
		mockSessions := new(persistence.MockSessionRepository)
		mockGateway := new(mockBroadcast.MockGateway)
		mockTimeProvider := new(core.MockTimeProvider)
		mockLogger := new(core.MockLogger)

		mockTimeProvider.On("Now").Return(fixedTime)
		// Deactivate is idempotent at the repository level
		mockSessions.On("Deactivate", ctx, sessionID).Return(nil)
		mockSessions.On("DemoteStale", ctx, mock.AnythingOfType("time.Time")).Return(int64(0), nil)
		mockSessions.On("CountActive", ctx).Return(int64(0), nil)
		mockGateway.On("Leave", subscriberID).Return()
		mockGateway.On("Publish", broadcast.EventMinersCount, mock.Anything).Return()
		mockLogger.On("Info", "Miner left the pool", mock.AnythingOfType("map[string]interface {}")).Return()

		tracker := NewTracker(mockSessions, mockTimeProvider, mockLogger, 60*time.Second)
		registry := NewRegistry(mockUsers, mockSessions, tracker, mockGateway, mockTimeProvider, mockLogger, false)

		assert.NoError(t, registry.Leave(ctx, sessionID, subscriberID))
		assert.NoError(t, registry.Leave(ctx, sessionID, subscriberID))
	})

	t.Run("should leave the room even when the store fails", func(t *testing.T) {
		dbError := errors.New("database connection error")

		mockUsers := new(persistence.MockUserRepository)
		mockSessions := new(persistence.MockSessionRepository)
		mockGateway := new(mockBroadcast.MockGateway)
		mockTimeProvider := new(core.MockTimeProvider)
		mockLogger := new(core.MockLogger)

		mockSessions.On("Deactivate", ctx, sessionID).Return(dbError)
		mockGateway.On("Leave", subscriberID).Return()

		tracker := NewTracker(mockSessions, mockTimeProvider, mockLogger, 60*time.Second)
		registry := NewRegistry(mockUsers, mockSessions, tracker, mockGateway, mockTimeProvider, mockLogger, false)

		err := registry.Leave(ctx, sessionID, subscriberID)

		assert.Error(t, err)
		assert.Equal(t, dbError, err)
		mockGateway.AssertExpectations(t)
		mockGateway.AssertNotCalled(t, "Publish")
	})
}
