package migration

import (
	coreport "github.com/poolworks/pool-ledger/internal/domain/port/core"
	"gorm.io/gorm"
)

// AdvancedIndexManager manages PostgreSQL-specific advanced indexes
type AdvancedIndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAdvancedIndexManager creates a new advanced index manager
func NewAdvancedIndexManager(db *gorm.DB, logger coreport.Logger) *AdvancedIndexManager {
	return &AdvancedIndexManager{
		db:     db,
		logger: logger,
	}
}

// CreateAdvancedIndexes creates advanced PostgreSQL indexes for better performance
func (m *AdvancedIndexManager) CreateAdvancedIndexes() error {
	m.logger.Info("Creating advanced PostgreSQL indexes", nil)

	// Partial index over live sessions: liveness sweeps and payout scans only
	// ever touch active rows
	if err := m.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_miner_sessions_active_last_seen
		ON miner_sessions (last_seen)
		WHERE active = true
	`).Error; err != nil {
		m.logger.Error("Failed to create partial index on active sessions", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	// Composite index for per-user session lookups during join/leave
	if err := m.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_miner_sessions_user_active
		ON miner_sessions (user_id, active)
	`).Error; err != nil {
		m.logger.Error("Failed to create user_active composite index", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	// BRIN index for share timestamps (more efficient for temporal data)
	if err := m.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_shares_timestamp_brin
		ON shares USING BRIN (timestamp)
		WITH (pages_per_range = 32)
	`).Error; err != nil {
		m.logger.Error("Failed to create BRIN index on shares.timestamp", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	// Payout history queries order by timestamp within a user
	if err := m.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_payouts_user_timestamp
		ON payouts (user_id, timestamp DESC)
	`).Error; err != nil {
		m.logger.Error("Failed to create user_timestamp composite index", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	m.logger.Info("Advanced PostgreSQL indexes created successfully", nil)
	return nil
}

// CreatePerformanceTweaks applies PostgreSQL performance tweaks
func (m *AdvancedIndexManager) CreatePerformanceTweaks() error {
	m.logger.Info("Applying PostgreSQL performance tweaks", nil)

	// Session rows are updated on every heartbeat and share; lower fillfactor
	// reduces page splits
	if err := m.db.Exec(`
		ALTER TABLE miner_sessions SET (fillfactor = 90)
	`).Error; err != nil {
		m.logger.Warn("Failed to set fillfactor for miner_sessions table", map[string]any{
			"error": err.Error(),
		})
		// Don't return error as this is not critical
	}

	// Set statistics target for better query planning on the hot column
	if err := m.db.Exec(`
		ALTER TABLE shares ALTER COLUMN miner_session_id SET STATISTICS 1000
	`).Error; err != nil {
		m.logger.Warn("Failed to set statistics target for miner_session_id", map[string]any{
			"error": err.Error(),
		})
		// Don't return error as this is not critical
	}

	m.logger.Info("PostgreSQL performance tweaks applied successfully", nil)
	return nil
}
