package migration

import (
	"context"
	"errors"

	errs "github.com/poolworks/pool-ledger/internal/domain/error"
	userUseCase "github.com/poolworks/pool-ledger/internal/domain/usecase/user"
)

// Demo miner accounts for local development. Passwords are throwaway and the
// seeding only runs when pool.seedDemoMiners is enabled.
var demoMiners = map[string]string{
	"miner-alice":   "alice-dev-pass",
	"miner-bob":     "bob-dev-pass",
	"miner-charlie": "charlie-dev-pass",
}

// SeedDemoMiners registers the demo miner accounts if they do not exist yet
func SeedDemoMiners(ctx context.Context, userService *userUseCase.Service) error {
	for username, password := range demoMiners {
		_, _, err := userService.Register(ctx, username, password)
		if err != nil {
			// Already seeded on a previous run
			if errors.Is(err, errs.ErrDuplicateUser) {
				continue
			}
			return err
		}
	}

	return nil
}
