// Package checkpoint holds the shared per-(account, symbol) trading state
// read and written by the strategy engine on every tick.
package checkpoint

import (
	"context"

	"main/internal/model"
)

// Store maps (account, symbol) to checkpoint state and symbol config.
// Implementations must make each operation atomic; serializing the
// read-modify-write across ticks is the engine's job.
type Store interface {
	Checkpoint(ctx context.Context, accountID, symbol string) (model.Checkpoint, bool, error)
	PutCheckpoint(ctx context.Context, accountID, symbol string, cp model.Checkpoint) error
	DeleteCheckpoint(ctx context.Context, accountID, symbol string) error

	Config(ctx context.Context, accountID, symbol string) (model.SymbolConfig, bool, error)
	PutConfig(ctx context.Context, accountID, symbol string, cfg model.SymbolConfig) error
	DeleteConfig(ctx context.Context, accountID, symbol string) error
}

// Key joins an account and symbol into the store key.
func Key(accountID, symbol string) string {
	return accountID + ":" + symbol
}
