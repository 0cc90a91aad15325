package checkpoint

import (
	"context"
	"sync"

	"main/internal/model"
)

// Memory is a process-local store. Suitable for tests and single-process
// deployments where the state does not need to survive a restart.
type Memory struct {
	mu          sync.RWMutex
	checkpoints map[string]model.Checkpoint
	configs     map[string]model.SymbolConfig
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		checkpoints: make(map[string]model.Checkpoint),
		configs:     make(map[string]model.SymbolConfig),
	}
}

func (m *Memory) Checkpoint(_ context.Context, accountID, symbol string) (model.Checkpoint, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cp, ok := m.checkpoints[Key(accountID, symbol)]
	return cp, ok, nil
}

func (m *Memory) PutCheckpoint(_ context.Context, accountID, symbol string, cp model.Checkpoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkpoints[Key(accountID, symbol)] = cp
	return nil
}

func (m *Memory) DeleteCheckpoint(_ context.Context, accountID, symbol string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.checkpoints, Key(accountID, symbol))
	return nil
}

func (m *Memory) Config(_ context.Context, accountID, symbol string) (model.SymbolConfig, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfg, ok := m.configs[Key(accountID, symbol)]
	return cfg, ok, nil
}

func (m *Memory) PutConfig(_ context.Context, accountID, symbol string, cfg model.SymbolConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[Key(accountID, symbol)] = cfg
	return nil
}

func (m *Memory) DeleteConfig(_ context.Context, accountID, symbol string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.configs, Key(accountID, symbol))
	return nil
}
