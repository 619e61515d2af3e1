package store

import (
	"context"
	"slices"
	"sync"

	"github.com/Luxbin-labs/luxbin-chain/pkg/core/entanglement"
)

// Memory keeps results in process memory.
type Memory struct {
	mu      sync.RWMutex
	results []entanglement.Result
	byID    map[string]int
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{byID: make(map[string]int)}
}

func (m *Memory) Record(ctx context.Context, r entanglement.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[r.ID] = len(m.results)
	m.results = append(m.results, r)
	return nil
}

func (m *Memory) List(ctx context.Context, limit int) ([]entanglement.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(tail(m.results, limit)), nil
}

func (m *Memory) Get(ctx context.Context, id string) (entanglement.Result, error) {
	if err := ctx.Err(); err != nil {
		return entanglement.Result{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.byID[id]
	if !ok {
		return entanglement.Result{}, notFound(id)
	}
	return m.results[i], nil
}

func (m *Memory) Close() error { return nil }

var _ Store = (*Memory)(nil)
