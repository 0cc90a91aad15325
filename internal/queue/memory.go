package queue

import (
	"context"
	"sync"
)

// Memory is a process-local queue. Entries are copied on append so the
// caller may reuse its buffer.
type Memory struct {
	mu      sync.Mutex
	entries [][]byte
}

// NewMemory creates an empty in-memory queue.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Append(_ context.Context, payload []byte) error {
	entry := make([]byte, len(payload))
	copy(entry, payload)
	m.mu.Lock()
	m.entries = append(m.entries, entry)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Peek(_ context.Context, n int) ([][]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if n > len(m.entries) {
		n = len(m.entries)
	}
	out := make([][]byte, n)
	copy(out, m.entries[:n])
	return out, nil
}

func (m *Memory) Trim(_ context.Context, n int) error {
	if n <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if n >= len(m.entries) {
		m.entries = nil
		return nil
	}
	m.entries = append([][]byte(nil), m.entries[n:]...)
	return nil
}

func (m *Memory) Len(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.entries)), nil
}
