package persist

import (
	"context"
	"errors"
	"sync"
)

// ErrWriteFailed is returned by a Memory storage whose writes were disabled
// with FailWrites.
var ErrWriteFailed = errors.New("persist: write failed")

// Memory keeps blobs in process memory. Values are copied in and out.
type Memory struct {
	mu         sync.Mutex
	data       map[string][]byte
	failWrites bool
	saves      int
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *Memory) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return ErrWriteFailed
	}
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	m.saves++
	return nil
}

func (m *Memory) Close() error { return nil }

// FailWrites makes every subsequent Save fail (or succeed again).
func (m *Memory) FailWrites(fail bool) {
	m.mu.Lock()
	m.failWrites = fail
	m.mu.Unlock()
}

// Saves reports how many successful writes happened.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
