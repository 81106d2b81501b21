package sink

import (
	"sync"

	"github.com/tsaggregate/mad/model"
)

// MemorySink keeps every recorded PeriodicData in memory, guarded by a
// RWMutex, following serde/memory.go's memSerDe shape; useful for tests
// and as a downstream sink for small deployments.
type MemorySink struct {
	mu   sync.RWMutex
	data []model.PeriodicData
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (m *MemorySink) Record(data model.PeriodicData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append(m.data, data)
	return nil
}

func (m *MemorySink) Close() error { return nil }

// All returns a copy of every PeriodicData recorded so far.
func (m *MemorySink) All() []model.PeriodicData {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.PeriodicData, len(m.data))
	copy(out, m.data)
	return out
}
