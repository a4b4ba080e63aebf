package query

import (
	"sync"

	"github.com/dtroode/shoe-inventory/internal/model"
)

// Memo caches the last computed view for a (record-set version, spec) pair.
// Callers must bump the version whenever the record set is replaced.
type Memo struct {
	mu      sync.Mutex
	version uint64
	key     string
	valid   bool
	view    []model.Shoe
}

// View returns the cached view when version and spec match the last call,
// otherwise recomputes it. The returned slice must not be modified.
func (m *Memo) View(version uint64, records []model.Shoe, spec model.QuerySpec) []model.Shoe {
	key := spec.Key()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valid && m.version == version && m.key == key {
		return m.view
	}

	m.view = ComputeView(records, spec)
	m.version = version
	m.key = key
	m.valid = true

	return m.view
}

// Reset drops the cached view.
func (m *Memo) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.valid = false
	m.view = nil
}
