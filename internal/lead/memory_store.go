package lead

import (
	"context"
	"sync"

	"github.com/leadgate/leadgate/internal/pagination"
)

// MemoryStore is an in-memory lead store for demo/development mode.
type MemoryStore struct {
	leads map[string]*Lead
	order []string
	mu    sync.RWMutex
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory lead store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{leads: make(map[string]*Lead)}
}

func (m *MemoryStore) Create(_ context.Context, l *Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *l
	m.leads[l.ID] = &cp
	m.order = append(m.order, l.ID)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}
	cp := *l
	return &cp, nil
}

// List returns leads newest first, starting after the cursor position
// when one is given.
func (m *MemoryStore) List(_ context.Context, cursor *pagination.Cursor, limit int) ([]*Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*Lead
	for i := len(m.order) - 1; i >= 0; i-- {
		l := m.leads[m.order[i]]
		if cursor != nil && !cursor.Older(l.CreatedAt, l.ID) {
			continue
		}
		cp := *l
		result = append(result, &cp)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (m *MemoryStore) ListByClient(_ context.Context, clientID string, limit int) ([]*Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*Lead
	for i := len(m.order) - 1; i >= 0; i-- {
		l := m.leads[m.order[i]]
		if l.ClientID != clientID {
			continue
		}
		cp := *l
		result = append(result, &cp)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (m *MemoryStore) CountByClient(_ context.Context, clientID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, l := range m.leads {
		if l.ClientID == clientID {
			count++
		}
	}
	return count, nil
}
