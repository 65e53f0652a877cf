package client

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory client store for demo/development mode.
type MemoryStore struct {
	clients map[string]*Client // by ID
	codes   map[string]string  // code → ID
	order   []string           // IDs in creation order
	mu      sync.RWMutex
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory client store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		clients: make(map[string]*Client),
		codes:   make(map[string]string),
	}
}

func (m *MemoryStore) Create(_ context.Context, c *Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.codes[c.Code]; exists {
		return ErrCodeTaken
	}

	cp := *c
	m.clients[c.ID] = &cp
	m.codes[c.Code] = c.ID
	m.order = append(m.order, c.ID)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.clients[id]
	if !ok {
		return nil, ErrClientNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MemoryStore) GetByCode(_ context.Context, code string) (*Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.codes[code]
	if !ok {
		return nil, ErrClientNotFound
	}
	cp := *m.clients[id]
	return &cp, nil
}

func (m *MemoryStore) Update(_ context.Context, c *Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.clients[c.ID]
	if !ok {
		return ErrClientNotFound
	}
	if c.Code != existing.Code {
		if _, taken := m.codes[c.Code]; taken {
			return ErrCodeTaken
		}
		delete(m.codes, existing.Code)
		m.codes[c.Code] = c.ID
	}

	c.UpdatedAt = time.Now()
	cp := *c
	m.clients[c.ID] = &cp
	return nil
}

func (m *MemoryStore) List(_ context.Context, limit int) ([]*Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*Client
	for _, id := range m.order {
		cp := *m.clients[id]
		result = append(result, &cp)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (m *MemoryStore) ListByStatus(_ context.Context, status Status, limit int) ([]*Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*Client
	for _, id := range m.order {
		c := m.clients[id]
		if c.Status != status {
			continue
		}
		cp := *c
		result = append(result, &cp)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (m *MemoryStore) CountByStatus(_ context.Context) (map[Status]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[Status]int)
	for _, c := range m.clients {
		counts[c.Status]++
	}
	return counts, nil
}
