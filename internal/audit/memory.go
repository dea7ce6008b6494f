package audit

import (
	"context"
	"sync"

	"chancery/pkg/domain"
)

// InMemoryStore keeps audit events per parish, append-only.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[domain.ParishID][]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[domain.ParishID][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ParishID] = append(s.events[event.ParishID], event)
	return nil
}

func (s *InMemoryStore) ListByParish(_ context.Context, parishID domain.ParishID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event(nil), s.events[parishID]...), nil
}
