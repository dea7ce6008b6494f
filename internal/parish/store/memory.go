package store

import (
	"context"
	"sort"
	"sync"

	"chancery/internal/parish/models"
	"chancery/pkg/domain"
	"chancery/pkg/platform/sentinel"
)

// InMemory keeps parishes in nested maps keyed by diocese then parish id.
type InMemory struct {
	mu       sync.RWMutex
	parishes map[domain.DioceseID]map[domain.ParishID]*models.Parish
}

func NewInMemory() *InMemory {
	return &InMemory{parishes: make(map[domain.DioceseID]map[domain.ParishID]*models.Parish)}
}

func (s *InMemory) Get(_ context.Context, dioceseID domain.DioceseID, parishID domain.ParishID) (*models.Parish, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	parish, ok := s.parishes[dioceseID][parishID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return parish.Clone(), nil
}

func (s *InMemory) Put(_ context.Context, parish *models.Parish) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, ok := s.parishes[parish.DioceseID]
	if !ok {
		byID = make(map[domain.ParishID]*models.Parish)
		s.parishes[parish.DioceseID] = byID
	}
	byID[parish.ID] = parish.Clone()
	return nil
}

func (s *InMemory) List(_ context.Context, dioceseID domain.DioceseID) ([]*models.Parish, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Parish, 0, len(s.parishes[dioceseID]))
	for _, parish := range s.parishes[dioceseID] {
		out = append(out, parish.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
