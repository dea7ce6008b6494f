package store

import (
	"context"
	"sort"
	"sync"

	"chancery/internal/concept/models"
	"chancery/pkg/domain"
	"chancery/pkg/platform/sentinel"
)

// InMemory keeps concepts in nested maps keyed by diocese then concept id.
type InMemory struct {
	mu       sync.RWMutex
	concepts map[domain.DioceseID]map[domain.ConceptID]*models.AnnulmentConcept
}

func NewInMemory() *InMemory {
	return &InMemory{concepts: make(map[domain.DioceseID]map[domain.ConceptID]*models.AnnulmentConcept)}
}

func (s *InMemory) Get(_ context.Context, dioceseID domain.DioceseID, conceptID domain.ConceptID) (*models.AnnulmentConcept, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	concept, ok := s.concepts[dioceseID][conceptID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return concept.Clone(), nil
}

func (s *InMemory) FindByCodigo(_ context.Context, dioceseID domain.DioceseID, codigo string) (*models.AnnulmentConcept, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, concept := range s.concepts[dioceseID] {
		if concept.Codigo == codigo {
			return concept.Clone(), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) Put(_ context.Context, concept *models.AnnulmentConcept) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, ok := s.concepts[concept.DioceseID]
	if !ok {
		byID = make(map[domain.ConceptID]*models.AnnulmentConcept)
		s.concepts[concept.DioceseID] = byID
	}
	for id, existing := range byID {
		if id != concept.ID && existing.Codigo == concept.Codigo {
			return sentinel.ErrAlreadyUsed
		}
	}
	byID[concept.ID] = concept.Clone()
	return nil
}

func (s *InMemory) Delete(_ context.Context, dioceseID domain.DioceseID, conceptID domain.ConceptID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.concepts[dioceseID][conceptID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.concepts[dioceseID], conceptID)
	return nil
}

func (s *InMemory) List(_ context.Context, dioceseID domain.DioceseID) ([]*models.AnnulmentConcept, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.AnnulmentConcept, 0, len(s.concepts[dioceseID]))
	for _, concept := range s.concepts[dioceseID] {
		out = append(out, concept.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Codigo < out[j].Codigo })
	return out, nil
}
