package store

import (
	"context"
	"sync"

	"chancery/internal/decree/models"
	"chancery/pkg/domain"
	"chancery/pkg/platform/sentinel"
)

// CorrectionInMemory keeps correction decrees in nested maps keyed by parish
// then decree id.
type CorrectionInMemory struct {
	mu      sync.RWMutex
	decrees map[domain.ParishID]map[domain.DecreeID]*models.CorrectionDecree
}

func NewCorrectionInMemory() *CorrectionInMemory {
	return &CorrectionInMemory{decrees: make(map[domain.ParishID]map[domain.DecreeID]*models.CorrectionDecree)}
}

func (s *CorrectionInMemory) Get(_ context.Context, parishID domain.ParishID, decreeID domain.DecreeID) (*models.CorrectionDecree, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	decree, ok := s.decrees[parishID][decreeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return decree.Clone(), nil
}

func (s *CorrectionInMemory) Put(_ context.Context, decree *models.CorrectionDecree) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, ok := s.decrees[decree.ParishID]
	if !ok {
		byID = make(map[domain.DecreeID]*models.CorrectionDecree)
		s.decrees[decree.ParishID] = byID
	}
	byID[decree.ID] = decree.Clone()
	return nil
}

func (s *CorrectionInMemory) Delete(_ context.Context, parishID domain.ParishID, decreeID domain.DecreeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.decrees[parishID][decreeID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.decrees[parishID], decreeID)
	return nil
}

func (s *CorrectionInMemory) List(_ context.Context, parishID domain.ParishID) ([]*models.CorrectionDecree, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.CorrectionDecree, 0, len(s.decrees[parishID]))
	for _, decree := range s.decrees[parishID] {
		out = append(out, decree.Clone())
	}
	return out, nil
}

func (s *CorrectionInMemory) CountByConcept(_ context.Context, conceptID domain.ConceptID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, byID := range s.decrees {
		for _, decree := range byID {
			if decree.ConceptID == conceptID {
				count++
			}
		}
	}
	return count, nil
}

// ReplacementInMemory keeps replacement decrees in nested maps keyed by
// parish then decree id.
type ReplacementInMemory struct {
	mu      sync.RWMutex
	decrees map[domain.ParishID]map[domain.DecreeID]*models.ReplacementDecree
}

func NewReplacementInMemory() *ReplacementInMemory {
	return &ReplacementInMemory{decrees: make(map[domain.ParishID]map[domain.DecreeID]*models.ReplacementDecree)}
}

func (s *ReplacementInMemory) Get(_ context.Context, parishID domain.ParishID, decreeID domain.DecreeID) (*models.ReplacementDecree, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	decree, ok := s.decrees[parishID][decreeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return decree.Clone(), nil
}

func (s *ReplacementInMemory) Put(_ context.Context, decree *models.ReplacementDecree) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, ok := s.decrees[decree.ParishID]
	if !ok {
		byID = make(map[domain.DecreeID]*models.ReplacementDecree)
		s.decrees[decree.ParishID] = byID
	}
	byID[decree.ID] = decree.Clone()
	return nil
}

func (s *ReplacementInMemory) Delete(_ context.Context, parishID domain.ParishID, decreeID domain.DecreeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.decrees[parishID][decreeID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.decrees[parishID], decreeID)
	return nil
}

func (s *ReplacementInMemory) List(_ context.Context, parishID domain.ParishID) ([]*models.ReplacementDecree, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.ReplacementDecree, 0, len(s.decrees[parishID]))
	for _, decree := range s.decrees[parishID] {
		out = append(out, decree.Clone())
	}
	return out, nil
}

func (s *ReplacementInMemory) CountByConcept(_ context.Context, conceptID domain.ConceptID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, byID := range s.decrees {
		for _, decree := range byID {
			if decree.ConceptID == conceptID {
				count++
			}
		}
	}
	return count, nil
}
