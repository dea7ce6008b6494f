package store

import (
	"context"
	"sync"

	"chancery/internal/record/models"
	"chancery/pkg/domain"
	"chancery/pkg/platform/sentinel"
)

// InMemory keeps records in nested maps keyed by parish then record id.
// Records are cloned on the way in and out so callers can never mutate
// stored state except through Put.
type InMemory struct {
	mu      sync.RWMutex
	records map[domain.ParishID]map[domain.RecordID]*models.SacramentRecord
}

func NewInMemory() *InMemory {
	return &InMemory{
		records: make(map[domain.ParishID]map[domain.RecordID]*models.SacramentRecord),
	}
}

func (s *InMemory) Get(_ context.Context, parishID domain.ParishID, recordID domain.RecordID) (*models.SacramentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if record, ok := s.records[parishID][recordID]; ok {
		return record.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) Put(_ context.Context, record *models.SacramentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	parish, ok := s.records[record.ParishID]
	if !ok {
		parish = make(map[domain.RecordID]*models.SacramentRecord)
		s.records[record.ParishID] = parish
	}
	parish[record.ID] = record.Clone()
	return nil
}

func (s *InMemory) Delete(_ context.Context, parishID domain.ParishID, recordID domain.RecordID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[parishID][recordID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.records[parishID], recordID)
	return nil
}

func (s *InMemory) List(_ context.Context, parishID domain.ParishID, sacramentType domain.SacramentType) ([]*models.SacramentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.SacramentRecord
	for _, record := range s.records[parishID] {
		if record.SacramentType == sacramentType {
			out = append(out, record.Clone())
		}
	}
	return out, nil
}
