package repository

import (
	"context"
	"sync"

	"leadgenius_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// MemoryStore keeps analyses in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records []domain.LeadRecord
	byID    map[uuid.UUID]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[uuid.UUID]int)}
}

func (s *MemoryStore) Append(_ context.Context, rec domain.LeadRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[rec.ID]; exists {
		return ErrDuplicate
	}
	rec.LeadData = rec.LeadData.Clone()
	s.byID[rec.ID] = len(s.records)
	s.records = append(s.records, rec)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (domain.LeadRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return domain.LeadRecord{}, ErrNotFound
	}
	rec := s.records[i]
	rec.LeadData = rec.LeadData.Clone()
	return rec, nil
}

// List walks the log backwards. Records are appended in time order, so
// this is newest first.
func (s *MemoryStore) List(_ context.Context, filter ListFilter) ([]domain.LeadRecord, error) {
	filter = filter.Normalized()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.LeadRecord, 0)
	skipped := 0
	for i := len(s.records) - 1; i >= 0 && len(out) < filter.Limit; i-- {
		rec := s.records[i]
		if !filter.matches(rec) {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		rec.LeadData = rec.LeadData.Clone()
		out = append(out, rec)
	}
	return out, nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error { return nil }
