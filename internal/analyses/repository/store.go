// Package repository persists saved lead analyses. Every store is an
// append-only log: records are never updated or deleted.
package repository

import (
	"context"
	"errors"

	"leadgenius_backend/internal/leads/domain"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("analysis not found")
	ErrDuplicate = errors.New("analysis already exists")
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// ListFilter narrows List results. Empty fields match everything.
type ListFilter struct {
	DatasetType domain.DatasetType
	Status      domain.Status
	Limit       int
	Offset      int
}

// Normalized returns the filter with limit and offset within bounds.
func (f ListFilter) Normalized() ListFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

func (f ListFilter) matches(rec domain.LeadRecord) bool {
	if f.DatasetType != "" && rec.DatasetType != f.DatasetType {
		return false
	}
	if f.Status != "" && rec.ScoringResult.Status != f.Status {
		return false
	}
	return true
}

func (f ListFilter) unfiltered() bool {
	return f.DatasetType == "" && f.Status == ""
}

// Store is an append-only log of analyses. List returns newest first.
type Store interface {
	Append(ctx context.Context, rec domain.LeadRecord) error
	Get(ctx context.Context, id uuid.UUID) (domain.LeadRecord, error)
	List(ctx context.Context, filter ListFilter) ([]domain.LeadRecord, error)
}
