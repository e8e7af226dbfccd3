package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AnonymousLead is shown when a lead has no usable name.
const AnonymousLead = "Anonymous Lead"

// LeadRecord is a saved scoring interaction. Records are append-only.
type LeadRecord struct {
	ID            uuid.UUID     `json:"id"`
	Date          time.Time     `json:"date"`
	LeadData      Attributes    `json:"leadData"`
	ScoringResult ScoringResult `json:"scoringResult"`
	DatasetType   DatasetType   `json:"datasetType"`
}

// LeadName returns the trimmed "name" attribute or AnonymousLead.
func (a Attributes) LeadName() string {
	if name, ok := a.String("name"); ok {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			return trimmed
		}
	}
	return AnonymousLead
}
