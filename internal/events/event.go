// Package events holds the events published by the leads and analyses
// modules. Routing lives in platform/eventbus.
package events

import (
	"leadgenius_backend/platform/eventbus"

	"github.com/google/uuid"
)

const (
	NameLeadScored    = "leads.scored"
	NameAnalysisSaved = "analyses.saved"
)

// LeadScored is published after every scoring request, remote or local.
type LeadScored struct {
	eventbus.Meta
	DatasetType string `json:"datasetType"`
	ModelType   string `json:"modelType"`
	Status      string `json:"status"`
	Score       int    `json:"score"`
	Fallback    bool   `json:"fallback"`
	// Reason is set for fallback scores: "unreachable", "backend_error",
	// "dataset_mismatch" or "local".
	Reason string `json:"reason,omitempty"`
}

func (LeadScored) EventName() string { return NameLeadScored }

// AnalysisSaved is published when a scored lead is appended to the log.
type AnalysisSaved struct {
	eventbus.Meta
	AnalysisID  uuid.UUID `json:"analysisId"`
	DatasetType string    `json:"datasetType"`
	Status      string    `json:"status"`
}

func (AnalysisSaved) EventName() string { return NameAnalysisSaved }
