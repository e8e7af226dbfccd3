package domain

import "strings"

// Status is the hot/warm/cold bucket of a score.
type Status string

const (
	StatusHot  Status = "hot"
	StatusWarm Status = "warm"
	StatusCold Status = "cold"
)

// Bucket thresholds (inclusive).
const (
	HotThreshold  = 75
	ColdThreshold = 40
)

// StatusForScore buckets a 0..100 score.
func StatusForScore(score int) Status {
	switch {
	case score >= HotThreshold:
		return StatusHot
	case score <= ColdThreshold:
		return StatusCold
	default:
		return StatusWarm
	}
}

// Branch returns hot or warm for exactly those statuses and cold for
// anything else, including unknown, empty or differently cased values.
func (s Status) Branch() Status {
	switch s {
	case StatusHot:
		return StatusHot
	case StatusWarm:
		return StatusWarm
	default:
		return StatusCold
	}
}

// DatasetType selects the attribute family and heuristic.
type DatasetType string

const (
	DatasetBank        DatasetType = "bank"
	DatasetLeadScoring DatasetType = "lead_scoring"
)

// IsBank is true only for the literal "bank"; every other value, including
// empty, selects the generic B2B branch.
func (d DatasetType) IsBank() bool {
	return d == DatasetBank
}

// Valid reports whether d is one of the known dataset types.
func (d DatasetType) Valid() bool {
	return d == DatasetBank || d == DatasetLeadScoring
}

// ParseDatasetType maps user input to a dataset type, defaulting to bank
// for empty input. Unknown values are returned with ok=false.
func ParseDatasetType(raw string) (DatasetType, bool) {
	d := DatasetType(strings.TrimSpace(raw))
	if d == "" {
		return DatasetBank, true
	}
	return d, d.Valid()
}

// Model types understood by the scoring backend.
const (
	ModelRandomForest = "random_forest"
	ModelTransformer  = "transformer"
)

// ScoringResult is one immutable score for a lead.
type ScoringResult struct {
	Score       int         `json:"score" validate:"min=0,max=100"`
	Probability float64     `json:"probability" validate:"min=0,max=1"`
	Status      Status      `json:"status" validate:"oneof=hot warm cold"`
	DatasetType DatasetType `json:"dataset_type" validate:"oneof=bank lead_scoring"`
	Error       string      `json:"error,omitempty"`
}

// NewResult derives probability and status from score so that
// probability == score/100 and status matches the bucket.
// Scores outside 0..100 are clamped.
func NewResult(score int, dataset DatasetType, notice string) ScoringResult {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return ScoringResult{
		Score:       score,
		Probability: float64(score) / 100,
		Status:      StatusForScore(score),
		DatasetType: dataset,
		Error:       notice,
	}
}

// IsFallback reports whether the result carries an advisory notice.
func (r ScoringResult) IsFallback() bool {
	return r.Error != ""
}
