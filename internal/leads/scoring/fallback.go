// Package scoring computes local fallback scores when the ML backend has no
// trustworthy answer. Both heuristics are pure and safe for concurrent use.
package scoring

import (
	"math"
	"strings"

	"leadgenius_backend/internal/leads/domain"
)

// FallbackNotice marks every locally computed result.
const FallbackNotice = "Using local fallback scoring as backend model is unavailable."

const (
	// Every lead starts neutral; factors add or subtract from here.
	baseScore = 50.0

	// B2B (BANT) weights, applied to 0-1 normalized inputs.
	budgetWeight     = 20.0
	authorityWeight  = 15.0
	needWeight       = 25.0
	timeframeWeight  = 15.0
	engagementWeight = 10.0

	// Bank marketing adjustments.
	existingLoanPenalty = 10.0
	higherEducationGain = 10.0
	highSchoolGain      = 5.0
	primeAgeGain        = 10.0
	laterAgeGain        = 5.0
	previousContactGain = 10.0
	highValueJobGain    = 10.0
)

var bantWeights = []struct {
	key    string
	weight float64
}{
	{"budget", budgetWeight},
	{"authority", authorityWeight},
	{"need", needWeight},
	{"timeframe", timeframeWeight},
	{"engagement_level", engagementWeight},
}

var highValueJobs = map[string]struct{}{
	"management":    {},
	"entrepreneur":  {},
	"self-employed": {},
	"admin.":        {},
	"technician":    {},
}

// Fallback scores attrs with the heuristic for dataset. Anything other than
// the literal bank dataset uses the B2B heuristic.
func Fallback(dataset domain.DatasetType, attrs domain.Attributes) domain.ScoringResult {
	if dataset.IsBank() {
		return ScoreBank(attrs)
	}
	return ScoreB2B(attrs)
}

// ScoreB2B applies the BANT + engagement heuristic. Only numeric fields
// contribute. The score is clamped only when at least one field
// contributed, so an empty lead stays at the base score.
func ScoreB2B(attrs domain.Attributes) domain.ScoringResult {
	total := baseScore
	factors := 0

	for _, w := range bantWeights {
		if v, ok := attrs.Number(w.key); ok {
			total += v * w.weight
			factors++
		}
	}

	if visits, ok := attrs.Number("website_visits"); ok {
		total += tiered(visits, 3, 5)
		factors++
	}

	if minutes, ok := attrs.Number("time_spent"); ok {
		total += tiered(minutes, 5, 10)
		factors++
	}

	if factors > 0 {
		total = clampFloat(total, 0, 100)
	}

	return domain.NewResult(roundScore(total), domain.DatasetLeadScoring, FallbackNotice)
}

// ScoreBank applies the bank-marketing heuristic.
func ScoreBank(attrs domain.Attributes) domain.ScoringResult {
	total := baseScore

	if loan, ok := attrs.String("loan"); ok && loan == "yes" {
		total -= existingLoanPenalty
	}

	if education, ok := attrs.String("education"); ok {
		switch {
		case strings.Contains(education, "university") || education == "tertiary":
			total += higherEducationGain
		case strings.Contains(education, "high"):
			total += highSchoolGain
		}
	}

	if age, ok := attrs.Number("age"); ok {
		switch {
		case age >= 25 && age <= 45:
			total += primeAgeGain
		case age > 45 && age <= 60:
			total += laterAgeGain
		}
	}

	if previous, ok := attrs.Number("previous"); ok && previous > 0 {
		total += previousContactGain
	}

	if job, ok := attrs.String("job"); ok {
		if _, highValue := highValueJobs[job]; highValue {
			total += highValueJobGain
		}
	}

	return domain.NewResult(roundScore(clampFloat(total, 0, 100)), domain.DatasetBank, FallbackNotice)
}

// tiered awards 5 points inside [low, high] and 10 above high.
func tiered(value, low, high float64) float64 {
	switch {
	case value > high:
		return 10
	case value >= low:
		return 5
	default:
		return 0
	}
}

// roundScore rounds half up, matching the rounding used by the web client.
func roundScore(value float64) int {
	return int(math.Floor(value + 0.5))
}

func clampFloat(value float64, min float64, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
