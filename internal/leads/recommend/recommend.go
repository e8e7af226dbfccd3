// Package recommend maps a (status, dataset) pair to canned sales guidance.
package recommend

import (
	_ "embed"
	"fmt"

	"leadgenius_backend/internal/leads/domain"

	"gopkg.in/yaml.v3"
)

// ActionItemCount is the number of action items in every table entry.
const ActionItemCount = 4

//go:embed tables.yaml
var tablesYAML []byte

type entry struct {
	Recommendation string   `yaml:"recommendation"`
	Actions        []string `yaml:"actions"`
	Strategy       string   `yaml:"strategy"`
}

type branch struct {
	Bank    entry `yaml:"bank"`
	Generic entry `yaml:"generic"`
}

type tables struct {
	Hot  branch `yaml:"hot"`
	Warm branch `yaml:"warm"`
	Cold branch `yaml:"cold"`
}

var guidance = mustLoad(tablesYAML)

func mustLoad(raw []byte) tables {
	var t tables
	if err := yaml.Unmarshal(raw, &t); err != nil {
		panic(fmt.Sprintf("recommend: parse tables: %v", err))
	}
	for _, b := range []branch{t.Hot, t.Warm, t.Cold} {
		for _, e := range []entry{b.Bank, b.Generic} {
			if e.Recommendation == "" || e.Strategy == "" || len(e.Actions) != ActionItemCount {
				panic("recommend: incomplete guidance table")
			}
		}
	}
	return t
}

func lookup(status domain.Status, dataset domain.DatasetType) entry {
	var b branch
	switch status.Branch() {
	case domain.StatusHot:
		b = guidance.Hot
	case domain.StatusWarm:
		b = guidance.Warm
	default:
		b = guidance.Cold
	}
	if dataset.IsBank() {
		return b.Bank
	}
	return b.Generic
}

// Recommendation returns the one-sentence recommendation.
func Recommendation(status domain.Status, dataset domain.DatasetType) string {
	return lookup(status, dataset).Recommendation
}

// ActionItems returns a fresh copy of the four action items.
func ActionItems(status domain.Status, dataset domain.DatasetType) []string {
	items := lookup(status, dataset).Actions
	out := make([]string, len(items))
	copy(out, items)
	return out
}

// EngagementStrategy returns the engagement strategy paragraph.
func EngagementStrategy(status domain.Status, dataset domain.DatasetType) string {
	return lookup(status, dataset).Strategy
}
