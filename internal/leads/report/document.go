// Package report renders lead score reports. Build turns a lead and its
// scoring result into a format-neutral Document; the HTML and PDF
// serializers only read that Document.
package report

import (
	"math"
	"strconv"
	"strings"
	"time"

	"leadgenius_backend/internal/leads/domain"
	"leadgenius_backend/internal/leads/recommend"
)

const (
	// Title is the report heading.
	Title = "LeadGenius AI Lead Score Report"
	// DocumentTitle is the HTML <title> and PDF /Title.
	DocumentTitle = "LeadGenius AI Score Report"

	notAvailable = "N/A"
	dateLayout   = "1/2/2006"
	stampLayout  = "1/2/2006, 3:04:05 PM MST"
	disclaimer   = "This report is based on AI predictions and should be used as guidance, not as the sole decision-making factor."
)

// Result is a scoring result as received by the renderer. Every field may
// be absent; absent values degrade to "N/A" rather than failing.
type Result struct {
	Score       *float64 `json:"score"`
	Probability *float64 `json:"probability"`
	Status      string   `json:"status"`
	DatasetType string   `json:"dataset_type"`
	Error       string   `json:"error,omitempty"`
}

// ResultFrom converts a complete scoring result.
func ResultFrom(r domain.ScoringResult) Result {
	score := float64(r.Score)
	probability := r.Probability
	return Result{
		Score:       &score,
		Probability: &probability,
		Status:      string(r.Status),
		DatasetType: string(r.DatasetType),
		Error:       r.Error,
	}
}

// Input is the report request body.
type Input struct {
	LeadData      domain.Attributes `json:"leadData"`
	ScoringResult Result            `json:"scoringResult"`
}

// Row is a label/value pair.
type Row struct {
	Label string
	Value string
}

// Document is the rendered-format-neutral report.
type Document struct {
	LeadName  string
	Date      string
	Timestamp string

	Score              string
	ProbabilityPercent string
	// ProbabilityWidth is the fill of the probability bar in percent, 0..100.
	ProbabilityWidth string
	StatusLabel      string
	StatusClass      domain.Status
	DatasetLabel     string
	FallbackNotice   string

	// Bank selects the economic-indicator layout instead of BANT/engagement.
	Bank       bool
	Profile    []Row
	Details    []Row
	Indicators []Row
	BANT       []Row
	Engagement []Row

	Recommendation string
	Actions        []string
	Strategy       string
	Disclaimer     string
}

var bankDetailKeys = []string{"age", "job", "education", "marital", "contact", "campaign"}
var genericDetailKeys = []string{"company", "email", "phone", "source"}

var bantRows = []struct{ key, label string }{
	{"budget", "Budget"},
	{"authority", "Authority"},
	{"need", "Need"},
	{"timeframe", "Timeframe"},
}

// Build assembles the document for in at time now.
func Build(in Input, now time.Time) Document {
	attrs := in.LeadData.Canonicalize()
	res := in.ScoringResult
	dataset := reportDataset(res.DatasetType, attrs)
	status := domain.Status(res.Status)

	doc := Document{
		LeadName:       attrs.LeadName(),
		Date:           now.Format(dateLayout),
		Timestamp:      now.Format(stampLayout),
		StatusClass:    status.Branch(),
		StatusLabel:    statusLabel(res.Status),
		DatasetLabel:   datasetLabel(res.DatasetType) + " Dataset",
		FallbackNotice: strings.TrimSpace(res.Error),
		Bank:           dataset.IsBank(),
		Recommendation: recommend.Recommendation(status, dataset),
		Actions:        recommend.ActionItems(status, dataset),
		Strategy:       recommend.EngagementStrategy(status, dataset),
		Disclaimer:     disclaimer,
	}

	doc.Score, doc.ProbabilityPercent, doc.ProbabilityWidth = scoreFigures(res)

	for _, key := range in.LeadData.Keys() {
		if domain.ProfileExcluded(key) {
			continue
		}
		value, _ := in.LeadData.Get(key)
		doc.Profile = append(doc.Profile, Row{Label: domain.TitleKey(key), Value: domain.FormatValue(value)})
	}

	detailKeys := genericDetailKeys
	if doc.Bank {
		detailKeys = bankDetailKeys
	}
	for _, key := range detailKeys {
		doc.Details = append(doc.Details, Row{Label: domain.TitleKey(key), Value: attrs.Text(key)})
	}

	if doc.Bank {
		for _, ind := range domain.EconomicIndicators {
			doc.Indicators = append(doc.Indicators, Row{Label: ind.Label, Value: attrs.Text(ind.Key)})
		}
	} else {
		for _, b := range bantRows {
			doc.BANT = append(doc.BANT, Row{Label: b.label, Value: outOfTen(attrs, b.key)})
		}
		doc.Engagement = []Row{
			{Label: "Engagement Level", Value: outOfTen(attrs, "engagement_level")},
			{Label: "Website Visits", Value: attrs.Text("website_visits")},
			{Label: "Time on Site (min)", Value: attrs.Text("time_spent")},
			{Label: "Content Downloads", Value: attrs.Text("content_downloaded")},
		}
	}

	return doc
}

// reportDataset picks the dataset that drives both the layout and the
// guidance: the result's when it has one, the lead's dataset_type attribute
// otherwise. Anything but bank, missing included, is the generic branch.
func reportDataset(resultDataset string, attrs domain.Attributes) domain.DatasetType {
	if resultDataset != "" {
		return domain.DatasetType(resultDataset)
	}
	leadDataset, _ := attrs.String("dataset_type")
	return domain.DatasetType(leadDataset)
}

func scoreFigures(res Result) (score, percent, width string) {
	score, percent, width = notAvailable, notAvailable, "0"

	if res.Score != nil {
		score = domain.FormatNumber(*res.Score)
	}

	var p float64
	switch {
	case res.Probability != nil:
		p = *res.Probability
	case res.Score != nil:
		p = *res.Score / 100
	default:
		return score, percent, width
	}

	percent = strconv.FormatFloat(p*100, 'f', 1, 64) + "%"
	width = strconv.FormatFloat(math.Max(0, math.Min(100, p*100)), 'f', 1, 64)
	return score, percent, width
}

func statusLabel(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return notAvailable
	}
	return strings.ToUpper(raw)
}

func datasetLabel(raw string) string {
	switch domain.DatasetType(raw) {
	case "", domain.DatasetBank:
		return "Bank Marketing"
	case domain.DatasetLeadScoring:
		return "Lead Scoring"
	default:
		return raw
	}
}

// outOfTen renders a 0-1 rating as "x.y/10"; non-numeric or absent is N/A.
func outOfTen(attrs domain.Attributes, key string) string {
	v, ok := attrs.Number(key)
	if !ok {
		return notAvailable
	}
	return strconv.FormatFloat(v*10, 'f', 1, 64) + "/10"
}
