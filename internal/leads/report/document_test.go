package report

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"leadgenius_backend/internal/leads/domain"
	"leadgenius_backend/internal/leads/recommend"
)

var fixedNow = time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)

func floatPtr(v float64) *float64 { return &v }

func TestBuildColdLeadScoringUsesGenericActions(t *testing.T) {
	in := Input{
		LeadData:      domain.NewAttributes("name", "Ana"),
		ScoringResult: Result{Score: floatPtr(20), Status: "cold", DatasetType: "lead_scoring"},
	}

	doc := Build(in, fixedNow)

	want := recommend.ActionItems(domain.StatusCold, domain.DatasetLeadScoring)
	if !reflect.DeepEqual(doc.Actions, want) {
		t.Fatalf("expected generic cold actions %v, got %v", want, doc.Actions)
	}
	if doc.Actions[0] != "Add to educational content nurture sequence" {
		t.Fatalf("expected generic cold first action, got %q", doc.Actions[0])
	}
	bankCold := recommend.ActionItems(domain.StatusCold, domain.DatasetBank)
	if reflect.DeepEqual(doc.Actions, bankCold) {
		t.Fatal("expected generic table, got bank table")
	}
}

func TestBuildProfileExcludesMetadataAndIndicators(t *testing.T) {
	in := Input{
		LeadData: domain.NewAttributes(
			"name", "Ana",
			"dataset_type", "bank",
			"model_type", "random_forest",
			"day_of_week", "mon",
			"emp_var_rate", 1.1,
			"emp.var.rate", 1.4,
			"cons_price_idx", 93.9,
			"cons.price.idx", 93.9,
			"cons_conf_idx", -36.4,
			"cons.conf.idx", -36.4,
			"euribor3m", 4.857,
			"nr_employed", 5191,
			"nr.employed", 5191,
			"age", 41,
		),
		ScoringResult: Result{Score: floatPtr(55), Status: "warm", DatasetType: "bank"},
	}

	doc := Build(in, fixedNow)

	var labels []string
	for _, r := range doc.Profile {
		labels = append(labels, r.Label)
	}
	want := []string{"Name", "Day Of Week", "Age"}
	if !reflect.DeepEqual(labels, want) {
		t.Fatalf("expected profile labels %v, got %v", want, labels)
	}
}

func TestBuildIndicatorsPreferUnderscoreSpelling(t *testing.T) {
	in := Input{
		LeadData: domain.NewAttributes(
			"emp.var.rate", -1.8,
			"emp_var_rate", 1.1,
			"cons.price.idx", 92.893,
		),
		ScoringResult: Result{Status: "hot", DatasetType: "bank"},
	}

	doc := Build(in, fixedNow)

	if !doc.Bank {
		t.Fatal("expected bank layout")
	}
	got := map[string]string{}
	for _, r := range doc.Indicators {
		got[r.Label] = r.Value
	}
	if got["Employment Variation Rate"] != "1.1" {
		t.Fatalf("expected underscore value 1.1, got %q", got["Employment Variation Rate"])
	}
	if got["Consumer Price Index"] != "92.893" {
		t.Fatalf("expected dot alias value 92.893, got %q", got["Consumer Price Index"])
	}
	if got["Number of Employees"] != "N/A" {
		t.Fatalf("expected N/A for missing indicator, got %q", got["Number of Employees"])
	}
	if len(doc.BANT) != 0 || len(doc.Engagement) != 0 {
		t.Fatal("expected no BANT block in bank layout")
	}
}

func TestBuildBANTFormatting(t *testing.T) {
	in := Input{
		LeadData: domain.NewAttributes(
			"budget", 0.7,
			"authority", 0,
			"need", "high",
			"engagement_level", 0.65,
			"website_visits", 5,
			"time_spent", 8.5,
		),
		ScoringResult: Result{Score: floatPtr(62), Status: "warm", DatasetType: "lead_scoring"},
	}

	doc := Build(in, fixedNow)

	wantBANT := []Row{
		{"Budget", "7.0/10"},
		{"Authority", "0.0/10"},
		{"Need", "N/A"},
		{"Timeframe", "N/A"},
	}
	if !reflect.DeepEqual(doc.BANT, wantBANT) {
		t.Fatalf("expected %v, got %v", wantBANT, doc.BANT)
	}
	wantEngagement := []Row{
		{"Engagement Level", "6.5/10"},
		{"Website Visits", "5"},
		{"Time on Site (min)", "8.5"},
		{"Content Downloads", "N/A"},
	}
	if !reflect.DeepEqual(doc.Engagement, wantEngagement) {
		t.Fatalf("expected %v, got %v", wantEngagement, doc.Engagement)
	}
	if len(doc.Indicators) != 0 {
		t.Fatal("expected no indicators in lead_scoring layout")
	}
}

func TestBuildScoreFigures(t *testing.T) {
	cases := []struct {
		name        string
		result      Result
		score       string
		percent     string
		width       string
		statusLabel string
	}{
		{"absent", Result{}, "N/A", "N/A", "0", "N/A"},
		{"score only", Result{Score: floatPtr(62), Status: "warm"}, "62", "62.0%", "62.0", "WARM"},
		{"explicit probability", Result{Score: floatPtr(80), Probability: floatPtr(0.8), Status: "hot"}, "80", "80.0%", "80.0", "HOT"},
		{"probability over one", Result{Score: floatPtr(100), Probability: floatPtr(1.2), Status: "hot"}, "100", "120.0%", "100.0", "HOT"},
	}

	for _, tc := range cases {
		doc := Build(Input{ScoringResult: tc.result}, fixedNow)
		if doc.Score != tc.score || doc.ProbabilityPercent != tc.percent || doc.ProbabilityWidth != tc.width || doc.StatusLabel != tc.statusLabel {
			t.Fatalf("%s: expected %s/%s/%s/%s, got %s/%s/%s/%s", tc.name,
				tc.score, tc.percent, tc.width, tc.statusLabel,
				doc.Score, doc.ProbabilityPercent, doc.ProbabilityWidth, doc.StatusLabel)
		}
	}
}

func TestBuildUnknownStatusUsesColdBranch(t *testing.T) {
	doc := Build(Input{ScoringResult: Result{Status: "HOT", DatasetType: "bank"}}, fixedNow)

	if doc.StatusClass != domain.StatusCold {
		t.Fatalf("expected cold class, got %q", doc.StatusClass)
	}
	if doc.Recommendation != recommend.Recommendation(domain.StatusCold, domain.DatasetBank) {
		t.Fatalf("expected bank cold recommendation, got %q", doc.Recommendation)
	}
}

func TestBuildLayoutFallsBackToLeadDataset(t *testing.T) {
	in := Input{
		LeadData:      domain.NewAttributes("dataset_type", "bank"),
		ScoringResult: Result{Status: "warm"},
	}

	doc := Build(in, fixedNow)

	if !doc.Bank {
		t.Fatal("expected bank layout from lead attributes")
	}
	if doc.Strategy != recommend.EngagementStrategy(domain.StatusWarm, domain.DatasetBank) {
		t.Fatalf("expected bank guidance alongside bank layout, got %q", doc.Strategy)
	}
}

func TestBuildWithoutDatasetUsesGenericBranch(t *testing.T) {
	body := `{"leadData":{"name":"A","budget":0.5},"scoringResult":{"score":30,"probability":0.3,"status":"cold"}}`
	var in Input
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}

	doc := Build(in, fixedNow)

	if doc.Bank {
		t.Fatal("expected generic layout without a dataset")
	}
	if !reflect.DeepEqual(doc.Actions, recommend.ActionItems(domain.StatusCold, domain.DatasetLeadScoring)) {
		t.Fatalf("expected generic cold actions, got %v", doc.Actions)
	}
	if doc.Recommendation != recommend.Recommendation(domain.StatusCold, domain.DatasetLeadScoring) {
		t.Fatalf("expected generic cold recommendation, got %q", doc.Recommendation)
	}
	if doc.Strategy != recommend.EngagementStrategy(domain.StatusCold, domain.DatasetLeadScoring) {
		t.Fatalf("expected generic cold strategy, got %q", doc.Strategy)
	}
	if len(doc.BANT) != 4 || doc.BANT[0].Value != "5.0/10" {
		t.Fatalf("expected BANT block, got %v", doc.BANT)
	}
	if doc.DatasetLabel != "Bank Marketing Dataset" {
		t.Fatalf("expected default dataset label, got %q", doc.DatasetLabel)
	}
}

func TestBuildFromDecodedRequest(t *testing.T) {
	body := `{"leadData":{"name":"  Jane Doe ","company":"Acme","budget":0.7},"scoringResult":{"score":72,"status":"warm","dataset_type":"lead_scoring","error":"Using fallback scoring due to service unavailability"}}`

	var in Input
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		t.Fatalf("expected request to decode, got %v", err)
	}
	doc := Build(in, fixedNow)

	if doc.LeadName != "Jane Doe" {
		t.Fatalf("expected trimmed lead name, got %q", doc.LeadName)
	}
	if doc.Date != "3/5/2024" {
		t.Fatalf("expected date 3/5/2024, got %q", doc.Date)
	}
	if doc.DatasetLabel != "Lead Scoring Dataset" {
		t.Fatalf("expected lead scoring label, got %q", doc.DatasetLabel)
	}
	if !strings.HasPrefix(doc.FallbackNotice, "Using fallback scoring") {
		t.Fatalf("expected fallback notice, got %q", doc.FallbackNotice)
	}
	if doc.Details[0] != (Row{"Company", "Acme"}) || doc.Details[1] != (Row{"Email", "N/A"}) {
		t.Fatalf("expected generic detail rows, got %v", doc.Details)
	}
}

func TestResultFrom(t *testing.T) {
	r := ResultFrom(domain.NewResult(80, domain.DatasetBank, ""))

	if r.Score == nil || *r.Score != 80 || r.Probability == nil || *r.Probability != 0.8 {
		t.Fatalf("expected score 80 and probability 0.8, got %+v", r)
	}
	if r.Status != "hot" || r.DatasetType != "bank" {
		t.Fatalf("expected hot bank, got %s %s", r.Status, r.DatasetType)
	}
}
