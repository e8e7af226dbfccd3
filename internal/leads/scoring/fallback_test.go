package scoring

import (
	"math/rand"
	"testing"

	"leadgenius_backend/internal/leads/domain"
)

func TestScoreBankExample(t *testing.T) {
	attrs := domain.NewAttributes(
		"loan", "yes",
		"education", "tertiary",
		"age", 30,
		"previous", 2,
		"job", "management",
	)

	got := ScoreBank(attrs)

	if got.Score != 80 {
		t.Fatalf("expected score 80, got %d", got.Score)
	}
	if got.Status != domain.StatusHot {
		t.Fatalf("expected hot, got %s", got.Status)
	}
	if got.Probability != 0.80 {
		t.Fatalf("expected probability 0.80, got %v", got.Probability)
	}
	if got.DatasetType != domain.DatasetBank {
		t.Fatalf("expected bank dataset, got %s", got.DatasetType)
	}
	if got.Error != FallbackNotice {
		t.Fatalf("expected fallback notice, got %q", got.Error)
	}
}

func TestScoreB2BExampleClampsToHundred(t *testing.T) {
	attrs := domain.NewAttributes(
		"budget", 0.7,
		"authority", 0.8,
		"need", 0.6,
		"timeframe", 0.75,
		"engagement_level", 0.65,
		"website_visits", 5,
		"time_spent", 8.5,
	)

	got := ScoreB2B(attrs)

	if got.Score != 100 || got.Status != domain.StatusHot || got.Probability != 1.0 {
		t.Fatalf("expected 100/hot/1.0, got %d/%s/%v", got.Score, got.Status, got.Probability)
	}
	if got.DatasetType != domain.DatasetLeadScoring {
		t.Fatalf("expected lead_scoring dataset, got %s", got.DatasetType)
	}
}

func TestScoreB2BEmptyStaysAtBase(t *testing.T) {
	got := ScoreB2B(domain.Attributes{})

	if got.Score != 50 || got.Status != domain.StatusWarm || got.Probability != 0.5 {
		t.Fatalf("expected 50/warm/0.5, got %d/%s/%v", got.Score, got.Status, got.Probability)
	}
	if got.Error == "" {
		t.Fatal("expected fallback notice on empty input")
	}
}

func TestScoreB2BIgnoresNonNumericFields(t *testing.T) {
	attrs := domain.NewAttributes(
		"budget", "0.9",
		"authority", true,
		"need", nil,
		"website_visits", "12",
		"company", "Acme",
	)

	if got := ScoreB2B(attrs); got.Score != 50 {
		t.Fatalf("expected non-numeric fields to be ignored, got %d", got.Score)
	}
}

func TestScoreB2BTiers(t *testing.T) {
	cases := []struct {
		name  string
		attrs domain.Attributes
		want  int
	}{
		{"visits below tier", domain.NewAttributes("website_visits", 2), 50},
		{"visits low edge", domain.NewAttributes("website_visits", 3), 55},
		{"visits high edge", domain.NewAttributes("website_visits", 5), 55},
		{"visits above", domain.NewAttributes("website_visits", 6), 60},
		{"time below", domain.NewAttributes("time_spent", 4.9), 50},
		{"time low edge", domain.NewAttributes("time_spent", 5), 55},
		{"time high edge", domain.NewAttributes("time_spent", 10), 55},
		{"time above", domain.NewAttributes("time_spent", 10.5), 60},
		{"negative budget clamps low", domain.NewAttributes("budget", -5), 0},
		{"half rounds up", domain.NewAttributes("need", 0.5), 63},
	}

	for _, tc := range cases {
		if got := ScoreB2B(tc.attrs).Score; got != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestScoreBankRules(t *testing.T) {
	cases := []struct {
		name  string
		attrs domain.Attributes
		want  int
	}{
		{"empty", domain.Attributes{}, 50},
		{"loan no", domain.NewAttributes("loan", "no"), 50},
		{"university substring", domain.NewAttributes("education", "university.degree"), 60},
		{"high school", domain.NewAttributes("education", "high.school"), 55},
		{"basic education", domain.NewAttributes("education", "basic.9y"), 50},
		{"numeric education ignored", domain.NewAttributes("education", 3), 50},
		{"age prime low edge", domain.NewAttributes("age", 25), 60},
		{"age prime high edge", domain.NewAttributes("age", 45), 60},
		{"age later", domain.NewAttributes("age", 45.5), 55},
		{"age later edge", domain.NewAttributes("age", 60), 55},
		{"age senior", domain.NewAttributes("age", 61), 50},
		{"age as string ignored", domain.NewAttributes("age", "30"), 50},
		{"previous zero", domain.NewAttributes("previous", 0), 50},
		{"admin job", domain.NewAttributes("job", "admin."), 60},
		{"other job", domain.NewAttributes("job", "student"), 50},
		{"worst case", domain.NewAttributes("loan", "yes", "age", 70, "job", "retired"), 40},
	}

	for _, tc := range cases {
		got := ScoreBank(tc.attrs)
		if got.Score != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, got.Score)
		}
		if got.Status != domain.StatusForScore(got.Score) {
			t.Fatalf("%s: status %s does not match score %d", tc.name, got.Status, got.Score)
		}
	}
}

func TestFallbackDispatchesOnLiteralBank(t *testing.T) {
	attrs := domain.NewAttributes("age", 30, "budget", 1)

	if got := Fallback(domain.DatasetBank, attrs); got.DatasetType != domain.DatasetBank || got.Score != 60 {
		t.Fatalf("expected bank heuristic 60, got %s %d", got.DatasetType, got.Score)
	}
	for _, d := range []domain.DatasetType{domain.DatasetLeadScoring, "", "other"} {
		if got := Fallback(d, attrs); got.DatasetType != domain.DatasetLeadScoring || got.Score != 70 {
			t.Fatalf("%q: expected B2B heuristic 70, got %s %d", d, got.DatasetType, got.Score)
		}
	}
}

func TestHeuristicsAreIdempotentAndInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	jobs := []string{"management", "student", "admin.", "services"}

	for i := 0; i < 500; i++ {
		b2b := domain.NewAttributes(
			"budget", rng.Float64(),
			"authority", rng.Float64(),
			"need", rng.Float64(),
			"timeframe", rng.Float64(),
			"engagement_level", rng.Float64(),
			"website_visits", rng.Intn(20),
			"time_spent", rng.Float64()*30,
		)
		bank := domain.NewAttributes(
			"age", 18+rng.Intn(70),
			"previous", rng.Intn(3),
			"job", jobs[rng.Intn(len(jobs))],
			"loan", []string{"yes", "no"}[rng.Intn(2)],
		)

		for _, pair := range [][2]domain.ScoringResult{
			{ScoreB2B(b2b), ScoreB2B(b2b)},
			{ScoreBank(bank), ScoreBank(bank)},
		} {
			first, second := pair[0], pair[1]
			if first != second {
				t.Fatalf("expected identical results, got %+v and %+v", first, second)
			}
			if first.Score < 0 || first.Score > 100 {
				t.Fatalf("score out of range: %d", first.Score)
			}
			if first.Probability != float64(first.Score)/100 {
				t.Fatalf("probability %v != score/100 for %d", first.Probability, first.Score)
			}
			if first.Status != domain.StatusForScore(first.Score) {
				t.Fatalf("status %s does not match score %d", first.Status, first.Score)
			}
		}
	}
}
