package service

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"leadgenius_backend/internal/analyses/repository"
	"leadgenius_backend/internal/events"
	"leadgenius_backend/internal/leads/domain"
	"leadgenius_backend/internal/leads/report"
	"leadgenius_backend/platform/apperr"
	"leadgenius_backend/platform/eventbus"
	"leadgenius_backend/platform/logger"

	"github.com/google/uuid"
)

type recordingBus struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (b *recordingBus) Publish(_ context.Context, e eventbus.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *recordingBus) PublishSync(ctx context.Context, e eventbus.Event) error {
	b.Publish(ctx, e)
	return nil
}

func (b *recordingBus) Subscribe(string, eventbus.Handler) {}

type failingStore struct{ repository.Store }

func (failingStore) Append(context.Context, domain.LeadRecord) error {
	return errors.New("disk full")
}

var fixedNow = time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

func newService(store repository.Store, bus eventbus.Bus) *Service {
	renderer := report.NewRenderer(report.WithClock(func() time.Time { return fixedNow }))
	svc := New(store, bus, renderer, "US", logger.Discard())
	svc.SetClock(func() time.Time { return fixedNow })
	return svc
}

func TestSaveStoresNormalizedRecordAndPublishes(t *testing.T) {
	bus := &recordingBus{}
	store := repository.NewMemoryStore()
	svc := newService(store, bus)

	rec, err := svc.Save(context.Background(), SaveRequest{
		LeadData: domain.NewAttributes("name", "<b>Ana</b>", "phone", "(650) 253-0000", "emp.var.rate", 1.1),
		ScoringResult: domain.ScoringResult{
			Score: 82, Probability: 0.5, Status: domain.StatusCold, DatasetType: domain.DatasetBank,
		},
	})
	if err != nil {
		t.Fatalf("expected save to succeed, got %v", err)
	}

	if rec.DatasetType != domain.DatasetBank || !rec.Date.Equal(fixedNow) {
		t.Fatalf("expected bank analysis at fixed time, got %s %v", rec.DatasetType, rec.Date)
	}
	if rec.ScoringResult.Status != domain.StatusHot || rec.ScoringResult.Probability != 0.82 {
		t.Fatalf("expected status and probability derived from score, got %+v", rec.ScoringResult)
	}
	if got := rec.LeadData.Text("phone"); got != "+16502530000" {
		t.Fatalf("expected E.164 phone, got %s", got)
	}
	if got := rec.LeadData.Text("name"); got != "Ana" {
		t.Fatalf("expected markup stripped from name, got %s", got)
	}
	if !rec.LeadData.Has(domain.KeyEmpVarRate) {
		t.Fatal("expected canonical indicator key")
	}

	if _, err := store.Get(context.Background(), rec.ID); err != nil {
		t.Fatalf("expected stored record, got %v", err)
	}
	if len(bus.events) != 1 {
		t.Fatalf("expected one event, got %d", len(bus.events))
	}
	saved, ok := bus.events[0].(events.AnalysisSaved)
	if !ok || saved.AnalysisID != rec.ID || saved.Status != "hot" {
		t.Fatalf("expected AnalysisSaved for %s, got %+v", rec.ID, bus.events[0])
	}
}

func TestSaveKeepsUnparseablePhone(t *testing.T) {
	svc := newService(repository.NewMemoryStore(), nil)

	rec, err := svc.Save(context.Background(), SaveRequest{
		LeadData:      domain.NewAttributes("phone", " call me "),
		ScoringResult: domain.NewResult(50, domain.DatasetLeadScoring, ""),
	})
	if err != nil {
		t.Fatalf("expected save to succeed, got %v", err)
	}
	if rec.LeadData.Text("phone") != "call me" {
		t.Fatalf("expected trimmed input, got %q", rec.LeadData.Text("phone"))
	}
	if rec.DatasetType != domain.DatasetLeadScoring {
		t.Fatalf("expected dataset from result, got %s", rec.DatasetType)
	}
}

func TestSaveRejectsBadInput(t *testing.T) {
	svc := newService(repository.NewMemoryStore(), nil)

	_, err := svc.Save(context.Background(), SaveRequest{DatasetType: "crm"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for dataset, got %v", err)
	}

	_, err = svc.Save(context.Background(), SaveRequest{ScoringResult: domain.ScoringResult{Score: 101}})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for score, got %v", err)
	}
}

func TestSaveStoreFailureIsInternal(t *testing.T) {
	svc := newService(failingStore{}, nil)

	_, err := svc.Save(context.Background(), SaveRequest{ScoringResult: domain.NewResult(50, domain.DatasetBank, "")})
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestGetUnknownIsNotFound(t *testing.T) {
	svc := newService(repository.NewMemoryStore(), nil)

	_, err := svc.Get(context.Background(), uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRenderSavedAnalysis(t *testing.T) {
	svc := newService(repository.NewMemoryStore(), nil)
	rec, _ := svc.Save(context.Background(), SaveRequest{
		LeadData:      domain.NewAttributes("name", "Jane Doe", "age", 35),
		ScoringResult: domain.NewResult(82, domain.DatasetBank, ""),
	})

	pdf, err := svc.Render(context.Background(), rec.ID, FormatPDF)
	if err != nil {
		t.Fatalf("expected PDF, got %v", err)
	}
	if pdf.Filename != "Jane_Doe_lead_report.pdf" || !bytes.HasPrefix(pdf.Body, []byte("%PDF-")) {
		t.Fatalf("expected named PDF, got %s", pdf.Filename)
	}

	html, err := svc.Render(context.Background(), rec.ID, FormatHTML)
	if err != nil {
		t.Fatalf("expected HTML, got %v", err)
	}
	if !bytes.Contains(html.Body, []byte("Jane Doe")) {
		t.Fatal("expected lead name in HTML report")
	}

	if _, err := svc.Render(context.Background(), rec.ID, "docx"); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request for unknown format, got %v", err)
	}
}
