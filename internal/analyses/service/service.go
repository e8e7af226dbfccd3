// Package service saves scored leads to the analyses log and renders
// reports for saved analyses.
package service

import (
	"context"
	"errors"
	"time"

	"leadgenius_backend/internal/analyses/repository"
	"leadgenius_backend/internal/events"
	"leadgenius_backend/internal/leads/domain"
	"leadgenius_backend/internal/leads/report"
	"leadgenius_backend/platform/apperr"
	"leadgenius_backend/platform/eventbus"
	"leadgenius_backend/platform/logger"
	"leadgenius_backend/platform/metrics"
	"leadgenius_backend/platform/phone"
	"leadgenius_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	analysisNotFoundMsg = "analysis not found"
	FormatHTML          = "html"
	FormatPDF           = "pdf"
)

// SaveRequest is a lead together with the result it was scored with.
type SaveRequest struct {
	LeadData      domain.Attributes    `json:"leadData"`
	ScoringResult domain.ScoringResult `json:"scoringResult"`
	DatasetType   domain.DatasetType   `json:"datasetType"`
}

// Rendered is a report for a saved analysis.
type Rendered struct {
	Body     []byte
	Filename string
}

type Service struct {
	store    repository.Store
	eventBus eventbus.Bus
	renderer *report.Renderer
	region   string
	now      func() time.Time
	log      *logger.Logger
}

func New(store repository.Store, eventBus eventbus.Bus, renderer *report.Renderer, region string, log *logger.Logger) *Service {
	return &Service{
		store:    store,
		eventBus: eventBus,
		renderer: renderer,
		region:   region,
		now:      time.Now,
		log:      log,
	}
}

// SetClock replaces the time source used to stamp new analyses.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Save appends a new analysis. The lead is canonicalized with markup
// stripped from text fields, its phone number normalized to E.164 when it
// parses, and the result's probability and status re-derived from its score.
func (s *Service) Save(ctx context.Context, req SaveRequest) (domain.LeadRecord, error) {
	dataset, err := resolveDataset(req)
	if err != nil {
		return domain.LeadRecord{}, err
	}
	if req.ScoringResult.Score < 0 || req.ScoringResult.Score > 100 {
		return domain.LeadRecord{}, apperr.Validation("score must be between 0 and 100").
			WithDetails(map[string]string{"score": "min=0,max=100"})
	}

	resultDataset := req.ScoringResult.DatasetType
	if resultDataset == "" {
		resultDataset = dataset
	}

	lead := req.LeadData.Canonicalize()
	for _, key := range lead.Keys() {
		if raw, ok := lead.String(key); ok {
			lead.Set(key, sanitize.Text(raw))
		}
	}
	if raw, ok := lead.String("phone"); ok {
		lead.Set("phone", phone.NormalizeE164(raw, s.region))
	}

	rec := domain.LeadRecord{
		ID:            uuid.New(),
		Date:          s.now().UTC(),
		LeadData:      lead,
		ScoringResult: domain.NewResult(req.ScoringResult.Score, resultDataset, req.ScoringResult.Error),
		DatasetType:   dataset,
	}

	if err := s.store.Append(ctx, rec); err != nil {
		s.log.Error("failed to save analysis", "error", err, "analysisId", rec.ID)
		return domain.LeadRecord{}, apperr.Wrap(apperr.KindInternal, "failed to save analysis", err).WithOp("analyses.Save")
	}
	metrics.AnalysesSaved.Inc()

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.AnalysisSaved{
			Meta:        eventbus.NewMeta(),
			AnalysisID:  rec.ID,
			DatasetType: string(rec.DatasetType),
			Status:      string(rec.ScoringResult.Status),
		})
	}
	return rec, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.LeadRecord, error) {
	rec, err := s.store.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.LeadRecord{}, apperr.NotFound(analysisNotFoundMsg)
	}
	if err != nil {
		return domain.LeadRecord{}, apperr.Wrap(apperr.KindInternal, "failed to load analysis", err).WithOp("analyses.Get")
	}
	return rec, nil
}

func (s *Service) List(ctx context.Context, filter repository.ListFilter) ([]domain.LeadRecord, error) {
	items, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list analyses", err).WithOp("analyses.List")
	}
	return items, nil
}

// Render renders the report of a saved analysis in format html or pdf.
func (s *Service) Render(ctx context.Context, id uuid.UUID, format string) (Rendered, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return Rendered{}, err
	}
	return RenderRecord(s.renderer, rec, format)
}

// RenderRecord renders rec without touching the store.
func RenderRecord(renderer *report.Renderer, rec domain.LeadRecord, format string) (Rendered, error) {
	in := ReportInput(rec)
	switch format {
	case FormatHTML:
		body, err := renderer.HTML(in)
		if err != nil {
			return Rendered{}, apperr.Wrap(apperr.KindInternal, "Failed to generate report", err)
		}
		return Rendered{Body: body, Filename: rec.ID.String() + ".html"}, nil
	case FormatPDF:
		body, err := renderer.PDF(in)
		if err != nil {
			return Rendered{}, apperr.Wrap(apperr.KindInternal, "Failed to generate PDF", err)
		}
		return Rendered{Body: body, Filename: report.FilenameFor(in)}, nil
	default:
		return Rendered{}, apperr.BadRequest("unsupported report format: " + format)
	}
}

// ReportInput is the report request equivalent of a saved analysis.
func ReportInput(rec domain.LeadRecord) report.Input {
	return report.Input{
		LeadData:      rec.LeadData,
		ScoringResult: report.ResultFrom(rec.ScoringResult),
	}
}

// resolveDataset picks the explicit dataset, then the result's, then the
// lead's dataset_type attribute, defaulting to bank.
func resolveDataset(req SaveRequest) (domain.DatasetType, error) {
	raw := string(req.DatasetType)
	if raw == "" {
		raw = string(req.ScoringResult.DatasetType)
	}
	if raw == "" {
		raw, _ = req.LeadData.String("dataset_type")
	}
	dataset, ok := domain.ParseDatasetType(raw)
	if !ok {
		return "", apperr.Validation("invalid dataset type").
			WithDetails(map[string]string{"datasetType": "oneof=bank lead_scoring"})
	}
	return dataset, nil
}
