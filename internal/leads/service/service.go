// Package service is the scoring gateway: it asks the ML backend for a
// score and falls back to the local heuristics whenever no trustworthy
// remote score is available.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"

	"leadgenius_backend/internal/events"
	"leadgenius_backend/internal/leads/client"
	"leadgenius_backend/internal/leads/domain"
	"leadgenius_backend/internal/leads/scoring"
	"leadgenius_backend/platform/apperr"
	"leadgenius_backend/platform/eventbus"
	"leadgenius_backend/platform/logger"
	"leadgenius_backend/platform/metrics"
)

// Fallback reasons, used as metric labels and in LeadScored events.
const (
	ReasonUnreachable     = "unreachable"
	ReasonBackendError    = "backend_error"
	ReasonInvalidResponse = "invalid_response"
	ReasonDatasetMismatch = "dataset_mismatch"
	ReasonLocal           = "local"
)

// Backend is the subset of the scoring backend the gateway relies on.
type Backend interface {
	Score(ctx context.Context, req client.ScoreRequest) (*client.ScoreResponse, error)
	Compare(ctx context.Context, attrs domain.Attributes) (json.RawMessage, error)
	Train(ctx context.Context, dataset domain.DatasetType, model string) (json.RawMessage, error)
	Metrics(ctx context.Context, dataset domain.DatasetType, model string) (json.RawMessage, error)
	FeatureImportance(ctx context.Context, dataset domain.DatasetType, model string) (json.RawMessage, error)
	Sample(ctx context.Context, dataset domain.DatasetType) (domain.Attributes, error)
}

// ScoreRequest is a lead plus the requested dataset and model.
type ScoreRequest struct {
	Lead        domain.Attributes
	DatasetType domain.DatasetType
	ModelType   string
}

// Service scores leads and proxies the model management endpoints.
type Service struct {
	backend  Backend
	eventBus eventbus.Bus
	log      *logger.Logger
}

// New creates the scoring gateway.
func New(backend Backend, eventBus eventbus.Bus, log *logger.Logger) *Service {
	return &Service{backend: backend, eventBus: eventBus, log: log}
}

// Score returns a usable result for every request. Backend failures and
// untrustworthy backend answers are replaced by a local fallback score.
func (s *Service) Score(ctx context.Context, req ScoreRequest) domain.ScoringResult {
	dataset := req.DatasetType
	if dataset == "" {
		dataset = domain.DatasetBank
	}
	model := req.ModelType
	if model == "" {
		model = domain.ModelRandomForest
	}
	attrs := req.Lead.Canonicalize().Without("dataset_type", "model_type")

	resp, err := s.backend.Score(ctx, client.ScoreRequest{Lead: attrs, DatasetType: dataset, ModelType: model})
	if err != nil {
		return s.fallback(ctx, dataset, model, attrs, failureReason(err))
	}

	if mismatched(resp, dataset) && model != domain.ModelRandomForest {
		s.log.Warn("backend answered for another dataset, retrying with random_forest",
			"requested", dataset, "answered", resp.DatasetType, "model", model)
		model = domain.ModelRandomForest
		resp, err = s.backend.Score(ctx, client.ScoreRequest{Lead: attrs, DatasetType: dataset, ModelType: model})
		if err != nil {
			return s.fallback(ctx, dataset, model, attrs, failureReason(err))
		}
	}
	if mismatched(resp, dataset) {
		return s.fallback(ctx, dataset, model, attrs, ReasonDatasetMismatch)
	}

	result := fromBackend(resp, dataset)
	metrics.ScoringRequests.WithLabelValues(string(dataset), metrics.SourceBackend).Inc()
	s.publishScored(ctx, result, model, false, "")
	return result
}

// FallbackScore scores attrs with the local heuristics only.
func (s *Service) FallbackScore(ctx context.Context, dataset domain.DatasetType, attrs domain.Attributes) domain.ScoringResult {
	if dataset == "" {
		dataset = domain.DatasetBank
	}
	return s.fallback(ctx, dataset, "", attrs.Canonicalize(), ReasonLocal)
}

// Compare scores attrs with every backend model.
func (s *Service) Compare(ctx context.Context, attrs domain.Attributes) (json.RawMessage, error) {
	out, err := s.backend.Compare(ctx, attrs.Canonicalize())
	if err != nil {
		return nil, apperr.Unavailable("Failed to compare models", err)
	}
	return out, nil
}

// Train triggers a retraining run for dataset and model.
func (s *Service) Train(ctx context.Context, dataset domain.DatasetType, model string) (json.RawMessage, error) {
	out, err := s.backend.Train(ctx, dataset, model)
	if err != nil {
		return nil, apperr.Unavailable("Failed to train model", err)
	}
	return out, nil
}

// Metrics returns the backend's model metrics.
func (s *Service) Metrics(ctx context.Context, dataset domain.DatasetType, model string) (json.RawMessage, error) {
	out, err := s.backend.Metrics(ctx, dataset, model)
	if err != nil {
		return nil, apperr.Unavailable("Failed to fetch model metrics", err)
	}
	return out, nil
}

// FeatureImportance returns the backend's feature importance list.
func (s *Service) FeatureImportance(ctx context.Context, dataset domain.DatasetType, model string) (json.RawMessage, error) {
	out, err := s.backend.FeatureImportance(ctx, dataset, model)
	if err != nil {
		return nil, apperr.Unavailable("Failed to fetch feature importance", err)
	}
	return out, nil
}

// Sample returns an example lead. The backend only knows the bank sample,
// so lead_scoring is always served locally; an unreachable backend also
// falls back to the built-in bank sample.
func (s *Service) Sample(ctx context.Context, dataset domain.DatasetType) (domain.Attributes, error) {
	if !dataset.IsBank() && dataset != "" {
		return BuiltinSample(dataset), nil
	}
	attrs, err := s.backend.Sample(ctx, domain.DatasetBank)
	if err == nil {
		return attrs, nil
	}
	var be *client.BackendError
	if errors.As(err, &be) {
		return domain.Attributes{}, apperr.Unavailable("Failed to fetch sample lead", err)
	}
	s.log.Warn("scoring backend unreachable, serving built-in sample", "error", err)
	return BuiltinSample(domain.DatasetBank), nil
}

func (s *Service) fallback(ctx context.Context, dataset domain.DatasetType, model string, attrs domain.Attributes, reason string) domain.ScoringResult {
	result := scoring.Fallback(dataset, attrs)
	if reason != ReasonLocal {
		s.log.FallbackUsed(string(dataset), reason)
	}
	metrics.FallbackScores.WithLabelValues(string(dataset), reason).Inc()
	metrics.ScoringRequests.WithLabelValues(string(dataset), metrics.SourceFallback).Inc()
	s.publishScored(ctx, result, model, true, reason)
	return result
}

func (s *Service) publishScored(ctx context.Context, result domain.ScoringResult, model string, fallback bool, reason string) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(ctx, events.LeadScored{
		Meta:        eventbus.NewMeta(),
		DatasetType: string(result.DatasetType),
		ModelType:   model,
		Status:      string(result.Status),
		Score:       result.Score,
		Fallback:    fallback,
		Reason:      reason,
	})
}

// fromBackend normalizes a backend answer: the score is rounded and
// clamped and probability and status are derived from it.
func fromBackend(resp *client.ScoreResponse, dataset domain.DatasetType) domain.ScoringResult {
	score := *resp.Score
	if math.IsNaN(score) {
		score = 0
	}
	return domain.NewResult(int(math.Round(math.Max(0, math.Min(100, score)))), dataset, resp.Error)
}

func mismatched(resp *client.ScoreResponse, dataset domain.DatasetType) bool {
	return resp.DatasetType != "" && domain.DatasetType(resp.DatasetType) != dataset
}

func failureReason(err error) string {
	var be *client.BackendError
	switch {
	case errors.As(err, &be):
		return ReasonBackendError
	case errors.Is(err, client.ErrMissingScore):
		return ReasonInvalidResponse
	default:
		return ReasonUnreachable
	}
}
