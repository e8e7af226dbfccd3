// Package leads provides the lead scoring bounded context module.
// This file defines the module that encapsulates scoring, intake, model
// management and report rendering setup and route registration.
package leads

import (
	"context"

	"leadgenius_backend/internal/events"
	apphttp "leadgenius_backend/internal/http"
	"leadgenius_backend/internal/leads/client"
	"leadgenius_backend/internal/leads/handler"
	"leadgenius_backend/internal/leads/intake"
	"leadgenius_backend/internal/leads/report"
	"leadgenius_backend/internal/leads/service"
	"leadgenius_backend/platform/config"
	"leadgenius_backend/platform/eventbus"
	"leadgenius_backend/platform/logger"
	"leadgenius_backend/platform/validator"
)

// Config combines the config interfaces the leads module reads.
type Config interface {
	config.ScoringBackendConfig
	config.ReportConfig
	config.IntakeConfig
}

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler  *handler.Handler
	ml       *handler.MLHandler
	reports  *handler.ReportHandler
	scoring  *service.Service
	renderer *report.Renderer
}

// NewModule creates the leads module backed by the HTTP scoring backend.
func NewModule(eventBus eventbus.Bus, val *validator.Validator, cfg Config, log *logger.Logger) *Module {
	return NewModuleWithBackend(client.New(cfg, log), eventBus, val, cfg, log)
}

// NewModuleWithBackend creates the leads module with an explicit backend.
func NewModuleWithBackend(backend service.Backend, eventBus eventbus.Bus, val *validator.Validator, cfg Config, log *logger.Logger) *Module {
	// Log every score so fallback usage is visible next to request logs
	eventBus.Subscribe(events.NameLeadScored, eventbus.HandlerFunc(func(ctx context.Context, event eventbus.Event) error {
		e, ok := event.(events.LeadScored)
		if !ok {
			return nil
		}
		log.WithContext(ctx).Info("lead scored",
			"datasetType", e.DatasetType,
			"modelType", e.ModelType,
			"score", e.Score,
			"status", e.Status,
			"fallback", e.Fallback,
			"reason", e.Reason,
		)
		return nil
	}))

	scoringSvc := service.New(backend, eventBus, log)
	renderer := report.NewRenderer(report.WithPDFEngine(cfg.GetReportPDFEngine()))
	checker := intake.NewChecker(val, cfg.GetPhoneDefaultRegion())

	return &Module{
		handler:  handler.New(scoringSvc, checker, val),
		ml:       handler.NewMLHandler(scoringSvc, val),
		reports:  handler.NewReportHandler(renderer, log),
		scoring:  scoringSvc,
		renderer: renderer,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// ScoringService returns the scoring gateway for external use.
func (m *Module) ScoringService() *service.Service {
	return m.scoring
}

// Renderer returns the report renderer for external use.
func (m *Module) Renderer() *report.Renderer {
	return m.renderer
}

// RegisterRoutes mounts leads, ml-scoring and reports routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/leads"))
	m.ml.RegisterRoutes(ctx.V1.Group("/ml-scoring"))
	m.reports.RegisterRoutes(ctx.V1.Group("/reports"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
