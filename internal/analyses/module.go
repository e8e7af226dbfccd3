// Package analyses provides the saved lead analyses bounded context module.
package analyses

import (
	"leadgenius_backend/internal/analyses/handler"
	"leadgenius_backend/internal/analyses/repository"
	"leadgenius_backend/internal/analyses/service"
	apphttp "leadgenius_backend/internal/http"
	"leadgenius_backend/internal/leads/report"
	"leadgenius_backend/platform/config"
	"leadgenius_backend/platform/eventbus"
	"leadgenius_backend/platform/logger"
	"leadgenius_backend/platform/validator"
)

// Module is the analyses bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the analyses service on top of store. The renderer is
// shared with the leads module so both produce identical reports.
func NewModule(store repository.Store, eventBus eventbus.Bus, renderer *report.Renderer, val *validator.Validator, cfg config.IntakeConfig, log *logger.Logger) *Module {
	svc := service.New(store, eventBus, renderer, cfg.GetPhoneDefaultRegion(), log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "analyses"
}

// Service returns the analyses service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the analyses routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/analyses"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
