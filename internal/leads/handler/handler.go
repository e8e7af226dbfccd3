package handler

import (
	"net/http"

	"leadgenius_backend/internal/leads/domain"
	"leadgenius_backend/internal/leads/intake"
	"leadgenius_backend/internal/leads/service"
	"leadgenius_backend/internal/leads/transport"
	"leadgenius_backend/platform/apperr"
	"leadgenius_backend/platform/httpkit"
	"leadgenius_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgLeadInvalid      = "lead failed validation"
)

// Handler serves lead scoring and intake.
type Handler struct {
	svc     *service.Service
	checker *intake.Checker
	val     *validator.Validator
}

func New(svc *service.Service, checker *intake.Checker, val *validator.Validator) *Handler {
	return &Handler{svc: svc, checker: checker, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/score", h.Score)
	rg.POST("/fallback-score", h.FallbackScore)
	rg.GET("/form", h.Form)
	rg.POST("/validate", h.Validate)
}

// Score scores the lead in the body. dataset_type and model_type come from
// the query string or, failing that, from the body itself.
func (h *Handler) Score(c *gin.Context) {
	var lead domain.Attributes
	if err := c.ShouldBindJSON(&lead); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	q, ok := h.bindModelQuery(c)
	if !ok {
		return
	}
	if q.DatasetType == "" {
		q.DatasetType, _ = lead.String("dataset_type")
	}
	if q.ModelType == "" {
		q.ModelType, _ = lead.String("model_type")
	}
	if err := h.val.Struct(q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result := h.svc.Score(c.Request.Context(), service.ScoreRequest{
		Lead:        lead,
		DatasetType: q.Dataset(),
		ModelType:   q.Model(),
	})
	httpkit.OK(c, result)
}

// FallbackScore scores the lead with the local heuristics only.
func (h *Handler) FallbackScore(c *gin.Context) {
	var lead domain.Attributes
	if err := c.ShouldBindJSON(&lead); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	q, ok := h.bindDatasetQuery(c)
	if !ok {
		return
	}

	httpkit.OK(c, h.svc.FallbackScore(c.Request.Context(), q.Dataset(), lead))
}

// Form returns the intake field catalogue for a dataset.
func (h *Handler) Form(c *gin.Context) {
	q, ok := h.bindDatasetQuery(c)
	if !ok {
		return
	}
	dataset := q.Dataset()

	httpkit.OK(c, transport.FormResponse{
		DatasetType: dataset,
		Fields:      intake.Fields(dataset),
		Defaults:    intake.Defaults(dataset),
	})
}

// Validate checks a lead against the intake catalogue.
func (h *Handler) Validate(c *gin.Context) {
	var lead domain.Attributes
	if err := c.ShouldBindJSON(&lead); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	q, ok := h.bindDatasetQuery(c)
	if !ok {
		return
	}

	if problems := h.checker.Check(q.Dataset(), lead); problems != nil {
		httpkit.HandleError(c, apperr.Validation(msgLeadInvalid).WithDetails(problems))
		return
	}
	httpkit.OK(c, transport.ValidationResponse{Valid: true})
}

func (h *Handler) bindDatasetQuery(c *gin.Context) (transport.DatasetQuery, bool) {
	var q transport.DatasetQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return q, false
	}
	if err := h.val.Struct(q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return q, false
	}
	return q, true
}

func (h *Handler) bindModelQuery(c *gin.Context) (transport.ModelQuery, bool) {
	var q transport.ModelQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return q, false
	}
	return q, true
}
