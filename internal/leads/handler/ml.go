package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"leadgenius_backend/internal/leads/domain"
	"leadgenius_backend/internal/leads/service"
	"leadgenius_backend/platform/httpkit"
	"leadgenius_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// MLHandler proxies the model management endpoints of the scoring backend.
type MLHandler struct {
	svc *service.Service
	h   *Handler
}

func NewMLHandler(svc *service.Service, val *validator.Validator) *MLHandler {
	return &MLHandler{svc: svc, h: &Handler{svc: svc, val: val}}
}

func (m *MLHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/compare", m.Compare)
	rg.GET("/train", m.Train)
	rg.GET("/metrics", m.Metrics)
	rg.GET("/feature-importance", m.FeatureImportance)
	rg.GET("/sample", m.Sample)
}

func (m *MLHandler) Compare(c *gin.Context) {
	var lead domain.Attributes
	if err := c.ShouldBindJSON(&lead); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	out, err := m.svc.Compare(c.Request.Context(), lead)
	if httpkit.HandleError(c, err) {
		return
	}
	rawJSON(c, out)
}

func (m *MLHandler) Train(c *gin.Context) {
	m.modelCall(c, m.svc.Train)
}

func (m *MLHandler) Metrics(c *gin.Context) {
	m.modelCall(c, m.svc.Metrics)
}

func (m *MLHandler) FeatureImportance(c *gin.Context) {
	m.modelCall(c, m.svc.FeatureImportance)
}

func (m *MLHandler) Sample(c *gin.Context) {
	q, ok := m.h.bindDatasetQuery(c)
	if !ok {
		return
	}

	lead, err := m.svc.Sample(c.Request.Context(), q.Dataset())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

type modelFunc func(ctx context.Context, dataset domain.DatasetType, model string) (json.RawMessage, error)

func (m *MLHandler) modelCall(c *gin.Context, call modelFunc) {
	q, ok := m.h.bindModelQuery(c)
	if !ok {
		return
	}
	if err := m.h.val.Struct(q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	out, err := call(c.Request.Context(), q.Dataset(), q.Model())
	if httpkit.HandleError(c, err) {
		return
	}
	rawJSON(c, out)
}

// rawJSON relays a backend JSON document unchanged.
func rawJSON(c *gin.Context, body json.RawMessage) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
