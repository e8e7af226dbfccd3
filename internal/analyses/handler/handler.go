package handler

import (
	"net/http"

	"leadgenius_backend/internal/analyses/service"
	"leadgenius_backend/internal/analyses/transport"
	leadshandler "leadgenius_backend/internal/leads/handler"
	"leadgenius_backend/platform/httpkit"
	"leadgenius_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.GET("/:id/report.html", httpkit.ReportSecurityHeaders(), h.ReportHTML)
	rg.GET("/:id/report.pdf", h.ReportPDF)
}

func (h *Handler) Create(c *gin.Context) {
	var req service.SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	rec, err := h.svc.Save(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, rec)
}

func (h *Handler) List(c *gin.Context) {
	var q transport.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	filter := q.Filter().Normalized()
	items, err := h.svc.List(c.Request.Context(), filter)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ListResponse{Items: items, Limit: filter.Limit, Offset: filter.Offset})
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	rec, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, rec)
}

func (h *Handler) ReportHTML(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	out, err := h.svc.Render(c.Request.Context(), id, service.FormatHTML)
	if httpkit.HandleError(c, err) {
		return
	}
	leadshandler.WriteHTML(c, out.Body)
}

func (h *Handler) ReportPDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	out, err := h.svc.Render(c.Request.Context(), id, service.FormatPDF)
	if httpkit.HandleError(c, err) {
		return
	}
	leadshandler.WritePDF(c, out.Filename, out.Body)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.UUID{}, false
	}
	return id, true
}
