package handler

import (
	"mime"
	"net/http"

	"leadgenius_backend/internal/leads/report"
	"leadgenius_backend/platform/httpkit"
	"leadgenius_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

const (
	msgReportFailed = "Failed to generate report"
	msgPDFFailed    = "Failed to generate PDF"

	contentTypeHTML = "text/html; charset=utf-8"
	contentTypePDF  = "application/pdf"
)

// ReportHandler renders reports from {leadData, scoringResult} bodies.
// Every failure, including an unreadable body, is a 500.
type ReportHandler struct {
	renderer *report.Renderer
	log      *logger.Logger
}

func NewReportHandler(renderer *report.Renderer, log *logger.Logger) *ReportHandler {
	return &ReportHandler{renderer: renderer, log: log}
}

func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/html", httpkit.ReportSecurityHeaders(), h.HTML)
	rg.POST("/pdf", h.PDF)
}

func (h *ReportHandler) HTML(c *gin.Context) {
	var in report.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		h.fail(c, "html", err, msgReportFailed, nil)
		return
	}

	body, err := h.renderer.HTML(in)
	if err != nil {
		h.fail(c, "html", err, msgReportFailed, nil)
		return
	}
	WriteHTML(c, body)
}

func (h *ReportHandler) PDF(c *gin.Context) {
	var in report.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		h.fail(c, "pdf", err, msgPDFFailed, err.Error())
		return
	}

	body, err := h.renderer.PDF(in)
	if err != nil {
		h.fail(c, "pdf", err, msgPDFFailed, err.Error())
		return
	}
	WritePDF(c, report.FilenameFor(in), body)
}

func (h *ReportHandler) fail(c *gin.Context, format string, err error, msg string, details interface{}) {
	h.log.WithContext(c.Request.Context()).Error("report rendering failed", "format", format, "error", err)
	_ = c.Error(err)
	httpkit.Error(c, http.StatusInternalServerError, msg, details)
}

// WriteHTML writes a rendered HTML report.
func WriteHTML(c *gin.Context, body []byte) {
	c.Data(http.StatusOK, contentTypeHTML, body)
}

// WritePDF writes a rendered PDF report as an attachment.
func WritePDF(c *gin.Context, filename string, body []byte) {
	c.Header("Content-Disposition", contentDisposition(filename))
	c.Data(http.StatusOK, contentTypePDF, body)
}

// contentDisposition quotes or RFC 2231 encodes filename as needed.
func contentDisposition(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}
