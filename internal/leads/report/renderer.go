package report

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"leadgenius_backend/internal/leads/domain"
	"leadgenius_backend/platform/metrics"
)

// PDF engines.
const (
	EngineMinimal = "minimal"
	EngineMaroto  = "maroto"
)

const (
	formatHTML = "html"
	formatPDF  = "pdf"
)

// Renderer builds and serializes reports. It is safe for concurrent use.
type Renderer struct {
	now    func() time.Time
	engine string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClock fixes the time source used for report dates.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// WithPDFEngine selects the PDF serializer. Unknown names keep the minimal engine.
func WithPDFEngine(engine string) Option {
	return func(r *Renderer) {
		if engine == EngineMaroto {
			r.engine = EngineMaroto
		}
	}
}

// NewRenderer creates a renderer using the wall clock and the minimal PDF engine.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{now: time.Now, engine: EngineMinimal}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// HTML renders the HTML report.
func (r *Renderer) HTML(in Input) ([]byte, error) {
	return r.safeRender(formatHTML, func() ([]byte, error) {
		return RenderHTML(Build(in, r.now()))
	})
}

// PDF renders the PDF report with the configured engine.
func (r *Renderer) PDF(in Input) ([]byte, error) {
	return r.safeRender(formatPDF, func() ([]byte, error) {
		now := r.now()
		doc := Build(in, now)
		if r.engine == EngineMaroto {
			return RenderStyledPDF(doc, now)
		}
		return RenderPDF(doc)
	})
}

// safeRender turns a panic inside a serializer into an error so that no
// partial document ever reaches the caller.
func (r *Renderer) safeRender(format string, render func() ([]byte, error)) (out []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out, err = nil, fmt.Errorf("render %s report: panic: %v", format, rec)
		}
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.ReportsRendered.WithLabelValues(format, outcome).Inc()
	}()
	return render()
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	// unsafeFilename matches path separators, quoting and parameter
	// delimiters, shell wildcards and control characters.
	unsafeFilename = regexp.MustCompile(`[/\\"';:*?<>|\x00-\x1f\x7f]`)
)

// PDFFilename derives the attachment name from a lead name:
// "Jane Doe" → "Jane_Doe_lead_report.pdf". Characters that could escape a
// directory or break a header become underscores.
func PDFFilename(leadName string) string {
	name := strings.TrimSpace(leadName)
	if name == "" {
		name = domain.AnonymousLead
	}
	name = whitespaceRun.ReplaceAllString(name, "_")
	return unsafeFilename.ReplaceAllString(name, "_") + "_lead_report.pdf"
}

// FilenameFor derives the attachment name for in.
func FilenameFor(in Input) string {
	return PDFFilename(in.LeadData.LeadName())
}
