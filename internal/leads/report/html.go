package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var htmlTemplate = template.Must(template.New("report.html").ParseFS(templateFS, "templates/report.html"))

type htmlView struct {
	Document
	Title         string
	DocumentTitle string
}

// RenderHTML serializes doc as a standalone HTML page. All values are
// escaped by html/template.
func RenderHTML(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	view := htmlView{Document: doc, Title: Title, DocumentTitle: DocumentTitle}
	if err := htmlTemplate.ExecuteTemplate(&buf, "report", view); err != nil {
		return nil, fmt.Errorf("render html report: %w", err)
	}
	return buf.Bytes(), nil
}
