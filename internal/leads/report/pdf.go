package report

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
)

const (
	pageWidth   = 612
	pageHeight  = 792
	marginLeft  = 50
	marginTop   = 742
	marginFloor = 40
	wrapColumn  = 90
	// maxValueLines caps how many wrapped lines one value may take.
	maxValueLines = 3
	ellipsis      = "..."
)

type pdfFont string

const (
	fontRegular pdfFont = "F1"
	fontBold    pdfFont = "F2"
)

type pdfLine struct {
	font pdfFont
	size int
	text string
	// gap is extra space above the line in points.
	gap int
}

// RenderPDF serializes doc as a one-page PDF built directly from text
// operators. Long values are cut to a few lines, and the recommendation and
// timestamp always keep their space at the bottom of the page.
func RenderPDF(doc Document) ([]byte, error) {
	body, tail := pdfLines(doc)
	content := buildContentStream(body, tail)
	return assemblePDF(content), nil
}

// pdfLines returns the body lines and the tail that must always be drawn.
func pdfLines(doc Document) (body, tail []pdfLine) {
	var lines []pdfLine
	add := func(font pdfFont, size, gap int, text string) {
		for i, part := range wrapCapped(text, wrapColumn, maxValueLines) {
			g := gap
			if i > 0 {
				g = 0
			}
			lines = append(lines, pdfLine{font: font, size: size, text: part, gap: g})
		}
	}
	heading := func(text string) { add(fontBold, 14, 14, text) }
	rows := func(rs []Row) {
		for _, r := range rs {
			add(fontRegular, 11, 0, r.Label+": "+r.Value)
		}
	}

	add(fontBold, 18, 0, Title)
	add(fontRegular, 12, 12, "Lead: "+doc.LeadName)
	add(fontRegular, 12, 0, fmt.Sprintf("Score: %s/100  Status: %s  Probability: %s", doc.Score, doc.StatusLabel, doc.ProbabilityPercent))
	add(fontRegular, 12, 0, "Dataset: "+doc.DatasetLabel)
	if doc.FallbackNotice != "" {
		add(fontRegular, 11, 0, "Note: "+doc.FallbackNotice)
	}

	heading("Lead Details")
	rows(doc.Details)

	if doc.Bank {
		heading("Economic Indicators")
		rows(doc.Indicators)
	} else {
		heading("BANT Assessment")
		rows(doc.BANT)
		if len(doc.Engagement) > 0 {
			rows(doc.Engagement[:1])
		}
	}

	body = lines
	lines = nil

	heading("Recommendation")
	add(fontRegular, 11, 0, doc.Recommendation)

	add(fontRegular, 9, 18, "Generated on "+doc.Timestamp)
	return body, lines
}

// buildContentStream draws body lines while they fit above the space
// reserved for tail, then draws tail.
func buildContentStream(body, tail []pdfLine) []byte {
	var buf bytes.Buffer
	floor := marginFloor + linesHeight(tail)
	y := marginTop
	for _, l := range body {
		if y-l.gap-l.size-6 < floor {
			break
		}
		y -= l.gap
		writeLine(&buf, l, y)
		y -= l.size + 6
	}
	for _, l := range tail {
		y -= l.gap
		writeLine(&buf, l, y)
		y -= l.size + 6
	}
	return buf.Bytes()
}

func writeLine(buf *bytes.Buffer, l pdfLine, y int) {
	fmt.Fprintf(buf, "BT /%s %d Tf %d %d Td (%s) Tj ET\n", l.font, l.size, marginLeft, y, escapePDFText(l.text))
}

func linesHeight(lines []pdfLine) int {
	h := 0
	for _, l := range lines {
		h += l.gap + l.size + 6
	}
	return h
}

func assemblePDF(content []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] /Resources << /Font << /F1 4 0 R /F2 5 0 R >> >> /Contents 6 0 R >>", pageWidth, pageHeight),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
	}

	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

// escapePDFText encodes s as WinAnsi bytes for a PDF literal string.
// Backslash and both parentheses are escaped, control characters become
// spaces and runes outside the code page become '?'.
func escapePDFText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\\' || r == '(' || r == ')':
			b.WriteByte('\\')
			b.WriteRune(r)
		case unicode.IsControl(r):
			b.WriteByte(' ')
		case r < 0x80:
			b.WriteRune(r)
		default:
			c, ok := charmap.Windows1252.EncodeRune(r)
			if !ok {
				c = '?'
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}

// wrapCapped wraps s and keeps at most maxLines lines of at most width
// runes, marking any cut with an ellipsis.
func wrapCapped(s string, width, maxLines int) []string {
	lines := wrapText(s, width)
	cut := len(lines) > maxLines
	if cut {
		lines = lines[:maxLines]
	}
	for i, line := range lines {
		if r := []rune(line); len(r) > width {
			lines[i] = string(r[:width-len(ellipsis)]) + ellipsis
		}
	}
	if cut {
		last := []rune(lines[len(lines)-1])
		if len(last)+len(ellipsis) > width {
			last = last[:width-len(ellipsis)]
		}
		lines[len(lines)-1] = string(last) + ellipsis
	}
	return lines
}

func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		if len(current)+1+len(w) > width {
			lines = append(lines, current)
			current = w
			continue
		}
		current += " " + w
	}
	return append(lines, current)
}
