package report

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"leadgenius_backend/internal/leads/domain"
)

var (
	colorIndigo    = &props.Color{Red: 79, Green: 70, Blue: 229}   // #4f46e5
	colorWhite     = &props.Color{Red: 255, Green: 255, Blue: 255} // white
	colorHeading   = &props.Color{Red: 30, Green: 41, Blue: 59}    // slate-800
	colorMuted     = &props.Color{Red: 107, Green: 114, Blue: 128} // gray-500
	colorPanel     = &props.Color{Red: 243, Green: 244, Blue: 246} // gray-100
	colorRule      = &props.Color{Red: 229, Green: 231, Blue: 235} // gray-200
	colorNoticeBg  = &props.Color{Red: 254, Green: 243, Blue: 199} // amber-100
	colorNoticeInk = &props.Color{Red: 146, Green: 64, Blue: 14}   // amber-800
)

// RenderStyledPDF lays doc out as a multi-section A4 document. created is
// stamped as the PDF creation date.
func RenderStyledPDF(doc Document, created time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithTopMargin(12).
		WithRightMargin(15).
		WithCreationDate(created).
		Build()

	m := maroto.New(cfg)

	// ── Registered footer (repeats on every page) ───────────────────────
	if err := m.RegisterFooter(buildStyledFooter(doc)); err != nil {
		return nil, fmt.Errorf("register footer: %w", err)
	}

	m.AddRows(buildStyledHeader(doc)...)
	m.AddRows(row.New(6))

	m.AddRows(buildScoreCard(doc)...)
	m.AddRows(row.New(6))

	m.AddRows(sectionTitle("Lead Profile"))
	m.AddRows(buildTable("Field", doc.Profile)...)
	m.AddRows(row.New(4))

	if doc.Bank {
		m.AddRows(sectionTitle("Economic Indicators"))
		m.AddRows(buildTable("Indicator", doc.Indicators)...)
	} else {
		m.AddRows(sectionTitle("BANT Assessment"))
		m.AddRows(buildMetricGrid(doc.BANT)...)
		m.AddRows(row.New(2))
		m.AddRows(sectionTitle("Engagement Metrics"))
		m.AddRows(buildMetricGrid(doc.Engagement)...)
	}
	m.AddRows(row.New(6))

	m.AddRows(sectionTitle("Recommended Action Plan"))
	m.AddRows(buildActionList(doc.Actions)...)
	m.AddRows(row.New(4))

	m.AddRows(sectionTitle("Engagement Strategy"))
	m.AddRows(row.New(18).Add(
		col.New(12).Add(text.New(doc.Strategy, props.Text{Size: 9, Color: colorHeading, Top: 2, Left: 3, Right: 3})),
	).WithStyle(&props.Cell{BackgroundColor: colorPanel}))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate PDF: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Header ──────────────────────────────────────────────────────────────

func buildStyledHeader(doc Document) []core.Row {
	return []core.Row{
		row.New(12).Add(
			col.New(12).Add(text.New(Title, props.Text{Size: 16, Style: fontstyle.Bold, Color: colorWhite, Align: align.Center, Top: 3})),
		).WithStyle(&props.Cell{BackgroundColor: colorIndigo}),
		row.New(7).Add(
			col.New(12).Add(text.New("Generated on "+doc.Date+" for "+doc.LeadName, props.Text{Size: 9, Color: colorWhite, Align: align.Center, Top: 1})),
		).WithStyle(&props.Cell{BackgroundColor: colorIndigo}),
	}
}

// ── Score card ──────────────────────────────────────────────────────────

func buildScoreCard(doc Document) []core.Row {
	panel := &props.Cell{BackgroundColor: colorPanel}
	rows := []core.Row{
		row.New(6).Add(
			col.New(12).Add(text.New("LEAD SCORE", props.Text{Size: 7.5, Style: fontstyle.Bold, Color: colorMuted, Align: align.Center, Top: 1.5})),
		).WithStyle(panel),
		row.New(14).Add(
			col.New(12).Add(text.New(doc.Score+"/100", props.Text{Size: 24, Style: fontstyle.Bold, Color: colorIndigo, Align: align.Center, Top: 2})),
		).WithStyle(panel),
		row.New(6).Add(
			col.New(4).Add(text.New("Conversion Probability: "+doc.ProbabilityPercent, props.Text{Size: 9, Color: colorHeading, Align: align.Center})),
			col.New(4).Add(text.New(doc.StatusLabel, props.Text{Size: 9, Style: fontstyle.Bold, Color: statusInk(doc.StatusClass), Align: align.Center})),
			col.New(4).Add(text.New("Model: "+doc.DatasetLabel, props.Text{Size: 9, Color: colorHeading, Align: align.Center})),
		).WithStyle(panel),
	}
	if doc.FallbackNotice != "" {
		rows = append(rows, row.New(8).Add(
			col.New(12).Add(text.New(doc.FallbackNotice, props.Text{Size: 8, Color: colorNoticeInk, Align: align.Center, Top: 2})),
		).WithStyle(&props.Cell{BackgroundColor: colorNoticeBg}))
	}
	return rows
}

func statusInk(status domain.Status) *props.Color {
	switch status {
	case domain.StatusHot:
		return &props.Color{Red: 239, Green: 68, Blue: 68}
	case domain.StatusWarm:
		return &props.Color{Red: 249, Green: 115, Blue: 22}
	default:
		return &props.Color{Red: 59, Green: 130, Blue: 246}
	}
}

// ── Tables ──────────────────────────────────────────────────────────────

func sectionTitle(title string) core.Row {
	return row.New(9).Add(
		col.New(12).Add(text.New(title, props.Text{Size: 11, Style: fontstyle.Bold, Color: colorHeading, Top: 2})),
	).WithStyle(&props.Cell{BorderType: border.Bottom, BorderColor: colorRule})
}

func buildTable(firstHeader string, rs []Row) []core.Row {
	out := []core.Row{
		row.New(7).Add(
			col.New(5).Add(text.New(firstHeader, props.Text{Size: 8, Style: fontstyle.Bold, Color: colorHeading, Top: 1.5, Left: 2})),
			col.New(7).Add(text.New("Value", props.Text{Size: 8, Style: fontstyle.Bold, Color: colorHeading, Top: 1.5, Left: 2})),
		).WithStyle(&props.Cell{BackgroundColor: colorPanel}),
	}
	for _, r := range rs {
		out = append(out, row.New(7).Add(
			col.New(5).Add(text.New(r.Label, props.Text{Size: 8, Color: colorHeading, Top: 1.5, Left: 2})),
			col.New(7).Add(text.New(r.Value, props.Text{Size: 8, Color: colorHeading, Top: 1.5, Left: 2})),
		).WithStyle(&props.Cell{BorderType: border.Bottom, BorderColor: colorRule}))
	}
	return out
}

func buildMetricGrid(rs []Row) []core.Row {
	var out []core.Row
	for i := 0; i < len(rs); i += 2 {
		cols := []core.Col{metricBox(rs[i])}
		if i+1 < len(rs) {
			cols = append(cols, metricBox(rs[i+1]))
		} else {
			cols = append(cols, col.New(6))
		}
		out = append(out, row.New(14).Add(cols...))
	}
	return out
}

func metricBox(r Row) core.Col {
	return col.New(6).Add(
		text.New(r.Label, props.Text{Size: 7, Style: fontstyle.Bold, Color: colorMuted, Top: 2, Left: 2}),
		text.New(r.Value, props.Text{Size: 12, Style: fontstyle.Bold, Color: colorHeading, Top: 6, Left: 2}),
	).WithStyle(&props.Cell{BackgroundColor: colorPanel, BorderType: border.Full, BorderColor: colorWhite})
}

func buildActionList(actions []string) []core.Row {
	out := make([]core.Row, 0, len(actions))
	for _, a := range actions {
		out = append(out, row.New(6).Add(
			col.New(1).Add(text.New("-", props.Text{Size: 10, Style: fontstyle.Bold, Color: colorIndigo, Align: align.Right})),
			col.New(11).Add(text.New(a, props.Text{Size: 9, Color: colorHeading, Left: 2})),
		))
	}
	return out
}

// ── Footer ──────────────────────────────────────────────────────────────

func buildStyledFooter(doc Document) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New("Generated by LeadGenius AI on "+doc.Date, props.Text{Size: 7, Color: colorMuted, Align: align.Center}),
			text.New(doc.Disclaimer, props.Text{Size: 6.5, Color: colorMuted, Align: align.Center, Top: 4}),
		),
	).WithStyle(&props.Cell{BorderType: border.Top, BorderColor: colorRule})
}
