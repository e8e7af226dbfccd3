package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"leadgenius_backend/internal/leads/report"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	formatHTML = "html"
	formatPDF  = "pdf"
	formatAll  = "all"
)

func newReportCmd() *cobra.Command {
	var (
		format string
		file   string
		out    string
		engine string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a report for a scored lead",
		Long: `Render a report from a JSON document shaped like the /reports request body:

  {"leadData": {...}, "scoringResult": {"score": 82, "status": "hot", ...}}

Files are named after the lead: Jane_Doe_lead_report.pdf and
Jane_Doe_lead_report.html.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			var in report.Input
			if err := json.Unmarshal(raw, &in); err != nil {
				return fmt.Errorf("report input must be a JSON object: %w", err)
			}

			renderer := report.NewRenderer(report.WithPDFEngine(engine))
			written, err := writeReports(renderer, in, format, out)
			if err != nil {
				return err
			}
			for _, path := range written {
				fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("wrote ")+path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", formatPDF, "html, pdf or all")
	cmd.Flags().StringVarP(&file, "file", "f", "-", "report input JSON file, - for stdin")
	cmd.Flags().StringVarP(&out, "out", "o", ".", "output directory")
	cmd.Flags().StringVar(&engine, "engine", report.EngineMinimal, "PDF engine: minimal or maroto")
	return cmd
}

// writeReports renders the requested formats concurrently into dir and
// returns the written paths in html, pdf order.
func writeReports(renderer *report.Renderer, in report.Input, format, dir string) ([]string, error) {
	var formats []string
	switch format {
	case formatHTML, formatPDF:
		formats = []string{format}
	case formatAll:
		formats = []string{formatHTML, formatPDF}
	default:
		return nil, fmt.Errorf("unknown format %q, expected html, pdf or all", format)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	pdfName := report.FilenameFor(in)
	paths := make([]string, len(formats))
	var g errgroup.Group
	for i, f := range formats {
		i, f := i, f
		g.Go(func() error {
			var (
				body []byte
				err  error
				name string
			)
			if f == formatHTML {
				body, err = renderer.HTML(in)
				name = strings.TrimSuffix(pdfName, ".pdf") + ".html"
			} else {
				body, err = renderer.PDF(in)
				name = pdfName
			}
			if err != nil {
				return fmt.Errorf("render %s: %w", f, err)
			}
			paths[i] = filepath.Join(dir, name)
			return os.WriteFile(paths[i], body, 0o644)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
