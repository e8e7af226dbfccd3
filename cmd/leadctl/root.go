package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"leadgenius_backend/internal/leads/domain"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "leadctl",
		Short: "Score leads and render lead reports",
		Long: `leadctl talks to the same scoring backend as the API and renders
the same HTML and PDF reports, without running the server.

EXAMPLES:

  # Score a lead against the bank model
  leadctl score --file lead.json

  # Score a B2B lead locally, without the backend
  leadctl score --dataset lead_scoring --local --file lead.json

  # Render both report formats for a scored lead
  leadctl report --format all --file analysis.json --out ./reports`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newScoreCmd(), newReportCmd(), newSampleCmd())
	return root
}

// readInput reads path, or stdin when path is "-" or empty.
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func readLead(cmd *cobra.Command, path string) (domain.Attributes, error) {
	raw, err := readInput(cmd, path)
	if err != nil {
		return domain.Attributes{}, err
	}
	var lead domain.Attributes
	if err := json.Unmarshal(raw, &lead); err != nil {
		return domain.Attributes{}, fmt.Errorf("lead must be a JSON object: %w", err)
	}
	return lead, nil
}

func parseDataset(raw string) (domain.DatasetType, error) {
	dataset, ok := domain.ParseDatasetType(raw)
	if !ok {
		return "", fmt.Errorf("unknown dataset %q, expected bank or lead_scoring", raw)
	}
	return dataset, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
