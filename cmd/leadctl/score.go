package main

import (
	"fmt"

	"leadgenius_backend/internal/leads/client"
	"leadgenius_backend/internal/leads/domain"
	"leadgenius_backend/internal/leads/service"
	"leadgenius_backend/platform/config"
	"leadgenius_backend/platform/eventbus"
	"leadgenius_backend/platform/logger"

	"github.com/spf13/cobra"
)

func newScoreCmd() *cobra.Command {
	var (
		dataset string
		model   string
		file    string
		local   bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a lead read from a JSON file or stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := parseDataset(dataset)
			if err != nil {
				return err
			}
			lead, err := readLead(cmd, file)
			if err != nil {
				return err
			}

			svc, err := newScoringService()
			if err != nil {
				return err
			}

			var res domain.ScoringResult
			if local {
				res = svc.FallbackScore(cmd.Context(), ds, lead)
			} else {
				res = svc.Score(cmd.Context(), service.ScoreRequest{Lead: lead, DatasetType: ds, ModelType: model})
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), res)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), summaryLine(res))
			return err
		},
	}

	cmd.Flags().StringVarP(&dataset, "dataset", "d", string(domain.DatasetBank), "dataset type: bank or lead_scoring")
	cmd.Flags().StringVarP(&model, "model", "m", domain.ModelRandomForest, "model type passed to the backend")
	cmd.Flags().StringVarP(&file, "file", "f", "-", "lead JSON file, - for stdin")
	cmd.Flags().BoolVar(&local, "local", false, "score with the local fallback scorer only")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

// newScoringService builds the scoring gateway from the environment. CLI
// runs log warnings only.
func newScoringService() (*service.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.Env)
	return service.New(client.New(cfg, log), eventbus.NewInMemoryBus(log), log), nil
}
