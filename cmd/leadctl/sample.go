package main

import (
	"leadgenius_backend/internal/leads/service"

	"github.com/spf13/cobra"
)

func newSampleCmd() *cobra.Command {
	var (
		dataset string
		builtin bool
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print a sample lead for a dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := parseDataset(dataset)
			if err != nil {
				return err
			}
			if builtin {
				return printJSON(cmd.OutOrStdout(), service.BuiltinSample(ds))
			}

			svc, err := newScoringService()
			if err != nil {
				return err
			}
			lead, err := svc.Sample(cmd.Context(), ds)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), lead)
		},
	}

	cmd.Flags().StringVarP(&dataset, "dataset", "d", "bank", "dataset type: bank or lead_scoring")
	cmd.Flags().BoolVar(&builtin, "builtin", false, "print the built-in sample without asking the backend")
	return cmd
}
