package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an already persisted corpus and print the report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.anchor, "anchor", "", "reference time, RFC3339; empty means now")
	addStoreFlags(cmd, opts)
	return cmd
}

func runValidate(cmd *cobra.Command, opts *options) error {
	ctx := cmd.Context()

	a, err := buildApp(opts)
	if err != nil {
		return err
	}
	stopMetrics := a.serveMetrics(opts.metricsAddr)
	defer stopMetrics()

	corpusStore, err := a.openStore(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = corpusStore.Close() }()

	svc, err := a.validationService(corpusStore)
	if err != nil {
		return err
	}

	report := svc.Run(ctx)
	fmt.Fprint(cmd.OutOrStdout(), report.Render())
	return nil
}
