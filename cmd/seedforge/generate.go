package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGenerateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a corpus, persist it, and report on its statistical fidelity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts)
		},
	}
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed; zero keeps the configured seed")
	cmd.Flags().StringVar(&opts.anchor, "anchor", "", "reference time, RFC3339; empty means now")
	cmd.Flags().BoolVar(&opts.parallel, "parallel", false, "generate organizations concurrently")
	addStoreFlags(cmd, opts)
	return cmd
}

func runGenerate(cmd *cobra.Command, opts *options) error {
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

	pipe, err := a.pipeline(corpusStore)
	if err != nil {
		return err
	}
	svc, err := a.validationService(corpusStore)
	if err != nil {
		return err
	}

	// From here on the run always completes with a report; generation
	// faults surface in it rather than aborting the process.
	counts, genErr := pipe.Run(ctx)
	if genErr != nil {
		a.log.Error("generation failed, validating what was persisted", "error", genErr)
	} else {
		printCounts(cmd, counts)
	}

	report := svc.Run(ctx)
	fmt.Fprint(cmd.OutOrStdout(), report.Render())
	return nil
}
