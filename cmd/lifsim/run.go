package main

import (
	"fmt"
	"io"

	neuro "github.com/lmtb06/Calcul-Neuromorphique"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var (
		scenario string
		asCSV    bool
		verbose  bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a scenario and print a summary of every neuron (or the recorded series as CSV)",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := neuro.LoadScenario(scenario)
			if err != nil {
				return err
			}
			sim, input, err := sc.Build()
			if err != nil {
				return err
			}
			logger := neuro.NewLogger(cmd.ErrOrStderr(), "lifsim")
			sim.SetLogger(logger)
			if verbose {
				logSub := neuro.LogSubscriber(logger)
				for _, event := range neuro.EventTypes() {
					sim.Subscribe(event, logSub)
				}
			}
			if err := sim.Init(sc.Steps, sc.Dt, input); err != nil {
				return err
			}
			if err := sim.Run(); err != nil {
				return err
			}
			if asCSV {
				return exportCSV(cmd.OutOrStdout(), sim)
			}
			printSummaries(cmd.OutOrStdout(), sim)
			return nil
		},
	}
	cmd.Flags().StringVar(&scenario, "scenario", "", "scenario file (TOML, YAML or JSON)")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "write the recorded series as CSV instead of the summary")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log every simulation event")
	cmd.MarkFlagRequired("scenario")
	return cmd
}

func printSummaries(w io.Writer, sim *neuro.Simulation) {
	names := sim.Names()
	for i, ts := range sim.Series() {
		fmt.Fprintf(w, "%s: %s\n", names[i], neuro.Summarize(ts, sim.Dt()))
	}
}
