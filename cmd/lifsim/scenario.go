package main

import (
	neuro "github.com/lmtb06/Calcul-Neuromorphique"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newScenarioCmd() *cobra.Command {
	var scenario string
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Print the validated scenario, with its defaults, as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := neuro.LoadScenario(scenario)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(sc); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringVar(&scenario, "scenario", "", "scenario file (TOML, YAML or JSON)")
	cmd.MarkFlagRequired("scenario")
	return cmd
}
