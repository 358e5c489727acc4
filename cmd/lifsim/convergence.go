package main

import (
	"fmt"
	"text/tabwriter"

	neuro "github.com/lmtb06/Calcul-Neuromorphique"
	"github.com/spf13/cobra"
)

func newConvergenceCmd() *cobra.Command {
	var (
		dt, duration, current float64
		levels                int
	)
	cmd := &cobra.Command{
		Use:   "convergence",
		Short: "Compare the Euler and RK4 errors on a LIF membrane for successive halvings of the time step",
		RunE: func(cmd *cobra.Command, args []string) error {
			y0 := neuro.DefaultLIFState()
			y0.Set(neuro.FieldIExt, current)
			points, err := neuro.ConvergenceStudy(y0, duration, dt, levels)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "dt\tEuler error\tEuler order\tRK4 error\tRK4 order")
			for _, p := range points {
				fmt.Fprintf(tw, "%g\t%.3e\t%.3f\t%.3e\t%.3f\n", p.Dt, p.EulerError, p.EulerOrder, p.RK4Error, p.RK4Order)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Float64Var(&dt, "dt", 0.1, "largest time step")
	cmd.Flags().IntVar(&levels, "levels", 4, "number of time steps, each half of the previous one")
	cmd.Flags().Float64Var(&duration, "duration", 1, "integration duration")
	cmd.Flags().Float64Var(&current, "current", 1, "constant external current")
	return cmd
}
