// Command lifsim loads neuron scenarios, simulates them and exports what was recorded.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "lifsim",
		Short:        "Simulate leaky integrate-and-fire neurons and networks",
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd(), newConvergenceCmd(), newScenarioCmd())
	return root
}
