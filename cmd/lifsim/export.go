package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	neuro "github.com/lmtb06/Calcul-Neuromorphique"
)

// exportCSV writes every record of every neuron of the simulation, one row per neuron and tick.
func exportCSV(w io.Writer, sim *neuro.Simulation) error {
	fields := neuro.Fields()
	// Header
	fmt.Fprintf(w, `# Creation date (UTC): %s
# Simulation: %s (run %s), %d steps of %g
`, time.Now().UTC(), sim.Name(), sim.RunID(), sim.Steps(), sim.Dt())
	cw := csv.NewWriter(w)
	hdr := []string{"neuron", "name", "t"}
	for _, f := range fields {
		hdr = append(hdr, f.String())
	}
	hdr = append(hdr, "spike")
	if err := cw.Write(hdr); err != nil {
		return err
	}
	names := sim.Names()
	for n, ts := range sim.Series() {
		for i := 0; i < ts.Len(); i++ {
			state, t, err := ts.At(i)
			if err != nil {
				return err
			}
			row := []string{strconv.Itoa(n), names[n], strconv.FormatFloat(t, 'g', -1, 64)}
			for _, f := range fields {
				row = append(row, strconv.FormatFloat(state.Get(f), 'g', -1, 64))
			}
			row = append(row, strconv.FormatBool(state.Spike))
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
