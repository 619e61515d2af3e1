package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Luxbin-labs/luxbin-chain/pkg/core/circuit"
	"github.com/Luxbin-labs/luxbin-chain/pkg/core/ghz"
	errs "github.com/Luxbin-labs/luxbin-chain/pkg/errors"
)

// ghzCommand creates the command that prepares GHZ states, optionally one per
// backend with a distributed analysis.
func (c *CLI) ghzCommand() *cobra.Command {
	var (
		qubits      int
		shots       int
		backends    []string
		wavelengths []float64
		qasm        bool
		jsonOut     bool
	)

	cmd := &cobra.Command{
		Use:   "ghz",
		Short: "Prepare GHZ states on the configured quantum provider",
		Long: `Prepare an n-qubit GHZ state and score how much of the population lands on the
all-zeros and all-ones outcomes. Repeating --backend runs one state per
backend and compares their outcomes.`,
		Example: `  luxbin ghz --qubits 5
  luxbin ghz -q 3 --wavelength 637 --wavelength 532
  luxbin ghz --backend local_simulator --backend local_simulator --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if qasm {
				var (
					circ *circuit.Circuit
					err  error
				)
				if len(wavelengths) > 0 {
					circ, err = ghz.EncodedCircuit(qubits, wavelengths)
				} else {
					circ, err = ghz.Circuit(qubits, true)
				}
				if err != nil {
					return err
				}
				return circ.WriteQASM(cmd.OutOrStdout())
			}
			if len(backends) > 1 && len(wavelengths) > 0 {
				return errs.New(errs.ErrCodeInvalidInput, "--wavelength applies to a single backend")
			}
			if !cmd.Flags().Changed("shots") {
				shots = c.cfg.Provider.Shots
			}

			bc, err := c.newCache()
			if err != nil {
				return err
			}
			defer bc.Close()
			prov, err := c.newProvider(bc)
			if err != nil {
				return err
			}
			gen, err := ghz.NewGenerator(prov, ghz.WithLogger(c.Logger))
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			prog := newProgress(c.Logger)
			var states []ghz.State
			switch {
			case len(backends) > 1:
				states, err = gen.CreateDistributed(ctx, backends, qubits, shots)
			case len(wavelengths) > 0:
				var st ghz.State
				st, err = gen.CreateEncodedState(ctx, qubits, wavelengths, shots, firstOrEmpty(backends))
				states = append(states, st)
			default:
				var st ghz.State
				st, err = gen.CreateState(ctx, qubits, shots, firstOrEmpty(backends))
				states = append(states, st)
			}
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Measured %d %d-qubit GHZ states", len(states), qubits))

			var analysis *ghz.Analysis
			if len(states) > 1 {
				a, err := ghz.Analyze(states)
				if err != nil {
					return err
				}
				analysis = &a
			}

			if jsonOut {
				out := map[string]any{"states": states}
				if analysis != nil {
					out["analysis"] = analysis
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}
			for _, st := range states {
				printGHZState(st)
			}
			if analysis != nil {
				printNewline()
				printKeyValue("Backends", fmt.Sprintf("%d (%d qubits)", analysis.Backends, analysis.TotalQubits))
				printKeyValue("Fidelity", fmt.Sprintf("%.4f avg", analysis.AverageFidelity))
				printKeyValue("Entropy", fmt.Sprintf("%.4f avg", analysis.AverageEntanglement))
				printKeyValue("Quality", string(analysis.Quality))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&qubits, "qubits", "q", ghz.DefaultQubits, "qubits in the GHZ register")
	cmd.Flags().IntVarP(&shots, "shots", "s", 0, "measurements per state (default from config)")
	cmd.Flags().StringArrayVarP(&backends, "backend", "b", nil, "backend name, repeat for a distributed run (default: least busy)")
	cmd.Flags().Float64SliceVar(&wavelengths, "wavelength", nil, "encode wavelengths (nm) into the state, one per qubit")
	cmd.Flags().BoolVar(&qasm, "qasm", false, "print the preparation circuit as OpenQASM and exit")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print states and analysis as JSON")

	return cmd
}

func firstOrEmpty(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

func printGHZState(st ghz.State) {
	verdict := printSuccess
	if !st.Success {
		verdict = printWarning
	}
	verdict("GHZ-%d on %s  F=%s", st.Qubits, StyleValue.Render(st.Backend),
		StyleNumber.Render(fmt.Sprintf("%.4f", st.Fidelity)))

	keys := slices.Sorted(maps.Keys(st.Counts))
	if len(keys) > 6 {
		keys = keys[:6]
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s:%d", k, st.Counts[k])
	}
	if st.UniqueStates > len(keys) {
		parts = append(parts, fmt.Sprintf("+%d more", st.UniqueStates-len(keys)))
	}
	printDetail("%s · entropy %.3f · %d shots · job %s", strings.Join(parts, " "), st.EntanglementMeasure, st.Shots, st.JobID)
}
