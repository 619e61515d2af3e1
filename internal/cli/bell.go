package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Luxbin-labs/luxbin-chain/pkg/core/bell"
	"github.com/Luxbin-labs/luxbin-chain/pkg/core/entanglement"
	errs "github.com/Luxbin-labs/luxbin-chain/pkg/errors"
)

// bellCommand creates the command that generates Bell pairs on the provider.
func (c *CLI) bellCommand() *cobra.Command {
	var (
		shots   int
		count   int
		backend string
		qasm    bool
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:       "bell [state]",
		Short:     "Generate Bell pairs on the configured quantum provider",
		Long:      `Prepare a Bell state (phi_plus, phi_minus, psi_plus or psi_minus), measure it and score the fidelity from the correlated outcomes.`,
		Example:   "  luxbin bell psi_minus --shots 4096 --count 5",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: bellStateNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			state := entanglement.BellPhiPlus
			if len(args) == 1 {
				s, err := bell.ParseState(args[0])
				if err != nil {
					return err
				}
				state = s
			}
			if qasm {
				circ, err := bell.Circuit(state)
				if err != nil {
					return err
				}
				return circ.WriteQASM(cmd.OutOrStdout())
			}
			if err := errs.ValidateMin("count", count, 1); err != nil {
				return err
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
			gen, err := bell.NewGenerator(prov, bell.WithLogger(c.Logger))
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			pairs, err := gen.CreatePairs(cmd.Context(), count, state, shots, backend)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Measured %d %s pairs", len(pairs), state))

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"pairs": pairs,
					"stats": gen.Stats(),
				})
			}
			for _, p := range pairs {
				printPair(p)
			}
			if len(pairs) > 1 {
				printNewline()
				st := gen.Stats()
				printKeyValue("Entangled", fmt.Sprintf("%d/%d", st.Entangled, st.TotalPairs))
				printKeyValue("Fidelity", fmt.Sprintf("%.4f avg (%.4f-%.4f)", st.AverageFidelity, st.MinFidelity, st.MaxFidelity))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&shots, "shots", "s", 0, "measurements per pair (default from config)")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of pairs")
	cmd.Flags().StringVarP(&backend, "backend", "b", "", "backend name (default: least busy)")
	cmd.Flags().BoolVar(&qasm, "qasm", false, "print the preparation circuit as OpenQASM and exit")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print pairs and statistics as JSON")

	return cmd
}

func printPair(p bell.Pair) {
	verdict := printSuccess
	if !p.Entangled {
		verdict = printWarning
	}
	verdict("%s on %s  F=%s", StyleHighlight.Render(string(p.State)), StyleValue.Render(p.Backend),
		StyleNumber.Render(fmt.Sprintf("%.4f", p.Fidelity)))

	keys := slices.Sorted(maps.Keys(p.Counts))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s:%d", k, p.Counts[k])
	}
	printDetail("%s · %d shots · job %s", strings.Join(parts, " "), p.Shots, p.JobID)
}

func bellStateNames() []string {
	states := bell.States()
	names := make([]string, len(states))
	for i, s := range states {
		names[i] = string(s)
	}
	return names
}
