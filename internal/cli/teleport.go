package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Luxbin-labs/luxbin-chain/pkg/core/teleport"
)

// teleportCommand creates the command that teleports a single-qubit state.
func (c *CLI) teleportCommand() *cobra.Command {
	var (
		shots   int
		backend string
		qasm    bool
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:       "teleport [state]",
		Short:     "Teleport a qubit state over a shared Bell pair",
		Long:      `Send zero, one, plus or minus from qubit 0 to qubit 2 through a phi_plus pair and estimate how faithfully it arrived.`,
		Example:   "  luxbin teleport one --shots 2048",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: teleportStateNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			state := teleport.StatePlus
			if len(args) == 1 {
				s, err := teleport.ParseState(args[0])
				if err != nil {
					return err
				}
				state = s
			}
			if qasm {
				circ, err := teleport.Circuit(state)
				if err != nil {
					return err
				}
				return circ.WriteQASM(cmd.OutOrStdout())
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
			tp, err := teleport.New(prov, teleport.WithLogger(c.Logger))
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			r, err := tp.Teleport(cmd.Context(), state, shots, backend)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Teleported %s", r.Ket))

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), r)
			}
			verdict := printSuccess
			if !r.Success {
				verdict = printWarning
			}
			verdict("%s on %s  F=%s", StyleHighlight.Render(r.Ket), StyleValue.Render(r.Backend),
				StyleNumber.Render(fmt.Sprintf("%.4f", r.Fidelity)))
			printDetail("received 0:%d 1:%d · bell 00:%d 01:%d 10:%d 11:%d · job %s",
				r.Received["0"], r.Received["1"],
				r.ClassicalBits["00"], r.ClassicalBits["01"], r.ClassicalBits["10"], r.ClassicalBits["11"], r.JobID)
			return nil
		},
	}

	cmd.Flags().IntVarP(&shots, "shots", "s", 0, "measurements (default from config)")
	cmd.Flags().StringVarP(&backend, "backend", "b", "", "backend name (default: least busy)")
	cmd.Flags().BoolVar(&qasm, "qasm", false, "print the protocol circuit as OpenQASM and exit")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the result as JSON")

	return cmd
}

func teleportStateNames() []string {
	states := teleport.States()
	names := make([]string, len(states))
	for i, s := range states {
		names[i] = string(s)
	}
	return names
}
