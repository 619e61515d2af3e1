package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Luxbin-labs/luxbin-chain/pkg/core/circuit"
	"github.com/Luxbin-labs/luxbin-chain/pkg/core/entanglement"
	errs "github.com/Luxbin-labs/luxbin-chain/pkg/errors"
)

// circuitCommand prints the dynamical decoupling circuit run during step 2.
func (c *CLI) circuitCommand() *cobra.Command {
	var (
		dd     string
		pulses int
		node   string
		qasm   bool
	)

	cmd := &cobra.Command{
		Use:   "circuit",
		Short: "Print the dynamical decoupling circuit of a node",
		Long: `Print the step-2 decoupling circuit. Node A accumulates +pi/8 per pulse and
node B -pi/8. Sequences: ` + joinSequences() + `.`,
		Example: `  luxbin circuit --dd XY4 --pulses 4
  luxbin circuit --node b --qasm > node_b.qasm`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg.Entanglement()
			if cmd.Flags().Changed("dd") {
				seq, err := entanglement.ParseDDSequence(dd)
				if err != nil {
					return err
				}
				cfg.DDSequence = seq
			}
			if cmd.Flags().Changed("pulses") {
				cfg.DDPulses = pulses
			}
			proto, err := entanglement.NewProtocol(cfg, entanglement.WithLogger(c.Logger))
			if err != nil {
				return err
			}

			a, b := proto.BuildDecouplingCircuits()
			var target *circuit.Circuit
			switch strings.ToLower(node) {
			case "a":
				target = a
			case "b":
				target = b
			default:
				return errs.New(errs.ErrCodeInvalidInput, "node must be a or b, got %q", node)
			}

			out := cmd.OutOrStdout()
			if qasm {
				return target.WriteQASM(out)
			}
			return writeGates(out, cfg, target)
		},
	}

	cmd.Flags().StringVar(&dd, "dd", "", "decoupling sequence (default from config)")
	cmd.Flags().IntVar(&pulses, "pulses", 0, "number of pi-pulses (default from config)")
	cmd.Flags().StringVar(&node, "node", "a", "which node's circuit to print: a or b")
	cmd.Flags().BoolVar(&qasm, "qasm", false, "print OpenQASM 2.0 instead of a gate list")

	return cmd
}

func writeGates(w io.Writer, cfg entanglement.Config, c *circuit.Circuit) error {
	if err := c.Err(); err != nil {
		return err
	}
	fmt.Fprintf(w, "# %s x%d, %d qubits, depth %d, effectiveness %.2f\n",
		cfg.DDSequence, cfg.DDPulses, c.NumQubits(), c.Depth(), cfg.DDSequence.Effectiveness())
	for _, g := range c.Gates() {
		if _, err := fmt.Fprintln(w, g.String()); err != nil {
			return err
		}
	}
	return nil
}

func joinSequences() string {
	seqs := entanglement.DDSequences()
	names := make([]string, len(seqs))
	for i, s := range seqs {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
