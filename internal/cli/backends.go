package cli

import (
	"github.com/spf13/cobra"

	"github.com/Luxbin-labs/luxbin-chain/pkg/core/provider"
)

// backendsCommand lists the backends of the configured provider.
func (c *CLI) backendsCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "backends",
		Short: "List the backends of the configured quantum provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			bc, err := c.newCache()
			if err != nil {
				return err
			}
			defer bc.Close()
			prov, err := c.newProvider(bc)
			if err != nil {
				return err
			}
			if err := prov.Initialize(ctx); err != nil {
				return err
			}
			backends, err := prov.Backends(ctx)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), backends)
			}
			if len(backends) == 0 {
				printInfo("No backends available from %s", prov.Name())
				return nil
			}
			best, hasBest := provider.LeastBusy(backends, 2)
			for _, b := range backends {
				printBackend(b, hasBest && b.Name == best.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print backends as JSON")
	return cmd
}

func printBackend(b provider.BackendInfo, leastBusy bool) {
	name := StyleValue.Render(b.Name)
	if leastBusy {
		name += " " + StyleHighlight.Render("(least busy)")
	}
	if b.Available() {
		printSuccess("%s", name)
	} else {
		printWarning("%s %s", b.Name, b.Status)
	}
	printDetail("%s · %d qubits · queue %d · gate fidelity %.3f · T1 %s · T2 %s",
		b.Provider, b.NumQubits, b.QueueLength, b.AvgGateFidelity, b.T1, b.T2)
}
