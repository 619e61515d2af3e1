package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Luxbin-labs/luxbin-chain/pkg/buildinfo"
	"github.com/Luxbin-labs/luxbin-chain/pkg/core/entanglement"
)

// versionCommand prints build information and the protocol revision.
func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and protocol information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String(entanglement.ProtocolVersion))
			return err
		},
	}
}
