package cli

import (
	"github.com/spf13/cobra"

	"github.com/Luxbin-labs/luxbin-chain/pkg/config"
	"github.com/Luxbin-labs/luxbin-chain/pkg/core/entanglement"
	errs "github.com/Luxbin-labs/luxbin-chain/pkg/errors"
)

// statsCommand summarizes the sessions held by the configured store.
func (c *CLI) statsCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize recorded sessions",
		Long: `Summarize the sessions held by the session store. Hops produced by extend
are excluded from the totals.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := c.listSessions(cmd, 0)
			if err != nil {
				return err
			}
			stats := entanglement.Summarize(results)
			if len(results) == 0 {
				stats.DDSequence = c.cfg.Entanglement().DDSequence
				stats.TargetFidelity = c.cfg.Protocol.TargetFidelity
			}

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), stats)
			}
			if len(results) == 0 {
				c.printEmptyStore()
				return nil
			}
			printSessionStats(stats)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print statistics as JSON")
	return cmd
}

// historyCommand lists recorded sessions, oldest first.
func (c *CLI) historyCommand() *cobra.Command {
	var (
		limit   int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "history [session-id]",
		Short: "List recorded sessions or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return c.showSession(cmd, args[0], jsonOut)
			}
			if limit < 0 {
				return errs.New(errs.ErrCodeInvalidInput, "limit must be >= 0, got %d", limit)
			}
			results, err := c.listSessions(cmd, limit)
			if err != nil {
				return err
			}
			if jsonOut {
				if results == nil {
					results = []entanglement.Result{}
				}
				return writeJSON(cmd.OutOrStdout(), results)
			}
			if len(results) == 0 {
				c.printEmptyStore()
				return nil
			}
			for _, r := range results {
				printResult(r)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "show at most this many recent sessions (0 for all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print sessions as JSON")
	return cmd
}

func (c *CLI) listSessions(cmd *cobra.Command, limit int) ([]entanglement.Result, error) {
	st, err := c.openStore(cmd.Context())
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.List(cmd.Context(), limit)
}

func (c *CLI) showSession(cmd *cobra.Command, id string, jsonOut bool) error {
	st, err := c.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()

	r, err := st.Get(cmd.Context(), id)
	if err != nil {
		return err
	}
	if jsonOut {
		return writeJSON(cmd.OutOrStdout(), r)
	}
	printResult(r)
	printKeyValue("Bell state", string(r.BellState))
	printKeyValue("Herald", boolWord(r.HeraldingSignal))
	printKeyValue("Protocol", r.ProtocolVersion)
	printKeyValue("Recorded", r.Metadata.Timestamp.Format("2006-01-02 15:04:05"))
	if r.Metadata.Extended {
		printKeyValue("Extended", r.Metadata.ExtendedFrom)
	}
	return nil
}

func (c *CLI) printEmptyStore() {
	printInfo("No sessions recorded")
	if c.cfg.Store.Kind == config.StoreMemory {
		printNextStep("The memory store does not outlive the process; persist sessions with", "luxbin --store file entangle")
	}
}

func boolWord(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
