package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Luxbin-labs/luxbin-chain/pkg/core/entanglement"
	errs "github.com/Luxbin-labs/luxbin-chain/pkg/errors"
	"github.com/Luxbin-labs/luxbin-chain/pkg/render/topology"
	"github.com/Luxbin-labs/luxbin-chain/pkg/store"
)

// =============================================================================
// entangle
// =============================================================================

// entangleCommand creates the command that runs protocol sessions.
func (c *CLI) entangleCommand() *cobra.Command {
	var (
		count   int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "entangle [node-a] [node-b]",
		Short: "Entangle two NV-center nodes",
		Long: `Run the invitation protocol between two nodes until a heralded Bell pair
is established or the retry budget is spent. Omitted node IDs are generated.`,
		Example: `  luxbin entangle alice bob
  luxbin entangle alice bob --count 10 --seed 7
  luxbin entangle --json`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errs.ValidateMin("count", count, 1); err != nil {
				return err
			}
			ids := make([]string, 2)
			copy(ids, args)

			s, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			a, b := c.newNode(ids[0]), c.newNode(ids[1])
			results := make([]entanglement.Result, 0, count)
			for range count {
				r, err := s.entangle(cmd.Context(), a, b, !jsonOut)
				if err != nil {
					return err
				}
				results = append(results, r)
			}

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), results)
			}
			for _, r := range results {
				printResult(r)
			}
			if count > 1 {
				printNewline()
				printSessionStats(s.proto.Stats())
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of sessions to run")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print results as JSON")

	return cmd
}

// =============================================================================
// extend
// =============================================================================

// extendCommand creates the command that builds a multi-hop chain.
func (c *CLI) extendCommand() *cobra.Command {
	var (
		svgPath string
		dotOut  bool
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "extend <node-a> <node-b> <hop>...",
		Short: "Entangle two nodes and swap the link across further hops",
		Long: `Establish entanglement between node-a and node-b, then extend it one hop per
additional node. Each hop multiplies the fidelity by 0.9 and adds 10ms.`,
		Example: `  luxbin extend alice bob carol dave
  luxbin extend alice bob carol --svg chain.svg
  luxbin extend alice bob carol --dot | dot -Tpng > chain.png`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			hops := make([]*entanglement.Node, 0, len(args)-2)
			for _, id := range args[2:] {
				n := c.newNode(id)
				if err := n.Validate(); err != nil {
					return err
				}
				hops = append(hops, n)
			}

			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			r, err := s.entangle(ctx, c.newNode(args[0]), c.newNode(args[1]), !jsonOut && !dotOut)
			if err != nil {
				return err
			}
			if !r.Success {
				return errs.New(errs.ErrCodeNotEntangled, "%s <-> %s not entangled after %d attempts", r.NodeA, r.NodeB, r.Attempts)
			}
			chain, err := s.extend(ctx, r, hops)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case jsonOut:
				return writeJSON(out, chain)
			case dotOut:
				_, err := io.WriteString(out, topology.ToDOT(chain, topology.Options{Detailed: true}))
				return err
			}

			for _, hop := range chain {
				printResult(hop)
			}
			if svgPath != "" {
				return writeTopologySVG(ctx, svgPath, chain)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&svgPath, "svg", "", "render the chain topology to this SVG file")
	cmd.Flags().BoolVar(&dotOut, "dot", false, "print the chain topology as Graphviz DOT")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the chain as JSON")
	cmd.MarkFlagsMutuallyExclusive("dot", "json")

	return cmd
}

func writeTopologySVG(ctx context.Context, path string, chain []entanglement.Result) error {
	svg, err := topology.RenderSVG(ctx, topology.ToDOT(chain, topology.Options{Detailed: true}))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, svg, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printFile(path)
	return nil
}

// =============================================================================
// Session plumbing
// =============================================================================

// session bundles the collaborators one command invocation needs.
type session struct {
	proto  *entanglement.Protocol
	store  store.Store
	closer func()
}

func (c *CLI) openSession(ctx context.Context) (*session, error) {
	bc, err := c.newCache()
	if err != nil {
		return nil, err
	}
	st, err := c.openStore(ctx)
	if err != nil {
		bc.Close()
		return nil, err
	}
	closeAll := func() {
		if err := st.Close(); err != nil {
			c.Logger.Warn("close store", "error", err)
		}
		bc.Close()
	}

	prov, err := c.newProvider(bc)
	if err != nil {
		closeAll()
		return nil, err
	}
	proto, err := c.newProtocol(prov, st)
	if err != nil {
		closeAll()
		return nil, err
	}
	return &session{proto: proto, store: st, closer: closeAll}, nil
}

func (s *session) Close() { s.closer() }

// entangle runs one session, with a spinner when interactive.
func (s *session) entangle(ctx context.Context, a, b *entanglement.Node, interactive bool) (entanglement.Result, error) {
	ctx = withLogger(ctx, s.proto.Logger)
	prog := newProgress(loggerFromContext(ctx))

	var spin *Spinner
	if interactive {
		spin = newSpinnerWithContext(ctx, fmt.Sprintf("Entangling %s <-> %s", a.ID, b.ID))
		spin.Start()
	}
	r, err := s.proto.CreateEntanglement(ctx, a, b)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return entanglement.Result{}, err
	}
	prog.done(fmt.Sprintf("Session %s finished after %d attempts", r.ID, r.Attempts))
	return r, nil
}

// extend swaps r across hops and records every hop so that the chain can be
// rebuilt from the store.
func (s *session) extend(ctx context.Context, r entanglement.Result, hops []*entanglement.Node) ([]entanglement.Result, error) {
	chain, err := s.proto.ExtendNetwork(ctx, r, hops)
	if err != nil {
		return nil, err
	}
	for _, hop := range chain[1:] {
		if err := s.store.Record(ctx, hop); err != nil {
			s.proto.Logger.Warn("extension not persisted", "session", r.ID, "hop", hop.Metadata.Hop, "error", err)
		}
	}
	return chain, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
