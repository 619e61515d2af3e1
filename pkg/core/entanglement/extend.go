package entanglement

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	errs "github.com/Luxbin-labs/luxbin-chain/pkg/errors"
)

// Entanglement swapping costs per hop.
const (
	HopDegradation = 0.9
	HopLatency     = 10 * time.Millisecond
)

// ExtendNetwork swaps the entanglement of r across nodes, one hop per node.
//
// Hop i (1-based) links the previous pair's second node to nodes[i-1] with
// fidelity r.Fidelity·0.9^i and elapsed time r.TotalTime + 10ms·i. The
// returned slice starts with r itself. Extensions are not added to the
// session history.
func (p *Protocol) ExtendNetwork(ctx context.Context, r Result, nodes []*Node) ([]Result, error) {
	if !r.Success {
		return nil, errs.New(errs.ErrCodeNotEntangled, "cannot extend failed session %s", r.ID)
	}
	results := make([]Result, 0, len(nodes)+1)
	results = append(results, r)

	prev := r.NodeB
	for i, n := range nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := n.Validate(); err != nil {
			return nil, err
		}
		hop := i + 1
		results = append(results, Result{
			ID:              uuid.NewString(),
			Success:         true,
			Fidelity:        r.Fidelity * math.Pow(HopDegradation, float64(hop)),
			BellState:       r.BellState,
			NodeA:           prev,
			NodeB:           n.ID,
			HeraldingSignal: true,
			Attempts:        1,
			TotalTime:       r.TotalTime + time.Duration(hop)*HopLatency,
			ProtocolVersion: ProtocolVersion,
			Metadata: Metadata{
				DDSequence:     r.Metadata.DDSequence,
				DDPulses:       r.Metadata.DDPulses,
				TargetFidelity: r.Metadata.TargetFidelity,
				Timestamp:      p.clock.Now(),
				Extended:       true,
				Hop:            hop,
				ExtendedFrom:   r.ID,
			},
		})
		prev = n.ID
	}
	p.Logger.Debug("network extended", "session", r.ID, "hops", len(nodes))
	return results, nil
}
