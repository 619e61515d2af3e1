package entanglement

import (
	"context"
	"math"
	"time"

	"github.com/Luxbin-labs/luxbin-chain/pkg/core/circuit"
	"github.com/Luxbin-labs/luxbin-chain/pkg/core/provider"
)

const (
	routingTolerance       = time.Nanosecond
	wavelengthTolerance    = 0.1 // nm
	coincidenceProbability = 0.5
)

// =============================================================================
// Step 1: Spin initialization
// =============================================================================

// InitializeSpin optically pumps n into |0>, stamps its last pulse, and
// prepares the superposition used for spin-photon entanglement.
func (p *Protocol) InitializeSpin(ctx context.Context, n *Node) error {
	if err := p.sleep(ctx, p.timings.Pumping); err != nil {
		return err
	}
	n.SpinState = SpinGround
	n.LastPulse = p.clock.Now()
	n.SpinState = SpinSuperposition
	n.Initialized = true
	return nil
}

// =============================================================================
// Step 2: Alternating circuits
// =============================================================================

// BuildDecouplingCircuits returns the decoupling circuits for node A and
// node B. They accumulate opposite phases.
func (p *Protocol) BuildDecouplingCircuits() (a, b *circuit.Circuit) {
	a = DecouplingCircuit(p.cfg.DDSequence, p.cfg.DDPulses, decouplingPhase)
	b = DecouplingCircuit(p.cfg.DDSequence, p.cfg.DDPulses, -decouplingPhase)
	return a, b
}

type telemetry struct {
	provider provider.Provider
	backend  string
	shots    int
}

// submitTelemetry runs the decoupling circuits when a provider is configured.
// Outcomes are only logged.
func (p *Protocol) submitTelemetry(ctx context.Context, session string, attempt int, circuits ...*circuit.Circuit) {
	t := p.telemetry
	if t == nil {
		return
	}
	for i, c := range circuits {
		res := t.provider.RunCircuit(ctx, c, t.backend, t.shots)
		if !res.Success {
			p.Logger.Warn("telemetry job failed", "session", session[:8], "attempt", attempt,
				"node", i, "backend", t.backend, "error", res.Error)
			continue
		}
		p.Logger.Debug("telemetry job", "session", session[:8], "attempt", attempt,
			"node", i, "job", res.JobID, "outcomes", len(res.Counts))
	}
}

// =============================================================================
// Step 3: Photon injection
// =============================================================================

// InjectPhoton emits the spin-photon state of n. Both nodes share the
// emission trigger; each photon leaves after the emission delay, offset by a
// Gaussian jitter.
func (p *Protocol) InjectPhoton(ctx context.Context, n *Node, trigger time.Time) (PhotonState, error) {
	if err := p.sleep(ctx, p.timings.Emission); err != nil {
		return PhotonState{}, err
	}
	offset := time.Duration(math.Round(p.src.Gaussian(0, p.jitterNS)))
	p.Logger.Debug("photon emitted", "node", n.ID, "offset", offset)
	return NewPhotonState(p.cfg.Wavelength, trigger.Add(p.timings.Emission+offset)), nil
}

// =============================================================================
// Step 4: Conditional routing
// =============================================================================

// Route sends both photons to the beam splitter. It reports false when their
// ages differ by 1 ns or more.
func (p *Protocol) Route(ctx context.Context, a, b PhotonState) (bool, error) {
	if err := p.sleep(ctx, p.timings.Routing); err != nil {
		return false, err
	}
	return RoutingCompatible(a, b, p.clock.Now()), nil
}

// RoutingCompatible reports whether two photons observed at now arrive within
// the routing tolerance of each other.
func RoutingCompatible(a, b PhotonState, now time.Time) bool {
	diff := now.Sub(a.CreatedAt) - now.Sub(b.CreatedAt)
	if diff < 0 {
		diff = -diff
	}
	return diff < routingTolerance
}

// =============================================================================
// Step 5: Measurement and heralding
// =============================================================================

// Herald interferes both photons. Matching wavelengths give a 50% chance of
// a coincidence, which heralds psi_plus.
func (p *Protocol) Herald(ctx context.Context, a, b PhotonState) (bool, BellState, error) {
	if err := p.sleep(ctx, p.timings.Heralding); err != nil {
		return false, BellNone, err
	}
	if math.Abs(a.Wavelength-b.Wavelength) >= wavelengthTolerance {
		return false, BellNone, nil
	}
	if !p.src.Coincidence(coincidenceProbability) {
		return false, BellNone, nil
	}
	return true, BellPsiPlus, nil
}

// =============================================================================
// Step 6: Pulse control
// =============================================================================

// PulseControl keeps n coherent between attempts. A node idle for longer
// than its T2 is re-initialized; otherwise an echo pulse refocuses it.
func (p *Protocol) PulseControl(ctx context.Context, n *Node) error {
	idle := p.clock.Now().Sub(n.LastPulse)
	if idle > n.T2 {
		p.Logger.Debug("coherence lost, re-initializing", "node", n.ID, "idle", idle, "t2", n.T2)
		p.hooks.OnReinitialize(ctx, n.ID, idle)
		return p.InitializeSpin(ctx, n)
	}
	return p.sleep(ctx, p.timings.Echo)
}
