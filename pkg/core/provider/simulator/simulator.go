// Package simulator implements a local, in-process [provider.Provider].
//
// It stands in for hardware when no vendor account is configured and backs
// the CLI and the tests. The sampler is classical: every qubit is tracked as
// the XOR of a constant and a set of independent Bernoulli coins.
//
//   - X and Y flip the constant.
//   - H replaces the qubit with a fresh fair coin.
//   - RX and RY XOR in a coin with probability sin²(θ/2).
//   - CX XORs the control's expression into the target.
//   - Z, S, T, RZ, CZ and barriers do not change measurement statistics.
//
// This reproduces the correlations of Bell and GHZ preparation circuits
// exactly but ignores interference, so it is not a statevector simulator.
package simulator

import (
	"context"
	"math"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/Luxbin-labs/luxbin-chain/pkg/core/circuit"
	"github.com/Luxbin-labs/luxbin-chain/pkg/core/provider"
	errs "github.com/Luxbin-labs/luxbin-chain/pkg/errors"
	"github.com/Luxbin-labs/luxbin-chain/pkg/observability"
)

// DefaultBackendName is the backend every simulator exposes unless
// WithBackends replaces the list.
const DefaultBackendName = "local_simulator"

// DefaultBackend describes the built-in backend.
func DefaultBackend() provider.BackendInfo {
	return provider.BackendInfo{
		Name:            DefaultBackendName,
		Provider:        provider.TypeSimulator,
		NumQubits:       32,
		Status:          provider.StatusOnline,
		AvgGateFidelity: 0.99,
		T1:              100 * time.Microsecond,
		T2:              50 * time.Microsecond,
	}
}

// Provider is the local simulator. Create it with [New].
type Provider struct {
	name         string
	backends     []provider.BackendInfo
	readoutError float64

	mu          sync.Mutex
	src         rand.Source
	initialized bool

	Logger *log.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithSeed makes sampling reproducible.
func WithSeed(seed uint64) Option {
	return func(p *Provider) { p.src = rand.NewSource(seed) }
}

// WithReadoutError flips each measured bit with probability e.
func WithReadoutError(e float64) Option {
	return func(p *Provider) { p.readoutError = e }
}

// WithBackends replaces the backend list.
func WithBackends(backends ...provider.BackendInfo) Option {
	return func(p *Provider) { p.backends = slices.Clone(backends) }
}

// WithName sets the provider instance name.
func WithName(name string) Option {
	return func(p *Provider) { p.name = name }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Provider) { p.Logger = l }
}

// New creates a simulator. Unseeded simulators draw their seed from the clock.
func New(opts ...Option) (*Provider, error) {
	p := &Provider{
		name:     "local",
		backends: []provider.BackendInfo{DefaultBackend()},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.src == nil {
		p.src = rand.NewSource(uint64(time.Now().UnixNano()))
	}
	if p.Logger == nil {
		p.Logger = log.Default()
	}
	if err := errs.ValidateProbability("readout error", p.readoutError); err != nil {
		return nil, err
	}
	for _, b := range p.backends {
		if b.NumQubits < 1 {
			return nil, errs.New(errs.ErrCodeInvalidConfig, "backend %q has no qubits", b.Name)
		}
	}
	return p, nil
}

func (p *Provider) Name() string                { return p.name }
func (p *Provider) Type() provider.ProviderType { return provider.TypeSimulator }

// Initialize implements provider.Provider. The simulator has no remote
// connection, so this only records readiness.
func (p *Provider) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		p.initialized = true
		p.Logger.Debug("simulator ready", "provider", p.name, "backends", len(p.backends))
	}
	return nil
}

// Backends implements provider.Provider.
func (p *Provider) Backends(ctx context.Context) ([]provider.BackendInfo, error) {
	if err := p.Initialize(ctx); err != nil {
		return nil, err
	}
	return slices.Clone(p.backends), nil
}

// LeastBusyBackend implements provider.Provider.
func (p *Provider) LeastBusyBackend(ctx context.Context, minQubits int) (provider.BackendInfo, bool, error) {
	backends, err := p.Backends(ctx)
	if err != nil {
		return provider.BackendInfo{}, false, err
	}
	b, ok := provider.LeastBusy(backends, minQubits)
	return b, ok, nil
}

// RunCircuit implements provider.Provider.
func (p *Provider) RunCircuit(ctx context.Context, c *circuit.Circuit, backend string, shots int) provider.JobResult {
	hooks := observability.Provider()
	start := time.Now()

	qubits := 0
	if c != nil {
		qubits = c.NumQubits()
	}
	hooks.OnJobStart(ctx, p.name, backend, qubits, shots)

	res, err := p.run(ctx, c, backend, shots)
	res.ExecutionTime = time.Since(start)
	hooks.OnJobComplete(ctx, p.name, backend, res.ExecutionTime, err)
	if err != nil {
		p.Logger.Debug("simulated job failed", "backend", backend, "error", err)
	}
	return res
}

func (p *Provider) run(ctx context.Context, c *circuit.Circuit, backend string, shots int) (provider.JobResult, error) {
	fail := func(err error) (provider.JobResult, error) {
		return provider.Failed(backend, shots, err), err
	}

	if err := p.Initialize(ctx); err != nil {
		return fail(err)
	}
	if c == nil {
		return fail(errs.New(errs.ErrCodeInvalidCircuit, "nil circuit"))
	}
	if err := c.Err(); err != nil {
		return fail(err)
	}
	if shots < 1 {
		return fail(errs.New(errs.ErrCodeInvalidInput, "shots must be >= 1, got %d", shots))
	}
	info, ok := provider.Find(p.backends, backend)
	if !ok {
		return fail(errs.New(errs.ErrCodeBackendNotFound, "unknown backend %q", backend))
	}
	if !info.Available() {
		return fail(errs.New(errs.ErrCodeBackendUnavailable, "backend %q is %s", backend, info.Status))
	}
	if c.NumQubits() > info.NumQubits {
		return fail(errs.New(errs.ErrCodeInvalidCircuit, "circuit uses %d qubits, backend %q has %d",
			c.NumQubits(), backend, info.NumQubits))
	}

	prog := compile(c)
	p.mu.Lock()
	counts, err := prog.sample(ctx, shots, p.readoutError, p.src)
	p.mu.Unlock()
	if err != nil {
		return fail(err)
	}

	return provider.JobResult{
		JobID:   "sim_" + uuid.NewString(),
		Backend: backend,
		Counts:  counts,
		Shots:   shots,
		Success: true,
		Metadata: map[string]string{
			"provider":      string(provider.TypeSimulator),
			"depth":         strconv.Itoa(c.Depth()),
			"readout_error": strconv.FormatFloat(p.readoutError, 'g', -1, 64),
		},
	}, nil
}

// parity is constant XOR the listed coins (kept sorted).
type parity struct {
	flip  bool
	coins []int
}

func (a parity) xor(b parity) parity {
	out := parity{flip: a.flip != b.flip}
	i, j := 0, 0
	for i < len(a.coins) || j < len(b.coins) {
		switch {
		case j == len(b.coins) || (i < len(a.coins) && a.coins[i] < b.coins[j]):
			out.coins = append(out.coins, a.coins[i])
			i++
		case i == len(a.coins) || b.coins[j] < a.coins[i]:
			out.coins = append(out.coins, b.coins[j])
			j++
		default:
			i++
			j++
		}
	}
	return out
}

type program struct {
	qubits       []parity
	bias         []float64
	measurements []circuit.Measurement
	clbits       int
}

func compile(c *circuit.Circuit) *program {
	prog := &program{
		qubits:       make([]parity, c.NumQubits()),
		measurements: c.Measurements(),
		clbits:       c.NumClbits(),
	}
	coin := func(p float64) parity {
		prog.bias = append(prog.bias, p)
		return parity{coins: []int{len(prog.bias) - 1}}
	}

	for _, g := range c.Gates() {
		switch g.Kind {
		case circuit.GateX, circuit.GateY:
			prog.qubits[g.Qubits[0]].flip = !prog.qubits[g.Qubits[0]].flip
		case circuit.GateH:
			prog.qubits[g.Qubits[0]] = coin(0.5)
		case circuit.GateRX, circuit.GateRY:
			q := g.Qubits[0]
			s := math.Sin(g.Params[0] / 2)
			switch pr := s * s; {
			case pr < 1e-12:
			case pr > 1-1e-12:
				prog.qubits[q].flip = !prog.qubits[q].flip
			default:
				prog.qubits[q] = prog.qubits[q].xor(coin(pr))
			}
		case circuit.GateCX:
			ctl, tgt := g.Qubits[0], g.Qubits[1]
			prog.qubits[tgt] = prog.qubits[tgt].xor(prog.qubits[ctl])
		}
	}
	return prog
}

func (prog *program) sample(ctx context.Context, shots int, readoutError float64, src rand.Source) (map[string]int, error) {
	counts := make(map[string]int)
	draws := make([]bool, len(prog.bias))
	bits := make([]byte, prog.clbits)
	noise := distuv.Bernoulli{P: readoutError, Src: src}

	for s := 0; s < shots; s++ {
		if s%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		for i, p := range prog.bias {
			draws[i] = distuv.Bernoulli{P: p, Src: src}.Rand() == 1
		}
		for i := range bits {
			bits[i] = '0'
		}
		for _, m := range prog.measurements {
			q := prog.qubits[m.Qubit]
			v := q.flip
			for _, ci := range q.coins {
				v = v != draws[ci]
			}
			if readoutError > 0 && noise.Rand() == 1 {
				v = !v
			}
			if v {
				bits[prog.clbits-1-m.Clbit] = '1'
			}
		}
		counts[string(bits)]++
	}
	return counts, nil
}

var _ provider.Provider = (*Provider)(nil)
