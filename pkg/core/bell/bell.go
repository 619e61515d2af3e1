// Package bell prepares and measures Bell pairs on a quantum provider.
//
// It is the hardware-facing counterpart of the entanglement engine: where the
// engine models heralded NV-center entanglement, a [Generator] runs the
// textbook two-qubit preparation circuit on a real or simulated backend and
// scores the measured correlations.
//
//	sim, _ := simulator.New()
//	gen, _ := bell.NewGenerator(sim)
//	pair, err := gen.CreatePair(ctx, entanglement.BellPhiPlus, 1024, "")
package bell

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Luxbin-labs/luxbin-chain/pkg/core/circuit"
	"github.com/Luxbin-labs/luxbin-chain/pkg/core/entanglement"
	"github.com/Luxbin-labs/luxbin-chain/pkg/core/provider"
	errs "github.com/Luxbin-labs/luxbin-chain/pkg/errors"
)

// EntanglementThreshold is the fidelity above which a pair counts as
// entangled.
const EntanglementThreshold = 0.7

// States lists the four Bell states in canonical order.
func States() []entanglement.BellState {
	return []entanglement.BellState{
		entanglement.BellPhiPlus,
		entanglement.BellPhiMinus,
		entanglement.BellPsiPlus,
		entanglement.BellPsiMinus,
	}
}

// ParseState accepts a Bell state name such as "phi_plus" in any case.
func ParseState(s string) (entanglement.BellState, error) {
	names := make([]string, 0, 4)
	for _, st := range States() {
		names = append(names, string(st))
	}
	v, err := errs.ValidateOneOf(errs.ErrCodeInvalidBellState, "bell state", s, names...)
	return entanglement.BellState(v), err
}

// Circuit returns the preparation and measurement circuit for state:
// H(0) and CX(0,1) produce phi_plus, then Z(0) flips the phase and X(1)
// flips the parity.
func Circuit(state entanglement.BellState) (*circuit.Circuit, error) {
	c := circuit.New(2, 2)
	c.H(0).CX(0, 1)
	switch state {
	case entanglement.BellPhiPlus:
	case entanglement.BellPhiMinus:
		c.Z(0)
	case entanglement.BellPsiPlus:
		c.X(1)
	case entanglement.BellPsiMinus:
		c.Z(0).X(1)
	default:
		return nil, errs.New(errs.ErrCodeInvalidBellState, "unknown bell state %q", state)
	}
	c.MeasureAll()
	return c, c.Err()
}

// correlated reports which outcomes a state should produce.
func correlated(state entanglement.BellState) [2]string {
	if state == entanglement.BellPhiPlus || state == entanglement.BellPhiMinus {
		return [2]string{"00", "11"}
	}
	return [2]string{"01", "10"}
}

// Fidelity is the fraction of shots that landed on the outcomes state
// predicts. Phase is invisible in the computational basis, so phi_plus and
// phi_minus score identically.
func Fidelity(counts map[string]int, state entanglement.BellState) float64 {
	total := 0
	for _, n := range counts {
		total += n
	}
	if total == 0 {
		return 0
	}
	want := correlated(state)
	return float64(counts[want[0]]+counts[want[1]]) / float64(total)
}

// Correlation returns the counts of the four two-bit outcomes, zero-filled.
func Correlation(counts map[string]int) map[string]int {
	return map[string]int{
		"00": counts["00"],
		"01": counts["01"],
		"10": counts["10"],
		"11": counts["11"],
	}
}

// Pair is one measured Bell pair.
type Pair struct {
	State         entanglement.BellState `json:"bell_state"`
	Counts        map[string]int         `json:"counts"`
	Correlation   map[string]int         `json:"correlation"`
	Fidelity      float64                `json:"fidelity"`
	Entangled     bool                   `json:"is_entangled"`
	Shots         int                    `json:"shots"`
	Backend       string                 `json:"backend"`
	Provider      string                 `json:"provider"`
	JobID         string                 `json:"job_id"`
	ExecutionTime time.Duration          `json:"execution_time_ns"`
	Timestamp     time.Time              `json:"timestamp"`
}

// Stats summarizes the pairs created by a Generator.
type Stats struct {
	TotalPairs      int     `json:"total_pairs"`
	Entangled       int     `json:"successful_entanglements"`
	SuccessRate     float64 `json:"success_rate"`
	AverageFidelity float64 `json:"average_fidelity"`
	MinFidelity     float64 `json:"min_fidelity"`
	MaxFidelity     float64 `json:"max_fidelity"`
}

// Generator creates Bell pairs on one provider. It is safe for concurrent
// use.
type Generator struct {
	run    *provider.Runner
	Logger *log.Logger

	mu      sync.Mutex
	history []Pair
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(g *Generator) { g.Logger = l }
}

// NewGenerator returns a generator that runs circuits on prov.
func NewGenerator(prov provider.Provider, opts ...Option) (*Generator, error) {
	run, err := provider.NewRunner(prov)
	if err != nil {
		return nil, err
	}
	g := &Generator{run: run}
	for _, opt := range opts {
		opt(g)
	}
	if g.Logger == nil {
		g.Logger = log.Default()
	}
	return g, nil
}

// CreatePair prepares state, measures it shots times and scores the result.
// An empty backend selects the least busy backend with two qubits.
// shots must be in [1, provider.MaxShots].
func (g *Generator) CreatePair(ctx context.Context, state entanglement.BellState, shots int, backend string) (Pair, error) {
	c, err := Circuit(state)
	if err != nil {
		return Pair{}, err
	}
	res, err := g.run.Run(ctx, c, backend, shots)
	if err != nil {
		return Pair{}, err
	}

	fidelity := Fidelity(res.Counts, state)
	pair := Pair{
		State:         state,
		Counts:        res.Counts,
		Correlation:   Correlation(res.Counts),
		Fidelity:      fidelity,
		Entangled:     fidelity > EntanglementThreshold,
		Shots:         shots,
		Backend:       res.Backend,
		Provider:      string(g.run.Provider().Type()),
		JobID:         res.JobID,
		ExecutionTime: res.ExecutionTime,
		Timestamp:     time.Now(),
	}

	g.mu.Lock()
	g.history = append(g.history, pair)
	g.mu.Unlock()

	g.Logger.Debug("bell pair measured", "state", state, "backend", res.Backend,
		"fidelity", fidelity, "entangled", pair.Entangled)
	return pair, nil
}

// CreatePairs creates n pairs one after another and stops at the first
// error, returning the pairs made so far.
func (g *Generator) CreatePairs(ctx context.Context, n int, state entanglement.BellState, shots int, backend string) ([]Pair, error) {
	if n < 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "pair count must be >= 0, got %d", n)
	}
	pairs := make([]Pair, 0, n)
	for i := 0; i < n; i++ {
		p, err := g.CreatePair(ctx, state, shots, backend)
		if err != nil {
			return pairs, err
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

// History returns a copy of all pairs created so far.
func (g *Generator) History() []Pair {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Pair, len(g.history))
	copy(out, g.history)
	return out
}

// Stats summarizes the history.
func (g *Generator) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := Stats{TotalPairs: len(g.history)}
	if s.TotalPairs == 0 {
		return s
	}
	s.MinFidelity, s.MaxFidelity = math.Inf(1), math.Inf(-1)
	sum := 0.0
	for _, p := range g.history {
		if p.Entangled {
			s.Entangled++
		}
		sum += p.Fidelity
		s.MinFidelity = math.Min(s.MinFidelity, p.Fidelity)
		s.MaxFidelity = math.Max(s.MaxFidelity, p.Fidelity)
	}
	s.SuccessRate = float64(s.Entangled) / float64(s.TotalPairs)
	s.AverageFidelity = sum / float64(s.TotalPairs)
	return s
}
