// Package ghz prepares Greenberger-Horne-Zeilinger states on a quantum
// provider and grades multi-backend runs.
//
// An n-qubit GHZ state (|0...0⟩ + |1...1⟩)/√2 is the multi-party analogue of
// a Bell pair: measured in the computational basis, every qubit agrees. A
// [Generator] runs the preparation circuit, scores how much of the
// population landed on the two agreeing outcomes, and keeps a history.
//
//	sim, _ := simulator.New()
//	gen, _ := ghz.NewGenerator(sim)
//	state, err := gen.CreateState(ctx, 5, 1024, "")
package ghz

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/stat"

	"github.com/Luxbin-labs/luxbin-chain/pkg/core/circuit"
	"github.com/Luxbin-labs/luxbin-chain/pkg/core/provider"
	errs "github.com/Luxbin-labs/luxbin-chain/pkg/errors"
)

const (
	// DefaultQubits is the register size used when none is given.
	DefaultQubits = 5

	// MinQubits is the smallest register that can hold a GHZ state.
	MinQubits = 2

	// SuccessThreshold is the GHZ fidelity above which a state counts as
	// prepared.
	SuccessThreshold = 0.5
)

// Visible band used to map wavelengths onto rotation angles.
const (
	bandLowNM  = 400.0
	bandHighNM = 700.0
)

func validateQubits(n int) error {
	if n < MinQubits {
		return errs.New(errs.ErrCodeInvalidInput, "ghz state needs at least %d qubits, got %d", MinQubits, n)
	}
	return nil
}

// Circuit returns the n-qubit preparation: H on qubit 0 followed by a CX
// cascade. With phase set, a T gate on every qubit adds a global phase
// pattern that computational-basis counts cannot see.
func Circuit(n int, phase bool) (*circuit.Circuit, error) {
	if err := validateQubits(n); err != nil {
		return nil, err
	}
	c := circuit.New(n, n)
	c.H(0)
	for i := 0; i < n-1; i++ {
		c.CX(i, i+1)
	}
	if phase {
		for i := 0; i < n; i++ {
			c.T(i)
		}
	}
	c.MeasureAll()
	return c, c.Err()
}

// WavelengthAngles maps a wavelength onto Bloch-sphere angles. The visible
// band 400-700 nm is stretched over theta in [0, π] and phi in [0, 2π];
// wavelengths outside it clamp to the edges.
func WavelengthAngles(nm float64) (theta, phi float64) {
	x := (nm - bandLowNM) / (bandHighNM - bandLowNM)
	x = math.Max(0, math.Min(1, x))
	return x * math.Pi, 2 * x * math.Pi
}

// EncodedCircuit is a GHZ preparation that writes one wavelength per qubit
// into the state as RY/RZ rotations, then runs the CX cascade back up the
// register. Qubits beyond the last wavelength get no rotation.
func EncodedCircuit(n int, wavelengths []float64) (*circuit.Circuit, error) {
	if err := validateQubits(n); err != nil {
		return nil, err
	}
	for _, w := range wavelengths {
		if err := errs.ValidatePositive("wavelength", w); err != nil {
			return nil, err
		}
	}

	c := circuit.New(n, n)
	c.H(0)
	if len(wavelengths) > 0 {
		theta, phi := WavelengthAngles(wavelengths[0])
		c.RY(theta, 0).RZ(phi, 0)
	}
	for i := 0; i < n-1; i++ {
		c.CX(i, i+1)
	}
	for i := 1; i < min(n, len(wavelengths)); i++ {
		theta, phi := WavelengthAngles(wavelengths[i])
		c.RY(theta, i).RZ(phi, i)
	}
	for i := n - 1; i > 0; i-- {
		c.CX(i, i-1)
	}
	for i := 0; i < n; i++ {
		c.T(i)
	}
	c.MeasureAll()
	return c, c.Err()
}

// Fidelity is the fraction of shots on the all-zeros and all-ones outcomes
// of an n-qubit register.
func Fidelity(counts map[string]int, n int) float64 {
	total := 0
	for _, k := range counts {
		total += k
	}
	if total == 0 {
		return 0
	}
	zeros, ones := strings.Repeat("0", n), strings.Repeat("1", n)
	return float64(counts[zeros]+counts[ones]) / float64(total)
}

// EntanglementMeasure is the Shannon entropy of the observed outcome
// distribution divided by its maximum for that many outcomes. A single
// outcome scores 0.
func EntanglementMeasure(counts map[string]int) float64 {
	total := 0
	for _, k := range counts {
		total += k
	}
	if total == 0 || len(counts) < 2 {
		return 0
	}
	p := make([]float64, 0, len(counts))
	for _, k := range counts {
		if k > 0 {
			p = append(p, float64(k)/float64(total))
		}
	}
	if len(p) < 2 {
		return 0
	}
	return stat.Entropy(p) / math.Log(float64(len(p)))
}

// State is one measured GHZ preparation.
type State struct {
	Qubits              int            `json:"num_qubits"`
	Counts              map[string]int `json:"counts"`
	Fidelity            float64        `json:"ghz_fidelity"`
	EntanglementMeasure float64        `json:"entanglement_measure"`
	Success             bool           `json:"success"`
	UniqueStates        int            `json:"unique_states"`
	Encoded             bool           `json:"wavelength_encoded,omitempty"`
	Shots               int            `json:"shots"`
	Backend             string         `json:"backend"`
	Provider            string         `json:"provider"`
	JobID               string         `json:"job_id"`
	ExecutionTime       time.Duration  `json:"execution_time_ns"`
	Timestamp           time.Time      `json:"timestamp"`
}

// Generator creates GHZ states on one provider. It is safe for concurrent
// use.
type Generator struct {
	run    *provider.Runner
	Logger *log.Logger

	mu      sync.Mutex
	history []State
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

// CreateState prepares and measures an n-qubit GHZ state. An empty backend
// selects the least busy backend with n qubits.
func (g *Generator) CreateState(ctx context.Context, n, shots int, backend string) (State, error) {
	c, err := Circuit(n, true)
	if err != nil {
		return State{}, err
	}
	return g.measure(ctx, c, false, shots, backend)
}

// CreateEncodedState is CreateState with wavelengths written into the
// state by [EncodedCircuit].
func (g *Generator) CreateEncodedState(ctx context.Context, n int, wavelengths []float64, shots int, backend string) (State, error) {
	c, err := EncodedCircuit(n, wavelengths)
	if err != nil {
		return State{}, err
	}
	return g.measure(ctx, c, true, shots, backend)
}

func (g *Generator) measure(ctx context.Context, c *circuit.Circuit, encoded bool, shots int, backend string) (State, error) {
	res, err := g.run.Run(ctx, c, backend, shots)
	if err != nil {
		return State{}, err
	}

	n := c.NumQubits()
	fidelity := Fidelity(res.Counts, n)
	st := State{
		Qubits:              n,
		Counts:              res.Counts,
		Fidelity:            fidelity,
		EntanglementMeasure: EntanglementMeasure(res.Counts),
		Success:             fidelity > SuccessThreshold,
		UniqueStates:        len(res.Counts),
		Encoded:             encoded,
		Shots:               shots,
		Backend:             res.Backend,
		Provider:            string(g.run.Provider().Type()),
		JobID:               res.JobID,
		ExecutionTime:       res.ExecutionTime,
		Timestamp:           time.Now(),
	}

	g.mu.Lock()
	g.history = append(g.history, st)
	g.mu.Unlock()

	g.Logger.Debug("ghz state measured", "qubits", n, "backend", res.Backend,
		"fidelity", fidelity, "outcomes", st.UniqueStates)
	return st, nil
}

// CreateDistributed prepares one n-qubit GHZ state per listed backend, in
// order, and stops at the first failure with the states made so far.
func (g *Generator) CreateDistributed(ctx context.Context, backends []string, n, shots int) ([]State, error) {
	if len(backends) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "distributed ghz needs at least one backend")
	}
	states := make([]State, 0, len(backends))
	for _, b := range backends {
		st, err := g.CreateState(ctx, n, shots, b)
		if err != nil {
			return states, err
		}
		states = append(states, st)
	}
	return states, nil
}

// History returns a copy of all states created so far.
func (g *Generator) History() []State {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]State, len(g.history))
	copy(out, g.history)
	return out
}
