// Package teleport runs the three-qubit teleportation protocol on a quantum
// provider.
//
// Qubit 0 holds the input state, qubits 1 and 2 share a phi_plus pair.
// After the Bell measurement on qubits 0 and 1, the receiver's corrections
// (X when the parity bit is set, Z when the phase bit is set) are applied as
// controlled gates before measurement. Deferring the measurement this way
// gives the same statistics as classically conditioned gates, which the
// circuit model does not have.
package teleport

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Luxbin-labs/luxbin-chain/pkg/core/circuit"
	"github.com/Luxbin-labs/luxbin-chain/pkg/core/provider"
	errs "github.com/Luxbin-labs/luxbin-chain/pkg/errors"
)

// SuccessThreshold is the fidelity estimate above which a run counts as a
// successful transfer.
const SuccessThreshold = 0.5

// InputState is a single-qubit state to send.
type InputState string

const (
	StateZero  InputState = "zero"
	StateOne   InputState = "one"
	StatePlus  InputState = "plus"
	StateMinus InputState = "minus"
)

// States lists the supported input states.
func States() []InputState {
	return []InputState{StateZero, StateOne, StatePlus, StateMinus}
}

// ParseState accepts an input state name in any case.
func ParseState(s string) (InputState, error) {
	names := make([]string, 0, 4)
	for _, st := range States() {
		names = append(names, string(st))
	}
	v, err := errs.ValidateOneOf(errs.ErrCodeInvalidInput, "teleport state", s, names...)
	return InputState(v), err
}

// Ket renders the state in Dirac notation.
func (s InputState) Ket() string {
	switch s {
	case StateZero:
		return "|0⟩"
	case StateOne:
		return "|1⟩"
	case StatePlus:
		return "|+⟩"
	case StateMinus:
		return "|-⟩"
	}
	return "|" + string(s) + "⟩"
}

// Circuit returns the teleportation circuit for state. Classical bits 0 and
// 1 carry the Bell measurement, bit 2 the received qubit.
func Circuit(state InputState) (*circuit.Circuit, error) {
	c := circuit.New(3, 3)
	switch state {
	case StateZero:
	case StateOne:
		c.X(0)
	case StatePlus:
		c.H(0)
	case StateMinus:
		c.X(0).H(0)
	default:
		return nil, errs.New(errs.ErrCodeInvalidInput, "unknown teleport state %q", state)
	}
	c.Barrier()

	c.H(1).CX(1, 2)
	c.Barrier()

	c.CX(0, 1).H(0)
	c.Barrier()

	c.CX(1, 2).CZ(0, 2)
	c.Measure(0, 0).Measure(1, 1).Measure(2, 2)
	return c, c.Err()
}

// Split separates three-bit outcomes into the Bell measurement ("c1c0") and
// the received bit ("c2"). Bit strings list the highest classical bit first.
func Split(counts map[string]int) (classical, received map[string]int) {
	classical = map[string]int{}
	received = map[string]int{"0": 0, "1": 0}
	for outcome, n := range counts {
		if len(outcome) < 3 {
			continue
		}
		classical[outcome[1:]] += n
		received[outcome[:1]] += n
	}
	return classical, received
}

// Fidelity estimates how well state arrived from the received bit counts.
// Basis states score the fraction of matching bits. Superpositions are
// unbiased in the computational basis, so they score the balance of the two
// outcomes (smaller over larger).
func Fidelity(received map[string]int, state InputState) float64 {
	zeros, ones := received["0"], received["1"]
	total := zeros + ones
	if total == 0 {
		return 0
	}
	switch state {
	case StateZero:
		return float64(zeros) / float64(total)
	case StateOne:
		return float64(ones) / float64(total)
	}
	return float64(min(zeros, ones)) / float64(max(zeros, ones))
}

// Result is one teleportation run.
type Result struct {
	State         InputState     `json:"state"`
	Ket           string         `json:"state_teleported"`
	Success       bool           `json:"success"`
	Fidelity      float64        `json:"fidelity_estimate"`
	ClassicalBits map[string]int `json:"classical_bits_sent"`
	Received      map[string]int `json:"teleported_measurement"`
	Counts        map[string]int `json:"counts"`
	Shots         int            `json:"shots"`
	Backend       string         `json:"backend"`
	Provider      string         `json:"provider"`
	JobID         string         `json:"job_id"`
	ExecutionTime time.Duration  `json:"execution_time_ns"`
	Timestamp     time.Time      `json:"timestamp"`
}

// Teleporter runs the protocol on one provider. It is safe for concurrent
// use.
type Teleporter struct {
	run    *provider.Runner
	Logger *log.Logger

	mu      sync.Mutex
	history []Result
}

// Option configures a Teleporter.
type Option func(*Teleporter)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(t *Teleporter) { t.Logger = l }
}

// New returns a teleporter that runs circuits on prov.
func New(prov provider.Provider, opts ...Option) (*Teleporter, error) {
	run, err := provider.NewRunner(prov)
	if err != nil {
		return nil, err
	}
	t := &Teleporter{run: run}
	for _, opt := range opts {
		opt(t)
	}
	if t.Logger == nil {
		t.Logger = log.Default()
	}
	return t, nil
}

// Teleport sends state shots times. An empty backend selects the least busy
// backend with three qubits.
func (t *Teleporter) Teleport(ctx context.Context, state InputState, shots int, backend string) (Result, error) {
	c, err := Circuit(state)
	if err != nil {
		return Result{}, err
	}
	res, err := t.run.Run(ctx, c, backend, shots)
	if err != nil {
		return Result{}, err
	}

	classical, received := Split(res.Counts)
	fidelity := Fidelity(received, state)
	r := Result{
		State:         state,
		Ket:           state.Ket(),
		Success:       fidelity > SuccessThreshold,
		Fidelity:      fidelity,
		ClassicalBits: classical,
		Received:      received,
		Counts:        res.Counts,
		Shots:         shots,
		Backend:       res.Backend,
		Provider:      string(t.run.Provider().Type()),
		JobID:         res.JobID,
		ExecutionTime: res.ExecutionTime,
		Timestamp:     time.Now(),
	}

	t.mu.Lock()
	t.history = append(t.history, r)
	t.mu.Unlock()

	t.Logger.Debug("teleportation measured", "state", state, "backend", res.Backend, "fidelity", fidelity)
	return r, nil
}

// History returns a copy of all runs so far.
func (t *Teleporter) History() []Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Result, len(t.history))
	copy(out, t.history)
	return out
}
