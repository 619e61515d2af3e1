package entanglement

import (
	"math"

	"github.com/Luxbin-labs/luxbin-chain/pkg/core/circuit"
	errs "github.com/Luxbin-labs/luxbin-chain/pkg/errors"
)

// DDSequence names a dynamical-decoupling pulse sequence.
type DDSequence string

const (
	XY4  DDSequence = "XY4"
	XY8  DDSequence = "XY8"
	CPMG DDSequence = "CPMG"
	KDD  DDSequence = "KDD"
)

type ddSpec struct {
	effectiveness float64
	alternating   bool // alternate X and Y pulses by parity
}

var ddSequences = map[DDSequence]ddSpec{
	XY4:  {effectiveness: 0.98, alternating: true},
	XY8:  {effectiveness: 0.99, alternating: true},
	CPMG: {effectiveness: 0.97},
	KDD:  {effectiveness: 0.995},
}

// DDSequences lists the supported sequences.
func DDSequences() []DDSequence {
	return []DDSequence{XY4, XY8, CPMG, KDD}
}

// ParseDDSequence accepts a sequence name in any case.
func ParseDDSequence(s string) (DDSequence, error) {
	names := make([]string, 0, len(ddSequences))
	for _, d := range DDSequences() {
		names = append(names, string(d))
	}
	v, err := errs.ValidateOneOf(errs.ErrCodeInvalidDDSequence, "dd sequence", s, names...)
	return DDSequence(v), err
}

// Valid reports whether d is a known sequence.
func (d DDSequence) Valid() bool {
	_, ok := ddSequences[d]
	return ok
}

// Effectiveness returns the fidelity factor of the sequence, 0 if unknown.
func (d DDSequence) Effectiveness() float64 {
	return ddSequences[d].effectiveness
}

// Phase accumulated per pulse. Node A and node B rotate in opposite directions.
const decouplingPhase = math.Pi / 8

// DecouplingCircuit builds the step-2 circuit for one node: pulses π-pulses
// on the electron spin (qubit 0), each followed by a barrier for the free
// evolution and an RZ(phase). The nuclear-spin memory is qubit 1.
func DecouplingCircuit(seq DDSequence, pulses int, phase float64) *circuit.Circuit {
	alternating := ddSequences[seq].alternating
	c := circuit.New(2, 2)
	for i := 0; i < pulses; i++ {
		if alternating && i%2 == 1 {
			c.Y(0)
		} else {
			c.X(0)
		}
		c.Barrier().RZ(phase, 0)
	}
	return c
}
