package circuit

import (
	"slices"

	errs "github.com/Luxbin-labs/luxbin-chain/pkg/errors"
)

// Circuit is a gate/measurement program over a fixed register size.
// The zero value is not usable; create circuits with [New].
type Circuit struct {
	numQubits    int
	numClbits    int
	gates        []Gate
	measurements []Measurement
	err          error
}

// New creates an empty circuit with the given register sizes. A circuit
// without classical bits is valid but measures nothing. Invalid sizes are
// recorded as the circuit's error.
func New(qubits, clbits int) *Circuit {
	c := &Circuit{numQubits: qubits, numClbits: clbits}
	switch {
	case qubits < 1:
		c.err = errs.New(errs.ErrCodeInvalidCircuit, "circuit needs at least one qubit, got %d", qubits)
	case clbits < 0:
		c.err = errs.New(errs.ErrCodeInvalidCircuit, "negative classical register size %d", clbits)
	}
	return c
}

// NumQubits returns the size of the quantum register.
func (c *Circuit) NumQubits() int { return c.numQubits }

// NumClbits returns the size of the classical register.
func (c *Circuit) NumClbits() int { return c.numClbits }

// Err returns the first construction error, if any.
func (c *Circuit) Err() error { return c.err }

// Gates returns a copy of the recorded operations in order.
func (c *Circuit) Gates() []Gate {
	out := make([]Gate, len(c.gates))
	for i, g := range c.gates {
		out[i] = Gate{Kind: g.Kind, Qubits: slices.Clone(g.Qubits), Params: slices.Clone(g.Params)}
	}
	return out
}

// Measurements returns a copy of the registered measurements in order.
func (c *Circuit) Measurements() []Measurement {
	return slices.Clone(c.measurements)
}

// Depth returns the number of non-barrier operations.
func (c *Circuit) Depth() int {
	n := 0
	for _, g := range c.gates {
		if !g.IsBarrier() {
			n++
		}
	}
	return n
}

func (c *Circuit) H(q int) *Circuit { return c.add(GateH, nil, q) }
func (c *Circuit) X(q int) *Circuit { return c.add(GateX, nil, q) }
func (c *Circuit) Y(q int) *Circuit { return c.add(GateY, nil, q) }
func (c *Circuit) Z(q int) *Circuit { return c.add(GateZ, nil, q) }
func (c *Circuit) S(q int) *Circuit { return c.add(GateS, nil, q) }
func (c *Circuit) T(q int) *Circuit { return c.add(GateT, nil, q) }

// RX rotates qubit q by theta radians about the X axis.
func (c *Circuit) RX(theta float64, q int) *Circuit { return c.add(GateRX, []float64{theta}, q) }

// RY rotates qubit q by theta radians about the Y axis.
func (c *Circuit) RY(theta float64, q int) *Circuit { return c.add(GateRY, []float64{theta}, q) }

// RZ rotates qubit q by theta radians about the Z axis.
func (c *Circuit) RZ(theta float64, q int) *Circuit { return c.add(GateRZ, []float64{theta}, q) }

// CX applies a controlled-NOT.
func (c *Circuit) CX(control, target int) *Circuit { return c.add(GateCX, nil, control, target) }

// CZ applies a controlled-Z.
func (c *Circuit) CZ(control, target int) *Circuit { return c.add(GateCZ, nil, control, target) }

// Barrier records a timing barrier across every qubit. Barriers do not count
// towards Depth.
func (c *Circuit) Barrier() *Circuit {
	if c.err != nil {
		return c
	}
	qs := make([]int, c.numQubits)
	for i := range qs {
		qs[i] = i
	}
	c.gates = append(c.gates, Gate{Kind: GateBarrier, Qubits: qs})
	return c
}

// Measure registers a measurement of qubit q into classical bit cbit.
func (c *Circuit) Measure(q, cbit int) *Circuit {
	if c.err != nil {
		return c
	}
	if err := c.checkQubit("measure", q); err != nil {
		c.err = err
		return c
	}
	if cbit < 0 || cbit >= c.numClbits {
		c.err = errs.New(errs.ErrCodeQubitOutOfRange, "measure: classical bit %d out of range [0, %d)", cbit, c.numClbits)
		return c
	}
	c.measurements = append(c.measurements, Measurement{Qubit: q, Clbit: cbit})
	return c
}

// MeasureAll measures qubit i into classical bit i for every qubit that has
// a matching classical bit.
func (c *Circuit) MeasureAll() *Circuit {
	n := min(c.numQubits, c.numClbits)
	for i := 0; i < n; i++ {
		c.Measure(i, i)
	}
	return c
}

func (c *Circuit) add(kind GateKind, params []float64, qubits ...int) *Circuit {
	if c.err != nil {
		return c
	}
	for _, q := range qubits {
		if err := c.checkQubit(kind.String(), q); err != nil {
			c.err = err
			return c
		}
	}
	if len(qubits) == 2 && qubits[0] == qubits[1] {
		c.err = errs.New(errs.ErrCodeInvalidCircuit, "%s: control and target are both qubit %d", kind, qubits[0])
		return c
	}
	c.gates = append(c.gates, Gate{Kind: kind, Qubits: qubits, Params: params})
	return c
}

func (c *Circuit) checkQubit(op string, q int) error {
	if q < 0 || q >= c.numQubits {
		return errs.New(errs.ErrCodeQubitOutOfRange, "%s: qubit %d out of range [0, %d)", op, q, c.numQubits)
	}
	return nil
}
