package circuit

import "fmt"

// GateKind identifies a gate operation.
type GateKind uint8

const (
	GateH GateKind = iota + 1
	GateX
	GateY
	GateZ
	GateS
	GateT
	GateRX
	GateRY
	GateRZ
	GateCX
	GateCZ
	GateBarrier
)

type gateSpec struct {
	name   string
	qubits int // -1: applies to every qubit
	params int
}

var gateSpecs = map[GateKind]gateSpec{
	GateH:       {"h", 1, 0},
	GateX:       {"x", 1, 0},
	GateY:       {"y", 1, 0},
	GateZ:       {"z", 1, 0},
	GateS:       {"s", 1, 0},
	GateT:       {"t", 1, 0},
	GateRX:      {"rx", 1, 1},
	GateRY:      {"ry", 1, 1},
	GateRZ:      {"rz", 1, 1},
	GateCX:      {"cx", 2, 0},
	GateCZ:      {"cz", 2, 0},
	GateBarrier: {"barrier", -1, 0},
}

// String returns the lower-case OpenQASM mnemonic of the gate.
func (k GateKind) String() string {
	if s, ok := gateSpecs[k]; ok {
		return s.name
	}
	return fmt.Sprintf("GateKind(%d)", uint8(k))
}

// Arity returns the number of qubits the gate acts on, or -1 for barriers.
func (k GateKind) Arity() int { return gateSpecs[k].qubits }

// NumParams returns the number of real parameters the gate takes.
func (k GateKind) NumParams() int { return gateSpecs[k].params }

// Gate is one recorded operation.
//
// Qubits holds the target indices; for two-qubit gates the control comes
// first. Barriers list every qubit of the circuit.
type Gate struct {
	Kind   GateKind
	Qubits []int
	Params []float64
}

// IsBarrier reports whether g is a timing barrier.
func (g Gate) IsBarrier() bool { return g.Kind == GateBarrier }

func (g Gate) String() string {
	if len(g.Params) == 0 {
		return fmt.Sprintf("%s%v", g.Kind, g.Qubits)
	}
	return fmt.Sprintf("%s(%g)%v", g.Kind, g.Params[0], g.Qubits)
}

// Measurement maps a qubit onto a classical bit.
type Measurement struct {
	Qubit int
	Clbit int
}
