// Package circuit provides a provider-neutral description of a quantum
// circuit: an ordered list of gate operations over a fixed number of qubits,
// plus the qubit-to-classical-bit measurements taken at the end.
//
// # Building
//
// [New] returns a builder. Every gate method records one operation and
// returns the same *Circuit, so programs read top to bottom:
//
//	c := circuit.New(2, 2).
//	    H(0).
//	    CX(0, 1).
//	    MeasureAll()
//
// Gates are a tagged variant ([Gate] with a [GateKind]). The arity and
// parameter count of each kind come from a single table, so providers can
// dispatch on Kind without string comparisons.
//
// # Errors
//
// Qubit and classical-bit indices are checked as they are recorded. The first
// violation is kept as a sticky error (code QUBIT_OUT_OF_RANGE or
// INVALID_CIRCUIT) and every later call is ignored. Check [Circuit.Err] once
// after building; providers refuse to run a circuit whose Err is non-nil.
//
// # Depth
//
// [Circuit.Depth] counts the non-barrier operations recorded so far. It is
// an operation count, not the critical-path depth of the dependency graph.
//
// Circuits carry no execution semantics. Execution belongs to
// pkg/core/provider implementations.
package circuit
