// Package entanglement implements LUXBIN-EIP-001, the NV-center entanglement
// invitation protocol, between two quantum network nodes.
//
// # Overview
//
// A caller owns two [Node] values and hands them to
// [Protocol.CreateEntanglement]. Each attempt walks the nodes through the
// protocol states:
//
//	INITIALIZING → SPIN_PREPARED → PHOTON_INJECTED → ROUTING_COMPLETE → HERALDED → ENTANGLED
//
// The steps of one attempt are:
//
//  1. Spin initialization: optical pumping into |0>, then the superposition.
//  2. Alternating circuits: one dynamical-decoupling circuit per node.
//  3. Photon injection: each node emits a time-bin [PhotonState].
//  4. Conditional routing: both photons must arrive within 1 ns of each other.
//  5. Heralding: matched wavelengths plus a 50% coincidence yield psi_plus.
//  6. Pulse control: on failure, nodes that outlived T2 are re-initialized.
//
// Failed attempts are retried up to Config.MaxRetries. Exhaustion is an
// ordinary outcome (Result.Success == false), not an error. A successful
// result can be extended across further nodes with [Protocol.ExtendNetwork]
// (step 7, entanglement swapping).
//
// # Physics model
//
// The protocol's physics is a parametrized probabilistic model. Coincidences,
// fidelity noise and emission jitter come from a [Source], time from a
// [Clock], and delays from a [Sleeper]. All three are injectable, so tests can
// run the protocol deterministically and without waiting.
//
// # Concurrency
//
// A Protocol may serve many sessions at once. Its history and counters are
// guarded by a mutex and committed once per session. Nodes are not
// synchronized: a node must not take part in two concurrent sessions.
//
// # Results
//
// Every completed call to CreateEntanglement appends exactly one [Result] to
// the history and updates the counters behind [Protocol.Stats]. A session
// aborted through its context records nothing.
package entanglement
