// Package pkg provides the core libraries for Luxbin entanglement networking.
//
// # Overview
//
// Luxbin establishes heralded entanglement between nitrogen-vacancy (NV)
// center nodes using the LUXBIN-EIP-001 invitation protocol, extends it
// across chains of nodes by entanglement swapping, and prepares Bell pairs
// on gate-model quantum providers. The pkg directory is organized into:
//
//  1. [core] - Domain logic (protocol engine, circuits, providers, Bell pairs)
//  2. [store] - Session persistence (memory, JSON lines, Redis, MongoDB)
//  3. [cache] - Provider metadata caching
//  4. [render/topology] - Graphviz views of entanglement chains
//  5. [config], [errors], [observability], [buildinfo] - Ambient support
//
// # Architecture
//
// One protocol session flows through:
//
//	two *entanglement.Node
//	         ↓
//	    [core/entanglement] (six-step attempt loop with retries)
//	         ↓                         ↘
//	    entanglement.Result        [core/provider] (optional circuit telemetry)
//	         ↓
//	    [store] (Recorder) → [render/topology] (DOT / SVG)
//
// # Quick Start
//
//	import "github.com/Luxbin-labs/luxbin-chain/pkg/core/entanglement"
//
//	proto, err := entanglement.NewProtocol(entanglement.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	alice := entanglement.NewNode("alice")
//	bob := entanglement.NewNode("bob")
//	result, err := proto.CreateEntanglement(ctx, alice, bob)
//	if err != nil {
//	    return err // canceled, or invalid nodes
//	}
//	if result.Success {
//	    chain, _ := proto.ExtendNetwork(ctx, result, []*entanglement.Node{
//	        entanglement.NewNode("carol"),
//	    })
//	    _ = chain
//	}
//
// # Main Packages
//
// ## Core Domain Logic
//
// [core/entanglement] - The protocol engine: node and photon models, the
// dynamical decoupling sequences (XY4, XY8, CPMG, KDD), routing and
// heralding, fidelity modeling, multi-hop extension and statistics.
//
// [core/circuit] - A small gate-model circuit builder with OpenQASM 2.0 output.
//
// [core/provider] - The quantum provider contract, a caching decorator, the
// Runner shared by the circuit-level generators, and a local simulator in
// [core/provider/simulator].
//
// [core/bell] - Bell-state preparation and fidelity scoring from measured
// counts.
//
// [core/ghz] - n-qubit GHZ preparation, wavelength-encoded variants and
// analysis of states prepared on several backends.
//
// [core/teleport] - Three-qubit state teleportation with deferred-measurement
// corrections.
//
// ## Infrastructure
//
// [store] - Session stores behind one interface. Memory for tests and the
// API default, JSON lines for the CLI, Redis and MongoDB for shared
// deployments.
//
// [cache] - Byte caches with TTL (file, memory, null) and retry helpers used
// by the provider decorator.
//
// ## Binaries
//
// The luxbin command (cmd/luxbin) and the HTTP API (internal/api) are thin
// layers over these packages.
package pkg
