// Package provider defines the contract between the entanglement stack and a
// circuit execution backend.
//
// A [Provider] connects to a vendor (IBM, IonQ, a local simulator, ...),
// enumerates its backends, and runs circuits for a number of shots. Execution
// failures are reported inside [JobResult] rather than as Go errors: callers
// check JobResult.Success before reading counts.
//
// The package also carries the pieces every implementation shares:
// [LeastBusy] implements backend selection, and [Cached] decorates any
// provider with a backend-list cache.
package provider

import (
	"context"
	"time"

	"github.com/Luxbin-labs/luxbin-chain/pkg/core/circuit"
)

// ProviderType names a provider family.
type ProviderType string

const (
	TypeIBM       ProviderType = "ibm"
	TypeIonQ      ProviderType = "ionq"
	TypeRigetti   ProviderType = "rigetti"
	TypeCirq      ProviderType = "cirq"
	TypeBraket    ProviderType = "braket"
	TypeAzure     ProviderType = "azure"
	TypeIQM       ProviderType = "iqm"
	TypePasqal    ProviderType = "pasqal"
	TypeQuandela  ProviderType = "quandela"
	TypeSimulator ProviderType = "simulator"
)

// BackendStatus is the operational state reported for a backend.
type BackendStatus string

const (
	StatusOnline      BackendStatus = "online"
	StatusOffline     BackendStatus = "offline"
	StatusMaintenance BackendStatus = "maintenance"
	StatusCalibrating BackendStatus = "calibrating"
	StatusUnknown     BackendStatus = "unknown"
)

// BackendInfo describes one execution target.
type BackendInfo struct {
	Name            string        `json:"name"`
	Provider        ProviderType  `json:"provider"`
	NumQubits       int           `json:"num_qubits"`
	Status          BackendStatus `json:"status"`
	QueueLength     int           `json:"queue_length"`
	AvgGateFidelity float64       `json:"avg_gate_fidelity"`
	T1              time.Duration `json:"t1"`
	T2              time.Duration `json:"t2"`
	Connectivity    [][2]int      `json:"connectivity,omitempty"`
	LastCalibration time.Time     `json:"last_calibration,omitzero"`
}

// Available reports whether the backend currently accepts jobs.
func (b BackendInfo) Available() bool {
	return b.Status == StatusOnline
}

// JobResult is the outcome of one circuit submission.
//
// Counts maps measured bit strings to occurrences. Bit strings list the
// highest classical bit first.
type JobResult struct {
	JobID         string            `json:"job_id"`
	Backend       string            `json:"backend"`
	Counts        map[string]int    `json:"counts"`
	Shots         int               `json:"shots"`
	Success       bool              `json:"success"`
	ExecutionTime time.Duration     `json:"execution_time"`
	Error         string            `json:"error,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Probabilities converts counts to relative frequencies.
// It returns an empty map when nothing was measured.
func (r JobResult) Probabilities() map[string]float64 {
	total := 0
	for _, n := range r.Counts {
		total += n
	}
	out := make(map[string]float64, len(r.Counts))
	if total == 0 {
		return out
	}
	for k, n := range r.Counts {
		out[k] = float64(n) / float64(total)
	}
	return out
}

// Failed builds an unsuccessful JobResult.
func Failed(backend string, shots int, err error) JobResult {
	return JobResult{
		Backend: backend,
		Counts:  map[string]int{},
		Shots:   shots,
		Error:   err.Error(),
	}
}

// Provider executes circuits on a family of backends.
//
// Implementations must be safe for concurrent use.
type Provider interface {
	// Name identifies this provider instance (used in logs and cache keys).
	Name() string
	Type() ProviderType

	// Initialize establishes connectivity. It is idempotent and may be
	// called lazily before first use; a nil error means the provider is ready.
	Initialize(ctx context.Context) error

	// Backends enumerates known backends. The view may be stale.
	Backends(ctx context.Context) ([]BackendInfo, error)

	// LeastBusyBackend returns the online backend with at least minQubits
	// qubits and the shortest queue. The bool is false when none qualifies.
	LeastBusyBackend(ctx context.Context, minQubits int) (BackendInfo, bool, error)

	// RunCircuit executes c for shots repetitions on the named backend.
	// Failures are reported through JobResult.Success and JobResult.Error.
	RunCircuit(ctx context.Context, c *circuit.Circuit, backend string, shots int) JobResult
}

// LeastBusy selects from backends the available one with at least minQubits
// qubits and the smallest queue. Ties go to the backend listed first.
func LeastBusy(backends []BackendInfo, minQubits int) (BackendInfo, bool) {
	best := -1
	for i, b := range backends {
		if !b.Available() || b.NumQubits < minQubits {
			continue
		}
		if best < 0 || b.QueueLength < backends[best].QueueLength {
			best = i
		}
	}
	if best < 0 {
		return BackendInfo{}, false
	}
	return backends[best], true
}

// Find returns the backend with the given name.
func Find(backends []BackendInfo, name string) (BackendInfo, bool) {
	for _, b := range backends {
		if b.Name == name {
			return b, true
		}
	}
	return BackendInfo{}, false
}
