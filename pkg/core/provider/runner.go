package provider

import (
	"context"
	"sync"

	"github.com/Luxbin-labs/luxbin-chain/pkg/core/circuit"
	errs "github.com/Luxbin-labs/luxbin-chain/pkg/errors"
)

// MaxShots bounds the shots of a single submission.
const MaxShots = 1 << 20

// backendLookup is implemented by providers that can resolve a single
// backend more cheaply than listing all of them, such as [Cached].
type backendLookup interface {
	Backend(ctx context.Context, name string) (BackendInfo, bool, error)
}

// Lookup returns the named backend of p.
func Lookup(ctx context.Context, p Provider, name string) (BackendInfo, bool, error) {
	if l, ok := p.(backendLookup); ok {
		return l.Backend(ctx, name)
	}
	backends, err := p.Backends(ctx)
	if err != nil {
		return BackendInfo{}, false, err
	}
	b, ok := Find(backends, name)
	return b, ok, nil
}

// Runner submits prepared circuits to one provider. It initializes the
// provider on first use, picks a backend, and turns failed jobs into coded
// errors. The Bell, GHZ and teleportation generators share it.
type Runner struct {
	prov Provider

	mu    sync.Mutex
	ready bool
}

// NewRunner returns a runner for p.
func NewRunner(p Provider) (*Runner, error) {
	if p == nil {
		return nil, errs.New(errs.ErrCodeProviderUnavailable, "runner requires a provider")
	}
	return &Runner{prov: p}, nil
}

// Provider returns the wrapped provider.
func (r *Runner) Provider() Provider { return r.prov }

func (r *Runner) initialize(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ready {
		return nil
	}
	if err := r.prov.Initialize(ctx); err != nil {
		return errs.Wrap(errs.ErrCodeProviderUnavailable, err, "initialize %s", r.prov.Name())
	}
	r.ready = true
	return nil
}

// Resolve returns the backend a circuit of qubits qubits should run on. An
// empty name selects the least busy backend; a named backend must exist, be
// online and be large enough.
func (r *Runner) Resolve(ctx context.Context, name string, qubits int) (BackendInfo, error) {
	if err := r.initialize(ctx); err != nil {
		return BackendInfo{}, err
	}
	if name == "" {
		b, ok, err := r.prov.LeastBusyBackend(ctx, qubits)
		if err != nil {
			return BackendInfo{}, errs.Wrap(errs.ErrCodeProviderUnavailable, err, "select backend")
		}
		if !ok {
			return BackendInfo{}, errs.New(errs.ErrCodeBackendUnavailable, "no available backend with %d qubits", qubits)
		}
		return b, nil
	}

	b, ok, err := Lookup(ctx, r.prov, name)
	switch {
	case err != nil:
		return BackendInfo{}, errs.Wrap(errs.ErrCodeProviderUnavailable, err, "look up backend %s", name)
	case !ok:
		return BackendInfo{}, errs.New(errs.ErrCodeBackendNotFound, "unknown backend %q on %s", name, r.prov.Name())
	case !b.Available():
		return BackendInfo{}, errs.New(errs.ErrCodeBackendUnavailable, "backend %q is %s", name, b.Status)
	case b.NumQubits < qubits:
		return BackendInfo{}, errs.New(errs.ErrCodeBackendUnavailable, "backend %q has %d qubits, need %d", name, b.NumQubits, qubits)
	}
	return b, nil
}

// Run executes c on the named backend, or the least busy one when backend is
// empty. A job the provider reports as failed comes back as an error.
func (r *Runner) Run(ctx context.Context, c *circuit.Circuit, backend string, shots int) (JobResult, error) {
	if c == nil {
		return JobResult{}, errs.New(errs.ErrCodeInvalidCircuit, "nil circuit")
	}
	if err := c.Err(); err != nil {
		return JobResult{}, err
	}
	if shots < 1 || shots > MaxShots {
		return JobResult{}, errs.New(errs.ErrCodeInvalidInput, "shots must be in [1, %d], got %d", MaxShots, shots)
	}
	info, err := r.Resolve(ctx, backend, c.NumQubits())
	if err != nil {
		return JobResult{}, err
	}

	res := r.prov.RunCircuit(ctx, c, info.Name, shots)
	if !res.Success {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		return res, errs.New(errs.ErrCodeBackendUnavailable, "job on %s: %s", info.Name, res.Error)
	}
	return res, nil
}
