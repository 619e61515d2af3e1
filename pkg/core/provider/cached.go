package provider

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Luxbin-labs/luxbin-chain/pkg/cache"
	"github.com/Luxbin-labs/luxbin-chain/pkg/core/circuit"
	"github.com/Luxbin-labs/luxbin-chain/pkg/observability"
)

// DefaultBackendsTTL is how long a cached backend list stays fresh.
const DefaultBackendsTTL = 5 * time.Minute

// Cached decorates a Provider with a backend-list cache and a per-backend
// calibration cache.
//
// Initialization and backend enumeration are retried according to Backoff
// when the inner provider returns an error wrapped with cache.Retryable.
// Circuit execution is passed through untouched.
type Cached struct {
	inner Provider
	cache cache.Cache
	keyer cache.Keyer

	TTL     time.Duration
	Backoff cache.Backoff
	Logger  *log.Logger
}

// NewCached wraps inner. A nil cache disables caching, a nil keyer uses
// cache.NewDefaultKeyer, and a nil logger uses log.Default.
func NewCached(inner Provider, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Cached {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Cached{
		inner:   inner,
		cache:   c,
		keyer:   keyer,
		TTL:     DefaultBackendsTTL,
		Backoff: cache.DefaultBackoff,
		Logger:  logger,
	}
}

func (p *Cached) Name() string       { return p.inner.Name() }
func (p *Cached) Type() ProviderType { return p.inner.Type() }

// Initialize implements Provider.
func (p *Cached) Initialize(ctx context.Context) error {
	return p.Backoff.Retry(ctx, func() error {
		err := p.inner.Initialize(ctx)
		if err != nil && cache.IsRetryable(err) {
			p.Logger.Debug("provider initialization failed, retrying", "provider", p.Name(), "error", err)
		}
		return err
	})
}

// Backends implements Provider, serving from cache when possible.
func (p *Cached) Backends(ctx context.Context) ([]BackendInfo, error) {
	key := p.key()
	hooks := observability.Cache()

	if data, hit, err := p.cache.Get(ctx, key); err != nil {
		p.Logger.Warn("backend cache read failed", "provider", p.Name(), "error", err)
	} else if hit {
		var backends []BackendInfo
		if err := json.Unmarshal(data, &backends); err == nil {
			hooks.OnCacheHit(ctx, "backends")
			return backends, nil
		}
		_ = p.cache.Delete(ctx, key)
	}
	hooks.OnCacheMiss(ctx, "backends")

	var backends []BackendInfo
	err := p.Backoff.Retry(ctx, func() error {
		var err error
		backends, err = p.inner.Backends(ctx)
		if err != nil && cache.IsRetryable(err) {
			p.Logger.Debug("backend enumeration failed, retrying", "provider", p.Name(), "error", err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(backends); err == nil {
		if err := p.cache.Set(ctx, key, data, p.TTL); err != nil {
			p.Logger.Warn("backend cache write failed", "provider", p.Name(), "error", err)
		} else {
			hooks.OnCacheSet(ctx, "backends", len(data))
		}
	}
	return backends, nil
}

// LeastBusyBackend implements Provider over the cached backend list.
func (p *Cached) LeastBusyBackend(ctx context.Context, minQubits int) (BackendInfo, bool, error) {
	backends, err := p.Backends(ctx)
	if err != nil {
		return BackendInfo{}, false, err
	}
	b, ok := LeastBusy(backends, minQubits)
	return b, ok, nil
}

// Backend returns the calibration snapshot of one backend. Snapshots are
// cached under their own key so a lookup by name survives a backend-list
// invalidation.
func (p *Cached) Backend(ctx context.Context, name string) (BackendInfo, bool, error) {
	key := p.keyer.CalibrationKey(string(p.Type()), name)
	hooks := observability.Cache()

	if data, hit, err := p.cache.Get(ctx, key); err == nil && hit {
		var b BackendInfo
		if err := json.Unmarshal(data, &b); err == nil {
			hooks.OnCacheHit(ctx, "calibration")
			return b, true, nil
		}
		_ = p.cache.Delete(ctx, key)
	}
	hooks.OnCacheMiss(ctx, "calibration")

	backends, err := p.Backends(ctx)
	if err != nil {
		return BackendInfo{}, false, err
	}
	b, ok := Find(backends, name)
	if !ok {
		return BackendInfo{}, false, nil
	}
	if data, err := json.Marshal(b); err == nil {
		if err := p.cache.Set(ctx, key, data, p.TTL); err != nil {
			p.Logger.Warn("calibration cache write failed", "backend", name, "error", err)
		} else {
			hooks.OnCacheSet(ctx, "calibration", len(data))
		}
	}
	return b, true, nil
}

// RunCircuit implements Provider.
func (p *Cached) RunCircuit(ctx context.Context, c *circuit.Circuit, backend string, shots int) JobResult {
	return p.inner.RunCircuit(ctx, c, backend, shots)
}

// Invalidate drops the cached backend list. Calibration snapshots age out
// on their own TTL.
func (p *Cached) Invalidate(ctx context.Context) error {
	return p.cache.Delete(ctx, p.key())
}

func (p *Cached) key() string {
	return p.keyer.BackendsKey(string(p.Type()), p.Name())
}

var _ Provider = (*Cached)(nil)
