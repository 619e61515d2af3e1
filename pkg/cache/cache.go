// Package cache provides the byte-oriented cache used for provider metadata.
//
// Backend enumeration can involve network I/O against a quantum provider, so
// the provider decorator in pkg/core/provider stores backend lists and
// per-backend calibration snapshots here with a short TTL. The CLI uses [FileCache] so repeated invocations share the view;
// the API server uses [MemoryCache]; tests use [NullCache].
//
// Keys are produced by a [Keyer] so that deployments serving several
// tenants can wrap it in a [ScopedKeyer].
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads under string keys.
//
// Get reports a miss with (nil, false, nil). A ttl of zero means the entry
// never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer generates cache keys.
type Keyer interface {
	// BackendsKey identifies the backend list of one provider instance.
	BackendsKey(providerType, providerName string) string
	// CalibrationKey identifies calibration data of a single backend.
	CalibrationKey(providerType, backend string) string
}

// DefaultKeyer builds unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// BackendsKey implements Keyer.
func (DefaultKeyer) BackendsKey(providerType, providerName string) string {
	return hashKey("backends", providerType, providerName)
}

// CalibrationKey implements Keyer.
func (DefaultKeyer) CalibrationKey(providerType, backend string) string {
	return hashKey("calibration", providerType, backend)
}
