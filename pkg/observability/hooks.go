// Package observability provides instrumentation hooks for the entanglement stack.
//
// Libraries emit events through small hook interfaces; binaries decide where
// those events go (Prometheus, OpenTelemetry, logs). Nothing in pkg/ depends
// on a concrete metrics backend.
//
// Register hooks once at startup:
//
//	func main() {
//	    observability.SetProtocolHooks(&promProtocolHooks{})
//	    observability.SetProviderHooks(&promProviderHooks{})
//	    // ... run application
//	}
//
// Engines pick up the registered hooks when they are constructed and may be
// given their own set with an option instead:
//
//	observability.Protocol().OnSessionStart(ctx, id, "alice", "bob")
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Protocol Hooks
// =============================================================================

// ProtocolHooks receives events from the entanglement protocol engine.
// Implementations must be safe for concurrent use; the engine calls them from
// the goroutines that drive both nodes of a session.
type ProtocolHooks interface {
	OnSessionStart(ctx context.Context, session, nodeA, nodeB string)

	// OnStateChange reports the state reached within an attempt
	// (SPIN_PREPARED, PHOTON_INJECTED, ...).
	OnStateChange(ctx context.Context, session string, attempt int, state string)

	// OnAttemptFailed reports a transient failure: "routing", "heralding" or "fault".
	OnAttemptFailed(ctx context.Context, session string, attempt int, reason string)

	// OnReinitialize reports a node whose coherence budget ran out.
	OnReinitialize(ctx context.Context, node string, idle time.Duration)

	OnSessionEnd(ctx context.Context, session string, success bool, attempts int, fidelity float64, duration time.Duration)
}

// =============================================================================
// Provider Hooks
// =============================================================================

// ProviderHooks receives events from circuit execution.
type ProviderHooks interface {
	OnJobStart(ctx context.Context, provider, backend string, qubits, shots int)
	OnJobComplete(ctx context.Context, provider, backend string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopProtocolHooks is a no-op implementation of ProtocolHooks.
type NoopProtocolHooks struct{}

func (NoopProtocolHooks) OnSessionStart(context.Context, string, string, string) {}
func (NoopProtocolHooks) OnStateChange(context.Context, string, int, string)     {}
func (NoopProtocolHooks) OnAttemptFailed(context.Context, string, int, string)   {}
func (NoopProtocolHooks) OnReinitialize(context.Context, string, time.Duration)  {}
func (NoopProtocolHooks) OnSessionEnd(context.Context, string, bool, int, float64, time.Duration) {
}

// NoopProviderHooks is a no-op implementation of ProviderHooks.
type NoopProviderHooks struct{}

func (NoopProviderHooks) OnJobStart(context.Context, string, string, int, int)                {}
func (NoopProviderHooks) OnJobComplete(context.Context, string, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	protocolHooks ProtocolHooks = NoopProtocolHooks{}
	providerHooks ProviderHooks = NoopProviderHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetProtocolHooks registers custom protocol hooks.
// Engines constructed afterwards use them unless given their own.
func SetProtocolHooks(h ProtocolHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		protocolHooks = h
	}
}

// SetProviderHooks registers custom provider hooks.
func SetProviderHooks(h ProviderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		providerHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Protocol returns the registered protocol hooks.
func Protocol() ProtocolHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return protocolHooks
}

// Provider returns the registered provider hooks.
func Provider() ProviderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return providerHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	protocolHooks = NoopProtocolHooks{}
	providerHooks = NoopProviderHooks{}
	cacheHooks = NoopCacheHooks{}
}
