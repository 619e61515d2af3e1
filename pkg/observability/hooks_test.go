package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopProtocolHooks{}
	p.OnSessionStart(ctx, "s1", "alice", "bob")
	p.OnStateChange(ctx, "s1", 1, "SPIN_PREPARED")
	p.OnAttemptFailed(ctx, "s1", 1, "routing")
	p.OnReinitialize(ctx, "alice", 2*time.Millisecond)
	p.OnSessionEnd(ctx, "s1", true, 3, 0.91, time.Second)

	v := NoopProviderHooks{}
	v.OnJobStart(ctx, "simulator", "local_simulator", 2, 1024)
	v.OnJobComplete(ctx, "simulator", "local_simulator", time.Millisecond, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "backends")
	c.OnCacheMiss(ctx, "backends")
	c.OnCacheSet(ctx, "backends", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Protocol().(NoopProtocolHooks); !ok {
		t.Error("Protocol() should return NoopProtocolHooks by default")
	}
	if _, ok := Provider().(NoopProviderHooks); !ok {
		t.Error("Provider() should return NoopProviderHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	protocol := &countingProtocolHooks{}
	SetProtocolHooks(protocol)
	if Protocol() != protocol {
		t.Error("SetProtocolHooks should set custom hooks")
	}

	provider := &countingProviderHooks{}
	SetProviderHooks(provider)
	if Provider() != provider {
		t.Error("SetProviderHooks should set custom hooks")
	}

	Reset()
	if _, ok := Protocol().(NoopProtocolHooks); !ok {
		t.Error("Reset() should restore NoopProtocolHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &countingProtocolHooks{}
	SetProtocolHooks(custom)
	SetProtocolHooks(nil)
	if Protocol() != custom {
		t.Error("SetProtocolHooks(nil) should keep the previous hooks")
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	custom := &countingProtocolHooks{}
	SetProtocolHooks(custom)

	ctx := context.Background()
	Protocol().OnSessionStart(ctx, "s1", "alice", "bob")
	Protocol().OnSessionEnd(ctx, "s1", false, 10, 0, time.Millisecond)

	if custom.starts != 1 || custom.ends != 1 {
		t.Errorf("starts=%d ends=%d, want 1/1", custom.starts, custom.ends)
	}
}

type countingProtocolHooks struct {
	NoopProtocolHooks
	starts, ends int
}

func (h *countingProtocolHooks) OnSessionStart(context.Context, string, string, string) {
	h.starts++
}

func (h *countingProtocolHooks) OnSessionEnd(context.Context, string, bool, int, float64, time.Duration) {
	h.ends++
}

type countingProviderHooks struct {
	NoopProviderHooks
	jobs int
}

func (h *countingProviderHooks) OnJobStart(context.Context, string, string, int, int) {
	h.jobs++
}
