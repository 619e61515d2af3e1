package entanglement

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Luxbin-labs/luxbin-chain/pkg/observability"
)

// fakeClock advances only when the protocol sleeps.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// sleeps advances the fake clock and records every delay.
type sleeps struct {
	clock *fakeClock
	mu    sync.Mutex
	calls []time.Duration
}

func (s *sleeps) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.calls = append(s.calls, d)
	s.mu.Unlock()
	if s.clock != nil {
		s.clock.Advance(d)
	}
	return nil
}

func (s *sleeps) count(d time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c == d {
			n++
		}
	}
	return n
}

// scriptedSource replays coincidences and Gaussian offsets. Once a script
// runs out the last value repeats; an empty coincidence script always fails.
type scriptedSource struct {
	mu           sync.Mutex
	coincidences []bool
	gaussians    []float64 // returned as mean + value
	panicFirst   bool
	calls        int
}

func (s *scriptedSource) Coincidence(float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.panicFirst && s.calls == 1 {
		panic("detector offline")
	}
	if len(s.coincidences) == 0 {
		return false
	}
	v := s.coincidences[0]
	if len(s.coincidences) > 1 {
		s.coincidences = s.coincidences[1:]
	}
	return v
}

func (s *scriptedSource) Gaussian(mean, _ float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.gaussians) == 0 {
		return mean
	}
	v := s.gaussians[0]
	if len(s.gaussians) > 1 {
		s.gaussians = s.gaussians[1:]
	}
	return mean + v
}

// recordingHooks captures protocol events.
type recordingHooks struct {
	observability.NoopProtocolHooks
	mu       sync.Mutex
	states   []string
	failures []string
	reinits  []string
	ends     int
}

func (h *recordingHooks) OnStateChange(_ context.Context, _ string, _ int, state string) {
	h.mu.Lock()
	h.states = append(h.states, state)
	h.mu.Unlock()
}

func (h *recordingHooks) OnAttemptFailed(_ context.Context, _ string, _ int, reason string) {
	h.mu.Lock()
	h.failures = append(h.failures, reason)
	h.mu.Unlock()
}

func (h *recordingHooks) OnReinitialize(_ context.Context, node string, _ time.Duration) {
	h.mu.Lock()
	h.reinits = append(h.reinits, node)
	h.mu.Unlock()
}

func (h *recordingHooks) OnSessionEnd(context.Context, string, bool, int, float64, time.Duration) {
	h.mu.Lock()
	h.ends++
	h.mu.Unlock()
}

type testRig struct {
	clock  *fakeClock
	sleeps *sleeps
	hooks  *recordingHooks
}

// newTestProtocol builds a protocol on a fake clock with silent logging.
func newTestProtocol(t *testing.T, cfg Config, opts ...Option) (*Protocol, *testRig) {
	t.Helper()
	rig := &testRig{clock: newFakeClock(), hooks: &recordingHooks{}}
	rig.sleeps = &sleeps{clock: rig.clock}
	base := []Option{
		WithClock(rig.clock),
		WithSleeper(rig.sleeps.Sleep),
		WithHooks(rig.hooks),
		WithLogger(log.New(io.Discard)),
	}
	p, err := NewProtocol(cfg, append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewProtocol: %v", err)
	}
	return p, rig
}

func withRetries(n int) Config {
	cfg := DefaultConfig()
	cfg.MaxRetries = n
	return cfg
}
