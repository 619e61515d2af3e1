package provider

import (
	"context"
	"errors"
	"io"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Luxbin-labs/luxbin-chain/pkg/cache"
	"github.com/Luxbin-labs/luxbin-chain/pkg/core/circuit"
	errs "github.com/Luxbin-labs/luxbin-chain/pkg/errors"
)

func TestLeastBusy(t *testing.T) {
	backends := []BackendInfo{
		{Name: "offline_big", NumQubits: 127, Status: StatusOffline, QueueLength: 0},
		{Name: "small", NumQubits: 1, Status: StatusOnline, QueueLength: 0},
		{Name: "busy", NumQubits: 27, Status: StatusOnline, QueueLength: 40},
		{Name: "quiet_a", NumQubits: 5, Status: StatusOnline, QueueLength: 3},
		{Name: "quiet_b", NumQubits: 5, Status: StatusOnline, QueueLength: 3},
		{Name: "calibrating", NumQubits: 5, Status: StatusCalibrating, QueueLength: 0},
	}

	tests := []struct {
		name      string
		minQubits int
		want      string
		ok        bool
	}{
		{"tie goes to first listed", 2, "quiet_a", true},
		{"small backend qualifies for 1 qubit", 1, "small", true},
		{"only the busy backend is big enough", 10, "busy", true},
		{"nothing qualifies", 128, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LeastBusy(backends, tt.minQubits)
			if ok != tt.ok || got.Name != tt.want {
				t.Errorf("LeastBusy(%d) = %q, %v; want %q, %v", tt.minQubits, got.Name, ok, tt.want, tt.ok)
			}
		})
	}

	if _, ok := LeastBusy(nil, 0); ok {
		t.Error("LeastBusy(nil) should find nothing")
	}
}

func TestProbabilities(t *testing.T) {
	r := JobResult{Counts: map[string]int{"00": 300, "11": 700}}
	p := r.Probabilities()
	if math.Abs(p["00"]-0.3) > 1e-12 || math.Abs(p["11"]-0.7) > 1e-12 {
		t.Errorf("Probabilities() = %v", p)
	}
	if len((JobResult{}).Probabilities()) != 0 {
		t.Error("empty result should give empty probabilities")
	}
}

func TestFailed(t *testing.T) {
	r := Failed("ibm_kyiv", 1024, errors.New("unreachable"))
	if r.Success || r.Error != "unreachable" || r.Shots != 1024 || r.Counts == nil {
		t.Errorf("Failed() = %+v", r)
	}
}

var errVendorTimeout = errors.New("vendor api timed out")

type fakeProvider struct {
	mu        sync.Mutex
	backends  []BackendInfo
	failFirst int
	initFails int
	calls     int
	inits     int
	runs      int
	lastRun   string
}

func (f *fakeProvider) Name() string       { return "fake" }
func (f *fakeProvider) Type() ProviderType { return TypeSimulator }

func (f *fakeProvider) Initialize(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inits++
	if f.inits <= f.initFails {
		return cache.Retryable(errVendorTimeout)
	}
	return nil
}

func (f *fakeProvider) Backends(context.Context) ([]BackendInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failFirst {
		return nil, cache.Retryable(errVendorTimeout)
	}
	return f.backends, nil
}

func (f *fakeProvider) LeastBusyBackend(ctx context.Context, minQubits int) (BackendInfo, bool, error) {
	bs, err := f.Backends(ctx)
	if err != nil {
		return BackendInfo{}, false, err
	}
	b, ok := LeastBusy(bs, minQubits)
	return b, ok, nil
}

func (f *fakeProvider) RunCircuit(_ context.Context, _ *circuit.Circuit, backend string, shots int) JobResult {
	f.mu.Lock()
	f.runs++
	f.lastRun = backend
	f.mu.Unlock()
	return JobResult{Backend: backend, Shots: shots, Success: true, Counts: map[string]int{"0": shots}}
}

func newTestCached(inner Provider, c cache.Cache) *Cached {
	p := NewCached(inner, c, nil, log.New(io.Discard))
	p.Backoff = cache.Backoff{Attempts: 3, Delay: time.Millisecond}
	return p
}

func TestCachedServesFromCache(t *testing.T) {
	ctx := context.Background()
	inner := &fakeProvider{backends: []BackendInfo{
		{Name: "local_simulator", NumQubits: 32, Status: StatusOnline},
	}}
	p := newTestCached(inner, cache.NewMemoryCache())

	for i := 0; i < 3; i++ {
		bs, err := p.Backends(ctx)
		if err != nil {
			t.Fatalf("Backends: %v", err)
		}
		if len(bs) != 1 || bs[0].Name != "local_simulator" {
			t.Fatalf("Backends = %+v", bs)
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner Backends called %d times, want 1", inner.calls)
	}

	if err := p.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, err := p.Backends(ctx); err != nil {
		t.Fatalf("Backends: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("after Invalidate inner calls = %d, want 2", inner.calls)
	}
}

func TestCachedRetriesTransientErrors(t *testing.T) {
	ctx := context.Background()
	inner := &fakeProvider{
		failFirst: 2,
		backends:  []BackendInfo{{Name: "b", NumQubits: 4, Status: StatusOnline}},
	}
	p := newTestCached(inner, nil)

	b, ok, err := p.LeastBusyBackend(ctx, 2)
	if err != nil || !ok || b.Name != "b" {
		t.Fatalf("LeastBusyBackend = %v, %v, %v", b, ok, err)
	}
	if inner.calls != 3 {
		t.Errorf("inner calls = %d, want 3", inner.calls)
	}
}

func TestCachedGivesUpAfterBackoff(t *testing.T) {
	inner := &fakeProvider{failFirst: 10}
	p := newTestCached(inner, nil)

	if _, err := p.Backends(context.Background()); !errors.Is(err, errVendorTimeout) {
		t.Errorf("Backends error = %v, want the vendor timeout", err)
	}
	if inner.calls != 3 {
		t.Errorf("inner calls = %d, want 3", inner.calls)
	}
}

func TestCachedPassesRunThrough(t *testing.T) {
	inner := &fakeProvider{}
	p := newTestCached(inner, nil)
	r := p.RunCircuit(context.Background(), circuit.New(1, 1).MeasureAll(), "b", 10)
	if !r.Success || inner.runs != 1 {
		t.Errorf("RunCircuit = %+v, runs = %d", r, inner.runs)
	}
}

func TestCachedRetriesInitialize(t *testing.T) {
	inner := &fakeProvider{initFails: 2}
	p := newTestCached(inner, nil)
	if err := p.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if inner.inits != 3 {
		t.Errorf("inner Initialize called %d times, want 3", inner.inits)
	}
}

func TestCachedBackendCalibration(t *testing.T) {
	ctx := context.Background()
	inner := &fakeProvider{backends: []BackendInfo{
		{Name: "ibm_kyiv", NumQubits: 127, Status: StatusOnline, AvgGateFidelity: 0.995},
		{Name: "ibm_fez", NumQubits: 156, Status: StatusOnline},
	}}
	p := newTestCached(inner, cache.NewMemoryCache())

	b, ok, err := p.Backend(ctx, "ibm_kyiv")
	if err != nil || !ok || b.AvgGateFidelity != 0.995 {
		t.Fatalf("Backend = %+v, %v, %v", b, ok, err)
	}

	// The snapshot is served without another enumeration, even after the
	// list itself is dropped.
	if err := p.Invalidate(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := p.Backend(ctx, "ibm_kyiv"); !ok {
		t.Fatal("cached snapshot missing")
	}
	if inner.calls != 1 {
		t.Errorf("inner Backends called %d times, want 1", inner.calls)
	}

	if _, ok, err := p.Backend(ctx, "ibm_nowhere"); ok || err != nil {
		t.Errorf("unknown backend = %v, %v", ok, err)
	}
}

func TestLookupWithoutCache(t *testing.T) {
	inner := &fakeProvider{backends: []BackendInfo{{Name: "b", NumQubits: 2, Status: StatusOnline}}}
	b, ok, err := Lookup(context.Background(), inner, "b")
	if err != nil || !ok || b.NumQubits != 2 {
		t.Errorf("Lookup = %+v, %v, %v", b, ok, err)
	}
}

func TestRunnerResolve(t *testing.T) {
	inner := &fakeProvider{backends: []BackendInfo{
		{Name: "tiny", NumQubits: 2, Status: StatusOnline, QueueLength: 0},
		{Name: "wide", NumQubits: 27, Status: StatusOnline, QueueLength: 9},
		{Name: "down", NumQubits: 27, Status: StatusMaintenance},
	}}
	r, err := NewRunner(newTestCached(inner, cache.NewMemoryCache()))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		backend string
		qubits  int
		want    string
		code    errs.Code
	}{
		{"least busy", "", 2, "tiny", ""},
		{"least busy wide enough", "", 5, "wide", ""},
		{"named", "wide", 3, "wide", ""},
		{"unknown", "ibm_fez", 2, "", errs.ErrCodeBackendNotFound},
		{"offline", "down", 2, "", errs.ErrCodeBackendUnavailable},
		{"too small", "tiny", 5, "", errs.ErrCodeBackendUnavailable},
		{"nothing big enough", "", 64, "", errs.ErrCodeBackendUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := r.Resolve(context.Background(), tt.backend, tt.qubits)
			if tt.code != "" {
				if !errs.Is(err, tt.code) {
					t.Errorf("err = %v, want %s", err, tt.code)
				}
				return
			}
			if err != nil || b.Name != tt.want {
				t.Errorf("Resolve = %q, %v; want %q", b.Name, err, tt.want)
			}
		})
	}
}

func TestRunnerRun(t *testing.T) {
	inner := &fakeProvider{backends: []BackendInfo{{Name: "b", NumQubits: 4, Status: StatusOnline}}}
	r, _ := NewRunner(inner)
	ctx := context.Background()

	res, err := r.Run(ctx, circuit.New(1, 1).MeasureAll(), "", 10)
	if err != nil || !res.Success || inner.lastRun != "b" {
		t.Fatalf("Run = %+v, %v (ran on %q)", res, err, inner.lastRun)
	}

	for _, shots := range []int{0, MaxShots + 1} {
		if _, err := r.Run(ctx, circuit.New(1, 1), "", shots); !errs.Is(err, errs.ErrCodeInvalidInput) {
			t.Errorf("shots %d: err = %v", shots, err)
		}
	}
	if _, err := r.Run(ctx, circuit.New(1, 1).H(4), "", 10); !errs.Is(err, errs.ErrCodeQubitOutOfRange) {
		t.Errorf("broken circuit: err = %v", err)
	}
	if inner.runs != 1 {
		t.Errorf("rejected submissions reached the provider: runs = %d", inner.runs)
	}
	if _, err := NewRunner(nil); !errs.Is(err, errs.ErrCodeProviderUnavailable) {
		t.Errorf("NewRunner(nil) = %v", err)
	}
}
