package bell

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/Luxbin-labs/luxbin-chain/pkg/core/circuit"
	"github.com/Luxbin-labs/luxbin-chain/pkg/core/entanglement"
	"github.com/Luxbin-labs/luxbin-chain/pkg/core/provider"
	"github.com/Luxbin-labs/luxbin-chain/pkg/core/provider/simulator"
	errs "github.com/Luxbin-labs/luxbin-chain/pkg/errors"
)

func newGenerator(t *testing.T, opts ...simulator.Option) *Generator {
	t.Helper()
	quiet := log.New(io.Discard)
	sim, err := simulator.New(append([]simulator.Option{simulator.WithSeed(11), simulator.WithLogger(quiet)}, opts...)...)
	if err != nil {
		t.Fatalf("simulator.New: %v", err)
	}
	g, err := NewGenerator(sim, WithLogger(quiet))
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	return g
}

func TestCircuit(t *testing.T) {
	tests := []struct {
		state entanglement.BellState
		want  []string
	}{
		{entanglement.BellPhiPlus, []string{"h[0]", "cx[0 1]"}},
		{entanglement.BellPhiMinus, []string{"h[0]", "cx[0 1]", "z[0]"}},
		{entanglement.BellPsiPlus, []string{"h[0]", "cx[0 1]", "x[1]"}},
		{entanglement.BellPsiMinus, []string{"h[0]", "cx[0 1]", "z[0]", "x[1]"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			c, err := Circuit(tt.state)
			if err != nil {
				t.Fatalf("Circuit: %v", err)
			}
			gates := c.Gates()
			if len(gates) != len(tt.want) {
				t.Fatalf("got %d gates, want %d", len(gates), len(tt.want))
			}
			for i, g := range gates {
				if g.String() != tt.want[i] {
					t.Errorf("gate %d = %s, want %s", i, g, tt.want[i])
				}
			}
			if len(c.Measurements()) != 2 {
				t.Errorf("measurements = %v, want both qubits", c.Measurements())
			}
		})
	}

	if _, err := Circuit("ghz"); !errs.Is(err, errs.ErrCodeInvalidBellState) {
		t.Errorf("Circuit(ghz) = %v, want INVALID_BELL_STATE", err)
	}
}

func TestParseState(t *testing.T) {
	got, err := ParseState("PSI_MINUS")
	if err != nil || got != entanglement.BellPsiMinus {
		t.Errorf("ParseState = %q, %v", got, err)
	}
	if _, err := ParseState(""); !errs.Is(err, errs.ErrCodeInvalidBellState) {
		t.Errorf("ParseState(\"\") = %v", err)
	}
}

func TestFidelity(t *testing.T) {
	counts := map[string]int{"00": 40, "11": 40, "01": 15, "10": 5}
	if got := Fidelity(counts, entanglement.BellPhiPlus); got != 0.8 {
		t.Errorf("phi fidelity = %v, want 0.8", got)
	}
	if got := Fidelity(counts, entanglement.BellPsiMinus); got != 0.2 {
		t.Errorf("psi fidelity = %v, want 0.2", got)
	}
	if got := Fidelity(nil, entanglement.BellPhiPlus); got != 0 {
		t.Errorf("empty fidelity = %v", got)
	}

	corr := Correlation(map[string]int{"11": 3})
	if len(corr) != 4 || corr["11"] != 3 || corr["00"] != 0 {
		t.Errorf("Correlation = %v", corr)
	}
}

func TestCreatePairIdeal(t *testing.T) {
	g := newGenerator(t)
	for _, state := range States() {
		p, err := g.CreatePair(context.Background(), state, 512, "")
		if err != nil {
			t.Fatalf("CreatePair(%s): %v", state, err)
		}
		if p.Fidelity != 1 || !p.Entangled {
			t.Errorf("%s: fidelity %v on a noiseless backend, counts %v", state, p.Fidelity, p.Counts)
		}
		if p.Backend != simulator.DefaultBackendName || p.Provider != string(provider.TypeSimulator) {
			t.Errorf("%s: ran on %s/%s", state, p.Provider, p.Backend)
		}
		if p.JobID == "" || p.Shots != 512 {
			t.Errorf("%s: job %q shots %d", state, p.JobID, p.Shots)
		}
	}

	s := g.Stats()
	if s.TotalPairs != 4 || s.Entangled != 4 || s.SuccessRate != 1 || s.MinFidelity != 1 || s.MaxFidelity != 1 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestCreatePairNoisy(t *testing.T) {
	g := newGenerator(t, simulator.WithReadoutError(0.1))
	pairs, err := g.CreatePairs(context.Background(), 3, entanglement.BellPhiPlus, 4096, simulator.DefaultBackendName)
	if err != nil {
		t.Fatalf("CreatePairs: %v", err)
	}
	if len(pairs) != 3 {
		t.Fatalf("got %d pairs", len(pairs))
	}
	for _, p := range pairs {
		// Two independent 10% flips keep parity with probability 0.82.
		if p.Fidelity < 0.75 || p.Fidelity > 0.89 || !p.Entangled {
			t.Errorf("noisy fidelity = %v", p.Fidelity)
		}
	}
	s := g.Stats()
	if s.MinFidelity > s.AverageFidelity || s.AverageFidelity > s.MaxFidelity {
		t.Errorf("inconsistent stats %+v", s)
	}
}

func TestCreatePairErrors(t *testing.T) {
	g := newGenerator(t)
	ctx := context.Background()

	if _, err := g.CreatePair(ctx, entanglement.BellPhiPlus, 0, ""); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("zero shots = %v", err)
	}
	if _, err := g.CreatePair(ctx, entanglement.BellPhiPlus, provider.MaxShots+1, ""); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("too many shots = %v", err)
	}
	if _, err := g.CreatePair(ctx, "w_state", 10, ""); !errs.Is(err, errs.ErrCodeInvalidBellState) {
		t.Errorf("bad state = %v", err)
	}
	if _, err := g.CreatePair(ctx, entanglement.BellPhiPlus, 10, "ibm_fez"); !errs.Is(err, errs.ErrCodeBackendNotFound) {
		t.Errorf("unknown backend = %v", err)
	}
	if n := g.Stats().TotalPairs; n != 0 {
		t.Errorf("failed pairs were recorded: %d", n)
	}

	if _, err := NewGenerator(nil); !errs.Is(err, errs.ErrCodeProviderUnavailable) {
		t.Errorf("NewGenerator(nil) = %v", err)
	}
}

func TestCreatePairNoBackend(t *testing.T) {
	offline := simulator.DefaultBackend()
	offline.Status = provider.StatusOffline
	g := newGenerator(t, simulator.WithBackends(offline))

	if _, err := g.CreatePair(context.Background(), entanglement.BellPhiPlus, 10, ""); !errs.Is(err, errs.ErrCodeBackendUnavailable) {
		t.Errorf("CreatePair = %v, want BACKEND_UNAVAILABLE", err)
	}
}

type failingInit struct {
	provider.Provider
}

func (failingInit) Name() string { return "broken" }
func (failingInit) Initialize(context.Context) error {
	return errs.New(errs.ErrCodeNetwork, "unreachable")
}
func (failingInit) RunCircuit(context.Context, *circuit.Circuit, string, int) provider.JobResult {
	panic("RunCircuit called before a successful Initialize")
}

func TestCreatePairInitFailure(t *testing.T) {
	g, err := NewGenerator(failingInit{}, WithLogger(log.New(io.Discard)))
	if err != nil {
		t.Fatal(err)
	}
	_, err = g.CreatePair(context.Background(), entanglement.BellPhiPlus, 10, "x")
	if !errs.Is(err, errs.ErrCodeProviderUnavailable) {
		t.Errorf("CreatePair = %v, want PROVIDER_UNAVAILABLE", err)
	}
}
