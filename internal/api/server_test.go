package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Luxbin-labs/luxbin-chain/pkg/core/entanglement"
	"github.com/Luxbin-labs/luxbin-chain/pkg/core/provider/simulator"
	errs "github.com/Luxbin-labs/luxbin-chain/pkg/errors"
	"github.com/Luxbin-labs/luxbin-chain/pkg/store"
)

// fixedSource heralds every attempt it is asked about, or none.
type fixedSource struct{ herald bool }

func (f fixedSource) Coincidence(float64) bool         { return f.herald }
func (f fixedSource) Gaussian(mean, _ float64) float64 { return mean }

func noSleep(context.Context, time.Duration) error { return nil }

func newTestServer(t *testing.T, herald bool) (*Server, *store.Memory) {
	t.Helper()
	quiet := log.New(io.Discard)
	mem := store.NewMemory()
	cfg := entanglement.DefaultConfig()
	cfg.MaxRetries = 3
	proto, err := entanglement.NewProtocol(cfg,
		entanglement.WithSource(fixedSource{herald: herald}),
		entanglement.WithSleeper(noSleep),
		entanglement.WithRecorder(mem),
		entanglement.WithLogger(quiet),
	)
	if err != nil {
		t.Fatal(err)
	}
	sim, err := simulator.New(simulator.WithSeed(5), simulator.WithLogger(quiet))
	if err != nil {
		t.Fatal(err)
	}
	srv, err := New(proto, mem, sim, WithLogger(quiet), WithDefaultShots(256))
	if err != nil {
		t.Fatal(err)
	}
	return srv, mem
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, true)
	w := do(t, srv.Handler(), http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeBody[map[string]string](t, w)
	if body["protocol"] != "LUXBIN-EIP-001" {
		t.Errorf("body = %v", body)
	}
}

func TestCreateSession(t *testing.T) {
	srv, mem := newTestServer(t, true)
	h := srv.Handler()

	w := do(t, h, http.MethodPost, "/v1/sessions", `{"node_a":"alice","node_b":"bob","extend":["carol","dave"]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	resp := decodeBody[SessionResponse](t, w)
	if !resp.Session.Success || resp.Session.NodeA != "alice" || resp.Session.Attempts != 1 {
		t.Errorf("session = %+v", resp.Session)
	}
	if len(resp.Extensions) != 2 || resp.Extensions[1].NodeA != "carol" || resp.Extensions[1].NodeB != "dave" {
		t.Errorf("extensions = %+v", resp.Extensions)
	}

	stored, _ := mem.List(context.Background(), 0)
	if len(stored) != 3 {
		t.Errorf("store holds %d results, want session plus two hops", len(stored))
	}

	w = do(t, h, http.MethodGet, "/v1/sessions/"+resp.Session.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	if got := decodeBody[entanglement.Result](t, w); got.ID != resp.Session.ID || got.Fidelity != resp.Session.Fidelity {
		t.Errorf("get = %+v", got)
	}
}

func TestCreateSessionFailedSkipsExtension(t *testing.T) {
	srv, _ := newTestServer(t, false)
	w := do(t, srv.Handler(), http.MethodPost, "/v1/sessions", `{"node_a":"a","node_b":"b","extend":["c"]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	resp := decodeBody[SessionResponse](t, w)
	if resp.Session.Success || resp.Session.Attempts != 3 || len(resp.Extensions) != 0 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestErrors(t *testing.T) {
	srv, _ := newTestServer(t, true)
	h := srv.Handler()

	tests := []struct {
		name, method, path, body string
		status                   int
		code                     errs.Code
	}{
		{"same node", http.MethodPost, "/v1/sessions", `{"node_a":"x","node_b":"x"}`, 400, errs.ErrCodeInvalidNode},
		{"bad hop", http.MethodPost, "/v1/sessions", `{"node_a":"x","node_b":"y","extend":["bad id"]}`, 400, errs.ErrCodeInvalidNode},
		{"bad json", http.MethodPost, "/v1/sessions", `{"node_a":`, 400, errs.ErrCodeInvalidInput},
		{"unknown field", http.MethodPost, "/v1/sessions", `{"alice":"bob"}`, 400, errs.ErrCodeInvalidInput},
		{"missing session", http.MethodGet, "/v1/sessions/nope", "", 404, errs.ErrCodeNotFound},
		{"bad limit", http.MethodGet, "/v1/sessions?limit=-1", "", 400, errs.ErrCodeInvalidInput},
		{"bad bell state", http.MethodPost, "/v1/bell", `{"state":"ghz"}`, 400, errs.ErrCodeInvalidBellState},
		{"unknown backend", http.MethodPost, "/v1/bell", `{"backend":"ibm_fez"}`, 404, errs.ErrCodeBackendNotFound},
		{"too many pairs", http.MethodPost, "/v1/bell", `{"count":1000}`, 400, errs.ErrCodeInvalidInput},
		{"too many shots", http.MethodPost, "/v1/bell", `{"shots":2000000000,"count":100}`, 400, errs.ErrCodeInvalidInput},
		{"negative shots", http.MethodPost, "/v1/teleport", `{"shots":-5}`, 400, errs.ErrCodeInvalidInput},
		{"ghz shots", http.MethodPost, "/v1/ghz", `{"shots":100001}`, 400, errs.ErrCodeInvalidInput},
		{"ghz one qubit", http.MethodPost, "/v1/ghz", `{"num_qubits":1}`, 400, errs.ErrCodeInvalidInput},
		{"ghz wavelengths on many backends", http.MethodPost, "/v1/ghz", `{"backends":["a","b"],"wavelengths":[637]}`, 400, errs.ErrCodeInvalidInput},
		{"bad teleport state", http.MethodPost, "/v1/teleport", `{"state":"psi"}`, 400, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, tt.body)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.status, w.Body)
			}
			if body := decodeBody[errorBody](t, w); body.Code != tt.code {
				t.Errorf("code = %s, want %s", body.Code, tt.code)
			}
		})
	}
}

func TestListSessionsAndStats(t *testing.T) {
	srv, _ := newTestServer(t, true)
	h := srv.Handler()

	w := do(t, h, http.MethodGet, "/v1/sessions", "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("empty list = %d %s", w.Code, w.Body)
	}

	for i := 0; i < 3; i++ {
		if w := do(t, h, http.MethodPost, "/v1/sessions", `{}`); w.Code != http.StatusCreated {
			t.Fatalf("create %d: %d %s", i, w.Code, w.Body)
		}
	}

	list := decodeBody[[]entanglement.Result](t, do(t, h, http.MethodGet, "/v1/sessions?limit=2", ""))
	if len(list) != 2 {
		t.Errorf("limit=2 returned %d", len(list))
	}

	engine := decodeBody[entanglement.Stats](t, do(t, h, http.MethodGet, "/v1/stats", ""))
	if engine.TotalAttempts != 3 || engine.SuccessfulEntanglements != 3 || engine.SuccessRate != 1 {
		t.Errorf("stats = %+v", engine)
	}
	stored := decodeBody[entanglement.Stats](t, do(t, h, http.MethodGet, "/v1/stats?source=store", ""))
	if stored != engine {
		t.Errorf("store stats %+v differ from engine %+v", stored, engine)
	}
}

func TestBackendsAndBell(t *testing.T) {
	srv, _ := newTestServer(t, true)
	h := srv.Handler()

	w := do(t, h, http.MethodGet, "/v1/backends", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), simulator.DefaultBackendName) {
		t.Errorf("backends = %d %s", w.Code, w.Body)
	}

	w = do(t, h, http.MethodPost, "/v1/bell", `{"state":"psi_minus","count":2}`)
	if w.Code != http.StatusOK {
		t.Fatalf("bell = %d %s", w.Code, w.Body)
	}
	var body struct {
		Pairs []struct {
			Fidelity  float64 `json:"fidelity"`
			Shots     int     `json:"shots"`
			Entangled bool    `json:"is_entangled"`
		} `json:"pairs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Pairs) != 2 || body.Pairs[0].Shots != 256 || !body.Pairs[0].Entangled {
		t.Errorf("pairs = %+v", body.Pairs)
	}
}

func TestGHZ(t *testing.T) {
	srv, _ := newTestServer(t, true)
	h := srv.Handler()

	w := do(t, h, http.MethodPost, "/v1/ghz", `{"num_qubits":3,"shots":128}`)
	if w.Code != http.StatusOK {
		t.Fatalf("ghz = %d %s", w.Code, w.Body)
	}
	resp := decodeBody[GHZResponse](t, w)
	if len(resp.States) != 1 || resp.Analysis != nil || resp.States[0].Fidelity != 1 || resp.States[0].Qubits != 3 {
		t.Errorf("single = %+v", resp)
	}

	backends := `["` + simulator.DefaultBackendName + `","` + simulator.DefaultBackendName + `"]`
	w = do(t, h, http.MethodPost, "/v1/ghz", `{"backends":`+backends+`}`)
	if w.Code != http.StatusOK {
		t.Fatalf("distributed ghz = %d %s", w.Code, w.Body)
	}
	resp = decodeBody[GHZResponse](t, w)
	if len(resp.States) != 2 || resp.Analysis == nil || resp.Analysis.TotalQubits != 10 || resp.States[0].Shots != 256 {
		t.Errorf("distributed = %+v", resp)
	}
}

func TestTeleport(t *testing.T) {
	srv, _ := newTestServer(t, true)
	w := do(t, srv.Handler(), http.MethodPost, "/v1/teleport", `{"state":"zero"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("teleport = %d %s", w.Code, w.Body)
	}
	var body struct {
		Fidelity float64        `json:"fidelity_estimate"`
		Received map[string]int `json:"teleported_measurement"`
		Shots    int            `json:"shots"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Fidelity != 1 || body.Received["0"] != 256 || body.Shots != 256 {
		t.Errorf("teleport = %+v", body)
	}
}

func TestTopology(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering in -short mode")
	}
	srv, _ := newTestServer(t, true)
	h := srv.Handler()

	resp := decodeBody[SessionResponse](t, do(t, h, http.MethodPost, "/v1/sessions", `{"node_a":"alice","node_b":"bob","extend":["carol"]}`))
	w := do(t, h, http.MethodGet, "/v1/sessions/"+resp.Session.ID+"/topology.svg", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %s", ct)
	}
	if !strings.Contains(w.Body.String(), "carol") {
		t.Error("topology is missing the extension hop")
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	if _, err := New(nil, store.NewMemory(), nil); !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("New = %v", err)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	srv, _ := newTestServer(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0", time.Second, time.Second) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
