package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Luxbin-labs/luxbin-chain/pkg/core/bell"
	"github.com/Luxbin-labs/luxbin-chain/pkg/core/entanglement"
	"github.com/Luxbin-labs/luxbin-chain/pkg/core/ghz"
	"github.com/Luxbin-labs/luxbin-chain/pkg/core/teleport"
	errs "github.com/Luxbin-labs/luxbin-chain/pkg/errors"
	"github.com/Luxbin-labs/luxbin-chain/pkg/render/topology"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"protocol": entanglement.ProtocolVersion,
	})
}

// SessionRequest is the body of POST /v1/sessions.
type SessionRequest struct {
	NodeA  string   `json:"node_a"`
	NodeB  string   `json:"node_b"`
	Extend []string `json:"extend,omitempty"`
}

// SessionResponse is returned by POST /v1/sessions. Extensions are only
// attempted when the session succeeds.
type SessionResponse struct {
	Session    entanglement.Result   `json:"session"`
	Extensions []entanglement.Result `json:"extensions,omitempty"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	// Empty IDs get generated names.
	a := entanglement.NewNode(req.NodeA, s.nodeOpts...)
	b := entanglement.NewNode(req.NodeB, s.nodeOpts...)
	hops := make([]*entanglement.Node, len(req.Extend))
	for i, id := range req.Extend {
		hops[i] = entanglement.NewNode(id, s.nodeOpts...)
		if err := hops[i].Validate(); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	ctx := r.Context()
	result, err := s.proto.CreateEntanglement(ctx, a, b)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := SessionResponse{Session: result}

	if result.Success && len(hops) > 0 {
		chain, err := s.proto.ExtendNetwork(ctx, result, hops)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.Extensions = chain[1:]
		for _, hop := range resp.Extensions {
			if err := s.store.Record(ctx, hop); err != nil {
				s.Logger.Warn("extension not persisted", "session", result.ID, "hop", hop.Metadata.Hop, "error", err)
			}
		}
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "limit must be a non-negative integer, got %q", raw))
			return
		}
		limit = n
	}
	results, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if results == nil {
		results = []entanglement.Result{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	result, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleTopology renders a session and the hops extended from it.
func (s *Server) handleTopology(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	root, err := s.store.Get(ctx, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	all, err := s.store.List(ctx, 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	chain := []entanglement.Result{root}
	for _, res := range all {
		if res.Metadata.Extended && res.Metadata.ExtendedFrom == id {
			chain = append(chain, res)
		}
	}

	svg, err := topology.RenderSVG(ctx, topology.ToDOT(chain, topology.Options{Detailed: true}))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("source") == "store" {
		results, err := s.store.List(r.Context(), 0)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, entanglement.Summarize(results))
		return
	}
	writeJSON(w, http.StatusOK, s.proto.Stats())
}

func (s *Server) handleBackends(w http.ResponseWriter, r *http.Request) {
	backends, err := s.prov.Backends(r.Context())
	if err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeProviderUnavailable, err, "list backends"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"provider": s.prov.Name(),
		"type":     s.prov.Type(),
		"backends": backends,
	})
}

// Per-request limits on circuit work.
const (
	maxBellPairs   = 100
	maxShots       = 100_000
	maxGHZBackends = 16
)

// shotsFor applies the server default and the per-request cap.
func (s *Server) shotsFor(requested int) (int, error) {
	if requested == 0 {
		return s.shots, nil
	}
	if requested < 1 || requested > maxShots {
		return 0, errs.New(errs.ErrCodeInvalidInput, "shots must be in [1, %d], got %d", maxShots, requested)
	}
	return requested, nil
}

// BellRequest is the body of POST /v1/bell.
type BellRequest struct {
	State   string `json:"state"`
	Shots   int    `json:"shots,omitempty"`
	Backend string `json:"backend,omitempty"`
	Count   int    `json:"count,omitempty"`
}

func (s *Server) handleBell(w http.ResponseWriter, r *http.Request) {
	req := BellRequest{State: string(entanglement.BellPhiPlus)}
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	state, err := bell.ParseState(req.State)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Shots, err = s.shotsFor(req.Shots); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Count == 0 {
		req.Count = 1
	}
	if req.Count < 1 || req.Count > maxBellPairs {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "count must be in [1, %d], got %d", maxBellPairs, req.Count))
		return
	}
	pairs, err := s.bell.CreatePairs(r.Context(), req.Count, state, req.Shots, req.Backend)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"pairs": pairs,
		"stats": s.bell.Stats(),
	})
}

// GHZRequest is the body of POST /v1/ghz. More than one backend runs a
// distributed preparation and adds an analysis to the response.
type GHZRequest struct {
	Qubits      int       `json:"num_qubits,omitempty"`
	Shots       int       `json:"shots,omitempty"`
	Backends    []string  `json:"backends,omitempty"`
	Wavelengths []float64 `json:"wavelengths,omitempty"`
}

// GHZResponse is returned by POST /v1/ghz.
type GHZResponse struct {
	States   []ghz.State   `json:"states"`
	Analysis *ghz.Analysis `json:"analysis,omitempty"`
}

func (s *Server) handleGHZ(w http.ResponseWriter, r *http.Request) {
	req := GHZRequest{Qubits: ghz.DefaultQubits}
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	shots, err := s.shotsFor(req.Shots)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Backends) > maxGHZBackends {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "at most %d backends per request, got %d", maxGHZBackends, len(req.Backends)))
		return
	}
	if len(req.Backends) > 1 && len(req.Wavelengths) > 0 {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "wavelengths apply to a single backend"))
		return
	}

	ctx := r.Context()
	if len(req.Backends) > 1 {
		states, err := s.ghz.CreateDistributed(ctx, req.Backends, req.Qubits, shots)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		a, err := ghz.Analyze(states)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, GHZResponse{States: states, Analysis: &a})
		return
	}

	backend := ""
	if len(req.Backends) == 1 {
		backend = req.Backends[0]
	}
	var st ghz.State
	if len(req.Wavelengths) > 0 {
		st, err = s.ghz.CreateEncodedState(ctx, req.Qubits, req.Wavelengths, shots, backend)
	} else {
		st, err = s.ghz.CreateState(ctx, req.Qubits, shots, backend)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, GHZResponse{States: []ghz.State{st}})
}

// TeleportRequest is the body of POST /v1/teleport.
type TeleportRequest struct {
	State   string `json:"state"`
	Shots   int    `json:"shots,omitempty"`
	Backend string `json:"backend,omitempty"`
}

func (s *Server) handleTeleport(w http.ResponseWriter, r *http.Request) {
	req := TeleportRequest{State: string(teleport.StatePlus)}
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	state, err := teleport.ParseState(req.State)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	shots, err := s.shotsFor(req.Shots)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.teleport.Teleport(r.Context(), state, shots, req.Backend)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
