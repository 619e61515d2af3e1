package entanglement

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	errs "github.com/Luxbin-labs/luxbin-chain/pkg/errors"
	"github.com/Luxbin-labs/luxbin-chain/pkg/observability"
)

// DefaultEmissionJitterNS is the default spread of photon emission times.
const DefaultEmissionJitterNS = 0.3

// Fidelity model.
const (
	baseFidelity          = 0.95
	decoherencePerAttempt = 0.99
	fidelityNoise         = 0.02
	minFidelity           = 0.5
	maxFidelity           = 1.0
)

// Recorder persists completed sessions.
type Recorder interface {
	Record(ctx context.Context, r Result) error
}

// Protocol runs entanglement sessions. Create it with [NewProtocol]; a single
// Protocol may serve concurrent sessions on disjoint node pairs.
type Protocol struct {
	cfg       Config
	src       Source
	clock     Clock
	sleep     Sleeper
	timings   Timings
	jitterNS  float64
	hooks     observability.ProtocolHooks
	recorder  Recorder
	telemetry *telemetry

	Logger *log.Logger

	mu            sync.Mutex
	history       []Result
	totalAttempts int
	successes     int
}

// NewProtocol validates cfg and builds a Protocol. Unset collaborators default
// to a time-seeded Source, the system clock, real sleeps, the registered
// observability hooks and log.Default.
func NewProtocol(cfg Config, opts ...Option) (*Protocol, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Protocol{
		cfg:      cfg,
		timings:  DefaultTimings(),
		jitterNS: DefaultEmissionJitterNS,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.src == nil {
		p.src = NewTimeSeededSource()
	}
	if p.clock == nil {
		p.clock = SystemClock()
	}
	if p.sleep == nil {
		p.sleep = Sleep
	}
	if p.hooks == nil {
		p.hooks = observability.Protocol()
	}
	if p.Logger == nil {
		p.Logger = log.Default()
	}
	if math.IsNaN(p.jitterNS) || p.jitterNS < 0 {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "emission jitter must be >= 0, got %v", p.jitterNS)
	}
	if t := p.telemetry; t != nil {
		if t.provider == nil {
			return nil, errs.New(errs.ErrCodeInvalidConfig, "telemetry provider is nil")
		}
		if err := errs.ValidateMin("telemetry shots", t.shots, 1); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Config returns the parameters the protocol was built with.
func (p *Protocol) Config() Config { return p.cfg }

// CreateEntanglement runs one session between a and b.
//
// Transient failures are retried up to Config.MaxRetries times and never
// surface as errors; an exhausted session returns Success == false. The error
// is non-nil only for invalid nodes or when ctx ends, in which case nothing is
// recorded.
func (p *Protocol) CreateEntanglement(ctx context.Context, a, b *Node) (Result, error) {
	if err := a.Validate(); err != nil {
		return Result{}, err
	}
	if err := b.Validate(); err != nil {
		return Result{}, err
	}
	if a == b || a.ID == b.ID {
		return Result{}, errs.New(errs.ErrCodeInvalidNode, "node %s cannot be entangled with itself", a.ID)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	session := uuid.NewString()
	start := p.clock.Now()
	logger := p.Logger.With("session", session[:8], "node_a", a.ID, "node_b", b.ID)
	p.hooks.OnSessionStart(ctx, session, a.ID, b.ID)
	logger.Debug("session started", "dd_sequence", p.cfg.DDSequence, "max_retries", p.cfg.MaxRetries)

	var (
		attempt  int
		success  bool
		bell     BellState
		fidelity float64
	)
	for attempt < p.cfg.MaxRetries && !success {
		attempt++
		out, err := p.runAttempt(ctx, session, attempt, a, b)
		if ctx.Err() != nil {
			logger.Debug("session canceled", "attempt", attempt)
			return Result{}, ctx.Err()
		}

		switch {
		case err != nil:
			logger.Warn("attempt fault", "attempt", attempt, "error", err)
			p.hooks.OnAttemptFailed(ctx, session, attempt, "fault")
		case !out.heralded:
			logger.Debug("attempt failed", "attempt", attempt, "reason", out.reason)
			p.hooks.OnAttemptFailed(ctx, session, attempt, out.reason)
		default:
			success, bell = true, out.bell
			fidelity = p.fidelity(attempt)
			p.hooks.OnStateChange(ctx, session, attempt, StateEntangled.String())
			continue
		}

		if err := p.pulseControlBoth(ctx, a, b); err != nil && ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
	}

	if !success {
		p.hooks.OnStateChange(ctx, session, attempt, StateFailed.String())
	}

	now := p.clock.Now()
	result := Result{
		ID:              session,
		Success:         success,
		Fidelity:        fidelity,
		BellState:       bell,
		NodeA:           a.ID,
		NodeB:           b.ID,
		HeraldingSignal: success,
		Attempts:        attempt,
		TotalTime:       now.Sub(start),
		ProtocolVersion: ProtocolVersion,
		Metadata: Metadata{
			DDSequence:     p.cfg.DDSequence,
			DDPulses:       p.cfg.DDPulses,
			TargetFidelity: p.cfg.TargetFidelity,
			Timestamp:      now,
		},
	}
	p.commit(result)

	if p.recorder != nil {
		if err := p.recorder.Record(ctx, result); err != nil {
			logger.Warn("session not persisted", "error", err)
		}
	}
	p.hooks.OnSessionEnd(ctx, session, success, attempt, fidelity, result.TotalTime)
	logger.Info("session finished", "success", success, "attempts", attempt, "fidelity", fidelity)
	return result, nil
}

type attemptOutcome struct {
	heralded bool
	bell     BellState
	reason   string
}

// runAttempt executes steps 1 to 5. Panics raised by collaborators are
// returned as errors.
func (p *Protocol) runAttempt(ctx context.Context, session string, attempt int, a, b *Node) (out attemptOutcome, err error) {
	defer recoverFault(&err, fmt.Sprintf("attempt %d", attempt))
	state := func(s State) { p.hooks.OnStateChange(ctx, session, attempt, s.String()) }

	state(StateInitializing)
	if err := p.forBoth(ctx, a, b, func(ctx context.Context, _ int, n *Node) error {
		return p.InitializeSpin(ctx, n)
	}); err != nil {
		return out, err
	}
	state(StateSpinPrepared)

	ca, cb := p.BuildDecouplingCircuits()
	p.submitTelemetry(ctx, session, attempt, ca, cb)

	var photons [2]PhotonState
	trigger := p.clock.Now()
	if err := p.forBoth(ctx, a, b, func(ctx context.Context, i int, n *Node) error {
		var err error
		photons[i], err = p.InjectPhoton(ctx, n, trigger)
		return err
	}); err != nil {
		return out, err
	}
	state(StatePhotonInjected)

	routed, err := p.Route(ctx, photons[0], photons[1])
	if err != nil {
		return out, err
	}
	if !routed {
		return attemptOutcome{reason: "routing"}, nil
	}
	state(StateRoutingComplete)

	heralded, bell, err := p.Herald(ctx, photons[0], photons[1])
	if err != nil {
		return out, err
	}
	if !heralded {
		return attemptOutcome{reason: "heralding"}, nil
	}
	state(StateHeralded)
	return attemptOutcome{heralded: true, bell: bell}, nil
}

func (p *Protocol) pulseControlBoth(ctx context.Context, a, b *Node) (err error) {
	defer recoverFault(&err, "pulse control")
	return p.forBoth(ctx, a, b, func(ctx context.Context, _ int, n *Node) error {
		return p.PulseControl(ctx, n)
	})
}

// forBoth runs step for both nodes concurrently and waits for both.
func (p *Protocol) forBoth(ctx context.Context, a, b *Node, step func(context.Context, int, *Node) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for i, n := range [2]*Node{a, b} {
		g.Go(func() (err error) {
			defer recoverFault(&err, "node "+n.ID)
			return step(gctx, i, n)
		})
	}
	return g.Wait()
}

func recoverFault(err *error, where string) {
	if r := recover(); r != nil {
		*err = errs.New(errs.ErrCodeInternal, "%s: %v", where, r)
	}
}

// fidelity applies the heuristic fidelity model to a heralded attempt.
func (p *Protocol) fidelity(attempt int) float64 {
	f := baseFidelity * math.Pow(decoherencePerAttempt, float64(attempt)) * p.cfg.DDSequence.Effectiveness()
	f += p.src.Gaussian(0, fidelityNoise)
	f = math.Max(minFidelity, math.Min(maxFidelity, f))
	return math.Round(f*1e4) / 1e4
}

func (p *Protocol) commit(r Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.history = append(p.history, r)
	p.totalAttempts += r.Attempts
	if r.Success {
		p.successes++
	}
}
