package entanglement

import (
	"github.com/charmbracelet/log"

	"github.com/Luxbin-labs/luxbin-chain/pkg/core/provider"
	"github.com/Luxbin-labs/luxbin-chain/pkg/observability"
)

// Option configures a Protocol.
type Option func(*Protocol)

// WithSource sets the randomness of the physics model.
func WithSource(s Source) Option {
	return func(p *Protocol) { p.src = s }
}

// WithClock sets the time source used for photon timestamps and coherence.
func WithClock(c Clock) Option {
	return func(p *Protocol) { p.clock = c }
}

// WithSleeper sets how simulated delays are spent.
func WithSleeper(s Sleeper) Option {
	return func(p *Protocol) { p.sleep = s }
}

// WithTimings overrides the simulated step durations.
func WithTimings(t Timings) Option {
	return func(p *Protocol) { p.timings = t }
}

// WithEmissionJitter sets the standard deviation, in nanoseconds, of the
// emission time of each photon around the shared trigger. Zero disables it.
func WithEmissionJitter(sigmaNS float64) Option {
	return func(p *Protocol) { p.jitterNS = sigmaNS }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Protocol) { p.Logger = l }
}

// WithHooks overrides the globally registered protocol hooks.
func WithHooks(h observability.ProtocolHooks) Option {
	return func(p *Protocol) { p.hooks = h }
}

// WithRecorder persists every completed session.
func WithRecorder(r Recorder) Option {
	return func(p *Protocol) { p.recorder = r }
}

// WithProvider submits the step-2 decoupling circuits to backend for
// telemetry. Job outcomes are logged and never affect the session.
func WithProvider(prov provider.Provider, backend string, shots int) Option {
	return func(p *Protocol) {
		p.telemetry = &telemetry{provider: prov, backend: backend, shots: shots}
	}
}
