package entanglement

import (
	"time"

	errs "github.com/Luxbin-labs/luxbin-chain/pkg/errors"
)

// Config holds the protocol parameters fixed at construction.
type Config struct {
	TargetFidelity float64    // (0, 1]; reported, does not change heralding odds
	MaxRetries     int        // attempts per session, >= 1
	DDSequence     DDSequence // decoupling sequence used in step 2
	DDPulses       int        // π-pulses per decoupling circuit, >= 1
	Wavelength     float64    // emission wavelength of injected photons, nm
}

// DefaultConfig returns the reference parameters.
func DefaultConfig() Config {
	return Config{
		TargetFidelity: 0.9,
		MaxRetries:     10,
		DDSequence:     XY8,
		DDPulses:       8,
		Wavelength:     DefaultWavelength,
	}
}

// Validate rejects misconfiguration instead of defaulting it.
func (c Config) Validate() error {
	if err := errs.ValidateFidelity("target fidelity", c.TargetFidelity); err != nil {
		return err
	}
	if err := errs.ValidateMin("max retries", c.MaxRetries, 1); err != nil {
		return err
	}
	if !c.DDSequence.Valid() {
		return errs.New(errs.ErrCodeInvalidDDSequence,
			"dd sequence %q is not one of %v (use ParseDDSequence for case-insensitive input)",
			c.DDSequence, DDSequences())
	}
	if err := errs.ValidateMin("dd pulses", c.DDPulses, 1); err != nil {
		return err
	}
	return errs.ValidatePositive("wavelength", c.Wavelength)
}

// Timings are the simulated durations of the protocol steps.
type Timings struct {
	Pumping   time.Duration // step 1, optical pumping
	Emission  time.Duration // step 3, photon emission
	Routing   time.Duration // step 4, cavity/waveguide transit
	Heralding time.Duration // step 5, Hong-Ou-Mandel detection window
	Echo      time.Duration // step 6, refocusing pulse
}

// DefaultTimings returns the durations of the reference hardware.
func DefaultTimings() Timings {
	return Timings{
		Pumping:   time.Millisecond,
		Emission:  100 * time.Microsecond,
		Routing:   10 * time.Microsecond,
		Heralding: 10 * time.Microsecond,
		Echo:      100 * time.Microsecond,
	}
}
