package entanglement

import (
	"math"
	"math/cmplx"
	"time"
)

// Photon parameters at the zero-phonon line.
const (
	TimeBinSeparation = 12 * time.Nanosecond
	CoherenceWindow   = 100 * time.Nanosecond
)

// PhotonState is the spin-photon state α|0>|early> + β|1>|late> emitted
// during photon injection. It is a value object; create it with NewPhotonState.
type PhotonState struct {
	alpha, beta complex128

	Wavelength        float64 // nm
	TimeBinSeparation time.Duration
	CoherenceWindow   time.Duration
	CreatedAt         time.Time
}

// NewPhotonState creates the balanced state (1/√2, 1/√2).
func NewPhotonState(wavelength float64, createdAt time.Time) PhotonState {
	amp := complex(1/math.Sqrt2, 0)
	return PhotonState{
		alpha:             amp,
		beta:              amp,
		Wavelength:        wavelength,
		TimeBinSeparation: TimeBinSeparation,
		CoherenceWindow:   CoherenceWindow,
		CreatedAt:         createdAt,
	}
}

// Alpha returns the early time-bin amplitude.
func (p PhotonState) Alpha() complex128 { return p.alpha }

// Beta returns the late time-bin amplitude.
func (p PhotonState) Beta() complex128 { return p.beta }

// FidelityEstimate returns |α|² + |β|², 1.0 for a normalized state.
// It is a sanity check, not the protocol fidelity.
func (p PhotonState) FidelityEstimate() float64 {
	a, b := cmplx.Abs(p.alpha), cmplx.Abs(p.beta)
	return a*a + b*b
}
