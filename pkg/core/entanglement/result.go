package entanglement

import "time"

// ProtocolVersion tags every result produced by this package.
const ProtocolVersion = "LUXBIN-EIP-001"

// BellState labels a maximally entangled two-qubit state.
type BellState string

const (
	BellNone     BellState = ""
	BellPhiPlus  BellState = "phi_plus"
	BellPhiMinus BellState = "phi_minus"
	BellPsiPlus  BellState = "psi_plus"
	BellPsiMinus BellState = "psi_minus"
)

// Result is the outcome of one session, or of one hop of an extension.
// Results are values; the history hands out copies.
type Result struct {
	ID              string        `json:"id" bson:"_id"`
	Success         bool          `json:"success" bson:"success"`
	Fidelity        float64       `json:"fidelity" bson:"fidelity"`
	BellState       BellState     `json:"bell_state" bson:"bell_state"`
	NodeA           string        `json:"node_a" bson:"node_a"`
	NodeB           string        `json:"node_b" bson:"node_b"`
	HeraldingSignal bool          `json:"heralding_signal" bson:"heralding_signal"`
	Attempts        int           `json:"attempts" bson:"attempts"`
	TotalTime       time.Duration `json:"total_time_ns" bson:"total_time_ns"`
	ProtocolVersion string        `json:"protocol_version" bson:"protocol_version"`
	Metadata        Metadata      `json:"metadata" bson:"metadata"`
}

// TotalTimeMS returns the elapsed time in milliseconds.
func (r Result) TotalTimeMS() float64 {
	return float64(r.TotalTime) / float64(time.Millisecond)
}

// Metadata records how a result was produced.
type Metadata struct {
	DDSequence     DDSequence `json:"dd_sequence,omitempty" bson:"dd_sequence,omitempty"`
	DDPulses       int        `json:"dd_pulses,omitempty" bson:"dd_pulses,omitempty"`
	TargetFidelity float64    `json:"target_fidelity,omitempty" bson:"target_fidelity,omitempty"`
	Timestamp      time.Time  `json:"timestamp" bson:"timestamp"`

	// Set on results produced by ExtendNetwork.
	Extended     bool   `json:"extended,omitempty" bson:"extended,omitempty"`
	Hop          int    `json:"hop,omitempty" bson:"hop,omitempty"`
	ExtendedFrom string `json:"extended_from,omitempty" bson:"extended_from,omitempty"`
}
