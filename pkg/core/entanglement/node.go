package entanglement

import (
	"strings"
	"time"

	"github.com/google/uuid"

	errs "github.com/Luxbin-labs/luxbin-chain/pkg/errors"
)

// Defaults for an NV center in diamond.
const (
	DefaultWavelength     = 637.0 // zero-phonon line, nm
	DefaultPumpWavelength = 532.0 // green pump laser, nm
	DefaultT1             = 6 * time.Millisecond
	DefaultT2             = 1 * time.Millisecond
)

// SpinState labels the logical electron-spin state of a node.
type SpinState string

const (
	SpinGround        SpinState = "|0>"
	SpinSuperposition SpinState = "(|0> + |1>)/sqrt(2)"
)

// Node is one participant's physical qubit resource.
//
// The protocol mutates a node in place. Ownership stays with the caller across
// sessions; a node must not be used by two sessions at the same time.
type Node struct {
	ID             string
	Wavelength     float64       // nm
	PumpWavelength float64       // nm
	T1             time.Duration // relaxation time
	T2             time.Duration // dephasing time; the hard coherence budget

	SpinState   SpinState
	Initialized bool
	LastPulse   time.Time
}

// NodeOption customizes a Node.
type NodeOption func(*Node)

// WithWavelength sets the emission wavelength in nm.
func WithWavelength(nm float64) NodeOption { return func(n *Node) { n.Wavelength = nm } }

// WithPumpWavelength sets the pump wavelength in nm.
func WithPumpWavelength(nm float64) NodeOption { return func(n *Node) { n.PumpWavelength = nm } }

// WithCoherence sets T1 and T2.
func WithCoherence(t1, t2 time.Duration) NodeOption {
	return func(n *Node) {
		n.T1 = t1
		n.T2 = t2
	}
}

// NewNode creates a node with NV-center defaults. An empty id is replaced by
// a generated "nv_" identifier.
func NewNode(id string, opts ...NodeOption) *Node {
	if id == "" {
		id = "nv_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}
	n := &Node{
		ID:             id,
		Wavelength:     DefaultWavelength,
		PumpWavelength: DefaultPumpWavelength,
		T1:             DefaultT1,
		T2:             DefaultT2,
		SpinState:      SpinGround,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Validate reports whether the node can take part in a session.
// T2 <= T1 is expected but not enforced.
func (n *Node) Validate() error {
	if n == nil {
		return errs.New(errs.ErrCodeInvalidNode, "nil node")
	}
	if err := errs.ValidateIdentifier("node", n.ID); err != nil {
		return err
	}
	if n.T2 <= 0 {
		return errs.New(errs.ErrCodeInvalidNode, "node %s: T2 must be positive, got %s", n.ID, n.T2)
	}
	if n.Wavelength <= 0 {
		return errs.New(errs.ErrCodeInvalidNode, "node %s: wavelength must be positive", n.ID)
	}
	return nil
}
