package entanglement

// State is a step of the protocol state machine.
type State uint8

const (
	StateInitializing State = iota
	StateSpinPrepared
	StatePhotonInjected
	StateRoutingComplete
	StateHeralded
	StateEntangled
	StateFailed
)

var stateNames = [...]string{
	StateInitializing:    "INITIALIZING",
	StateSpinPrepared:    "SPIN_PREPARED",
	StatePhotonInjected:  "PHOTON_INJECTED",
	StateRoutingComplete: "ROUTING_COMPLETE",
	StateHeralded:        "HERALDED",
	StateEntangled:       "ENTANGLED",
	StateFailed:          "FAILED",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "UNKNOWN"
}

// Terminal reports whether no further transitions follow s.
func (s State) Terminal() bool {
	return s == StateEntangled || s == StateFailed
}
