package entanglement

import "slices"

// Stats summarizes the sessions run by a Protocol.
type Stats struct {
	TotalAttempts           int     `json:"total_attempts"`
	SuccessfulEntanglements int     `json:"successful_entanglements"`
	SuccessRate             float64 `json:"success_rate"`     // successes per attempt
	AverageFidelity         float64 `json:"average_fidelity"` // over successful sessions
	// AverageAttempts averages attempts over all sessions, successful or not.
	// The JSON key keeps its historical name.
	AverageAttempts float64    `json:"average_attempts_per_success"`
	DDSequence      DDSequence `json:"dd_sequence"`
	TargetFidelity  float64    `json:"target_fidelity"`
}

// Stats returns the running summary. It has no side effects.
func (p *Protocol) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := summarize(p.history)
	s.TotalAttempts = p.totalAttempts
	s.SuccessfulEntanglements = p.successes
	if p.totalAttempts > 0 {
		s.SuccessRate = float64(p.successes) / float64(p.totalAttempts)
	}
	s.DDSequence = p.cfg.DDSequence
	s.TargetFidelity = p.cfg.TargetFidelity
	return s
}

// History returns a copy of the recorded sessions, oldest first.
func (p *Protocol) History() []Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.history)
}

// Summarize computes Stats over persisted results, for example a store
// listing. Extension hops are skipped. DDSequence and TargetFidelity are
// taken from the most recent session.
func Summarize(results []Result) Stats {
	sessions := make([]Result, 0, len(results))
	for _, r := range results {
		if !r.Metadata.Extended {
			sessions = append(sessions, r)
		}
	}
	s := summarize(sessions)
	for _, r := range sessions {
		s.TotalAttempts += r.Attempts
		if r.Success {
			s.SuccessfulEntanglements++
		}
	}
	if s.TotalAttempts > 0 {
		s.SuccessRate = float64(s.SuccessfulEntanglements) / float64(s.TotalAttempts)
	}
	if n := len(sessions); n > 0 {
		s.DDSequence = sessions[n-1].Metadata.DDSequence
		s.TargetFidelity = sessions[n-1].Metadata.TargetFidelity
	}
	return s
}

func summarize(history []Result) Stats {
	var (
		s          Stats
		fidelities float64
		successes  int
		attempts   int
	)
	for _, r := range history {
		attempts += r.Attempts
		if r.Success {
			fidelities += r.Fidelity
			successes++
		}
	}
	if successes > 0 {
		s.AverageFidelity = fidelities / float64(successes)
	}
	if len(history) > 0 {
		s.AverageAttempts = float64(attempts) / float64(len(history))
	}
	return s
}
