package ghz

import (
	errs "github.com/Luxbin-labs/luxbin-chain/pkg/errors"
)

// Quality grades a distributed run.
type Quality string

const (
	QualityHigh     Quality = "high"
	QualityModerate Quality = "moderate"
	QualityLow      Quality = "low"
)

// Correlation compares the outcome sets of two backends.
type Correlation struct {
	BackendA     string  `json:"backend_a"`
	BackendB     string  `json:"backend_b"`
	CommonStates int     `json:"common_states"`
	Correlation  float64 `json:"correlation"`
}

// Analysis summarizes GHZ states prepared on several backends.
type Analysis struct {
	Backends            int           `json:"num_backends"`
	TotalQubits         int           `json:"total_qubits"`
	AverageFidelity     float64       `json:"average_fidelity"`
	AverageEntanglement float64       `json:"average_entanglement"`
	Correlations        []Correlation `json:"correlations"`
	Quality             Quality       `json:"network_quality"`
}

// Analyze compares every pair of states. The correlation of a pair is the
// number of outcomes both observed divided by the smaller outcome set; pairs
// with nothing in common are left out. Quality is graded on the average GHZ
// fidelity: above 0.7 is high, above 0.4 moderate.
func Analyze(states []State) (Analysis, error) {
	if len(states) < 2 {
		return Analysis{}, errs.New(errs.ErrCodeInvalidInput, "distributed analysis needs at least 2 states, got %d", len(states))
	}

	a := Analysis{Backends: len(states), Correlations: []Correlation{}}
	for i, s := range states {
		a.TotalQubits += s.Qubits
		a.AverageFidelity += s.Fidelity
		a.AverageEntanglement += s.EntanglementMeasure

		for _, t := range states[i+1:] {
			common := 0
			for k := range s.Counts {
				if _, ok := t.Counts[k]; ok {
					common++
				}
			}
			if common == 0 {
				continue
			}
			a.Correlations = append(a.Correlations, Correlation{
				BackendA:     s.Backend,
				BackendB:     t.Backend,
				CommonStates: common,
				Correlation:  float64(common) / float64(min(len(s.Counts), len(t.Counts))),
			})
		}
	}
	a.AverageFidelity /= float64(len(states))
	a.AverageEntanglement /= float64(len(states))

	switch {
	case a.AverageFidelity > 0.7:
		a.Quality = QualityHigh
	case a.AverageFidelity > 0.4:
		a.Quality = QualityModerate
	default:
		a.Quality = QualityLow
	}
	return a, nil
}
