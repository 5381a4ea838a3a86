package memory

import "math"

// shortTermMaxAge is the hard age cutoff for short-term retention,
// in simulation time units.
const shortTermMaxAge = 5.0

// promotionThreshold is the importance above which a short-term memory
// is copied into long-term storage.
const promotionThreshold = 0.7

// DecayPolicy controls how memories fade. Important and emotional memories
// survive longer; short-term decay is a hard age cutoff, long-term decay is
// a probabilistic survival sweep.
type DecayPolicy struct {
	BaseRate         float64 `json:"base_rate"`
	EmotionalFactor  float64 `json:"emotional_factor"`
	ImportanceFactor float64 `json:"importance_factor"`
}

// DefaultDecayPolicy returns the standard decay tuning.
func DefaultDecayPolicy() DecayPolicy {
	return DecayPolicy{
		BaseRate:         0.1,
		EmotionalFactor:  0.2,
		ImportanceFactor: 0.3,
	}
}

// InitialRate computes the decay rate stamped on a new memory.
// Higher importance means slower decay.
func (p DecayPolicy) InitialRate(importance float64) float64 {
	return p.BaseRate * (1 - importance*p.ImportanceFactor)
}

// Rate computes the effective long-term decay rate for a memory.
func (p DecayPolicy) Rate(importance, emotionalValue float64) float64 {
	return p.BaseRate +
		(1-abs(emotionalValue))*p.EmotionalFactor +
		(1-importance)*p.ImportanceFactor
}

// SurvivalProbability is the chance that a memory of the given decay rate
// survives a sweep at the given age. Pure so tests can check expected
// lifetimes without randomness.
func SurvivalProbability(decayRate, age float64) float64 {
	return math.Exp(-decayRate * age)
}
