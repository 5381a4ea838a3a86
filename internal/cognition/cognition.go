// Package cognition implements an agent's perception, bias, reasoning and
// decision subsystems, orchestrated behind a working memory with a
// cognitive load model.
package cognition

import (
	"sort"

	"go.uber.org/zap"
)

// workingMemoryCap bounds retained thoughts to the highest-confidence ten.
const workingMemoryCap = 10

// thoughtMaxAge is how long a thought stays in working memory, in
// simulation time units.
const thoughtMaxAge = 100.0

// Source tags where a thought came from.
type Source string

const (
	SourcePerception Source = "perception"
	SourceMemory     Source = "memory"
	SourceReasoning  Source = "reasoning"
	SourceIntuition  Source = "intuition"
	SourceExternal   Source = "external"
)

// Thought is an ephemeral working-memory entry.
type Thought struct {
	Content    string  `json:"content"`
	Source     Source  `json:"source"`
	Confidence float64 `json:"confidence"`
	Timestamp  float64 `json:"timestamp"`
}

// State is a point-in-time report of the cognitive system.
type State struct {
	Load                float64 `json:"load"`
	ActiveThoughts      int     `json:"active_thoughts"`
	DominantBias        string  `json:"dominant_bias"`
	PerceptionClarity   float64 `json:"perception_clarity"`
	ReasoningConfidence float64 `json:"reasoning_confidence"`
}

// System chains Perception → Bias → Reasoning → Decision and owns
// working memory and cognitive load. One System per agent.
type System struct {
	Perception *Perception    `json:"perception"`
	Bias       *BiasSystem    `json:"bias"`
	Reasoning  *Reasoning     `json:"reasoning"`
	Decisions  *DecisionMaker `json:"decisions"`

	WorkingMemory []Thought `json:"working_memory"`
	Load          float64   `json:"load"`

	logger *zap.Logger
}

// NewSystem creates a cognition system with empty subsystems.
func NewSystem(logger *zap.Logger) *System {
	return &System{
		Perception: NewPerception(),
		Bias:       NewBiasSystem(),
		Reasoning:  NewReasoning(),
		Decisions:  NewDecisionMaker(),
		logger:     logger,
	}
}

// Rebind reattaches runtime dependencies after a snapshot restore.
func (s *System) Rebind(logger *zap.Logger) {
	s.logger = logger
}

// Tick advances every subsystem, prunes working memory, and eases
// cognitive load toward its target.
func (s *System) Tick(now, dt float64) {
	s.Perception.Tick(now, dt)
	s.Reasoning.Tick(now, dt)
	s.Decisions.Tick(now, dt)

	s.pruneWorkingMemory(now)
	s.updateLoad(dt)
}

// ProcessInput runs raw input through perception, bias and reasoning,
// producing a thought held in working memory.
func (s *System) ProcessInput(now float64, input string, source Source) Thought {
	perceived := s.Perception.Process(now, input)
	biased := s.Bias.Apply(perceived)
	conclusion := s.Reasoning.Analyze(now, biased)

	thought := Thought{
		Content:    conclusion,
		Source:     source,
		Confidence: s.thoughtConfidence(),
		Timestamp:  now,
	}
	s.WorkingMemory = append(s.WorkingMemory, thought)

	s.logger.Debug("processed input",
		zap.String("source", string(source)),
		zap.Float64("confidence", thought.Confidence))
	return thought
}

// MakeDecision chains bias distortion of the context, reasoning over each
// option, then strategy-weighted choice.
func (s *System) MakeDecision(now float64, options []string, ctx map[string]float64) string {
	if len(options) == 0 {
		return ""
	}

	biased := s.Bias.InfluenceContext(ctx)

	// Reasoned evaluations land in working memory as intuitions feeding
	// later recall; the choice itself is the decision maker's.
	bestReasoned := options[0]
	bestScore := -1.0
	for _, opt := range options {
		if score := s.Reasoning.EvaluateOption(opt, biased); score > bestScore {
			bestScore = score
			bestReasoned = opt
		}
	}
	s.WorkingMemory = append(s.WorkingMemory, Thought{
		Content:    "leaning toward " + bestReasoned,
		Source:     SourceReasoning,
		Confidence: bestScore,
		Timestamp:  now,
	})

	chosen := s.Decisions.Decide(now, options, biased)
	s.logger.Debug("decision made",
		zap.String("chosen", chosen),
		zap.String("strategy", string(s.Decisions.CurrentStrategy)))
	return chosen
}

// RecordOutcome reports how the latest decision turned out.
func (s *System) RecordOutcome(outcome Outcome) {
	s.Decisions.RecordOutcome(outcome)
}

// CognitiveState reports load, thought count and subsystem signals.
func (s *System) CognitiveState() State {
	return State{
		Load:                s.Load,
		ActiveThoughts:      len(s.WorkingMemory),
		DominantBias:        s.Bias.Dominant(),
		PerceptionClarity:   s.Perception.Clarity,
		ReasoningConfidence: s.Reasoning.Confidence,
	}
}

// pruneWorkingMemory drops aged thoughts and keeps only the
// highest-confidence entries up to the cap.
func (s *System) pruneWorkingMemory(now float64) {
	kept := s.WorkingMemory[:0]
	for _, t := range s.WorkingMemory {
		if now-t.Timestamp < thoughtMaxAge {
			kept = append(kept, t)
		}
	}
	s.WorkingMemory = kept

	sort.SliceStable(s.WorkingMemory, func(i, j int) bool {
		return s.WorkingMemory[i].Confidence > s.WorkingMemory[j].Confidence
	})
	if len(s.WorkingMemory) > workingMemoryCap {
		s.WorkingMemory = s.WorkingMemory[:workingMemoryCap]
	}
}

// updateLoad eases toward working-memory load plus subsystem loads.
func (s *System) updateLoad(dt float64) {
	memoryLoad := float64(len(s.WorkingMemory)) * 0.1
	processLoad := s.Perception.loadEstimate() + s.Reasoning.Load + s.Decisions.Load
	target := clamp(memoryLoad+processLoad, 0, 1)
	s.Load += (target - s.Load) * clamp(dt, 0, 1)
}

// thoughtConfidence discounts a 0.5 base by load and bias influence.
func (s *System) thoughtConfidence() float64 {
	base := 0.5
	loadFactor := 1 - s.Load
	biasFactor := 1 - s.Bias.TotalInfluence()
	return clamp(base*loadFactor*biasFactor, 0, 1)
}

// loadEstimate derives perception load from pending sensory inputs.
func (p *Perception) loadEstimate() float64 {
	return clamp(float64(len(p.SensoryInputs))*0.05, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
