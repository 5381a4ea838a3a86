package cognition

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// NoConclusion is returned when no reasoning strategy produces a result.
const NoConclusion = "No conclusion reached"

// inferenceCacheTTL is how long a cached conclusion stays valid, in
// simulation time units. There is no early invalidation: rule changes do
// not evict live entries.
const inferenceCacheTTL = 100.0

// LogicalRule is a static if-then rule. Read-only during reasoning.
type LogicalRule struct {
	Premises            []string `json:"premises"`
	Conclusion          string   `json:"conclusion"`
	Confidence          float64  `json:"confidence"`
	ContextRequirements []string `json:"context_requirements,omitempty"`
}

// InferenceResult is one reasoning outcome.
type InferenceResult struct {
	Conclusion    string   `json:"conclusion"`
	ReasoningPath []string `json:"reasoning_path"`
	Confidence    float64  `json:"confidence"`
	CachedAt      float64  `json:"cached_at"`
}

// Reasoning performs rule inference over a belief network with a
// per-input conclusion cache.
type Reasoning struct {
	BeliefNetwork map[string][]string         `json:"belief_network"`
	Rules         []LogicalRule               `json:"rules"`
	Cache         map[string]*InferenceResult `json:"cache"`
	Confidence    float64                     `json:"confidence"`
	Load          float64                     `json:"load"`
}

// NewReasoning creates an engine with default confidence and no rules.
func NewReasoning() *Reasoning {
	return &Reasoning{
		BeliefNetwork: make(map[string][]string),
		Cache:         make(map[string]*InferenceResult),
		Confidence:    0.7,
	}
}

// Tick decays processing load and expires stale cache entries.
func (r *Reasoning) Tick(now, dt float64) {
	r.Load *= math.Pow(0.95, dt)
	for input, res := range r.Cache {
		if now-res.CachedAt >= inferenceCacheTTL {
			delete(r.Cache, input)
		}
	}
}

// AddRule registers a logical rule.
func (r *Reasoning) AddRule(rule LogicalRule) {
	r.Rules = append(r.Rules, rule)
}

// AddBelief links a belief to a connected belief in the network.
func (r *Reasoning) AddBelief(belief, connected string) {
	r.BeliefNetwork[belief] = append(r.BeliefNetwork[belief], connected)
}

// Analyze reasons about input, preferring deduction over induction over
// abduction, and caches the conclusion per literal input.
func (r *Reasoning) Analyze(now float64, input string) string {
	r.Load += 0.1

	if cached, ok := r.Cache[input]; ok && now-cached.CachedAt < inferenceCacheTTL {
		return cached.Conclusion
	}

	conclusion := r.reason(input)
	r.Cache[input] = &InferenceResult{
		Conclusion:    conclusion,
		ReasoningPath: []string{input},
		Confidence:    r.Confidence,
		CachedAt:      now,
	}
	return conclusion
}

// EvaluateOption scores an option against rules and the belief network.
func (r *Reasoning) EvaluateOption(option string, ctx map[string]float64) float64 {
	score := 0.5

	for _, rule := range r.Rules {
		if ruleApplies(rule, option, ctx) {
			score += rule.Confidence * 0.2
		}
	}

	if neighbors, ok := r.BeliefNetwork[option]; ok && len(neighbors) > 0 {
		present := 0
		for _, belief := range neighbors {
			if _, ok := ctx[belief]; ok {
				present++
			}
		}
		score += float64(present) / float64(len(neighbors)) * 0.3
	}

	return clamp(score, 0, 1)
}

func (r *Reasoning) reason(input string) string {
	var results []InferenceResult
	if res := r.deductive(input); res != nil {
		results = append(results, *res)
	}
	if res := r.inductive(input); res != nil {
		results = append(results, *res)
	}
	if res := r.abductive(input); res != nil {
		results = append(results, *res)
	}
	if len(results) == 0 {
		return NoConclusion
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
	return results[0].Conclusion
}

// deductive fires on an exact premise match, at the rule's confidence.
func (r *Reasoning) deductive(premise string) *InferenceResult {
	for _, rule := range r.Rules {
		for _, p := range rule.Premises {
			if p == premise {
				return &InferenceResult{
					Conclusion:    rule.Conclusion,
					ReasoningPath: []string{premise},
					Confidence:    rule.Confidence,
				}
			}
		}
	}
	return nil
}

// inductive generalizes from the majority pattern among connected beliefs.
func (r *Reasoning) inductive(observation string) *InferenceResult {
	patterns, ok := r.BeliefNetwork[observation]
	if !ok || len(patterns) == 0 {
		return nil
	}

	counts := make(map[string]int, len(patterns))
	for _, p := range patterns {
		counts[p]++
	}
	mostCommon := patterns[0]
	for _, p := range patterns {
		if counts[p] > counts[mostCommon] {
			mostCommon = p
		}
	}

	return &InferenceResult{
		Conclusion:    fmt.Sprintf("Based on patterns, this suggests %s", mostCommon),
		ReasoningPath: []string{observation},
		Confidence:    0.6,
	}
}

// abductive guesses a cause from the first rule whose conclusion contains
// the observation.
func (r *Reasoning) abductive(observation string) *InferenceResult {
	for _, rule := range r.Rules {
		if strings.Contains(rule.Conclusion, observation) {
			return &InferenceResult{
				Conclusion:    fmt.Sprintf("This might be because %s", strings.Join(rule.Premises, " and ")),
				ReasoningPath: []string{observation},
				Confidence:    0.5,
			}
		}
	}
	return nil
}

// ruleApplies checks that every context requirement is present and that any
// premise is a substring of the situation.
func ruleApplies(rule LogicalRule, situation string, ctx map[string]float64) bool {
	for _, req := range rule.ContextRequirements {
		if _, ok := ctx[req]; !ok {
			return false
		}
	}
	for _, premise := range rule.Premises {
		if strings.Contains(situation, premise) {
			return true
		}
	}
	return false
}
