package cognition

import "math"

// Strategy selects how options are scored.
type Strategy string

const (
	StrategyRational    Strategy = "rational"
	StrategyIntuitive   Strategy = "intuitive"
	StrategyRiskAverse  Strategy = "risk_averse"
	StrategyRiskSeeking Strategy = "risk_seeking"
	StrategyBalanced    Strategy = "balanced"
)

// Outcome records how a decision turned out.
type Outcome struct {
	Success  bool    `json:"success"`
	Impact   float64 `json:"impact"`
	Feedback string  `json:"feedback"`
}

// Decision is one recorded choice. Outcome is filled only by a later
// RecordOutcome call.
type Decision struct {
	Options    []string           `json:"options"`
	Chosen     string             `json:"chosen"`
	Context    map[string]float64 `json:"context"`
	Confidence float64            `json:"confidence"`
	Outcome    *Outcome           `json:"outcome,omitempty"`
	Timestamp  float64            `json:"timestamp"`

	// weightApplied marks outcomes already folded into option weights.
	WeightApplied bool `json:"weight_applied,omitempty"`
}

// DecisionMaker scores options under the current strategy with adaptive
// per-option weights learned from outcomes.
type DecisionMaker struct {
	History              []Decision         `json:"history"`
	Weights              map[string]float64 `json:"weights"`
	CurrentStrategy      Strategy           `json:"current_strategy"`
	UncertaintyThreshold float64            `json:"uncertainty_threshold"`
	Load                 float64            `json:"load"`
}

// NewDecisionMaker starts balanced with the default uncertainty threshold.
func NewDecisionMaker() *DecisionMaker {
	return &DecisionMaker{
		Weights:              make(map[string]float64),
		CurrentStrategy:      StrategyBalanced,
		UncertaintyThreshold: 0.3,
	}
}

// Tick decays processing load, folds outcomes into option weights, and
// retunes the strategy from recent success rate.
func (d *DecisionMaker) Tick(now, dt float64) {
	d.Load *= math.Pow(0.95, dt)
	d.updateWeights()
	d.adjustStrategy()
}

// Decide scores each option and records the choice. Ties resolve to the
// first-seen option.
func (d *DecisionMaker) Decide(now float64, options []string, ctx map[string]float64) string {
	if len(options) == 0 {
		return ""
	}
	d.Load += 0.1

	best := options[0]
	bestScore := math.Inf(-1)
	for _, opt := range options {
		score := d.EvaluateOption(opt, ctx)
		if score > bestScore {
			bestScore = score
			best = opt
		}
	}

	ctxCopy := make(map[string]float64, len(ctx))
	for k, v := range ctx {
		ctxCopy[k] = v
	}
	d.History = append(d.History, Decision{
		Options:    options,
		Chosen:     best,
		Context:    ctxCopy,
		Confidence: d.confidence(bestScore),
		Timestamp:  now,
	})

	return best
}

// EvaluateOption applies the current strategy and the learned weight.
func (d *DecisionMaker) EvaluateOption(option string, ctx map[string]float64) float64 {
	var score float64
	switch d.CurrentStrategy {
	case StrategyRational:
		score = d.rational(ctx)
	case StrategyIntuitive:
		score = d.intuitive(option, ctx)
	case StrategyRiskAverse:
		score = d.riskAverse(ctx)
	case StrategyRiskSeeking:
		score = d.riskSeeking(ctx)
	default:
		score = (d.rational(ctx) + d.intuitive(option, ctx)) / 2
	}

	if weight, ok := d.Weights[option]; ok {
		score *= weight
	}
	return score
}

// RecordOutcome attaches an outcome to the most recent decision.
func (d *DecisionMaker) RecordOutcome(outcome Outcome) {
	if len(d.History) == 0 {
		return
	}
	d.History[len(d.History)-1].Outcome = &outcome
}

// rational scores from signed per-factor contributions off a 0.5 base.
func (d *DecisionMaker) rational(ctx map[string]float64) float64 {
	score := 0.5
	for factor, value := range ctx {
		switch factor {
		case "risk":
			score -= value * 0.2
		case "benefit":
			score += value * 0.3
		case "cost":
			score -= value * 0.25
		case "time":
			score -= value * 0.15
		default:
			score += value * 0.1
		}
	}
	return clamp(score, 0, 1)
}

// intuitive leans on the most context-similar past decision for the option,
// plus a familiarity bonus.
func (d *DecisionMaker) intuitive(option string, ctx map[string]float64) float64 {
	score := 0.5

	if similar := d.findSimilar(option, ctx); similar != nil && similar.Outcome != nil {
		if similar.Outcome.Success {
			score += 0.3
		} else {
			score -= 0.2
		}
	}

	if familiarity, ok := ctx["familiarity"]; ok {
		score += familiarity * 0.2
	}

	return clamp(score, 0, 1)
}

func (d *DecisionMaker) riskAverse(ctx map[string]float64) float64 {
	risk := 0.5
	if v, ok := ctx["risk"]; ok {
		risk = v
	}
	return d.rational(ctx) * (1 - risk)
}

func (d *DecisionMaker) riskSeeking(ctx map[string]float64) float64 {
	benefit := 0.5
	if v, ok := ctx["benefit"]; ok {
		benefit = v
	}
	return d.rational(ctx) * (1 + benefit)
}

func (d *DecisionMaker) findSimilar(option string, ctx map[string]float64) *Decision {
	var best *Decision
	bestSim := math.Inf(-1)
	for i := range d.History {
		dec := &d.History[i]
		if dec.Chosen != option {
			continue
		}
		if sim := contextSimilarity(dec.Context, ctx); sim > bestSim {
			bestSim = sim
			best = dec
		}
	}
	return best
}

// contextSimilarity is the mean per-key closeness over shared keys,
// zero when the contexts share nothing.
func contextSimilarity(a, b map[string]float64) float64 {
	var sum float64
	var count int
	for key, va := range a {
		if vb, ok := b[key]; ok {
			sum += 1 - math.Abs(va-vb)
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// confidence damps toward 0.5 when uncertainty exceeds the threshold.
func (d *DecisionMaker) confidence(score float64) float64 {
	uncertainty := 1 - math.Abs(score)
	if uncertainty > d.UncertaintyThreshold {
		return 0.5 * (1 - (uncertainty - d.UncertaintyThreshold))
	}
	return score
}

// updateWeights reinforces chosen options once per completed outcome:
// ×1.1 on success, ×0.9 on failure, clamped [0.5, 2.0].
func (d *DecisionMaker) updateWeights() {
	for i := range d.History {
		dec := &d.History[i]
		if dec.Outcome == nil || dec.WeightApplied {
			continue
		}
		weight, ok := d.Weights[dec.Chosen]
		if !ok {
			weight = 1.0
		}
		if dec.Outcome.Success {
			weight *= 1.1
		} else {
			weight *= 0.9
		}
		d.Weights[dec.Chosen] = clamp(weight, 0.5, 2.0)
		dec.WeightApplied = true
	}
}

// adjustStrategy retunes from the success rate of the last 5 completed
// outcomes; fewer than 3 outcomes leaves the strategy unchanged.
func (d *DecisionMaker) adjustStrategy() {
	var outcomes []*Outcome
	for i := len(d.History) - 1; i >= 0 && len(outcomes) < 5; i-- {
		if d.History[i].Outcome != nil {
			outcomes = append(outcomes, d.History[i].Outcome)
		}
	}
	if len(outcomes) < 3 {
		return
	}

	successes := 0
	for _, o := range outcomes {
		if o.Success {
			successes++
		}
	}
	rate := float64(successes) / float64(len(outcomes))

	switch {
	case rate < 0.3:
		d.CurrentStrategy = StrategyRiskAverse
	case rate < 0.5:
		d.CurrentStrategy = StrategyRational
	case rate > 0.8:
		d.CurrentStrategy = StrategyRiskSeeking
	default:
		d.CurrentStrategy = StrategyBalanced
	}
}
