package cognition

import "strings"

// BiasKind tags a systematic distortion. Kinds are data, not closures, so a
// bias set serializes with the rest of agent state.
type BiasKind string

const (
	BiasConfirmation BiasKind = "confirmation"
	BiasAnchoring    BiasKind = "anchoring"
	BiasNegativity   BiasKind = "negativity"
	BiasOptimism     BiasKind = "optimism"
	BiasAvailability BiasKind = "availability"
)

// Bias is one configured distortion with a strength in [0,1].
type Bias struct {
	Kind     BiasKind `json:"kind"`
	Strength float64  `json:"strength"`
	// Belief is the held position a confirmation bias defends, or the
	// reference value an anchoring bias pulls toward.
	Belief string  `json:"belief,omitempty"`
	Anchor float64 `json:"anchor,omitempty"`
}

// BiasSystem applies configured distortions to perception text and to
// decision context factors. Influence is monotonic in bias strength.
type BiasSystem struct {
	Biases []Bias `json:"biases"`
}

// NewBiasSystem creates an empty bias set.
func NewBiasSystem() *BiasSystem {
	return &BiasSystem{}
}

// Add registers a bias, clamping its strength to [0,1].
func (b *BiasSystem) Add(bias Bias) {
	bias.Strength = clamp(bias.Strength, 0, 1)
	b.Biases = append(b.Biases, bias)
}

// SetStrength retunes every bias of the given kind, adding one if none
// exists yet.
func (b *BiasSystem) SetStrength(kind BiasKind, strength float64) {
	found := false
	for i := range b.Biases {
		if b.Biases[i].Kind == kind {
			b.Biases[i].Strength = clamp(strength, 0, 1)
			found = true
		}
	}
	if !found {
		b.Add(Bias{Kind: kind, Strength: strength})
	}
}

// Apply distorts perceived text according to the configured biases.
func (b *BiasSystem) Apply(text string) string {
	out := text
	for _, bias := range b.Biases {
		if bias.Strength <= 0 {
			continue
		}
		switch bias.Kind {
		case BiasConfirmation:
			// Evidence for a held belief is amplified when strong enough.
			if bias.Belief != "" && bias.Strength >= 0.5 && strings.Contains(out, bias.Belief) {
				out = out + " (as expected)"
			}
		case BiasNegativity:
			if bias.Strength >= 0.5 {
				out = strings.ReplaceAll(out, "might", "will probably not")
			}
		case BiasOptimism:
			if bias.Strength >= 0.5 {
				out = strings.ReplaceAll(out, "impossible", "difficult")
			}
		}
	}
	return out
}

// InfluenceContext returns a distorted copy of the decision context.
// The input map is never mutated.
func (b *BiasSystem) InfluenceContext(ctx map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(ctx))
	for k, v := range ctx {
		out[k] = v
	}

	for _, bias := range b.Biases {
		if bias.Strength <= 0 {
			continue
		}
		switch bias.Kind {
		case BiasNegativity:
			if v, ok := out["risk"]; ok {
				out["risk"] = clamp(v+(1-v)*bias.Strength*0.5, 0, 1)
			}
		case BiasOptimism:
			if v, ok := out["benefit"]; ok {
				out["benefit"] = clamp(v+(1-v)*bias.Strength*0.5, 0, 1)
			}
			if v, ok := out["risk"]; ok {
				out["risk"] = clamp(v*(1-bias.Strength*0.5), 0, 1)
			}
		case BiasAnchoring:
			// Pull every factor toward the anchor, proportionally to strength.
			for k, v := range out {
				out[k] = v + (bias.Anchor-v)*bias.Strength*0.5
			}
		case BiasAvailability:
			if v, ok := out["familiarity"]; ok {
				out["familiarity"] = clamp(v+(1-v)*bias.Strength*0.5, 0, 1)
			}
		}
	}
	return out
}

// Dominant returns the name of the strongest bias, or "none".
func (b *BiasSystem) Dominant() string {
	best := -1.0
	name := "none"
	for _, bias := range b.Biases {
		if bias.Strength > best {
			best = bias.Strength
			name = string(bias.Kind)
		}
	}
	return name
}

// TotalInfluence is the mean configured strength, bounded [0,1] so it can
// safely discount decision confidence.
func (b *BiasSystem) TotalInfluence() float64 {
	if len(b.Biases) == 0 {
		return 0
	}
	total := 0.0
	for _, bias := range b.Biases {
		total += bias.Strength
	}
	return clamp(total/float64(len(b.Biases)), 0, 1)
}
