package memory

// Memory is a single remembered experience.
type Memory struct {
	ID             string   `json:"id"`
	Content        string   `json:"content"`
	Importance     float64  `json:"importance"`      // 0.0 - 1.0
	EmotionalValue float64  `json:"emotional_value"` // -1.0 - 1.0
	Timestamp      float64  `json:"timestamp"`       // simulation time at creation
	RelatedIDs     []string `json:"related_ids"`
	DecayRate      float64  `json:"decay_rate"`
}

// Emotion bucket names used by the long-term emotional index.
const (
	EmotionVeryPositive = "very_positive"
	EmotionPositive     = "positive"
	EmotionNeutral      = "neutral"
	EmotionNegative     = "negative"
	EmotionVeryNegative = "very_negative"
)

// CategorizeEmotion maps an emotional value to its index bucket.
func CategorizeEmotion(emotionalValue float64) string {
	switch {
	case emotionalValue > 0.7:
		return EmotionVeryPositive
	case emotionalValue > 0.3:
		return EmotionPositive
	case emotionalValue > -0.3:
		return EmotionNeutral
	case emotionalValue > -0.7:
		return EmotionNegative
	default:
		return EmotionVeryNegative
	}
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
