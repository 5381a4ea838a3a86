package memory

import "strings"

// Scorer assigns importance to new memory content.
type Scorer struct {
	KeywordWeights  map[string]float64 `json:"keyword_weights"`
	EmotionalWeight float64            `json:"emotional_weight"`
	NoveltyWeight   float64            `json:"novelty_weight"`
	ContextWeight   float64            `json:"context_weight"`
	BaseImportance  float64            `json:"base_importance"`
}

// NewScorer returns a scorer seeded with the default salience keywords.
func NewScorer() *Scorer {
	return &Scorer{
		KeywordWeights: map[string]float64{
			"death":     0.9,
			"danger":    0.8,
			"important": 0.7,
			"secret":    0.7,
			"remember":  0.6,
			"never":     0.6,
			"always":    0.5,
			"promise":   0.5,
		},
		EmotionalWeight: 0.3,
		NoveltyWeight:   0.2,
		ContextWeight:   0.2,
		BaseImportance:  0.1,
	}
}

// Score computes importance for content with the given emotional value.
// The result is always clamped to [0, 1].
func (s *Scorer) Score(content string, emotionalValue float64) float64 {
	importance := s.BaseImportance
	importance += s.keywordScore(content)
	importance += abs(emotionalValue) * s.EmotionalWeight
	return clamp(importance, 0, 1)
}

// ScoreWithContext extends Score with context relevance and novelty signals.
func (s *Scorer) ScoreWithContext(content string, emotionalValue, contextRelevance, novelty float64) float64 {
	importance := s.Score(content, emotionalValue)
	importance += contextRelevance * s.ContextWeight
	importance += novelty * s.NoveltyWeight
	return clamp(importance, 0, 1)
}

// keywordScore is the mean weight of keywords that substring-match content,
// case-insensitive. Zero when nothing matches.
func (s *Scorer) keywordScore(content string) float64 {
	lowered := strings.ToLower(content)
	var total float64
	var matches int
	for keyword, weight := range s.KeywordWeights {
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			total += weight
			matches++
		}
	}
	if matches == 0 {
		return 0
	}
	return total / float64(matches)
}

// AddKeyword registers a salience keyword. Weight is clamped to [0, 1].
func (s *Scorer) AddKeyword(keyword string, weight float64) {
	s.KeywordWeights[keyword] = clamp(weight, 0, 1)
}

// RemoveKeyword drops a salience keyword.
func (s *Scorer) RemoveKeyword(keyword string) {
	delete(s.KeywordWeights, keyword)
}

// EmotionalPattern summarizes the emotional signal in a piece of content.
type EmotionalPattern struct {
	PositiveKeywords int     `json:"positive_keywords"`
	NegativeKeywords int     `json:"negative_keywords"`
	Intensity        float64 `json:"intensity"`
}

var (
	positiveKeywords  = []string{"happy", "joy", "love", "excited", "wonderful"}
	negativeKeywords  = []string{"sad", "angry", "fear", "hate", "terrible"}
	intensityKeywords = []string{"very", "extremely", "absolutely", "totally"}
)

// AnalyzeEmotionalPattern counts emotional keyword hits and estimates intensity.
func (s *Scorer) AnalyzeEmotionalPattern(content string) EmotionalPattern {
	lowered := strings.ToLower(content)
	return EmotionalPattern{
		PositiveKeywords: countContains(lowered, positiveKeywords),
		NegativeKeywords: countContains(lowered, negativeKeywords),
		Intensity:        clamp(float64(countContains(lowered, intensityKeywords))*0.25, 0, 1),
	}
}

func countContains(lowered string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if strings.Contains(lowered, k) {
			n++
		}
	}
	return n
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
