package cognition

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// sensoryMemoryCap bounds retained perceived events.
const sensoryMemoryCap = 100

// intensityFloor is the intensity below which sensory inputs are purged.
const intensityFloor = 0.1

// SensoryInput is a transient raw signal held by the perception filter.
type SensoryInput struct {
	InputType  string  `json:"input_type"`
	Intensity  float64 `json:"intensity"`
	Confidence float64 `json:"confidence"`
	Timestamp  float64 `json:"timestamp"`
}

// PerceivedEvent is a filtered perception retained briefly for recall.
type PerceivedEvent struct {
	Content          string  `json:"content"`
	Source           string  `json:"source"`
	Intensity        float64 `json:"intensity"`
	EmotionalValence float64 `json:"emotional_valence"`
	Timestamp        float64 `json:"timestamp"`
}

// Filter strips a configured substring from raw input when present.
// Filters apply in descending priority order.
type Filter struct {
	Pattern  string  `json:"pattern"`
	Priority float64 `json:"priority"`
	Active   bool    `json:"active"`
}

// Perception turns raw input into filtered, pattern-tagged sensory events.
type Perception struct {
	SensoryInputs  map[string]*SensoryInput `json:"sensory_inputs"`
	AttentionFocus string                   `json:"attention_focus,omitempty"`
	Patterns       map[string]bool          `json:"patterns"`
	Filters        []Filter                 `json:"filters"`
	SensoryMemory  []PerceivedEvent         `json:"sensory_memory"`
	Clarity        float64                  `json:"clarity"`
}

// NewPerception creates a perception filter with default clarity.
func NewPerception() *Perception {
	return &Perception{
		SensoryInputs: make(map[string]*SensoryInput),
		Patterns:      make(map[string]bool),
		Clarity:       0.8,
	}
}

// Process filters raw input, records detected patterns, and stores the
// perception in sensory memory. Returns the filtered text.
func (p *Perception) Process(now float64, raw string) string {
	p.SensoryInputs[raw] = &SensoryInput{
		InputType:  "text",
		Intensity:  1.0,
		Confidence: p.Clarity,
		Timestamp:  now,
	}

	filtered := p.applyFilters(raw)

	for _, pattern := range detectPatterns(filtered) {
		p.Patterns[pattern] = true
	}

	p.SensoryMemory = append(p.SensoryMemory, PerceivedEvent{
		Content:          filtered,
		Source:           "text_input",
		Intensity:        1.0,
		EmotionalValence: emotionalValence(filtered),
		Timestamp:        now,
	})

	return filtered
}

// Tick decays sensory input intensities, refocuses attention on the
// strongest input, and trims sensory memory.
func (p *Perception) Tick(now, dt float64) {
	for key, in := range p.SensoryInputs {
		in.Intensity *= math.Pow(0.95, dt)
		if in.Intensity <= intensityFloor {
			delete(p.SensoryInputs, key)
		}
	}

	p.updateAttention()
	p.cleanupMemory(now)
}

// AddFilter registers a perception filter.
func (p *Perception) AddFilter(f Filter) {
	p.Filters = append(p.Filters, f)
}

// SetAttention overrides the attention focus.
func (p *Perception) SetAttention(focus string) {
	p.AttentionFocus = focus
}

// ClearPatterns empties the lifetime pattern set.
func (p *Perception) ClearPatterns() {
	p.Patterns = make(map[string]bool)
}

// Recent returns up to count perceived events, newest first.
func (p *Perception) Recent(count int) []PerceivedEvent {
	if count > len(p.SensoryMemory) {
		count = len(p.SensoryMemory)
	}
	out := make([]PerceivedEvent, 0, count)
	for i := len(p.SensoryMemory) - 1; i >= 0 && len(out) < count; i-- {
		out = append(out, p.SensoryMemory[i])
	}
	return out
}

func (p *Perception) applyFilters(input string) string {
	active := make([]Filter, 0, len(p.Filters))
	for _, f := range p.Filters {
		if f.Active {
			active = append(active, f)
		}
	}
	// Higher priority strips first; order matters for overlapping patterns.
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Priority > active[j].Priority
	})

	filtered := input
	for _, f := range active {
		if strings.Contains(input, f.Pattern) {
			filtered = strings.ReplaceAll(filtered, f.Pattern, "")
		}
	}
	return filtered
}

func (p *Perception) updateAttention() {
	var strongest string
	best := -1.0
	for key, in := range p.SensoryInputs {
		if in.Intensity > best {
			best = in.Intensity
			strongest = key
		}
	}
	if strongest != "" {
		p.AttentionFocus = strongest
	}
}

func (p *Perception) cleanupMemory(now float64) {
	kept := p.SensoryMemory[:0]
	for _, ev := range p.SensoryMemory {
		if now-ev.Timestamp < 100.0 {
			kept = append(kept, ev)
		}
	}
	p.SensoryMemory = kept

	if excess := len(p.SensoryMemory) - sensoryMemoryCap; excess > 0 {
		p.SensoryMemory = p.SensoryMemory[excess:]
	}
}

// detectPatterns tags adjacent repeated tokens, emotional keywords, and questions.
func detectPatterns(input string) []string {
	var patterns []string

	words := strings.Fields(input)
	for i := 0; i+1 < len(words); i++ {
		if words[i] == words[i+1] {
			patterns = append(patterns, fmt.Sprintf("repetition:%s", words[i]))
		}
	}

	if strings.Contains(input, "happy") || strings.Contains(input, "joy") {
		patterns = append(patterns, "positive_emotion")
	}
	if strings.Contains(input, "sad") || strings.Contains(input, "angry") {
		patterns = append(patterns, "negative_emotion")
	}
	if strings.Contains(input, "?") {
		patterns = append(patterns, "question")
	}

	return patterns
}

// emotionalValence runs a crude word-level sentiment sum, clamped [-1,1].
func emotionalValence(content string) float64 {
	valence := 0.0
	for _, word := range strings.Fields(content) {
		switch strings.ToLower(word) {
		case "happy", "good", "great", "excellent":
			valence += 0.2
		case "sad", "bad", "terrible", "awful":
			valence -= 0.2
		}
	}
	return clamp(valence, -1, 1)
}
