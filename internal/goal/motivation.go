package goal

import "math"

// MotivationSource tags where a drive comes from.
type MotivationSource string

const (
	SourceInternal    MotivationSource = "internal"
	SourceExternal    MotivationSource = "external"
	SourceSocial      MotivationSource = "social"
	SourceAchievement MotivationSource = "achievement"
)

// EventType classifies a recorded motivation event.
type EventType string

const (
	EventSuccess  EventType = "success"
	EventFailure  EventType = "failure"
	EventProgress EventType = "progress"
	EventFeedback EventType = "feedback"
)

// Factors are the weighted inputs to motivation strength.
type Factors struct {
	Importance     float64 `json:"importance"`
	Urgency        float64 `json:"urgency"`
	Confidence     float64 `json:"confidence"`
	Interest       float64 `json:"interest"`
	SocialPressure float64 `json:"social_pressure"`
}

// Motivation is the drive behind one goal.
type Motivation struct {
	GoalID     string           `json:"goal_id"`
	Strength   float64          `json:"strength"`
	Source     MotivationSource `json:"source"`
	Factors    Factors          `json:"factors"`
	LastUpdate float64          `json:"last_update"`
}

// Event is one recorded reinforcement.
type Event struct {
	GoalID    string    `json:"goal_id"`
	Impact    float64   `json:"impact"`
	Timestamp float64   `json:"timestamp"`
	Type      EventType `json:"type"`
}

// MotivationSystem converts desire and goal priority into drive strength
// under an energy budget.
type MotivationSystem struct {
	Motivations  map[string]*Motivation `json:"motivations"`
	Base         float64                `json:"base"`
	DecayRate    float64                `json:"decay_rate"`
	CurrentFocus string                 `json:"current_focus,omitempty"`
	Energy       float64                `json:"energy"`
	History      []Event                `json:"history"`
}

// NewMotivationSystem starts at full energy with neutral base motivation.
func NewMotivationSystem() *MotivationSystem {
	return &MotivationSystem{
		Motivations: make(map[string]*Motivation),
		Base:        0.5,
		DecayRate:   0.1,
		Energy:      1.0,
	}
}

// Tick regenerates energy, decays motivation strengths, and refocuses.
func (ms *MotivationSystem) Tick(now, dt float64) {
	// Energy regenerates slowly, drained by each tracked motivation.
	ms.Energy += dt * 0.01
	ms.Energy -= dt * 0.005 * float64(len(ms.Motivations))
	ms.Energy = clamp(ms.Energy, 0.1, 1.0)

	for _, m := range ms.Motivations {
		m.Strength *= math.Exp(-ms.DecayRate * dt)
		m.Factors.Urgency = clamp(m.Factors.Urgency+dt*0.01, 0, 1)
		m.Factors.Interest = clamp(m.Factors.Interest*math.Pow(0.999, dt), 0, 1)
		m.Strength = clamp(m.Strength, 0, 1)
		m.LastUpdate = now
	}

	ms.updateFocus()
}

// InitialMotivation is the strength a newly created goal starts with.
func (ms *MotivationSystem) InitialMotivation(priority float64) float64 {
	return clamp(ms.Base*priority*ms.Energy, 0, 1)
}

// CurrentMotivation derives a goal's present motivation from priority and
// progress. Drive eases off as the goal nears completion.
func (ms *MotivationSystem) CurrentMotivation(priority, progress, dt float64) float64 {
	base := ms.InitialMotivation(priority)
	progressFactor := 1 - progress*0.5
	timeDecay := math.Exp(-ms.DecayRate * dt)
	return clamp(base*progressFactor*timeDecay, 0, 1)
}

// Track registers a motivation for a goal from its factor set.
func (ms *MotivationSystem) Track(now float64, goalID string, source MotivationSource, factors Factors) {
	ms.Motivations[goalID] = &Motivation{
		GoalID:     goalID,
		Strength:   StrengthFromFactors(factors),
		Source:     source,
		Factors:    factors,
		LastUpdate: now,
	}
	ms.updateFocus()
}

// StrengthFromFactors is the weighted sum of motivation factors, clamped.
func StrengthFromFactors(f Factors) float64 {
	strength := f.Importance*0.3 +
		f.Urgency*0.2 +
		f.Confidence*0.2 +
		f.Interest*0.15 +
		f.SocialPressure*0.15
	return clamp(strength, 0, 1)
}

// RecordEvent appends a reinforcement event and adjusts the tracked
// motivation and base drive accordingly.
func (ms *MotivationSystem) RecordEvent(now float64, goalID string, eventType EventType, impact float64) {
	ms.History = append(ms.History, Event{
		GoalID:    goalID,
		Impact:    impact,
		Timestamp: now,
		Type:      eventType,
	})

	m, ok := ms.Motivations[goalID]
	if !ok {
		return
	}
	switch eventType {
	case EventSuccess:
		m.Factors.Confidence += impact * 0.2
		ms.Base += impact * 0.1
	case EventFailure:
		m.Factors.Confidence -= impact * 0.2
		ms.Base -= impact * 0.1
	case EventProgress:
		m.Strength += impact * 0.1
	case EventFeedback:
		m.Factors.SocialPressure += impact * 0.15
	}

	m.Factors.Confidence = clamp(m.Factors.Confidence, 0, 1)
	m.Factors.SocialPressure = clamp(m.Factors.SocialPressure, 0, 1)
	m.Strength = clamp(m.Strength, 0, 1)
	ms.Base = clamp(ms.Base, 0.1, 1)
}

// Focus returns the goal id holding the strongest motivation.
func (ms *MotivationSystem) Focus() string {
	return ms.CurrentFocus
}

func (ms *MotivationSystem) updateFocus() {
	best := -1.0
	focus := ""
	for id, m := range ms.Motivations {
		if m.Strength > best {
			best = m.Strength
			focus = id
		}
	}
	ms.CurrentFocus = focus
}
