package goal

import (
	"math"

	"github.com/google/uuid"
)

// Requirement is one counted condition toward an achievement.
type Requirement struct {
	Description   string  `json:"description"`
	RequiredValue float64 `json:"required_value"`
	CurrentValue  float64 `json:"current_value"`
	Completed     bool    `json:"completed"`
}

// Achievement completes exactly once, when all requirements are met.
type Achievement struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	Difficulty     float64       `json:"difficulty"`
	Requirements   []Requirement `json:"requirements"`
	RewardFactor   float64       `json:"reward_factor"`
	CompletionDate *float64      `json:"completion_date,omitempty"`
}

// Milestone is a scalar progress counter that flips achieved irreversibly
// on its first threshold crossing.
type Milestone struct {
	Name            string   `json:"name"`
	Threshold       float64  `json:"threshold"`
	CurrentProgress float64  `json:"current_progress"`
	Achieved        bool     `json:"achieved"`
	AchievementDate *float64 `json:"achievement_date,omitempty"`
}

// ProgressType classifies tracker history events.
type ProgressType string

const (
	ProgressGoalCompletion   ProgressType = "goal_completion"
	ProgressMilestoneReached ProgressType = "milestone_reached"
	ProgressRequirementMet   ProgressType = "requirement_met"
	ProgressAchievement      ProgressType = "achievement"
	ProgressIncrement        ProgressType = "progress"
)

// ProgressEvent is one tracker history entry.
type ProgressEvent struct {
	GoalID        string       `json:"goal_id,omitempty"`
	AchievementID string       `json:"achievement_id,omitempty"`
	Type          ProgressType `json:"type"`
	Value         float64      `json:"value"`
	Timestamp     float64      `json:"timestamp"`
}

// Stats aggregates tracker totals.
type Stats struct {
	TotalCompleted    int     `json:"total_completed"`
	TotalAttempted    int     `json:"total_attempted"`
	SuccessRate       float64 `json:"success_rate"`
	HighestDifficulty float64 `json:"highest_difficulty"`
}

// Tracker records requirement and milestone completion plus aggregate stats.
type Tracker struct {
	Achievements   map[string]*Achievement `json:"achievements"`
	CompletedGoals map[string]bool         `json:"completed_goals"`
	Milestones     map[string]*Milestone   `json:"milestones"`
	History        []ProgressEvent         `json:"history"`
	Stats          Stats                   `json:"stats"`
}

// NewTracker creates an empty achievement tracker.
func NewTracker() *Tracker {
	return &Tracker{
		Achievements:   make(map[string]*Achievement),
		CompletedGoals: make(map[string]bool),
		Milestones:     make(map[string]*Milestone),
	}
}

// AddAchievement registers an achievement; reward scales with difficulty.
func (t *Tracker) AddAchievement(name, description string, difficulty float64, requirements []Requirement) string {
	a := &Achievement{
		ID:           uuid.New().String(),
		Name:         name,
		Description:  description,
		Difficulty:   difficulty,
		Requirements: requirements,
		RewardFactor: math.Pow(1+difficulty, 1.5),
	}
	t.Achievements[a.ID] = a
	return a.ID
}

// AddMilestone registers a named threshold marker.
func (t *Tracker) AddMilestone(name string, threshold float64) {
	t.Milestones[name] = &Milestone{Name: name, Threshold: threshold}
}

// TrackCompletion handles a completed goal. Every achievement with a
// matching incomplete requirement advances, not just the first.
func (t *Tracker) TrackCompletion(now float64, goalID, description string) {
	if t.CompletedGoals[goalID] {
		return
	}
	t.CompletedGoals[goalID] = true

	t.History = append(t.History, ProgressEvent{
		GoalID:    goalID,
		Type:      ProgressGoalCompletion,
		Value:     1.0,
		Timestamp: now,
	})

	for _, a := range t.Achievements {
		for i := range a.Requirements {
			req := &a.Requirements[i]
			if req.Completed {
				continue
			}
			req.CurrentValue++
			if req.CurrentValue >= req.RequiredValue {
				req.Completed = true
				t.History = append(t.History, ProgressEvent{
					GoalID:        goalID,
					AchievementID: a.ID,
					Type:          ProgressRequirementMet,
					Value:         1.0,
					Timestamp:     now,
				})
			}
		}
		t.checkAchievement(now, a)
	}
	t.updateStats()
}

// RecordProgress advances every milestone by value and logs the event.
func (t *Tracker) RecordProgress(now float64, goalID string, value float64) {
	t.History = append(t.History, ProgressEvent{
		GoalID:    goalID,
		Type:      ProgressIncrement,
		Value:     value,
		Timestamp: now,
	})
	for _, m := range t.Milestones {
		m.CurrentProgress += value
		t.checkMilestone(now, m)
	}
}

// Tick re-checks achievement and milestone completion and refreshes stats.
func (t *Tracker) Tick(now float64) {
	for _, a := range t.Achievements {
		t.checkAchievement(now, a)
	}
	for _, m := range t.Milestones {
		t.checkMilestone(now, m)
	}
	t.updateStats()
}

// checkAchievement sets the completion date exactly once, on the first
// all-requirements-met check. Later calls are no-ops.
func (t *Tracker) checkAchievement(now float64, a *Achievement) {
	if a.CompletionDate != nil || len(a.Requirements) == 0 {
		return
	}
	for _, req := range a.Requirements {
		if !req.Completed {
			return
		}
	}
	date := now
	a.CompletionDate = &date
	t.History = append(t.History, ProgressEvent{
		AchievementID: a.ID,
		Type:          ProgressAchievement,
		Value:         1.0,
		Timestamp:     now,
	})
}

// checkMilestone flips achieved exactly once; progress decreasing later
// never unsets it.
func (t *Tracker) checkMilestone(now float64, m *Milestone) {
	if m.Achieved || m.CurrentProgress < m.Threshold {
		return
	}
	m.Achieved = true
	date := now
	m.AchievementDate = &date
	t.History = append(t.History, ProgressEvent{
		Type:      ProgressMilestoneReached,
		Value:     m.Threshold,
		Timestamp: now,
	})
}

func (t *Tracker) updateStats() {
	completed := 0
	highest := t.Stats.HighestDifficulty
	for _, a := range t.Achievements {
		if a.CompletionDate != nil {
			completed++
			if a.Difficulty > highest {
				highest = a.Difficulty
			}
		}
	}
	t.Stats.TotalCompleted = completed
	t.Stats.TotalAttempted = len(t.Achievements)
	if t.Stats.TotalAttempted > 0 {
		t.Stats.SuccessRate = float64(completed) / float64(t.Stats.TotalAttempted)
	} else {
		t.Stats.SuccessRate = 0
	}
	t.Stats.HighestDifficulty = highest
}
