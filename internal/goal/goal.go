// Package goal implements desires, motivation, plan synthesis and
// achievement tracking behind a goal dependency graph.
package goal

import (
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Status tracks a goal through its lifecycle.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusOnHold    Status = "on_hold"
	StatusAbandoned Status = "abandoned"
)

// Goal is one pursued objective. Subgoals and dependencies are non-owning
// id references into the system's goal map.
type Goal struct {
	ID              string   `json:"id"`
	Description     string   `json:"description"`
	Priority        float64  `json:"priority"`
	Deadline        *float64 `json:"deadline,omitempty"` // absolute sim time
	Status          Status   `json:"status"`
	Dependencies    []string `json:"dependencies"`
	Subgoals        []string `json:"subgoals"`
	Progress        float64  `json:"progress"` // 0.0 - 1.0
	MotivationLevel float64  `json:"motivation_level"`
}

// System orchestrates Desire → Motivation → Planner → Achievement and
// owns the goal graph. One System per agent.
type System struct {
	Desires    *DesireSystem     `json:"desires"`
	Motivation *MotivationSystem `json:"motivation"`
	Planner    *Planner          `json:"planner"`
	Tracker    *Tracker          `json:"tracker"`
	Goals      map[string]*Goal  `json:"goals"`

	logger *zap.Logger
}

// NewSystem creates a goal system with a seeded RNG for plan execution.
func NewSystem(rng *rand.Rand, logger *zap.Logger) *System {
	return &System{
		Desires:    NewDesireSystem(),
		Motivation: NewMotivationSystem(),
		Planner:    NewPlanner(rng),
		Tracker:    NewTracker(),
		Goals:      make(map[string]*Goal),
		logger:     logger,
	}
}

// Rebind reattaches runtime dependencies after a snapshot restore.
func (s *System) Rebind(rng *rand.Rand, logger *zap.Logger) {
	s.Planner.Rebind(rng)
	s.logger = logger
}

// Tick advances desires, motivation, goal progress/deadlines, and
// achievement checks, in that order.
func (s *System) Tick(now, dt float64) {
	s.Desires.Tick(now, dt)
	s.Motivation.Tick(now, dt)
	s.tickGoals(now, dt)
	s.Tracker.Tick(now)
}

// CreateGoal opens an active goal; initial motivation comes from the
// motivation system's energy-scaled base.
func (s *System) CreateGoal(now float64, description string, priority float64, deadline *float64) string {
	g := &Goal{
		ID:              uuid.New().String(),
		Description:     description,
		Priority:        priority,
		Deadline:        deadline,
		Status:          StatusActive,
		MotivationLevel: s.Motivation.InitialMotivation(priority),
	}
	s.Goals[g.ID] = g

	s.logger.Debug("goal created",
		zap.String("id", g.ID),
		zap.Float64("priority", priority))
	return g.ID
}

// AddSubgoal creates a goal nested under parent. Returns the empty string
// when the parent is unknown.
func (s *System) AddSubgoal(now float64, parentID, description string, priority float64) string {
	parent, ok := s.Goals[parentID]
	if !ok {
		return ""
	}
	id := s.CreateGoal(now, description, priority, nil)
	parent.Subgoals = append(parent.Subgoals, id)
	return id
}

// AddDependency links a goal to a prerequisite goal.
func (s *System) AddDependency(goalID, dependencyID string) bool {
	g, ok := s.Goals[goalID]
	if !ok {
		return false
	}
	for _, dep := range g.Dependencies {
		if dep == dependencyID {
			return true
		}
	}
	g.Dependencies = append(g.Dependencies, dependencyID)
	return true
}

// UpdateProgress sets a goal's progress; reaching 1.0 completes the goal
// and fires the achievement tracker.
func (s *System) UpdateProgress(now float64, goalID string, progress float64) bool {
	g, ok := s.Goals[goalID]
	if !ok {
		return false
	}
	g.Progress = clamp(progress, 0, 1)
	if g.Progress >= 1.0 && g.Status == StatusActive {
		g.Status = StatusCompleted
		s.Tracker.TrackCompletion(now, g.ID, g.Description)
	}
	return true
}

// AbandonGoal is terminal and cascades to subgoals.
func (s *System) AbandonGoal(goalID string) {
	g, ok := s.Goals[goalID]
	if !ok {
		return
	}
	g.Status = StatusAbandoned
	for _, sub := range g.Subgoals {
		s.AbandonGoal(sub)
	}
}

// ActiveGoals returns goals still being pursued.
func (s *System) ActiveGoals() []*Goal {
	var out []*Goal
	for _, g := range s.Goals {
		if g.Status == StatusActive {
			out = append(out, g)
		}
	}
	return out
}

// Get looks up a goal by id.
func (s *System) Get(goalID string) (*Goal, bool) {
	g, ok := s.Goals[goalID]
	return g, ok
}

// GoalStatus returns a goal's status and whether it exists.
func (s *System) GoalStatus(goalID string) (Status, bool) {
	g, ok := s.Goals[goalID]
	if !ok {
		return "", false
	}
	return g.Status, true
}

// DependenciesMet reports whether every dependency of a goal is completed.
func (s *System) DependenciesMet(goalID string) bool {
	g, ok := s.Goals[goalID]
	if !ok {
		return false
	}
	for _, dep := range g.Dependencies {
		d, ok := s.Goals[dep]
		if !ok || d.Status != StatusCompleted {
			return false
		}
	}
	return true
}

func (s *System) tickGoals(now, dt float64) {
	for _, g := range s.Goals {
		g.MotivationLevel = s.Motivation.CurrentMotivation(g.Priority, g.Progress, dt)

		if g.Deadline != nil && now >= *g.Deadline && g.Status == StatusActive {
			g.Status = StatusFailed
			s.logger.Debug("goal failed on deadline", zap.String("id", g.ID))
		}

		if len(g.Subgoals) > 0 {
			s.rollUpSubgoals(now, g)
		}
	}
}

// rollUpSubgoals derives a parent's progress as the mean of subgoal
// progress; the parent completes only when every subgoal is completed.
func (s *System) rollUpSubgoals(now float64, parent *Goal) {
	var total float64
	completed := 0
	for _, subID := range parent.Subgoals {
		sub, ok := s.Goals[subID]
		if !ok {
			continue
		}
		total += sub.Progress
		if sub.Status == StatusCompleted {
			completed++
		}
	}

	parent.Progress = total / float64(len(parent.Subgoals))
	if completed == len(parent.Subgoals) && parent.Status == StatusActive {
		parent.Status = StatusCompleted
		s.Tracker.TrackCompletion(now, parent.ID, parent.Description)
	}
}
