// Package agent assembles memory, cognition and goals into one NPC mind
// driven by an explicit simulation clock.
package agent

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/emberfall/npcmind/internal/cognition"
	"github.com/emberfall/npcmind/internal/goal"
	"github.com/emberfall/npcmind/internal/memory"
)

// EventKind tags an inbox event variant.
type EventKind string

const (
	EventPerceive       EventKind = "perceive"
	EventRecordOutcome  EventKind = "record_outcome"
	EventUpdateProgress EventKind = "update_progress"
	EventSatisfyDesire  EventKind = "satisfy_desire"
)

// Event is one queued stimulus or feedback item. Which fields are
// meaningful depends on Kind.
type Event struct {
	Kind EventKind `json:"kind"`

	// perceive
	Input          string  `json:"input,omitempty"`
	EmotionalValue float64 `json:"emotional_value,omitempty"`

	// record_outcome
	Success  bool    `json:"success,omitempty"`
	Impact   float64 `json:"impact,omitempty"`
	Feedback string  `json:"feedback,omitempty"`

	// update_progress and record_outcome
	GoalID   string  `json:"goal_id,omitempty"`
	Progress float64 `json:"progress,omitempty"`

	// satisfy_desire
	Desire string  `json:"desire,omitempty"`
	Amount float64 `json:"amount,omitempty"`
}

// Agent is one simulated mind. External input arrives through the inbox
// and is applied at the start of the next tick, so a tick always sees a
// consistent snapshot of the world.
type Agent struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Clock float64 `json:"clock"` // simulation time

	Memory    *memory.Store     `json:"memory"`
	Cognition *cognition.System `json:"cognition"`
	Goals     *goal.System      `json:"goals"`

	Inbox []Event `json:"inbox,omitempty"`

	mu     sync.Mutex
	rng    *rand.Rand
	logger *zap.Logger
}

// New creates an agent whose stochastic behavior is fully determined by
// the seed.
func New(name string, seed int64, logger *zap.Logger) *Agent {
	rng := rand.New(rand.NewSource(seed))
	return &Agent{
		ID:        uuid.New().String(),
		Name:      name,
		Memory:    memory.NewStore(rng, logger),
		Cognition: cognition.NewSystem(logger),
		Goals:     goal.NewSystem(rng, logger),
		rng:       rng,
		logger:    logger,
	}
}

// Enqueue queues an event for the next tick. Safe for concurrent use.
func (a *Agent) Enqueue(ev Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Inbox = append(a.Inbox, ev)
}

// Tick advances the agent's clock by dt and runs one cognitive cycle:
// drain the inbox, then memory, cognition, and goals in order.
func (a *Agent) Tick(dt float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.Clock += dt
	now := a.Clock

	pending := a.Inbox
	a.Inbox = nil
	for _, ev := range pending {
		a.apply(now, ev)
	}

	a.Memory.Tick(now, dt)
	a.Cognition.Tick(now, dt)
	a.Goals.Tick(now, dt)
}

func (a *Agent) apply(now float64, ev Event) {
	switch ev.Kind {
	case EventPerceive:
		a.Cognition.ProcessInput(now, ev.Input, cognition.SourcePerception)
		a.Memory.Add(now, ev.Input, ev.EmotionalValue, nil)
	case EventRecordOutcome:
		a.Cognition.RecordOutcome(cognition.Outcome{
			Success:  ev.Success,
			Impact:   ev.Impact,
			Feedback: ev.Feedback,
		})
		if ev.GoalID != "" {
			kind := goal.EventFailure
			if ev.Success {
				kind = goal.EventSuccess
			}
			a.Goals.Motivation.RecordEvent(now, ev.GoalID, kind, ev.Impact)
		}
	case EventUpdateProgress:
		a.Goals.UpdateProgress(now, ev.GoalID, ev.Progress)
	case EventSatisfyDesire:
		a.Goals.Desires.Satisfy(now, ev.Desire, ev.Amount)
	default:
		a.logger.Warn("unknown event kind", zap.String("kind", string(ev.Kind)))
	}
}

// Perceive feeds raw input straight into cognition and memory, outside
// the inbox queue. Used by synchronous callers such as tests and the API.
func (a *Agent) Perceive(input string, emotionalValue float64) cognition.Thought {
	a.mu.Lock()
	defer a.mu.Unlock()
	thought := a.Cognition.ProcessInput(a.Clock, input, cognition.SourcePerception)
	a.Memory.Add(a.Clock, input, emotionalValue, nil)
	return thought
}

// Decide picks among options under the agent's biases and learned
// decision weights at the current clock.
func (a *Agent) Decide(options []string, ctx map[string]float64) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Cognition.MakeDecision(a.Clock, options, ctx)
}

// Recall looks a memory up by content, short-term first.
func (a *Agent) Recall(query string) *memory.Memory {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Memory.Recall(query)
}

// State reports the agent's current cognitive state.
func (a *Agent) State() cognition.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Cognition.CognitiveState()
}

// Now returns the agent's current simulation time.
func (a *Agent) Now() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Clock
}

// CreateGoal opens a goal stamped with the agent's current clock and
// returns its id.
func (a *Agent) CreateGoal(description string, priority float64, deadline *float64) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Goals.CreateGoal(a.Clock, description, priority, deadline)
}

// ActiveGoals returns copies of the goals still being pursued.
func (a *Agent) ActiveGoals() []goal.Goal {
	a.mu.Lock()
	defer a.mu.Unlock()
	active := a.Goals.ActiveGoals()
	out := make([]goal.Goal, 0, len(active))
	for _, g := range active {
		out = append(out, *g)
	}
	return out
}

// RecentActivity is the freshest slice of an agent's experience: newest
// short-term memories and perceived events, both newest first.
type RecentActivity struct {
	Memories []memory.Memory            `json:"memories"`
	Percepts []cognition.PerceivedEvent `json:"percepts"`
}

// Recent returns copies of up to n recent memories and percepts.
func (a *Agent) Recent(n int) RecentActivity {
	a.mu.Lock()
	defer a.mu.Unlock()
	mems := a.Memory.Short.Recent(n)
	out := RecentActivity{
		Memories: make([]memory.Memory, 0, len(mems)),
		Percepts: a.Cognition.Perception.Recent(n),
	}
	for _, m := range mems {
		out.Memories = append(out.Memories, *m)
	}
	return out
}

// StrongestDesire returns a copy of the desire with the highest weighted
// urgency, or false when the agent has none.
func (a *Agent) StrongestDesire() (goal.Desire, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	d := a.Goals.Desires.Strongest()
	if d == nil {
		return goal.Desire{}, false
	}
	return *d, true
}

// Snapshot serializes the agent's full state, inbox included.
func (a *Agent) Snapshot() ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("snapshot agent %s: %w", a.ID, err)
	}
	return data, nil
}

// Restore rebuilds an agent from a snapshot. The seed re-creates the
// RNG; it does not replay the original stream, so restored runs diverge
// from the run that produced the snapshot unless the same seed and
// position are used.
func Restore(data []byte, seed int64, logger *zap.Logger) (*Agent, error) {
	var a Agent
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("restore agent: %w", err)
	}
	a.rng = rand.New(rand.NewSource(seed))
	a.logger = logger
	a.Memory.Rebind(a.rng, logger)
	a.Cognition.Rebind(logger)
	a.Goals.Rebind(a.rng, logger)
	return &a, nil
}
