package goal

import (
	"math/rand"

	"github.com/google/uuid"
)

// PlanStatus tracks a plan through execution.
type PlanStatus string

const (
	PlanInProgress PlanStatus = "in_progress"
	PlanCompleted  PlanStatus = "completed"
	PlanFailed     PlanStatus = "failed"
	PlanBlocked    PlanStatus = "blocked"
)

// OutcomeKind tags a step outcome variant.
type OutcomeKind string

const (
	StepSuccess OutcomeKind = "success"
	StepFailure OutcomeKind = "failure"
	StepPartial OutcomeKind = "partial"
)

// StepOutcome is the typed result of executing a plan step.
type StepOutcome struct {
	Kind     OutcomeKind `json:"kind"`
	Reason   string      `json:"reason,omitempty"`   // failure only
	Fraction float64     `json:"fraction,omitempty"` // partial only
}

// PlanStep is one queued action derived from a template.
type PlanStep struct {
	Action           string       `json:"action"`
	Prerequisites    []string     `json:"prerequisites"`
	ExpectedDuration float64      `json:"expected_duration"`
	Completed        bool         `json:"completed"`
	Outcome          *StepOutcome `json:"outcome,omitempty"`
}

// Plan is an ordered step queue toward a goal state, consumed strictly
// front to back.
type Plan struct {
	ID            string     `json:"id"`
	GoalID        string     `json:"goal_id"`
	Steps         []PlanStep `json:"steps"`
	Status        PlanStatus `json:"status"`
	EstimatedTime float64    `json:"estimated_time"`
}

// ActionTemplate describes an action the planner can chain into plans.
type ActionTemplate struct {
	Name            string   `json:"name"`
	Prerequisites   []string `json:"prerequisites"`
	Effects         []string `json:"effects"`
	AverageDuration float64  `json:"average_duration"`
	SuccessRate     float64  `json:"success_rate"`
}

// Planner synthesizes plans from action templates and executes steps
// probabilistically. A one-hop forward-chainer: prerequisites are resolved
// a single level deep, no backtracking.
type Planner struct {
	Plans     map[string]*Plan           `json:"plans"`
	Templates map[string]*ActionTemplate `json:"templates"`
	// templateOrder keeps "first template" deterministic across the
	// serialization round-trip.
	TemplateOrder []string `json:"template_order"`
	CurrentPlan   string   `json:"current_plan,omitempty"`

	rng *rand.Rand
}

// NewPlanner creates a planner with a seeded RNG for step execution.
func NewPlanner(rng *rand.Rand) *Planner {
	return &Planner{
		Plans:     make(map[string]*Plan),
		Templates: make(map[string]*ActionTemplate),
		rng:       rng,
	}
}

// Rebind reattaches the RNG after a snapshot restore.
func (p *Planner) Rebind(rng *rand.Rand) {
	p.rng = rng
}

// AddTemplate registers an action template.
func (p *Planner) AddTemplate(t ActionTemplate) {
	if _, ok := p.Templates[t.Name]; !ok {
		p.TemplateOrder = append(p.TemplateOrder, t.Name)
	}
	p.Templates[t.Name] = &t
}

// CreatePlan opens an empty in-progress plan for a goal.
func (p *Planner) CreatePlan(goalID string) string {
	plan := &Plan{
		ID:     uuid.New().String(),
		GoalID: goalID,
		Status: PlanInProgress,
	}
	p.Plans[plan.ID] = plan
	p.CurrentPlan = plan.ID
	return plan.ID
}

// Get looks up a plan by id.
func (p *Planner) Get(id string) (*Plan, bool) {
	plan, ok := p.Plans[id]
	return plan, ok
}

// GenerateSteps fills a plan with steps reaching goalState. Returns false
// when the plan is unknown or no template produces the goal state.
func (p *Planner) GenerateSteps(planID, goalState string) bool {
	plan, ok := p.Plans[planID]
	if !ok {
		return false
	}
	plan.Steps = nil

	final := p.findTemplateForEffect(goalState)
	if final == nil {
		return false
	}

	steps := []PlanStep{{
		Action:           final.Name,
		Prerequisites:    final.Prerequisites,
		ExpectedDuration: final.AverageDuration,
	}}

	// One level of prerequisite resolution, prepended in order.
	for _, prereq := range final.Prerequisites {
		if t := p.findTemplateForEffect(prereq); t != nil {
			steps = append([]PlanStep{{
				Action:           t.Name,
				Prerequisites:    t.Prerequisites,
				ExpectedDuration: t.AverageDuration,
			}}, steps...)
		}
	}

	plan.Steps = steps
	plan.EstimatedTime = 0
	for _, s := range steps {
		plan.EstimatedTime += s.ExpectedDuration
	}
	return true
}

// ExecuteNextStep attempts the front step. The step is popped only on
// success; a failed step stays queued for retry next tick. Returns false
// when the plan is unknown or has no steps left.
func (p *Planner) ExecuteNextStep(planID string) (StepOutcome, bool) {
	plan, ok := p.Plans[planID]
	if !ok || len(plan.Steps) == 0 {
		return StepOutcome{}, false
	}

	step := &plan.Steps[0]
	if p.rng.Float64() < p.successRate(step.Action) {
		step.Completed = true
		outcome := StepOutcome{Kind: StepSuccess}
		step.Outcome = &outcome
		plan.Steps = plan.Steps[1:]
		if len(plan.Steps) == 0 {
			plan.Status = PlanCompleted
		}
		return outcome, true
	}

	outcome := StepOutcome{Kind: StepFailure, Reason: "action failed"}
	step.Outcome = &outcome
	return outcome, true
}

// findTemplateForEffect returns the first registered template listing the
// effect, in registration order.
func (p *Planner) findTemplateForEffect(effect string) *ActionTemplate {
	for _, name := range p.TemplateOrder {
		t := p.Templates[name]
		for _, e := range t.Effects {
			if e == effect {
				return t
			}
		}
	}
	return nil
}

// successRate defaults to 0.5 for unknown actions.
func (p *Planner) successRate(action string) float64 {
	if t, ok := p.Templates[action]; ok {
		return t.SuccessRate
	}
	return 0.5
}
