package cognition

import (
	"math"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestPerceptionFilterPriorityOrder(t *testing.T) {
	p := NewPerception()
	p.AddFilter(Filter{Pattern: "noise ", Priority: 1, Active: true})
	p.AddFilter(Filter{Pattern: "loud noise ", Priority: 2, Active: true})
	p.AddFilter(Filter{Pattern: "ignored", Priority: 3, Active: false})

	got := p.Process(0, "loud noise at the gate")
	if got != "at the gate" {
		t.Errorf("filtered = %q, want %q", got, "at the gate")
	}
}

func TestPerceptionPatternTags(t *testing.T) {
	p := NewPerception()
	p.Process(0, "danger danger at the walls, are you happy?")

	for _, want := range []string{"repetition:danger", "positive_emotion", "question"} {
		if !p.Patterns[want] {
			t.Errorf("missing pattern tag %q (have %v)", want, p.Patterns)
		}
	}

	// Tags accumulate across inputs until explicitly cleared.
	p.Process(1, "all is calm")
	if !p.Patterns["question"] {
		t.Error("pattern tags should persist across inputs")
	}
	p.ClearPatterns()
	if len(p.Patterns) != 0 {
		t.Error("ClearPatterns should empty the set")
	}
}

func TestPerceptionAttentionAndPurge(t *testing.T) {
	p := NewPerception()
	p.Process(0, "faint whisper")
	p.Tick(1, 1)
	p.Process(1, "clash of steel")
	p.Tick(2, 1)

	if p.AttentionFocus != "clash of steel" {
		t.Errorf("attention on %q, want the freshest (strongest) input", p.AttentionFocus)
	}

	// Intensity decays ~5% per unit; after 50 units both drop past the floor.
	for i := 0; i < 50; i++ {
		p.Tick(float64(3+i), 1)
	}
	if len(p.SensoryInputs) != 0 {
		t.Errorf("%d sensory inputs survived, want all purged below the floor", len(p.SensoryInputs))
	}
}

func TestBiasInfluenceMonotonic(t *testing.T) {
	ctx := map[string]float64{"risk": 0.4}

	weak := NewBiasSystem()
	weak.Add(Bias{Kind: BiasNegativity, Strength: 0.2})
	strong := NewBiasSystem()
	strong.Add(Bias{Kind: BiasNegativity, Strength: 0.9})

	weakRisk := weak.InfluenceContext(ctx)["risk"]
	strongRisk := strong.InfluenceContext(ctx)["risk"]
	if !(strongRisk > weakRisk && weakRisk > 0.4) {
		t.Errorf("risk: weak=%v strong=%v, want monotonic increase above 0.4", weakRisk, strongRisk)
	}
	if ctx["risk"] != 0.4 {
		t.Error("InfluenceContext must not mutate the input context")
	}
}

func TestBiasTotalInfluenceBounded(t *testing.T) {
	b := NewBiasSystem()
	if b.TotalInfluence() != 0 {
		t.Error("empty bias system should have zero influence")
	}
	b.Add(Bias{Kind: BiasOptimism, Strength: 5}) // clamped on Add
	b.Add(Bias{Kind: BiasAnchoring, Strength: 1})
	if got := b.TotalInfluence(); got < 0 || got > 1 {
		t.Errorf("TotalInfluence = %v, want within [0,1]", got)
	}
	if b.Dominant() != string(BiasOptimism) {
		t.Errorf("Dominant = %q, want optimism", b.Dominant())
	}
}

func TestAnalyzeDeductiveWins(t *testing.T) {
	r := NewReasoning()
	r.AddBelief("wolves nearby", "flocks scatter")
	r.AddRule(LogicalRule{
		Premises:   []string{"wolves nearby"},
		Conclusion: "guard the flock",
		Confidence: 0.9,
	})

	if got := r.Analyze(0, "wolves nearby"); got != "guard the flock" {
		t.Errorf("Analyze = %q, want the deductive conclusion", got)
	}
}

func TestAnalyzeCacheIgnoresRuleChanges(t *testing.T) {
	r := NewReasoning()
	r.AddRule(LogicalRule{Premises: []string{"storm coming"}, Conclusion: "seek shelter", Confidence: 0.8})

	first := r.Analyze(0, "storm coming")
	r.Rules = nil // rule changes must not invalidate live cache entries
	second := r.Analyze(50, "storm coming")
	if first != second {
		t.Errorf("cached conclusion changed: %q then %q", first, second)
	}

	third := r.Analyze(101, "storm coming")
	if third != NoConclusion {
		t.Errorf("expired cache should re-reason, got %q", third)
	}
}

func TestAnalyzeNoConclusion(t *testing.T) {
	r := NewReasoning()
	if got := r.Analyze(0, "an unknowable omen"); got != NoConclusion {
		t.Errorf("Analyze = %q, want the sentinel", got)
	}
}

func TestEvaluateOptionBeliefFraction(t *testing.T) {
	r := NewReasoning()
	r.AddBelief("trade", "coin")
	r.AddBelief("trade", "caravan")

	ctx := map[string]float64{"coin": 1}
	// 0.5 base + 1/2 of neighbors present * 0.3
	if got := r.EvaluateOption("trade", ctx); math.Abs(got-0.65) > 1e-9 {
		t.Errorf("EvaluateOption = %v, want 0.65", got)
	}
	// No beliefs and no rules: neutral default, no NaN from empty ratios.
	if got := r.EvaluateOption("wander", nil); got != 0.5 {
		t.Errorf("EvaluateOption with no signal = %v, want 0.5", got)
	}
}

func TestRiskSeekingOutscoresRational(t *testing.T) {
	ctx := map[string]float64{"benefit": 1.0, "risk": 0.0}

	d := NewDecisionMaker()
	d.CurrentStrategy = StrategyRational
	rational := d.EvaluateOption("A", ctx)

	d.CurrentStrategy = StrategyRiskSeeking
	seeking := d.EvaluateOption("A", ctx)

	if seeking < rational {
		t.Errorf("risk-seeking %v < rational %v with full benefit", seeking, rational)
	}
	if chosen := d.Decide(0, []string{"A", "B"}, ctx); chosen != "A" {
		t.Errorf("tie should resolve to first-seen option, got %q", chosen)
	}
}

func TestWeightLearning(t *testing.T) {
	d := NewDecisionMaker()
	ctx := map[string]float64{"benefit": 0.5}

	d.Decide(0, []string{"hunt"}, ctx)
	d.RecordOutcome(Outcome{Success: true, Impact: 1})
	d.Tick(1, 1)
	if got := d.Weights["hunt"]; got != 1.1 {
		t.Fatalf("weight after success = %v, want 1.1", got)
	}

	// A second tick must not re-apply the same outcome.
	d.Tick(2, 1)
	if got := d.Weights["hunt"]; got != 1.1 {
		t.Fatalf("weight re-applied on tick: %v", got)
	}

	for i := 0; i < 20; i++ {
		d.Decide(float64(3+i), []string{"hunt"}, ctx)
		d.RecordOutcome(Outcome{Success: false})
		d.Tick(float64(3+i), 1)
	}
	if got := d.Weights["hunt"]; got < 0.5 {
		t.Errorf("weight %v fell below clamp floor 0.5", got)
	}
}

func TestStrategyRetuning(t *testing.T) {
	d := NewDecisionMaker()
	ctx := map[string]float64{}

	// Two outcomes: below the minimum, strategy stays put.
	for i := 0; i < 2; i++ {
		d.Decide(float64(i), []string{"x"}, ctx)
		d.RecordOutcome(Outcome{Success: false})
	}
	d.Tick(2, 1)
	if d.CurrentStrategy != StrategyBalanced {
		t.Fatalf("strategy changed with only 2 outcomes: %v", d.CurrentStrategy)
	}

	// Five failures: success rate 0 → risk averse.
	for i := 0; i < 3; i++ {
		d.Decide(float64(3+i), []string{"x"}, ctx)
		d.RecordOutcome(Outcome{Success: false})
	}
	d.Tick(6, 1)
	if d.CurrentStrategy != StrategyRiskAverse {
		t.Fatalf("strategy = %v, want risk averse after repeated failure", d.CurrentStrategy)
	}

	// Five successes: success rate 1 → risk seeking.
	for i := 0; i < 5; i++ {
		d.Decide(float64(7+i), []string{"x"}, ctx)
		d.RecordOutcome(Outcome{Success: true})
	}
	d.Tick(12, 1)
	if d.CurrentStrategy != StrategyRiskSeeking {
		t.Fatalf("strategy = %v, want risk seeking after repeated success", d.CurrentStrategy)
	}
}

func TestContextSimilarityZeroDenominator(t *testing.T) {
	if got := contextSimilarity(map[string]float64{"a": 1}, map[string]float64{"b": 1}); got != 0 {
		t.Errorf("similarity with no shared keys = %v, want 0", got)
	}
}

func TestWorkingMemoryPruning(t *testing.T) {
	s := NewSystem(zap.NewNop())
	for i := 0; i < 25; i++ {
		s.ProcessInput(float64(i)*0.1, "a passing remark", SourcePerception)
	}
	s.Tick(3, 0.1)
	if len(s.WorkingMemory) > workingMemoryCap {
		t.Errorf("working memory holds %d thoughts, cap is %d", len(s.WorkingMemory), workingMemoryCap)
	}
}

func TestMakeDecisionChainsBias(t *testing.T) {
	s := NewSystem(zap.NewNop())
	s.Bias.Add(Bias{Kind: BiasNegativity, Strength: 1})

	chosen := s.MakeDecision(0, []string{"advance", "retreat"}, map[string]float64{"risk": 0.5})
	if chosen == "" {
		t.Fatal("expected a choice")
	}
	// The biased context was recorded, not the raw one.
	last := s.Decisions.History[len(s.Decisions.History)-1]
	if last.Context["risk"] <= 0.5 {
		t.Errorf("recorded risk %v, want inflated by negativity bias", last.Context["risk"])
	}
	if !strings.HasPrefix(s.WorkingMemory[len(s.WorkingMemory)-1].Content, "leaning toward ") {
		t.Error("expected a reasoning thought about the evaluated options")
	}
}

func TestPerceptionRecentNewestFirst(t *testing.T) {
	p := NewPerception()
	p.Process(1, "a cart arrives at the gate")
	p.Process(2, "a dog barks twice")
	p.Process(3, "rain begins to fall")

	got := p.Recent(2)
	if len(got) != 2 {
		t.Fatalf("Recent(2) returned %d events, want 2", len(got))
	}
	if got[0].Content != "rain begins to fall" || got[1].Content != "a dog barks twice" {
		t.Errorf("Recent(2) = [%q %q], want newest first", got[0].Content, got[1].Content)
	}
	if len(p.Recent(10)) != 3 {
		t.Error("Recent should cap at the sensory memory length")
	}
}
