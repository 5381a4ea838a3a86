package agent

import (
	"github.com/emberfall/npcmind/internal/cognition"
	"github.com/emberfall/npcmind/internal/goal"
)

// SeedDefaults installs the baseline mental furniture a fresh NPC starts
// with: core desires, a few world rules, a mild bias profile, and common
// action templates. Hosts typically layer character-specific content on
// top of these.
func SeedDefaults(a *Agent) {
	a.Goals.Desires.SeedDefaults(a.Clock)

	a.Cognition.Reasoning.AddRule(cognition.LogicalRule{
		Premises:   []string{"danger"},
		Conclusion: "seek safety",
		Confidence: 0.9,
	})
	a.Cognition.Reasoning.AddRule(cognition.LogicalRule{
		Premises:   []string{"hungry"},
		Conclusion: "find food",
		Confidence: 0.8,
	})
	a.Cognition.Reasoning.AddRule(cognition.LogicalRule{
		Premises:   []string{"stranger"},
		Conclusion: "stay cautious",
		Confidence: 0.6,
	})
	a.Cognition.Reasoning.AddBelief("seek safety", "stay cautious")

	a.Cognition.Bias.Add(cognition.Bias{
		Kind:     cognition.BiasNegativity,
		Strength: 0.2,
	})
	a.Cognition.Bias.Add(cognition.Bias{
		Kind:     cognition.BiasAvailability,
		Strength: 0.1,
	})

	a.Goals.Planner.AddTemplate(goal.ActionTemplate{
		Name:            "gather_supplies",
		Effects:         []string{"has_supplies"},
		AverageDuration: 5,
		SuccessRate:     0.8,
	})
	a.Goals.Planner.AddTemplate(goal.ActionTemplate{
		Name:            "travel_to_market",
		Prerequisites:   []string{"has_supplies"},
		Effects:         []string{"at_market"},
		AverageDuration: 10,
		SuccessRate:     0.9,
	})
	a.Goals.Planner.AddTemplate(goal.ActionTemplate{
		Name:            "trade_goods",
		Prerequisites:   []string{"at_market"},
		Effects:         []string{"has_coin"},
		AverageDuration: 3,
		SuccessRate:     0.7,
	})
}
