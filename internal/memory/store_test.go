package memory

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"go.uber.org/zap"
)

func newTestStore(seed int64) *Store {
	return NewStore(rand.New(rand.NewSource(seed)), zap.NewNop())
}

func TestImportanceAlwaysInRange(t *testing.T) {
	scorer := NewScorer()
	rng := rand.New(rand.NewSource(42))

	words := []string{"death", "danger", "promise", "walk", "market", "very", "happy", "terrible"}
	for i := 0; i < 1000; i++ {
		content := ""
		for j := 0; j < rng.Intn(6); j++ {
			content += words[rng.Intn(len(words))] + " "
		}
		emotional := rng.Float64()*4 - 2 // deliberately outside [-1,1] too

		got := scorer.Score(content, emotional)
		if got < 0 || got > 1 {
			t.Fatalf("Score(%q, %v) = %v, want within [0,1]", content, emotional, got)
		}
		got = scorer.ScoreWithContext(content, emotional, rng.Float64(), rng.Float64())
		if got < 0 || got > 1 {
			t.Fatalf("ScoreWithContext(%q, %v) = %v, want within [0,1]", content, emotional, got)
		}
	}
}

func TestKeywordScoreIsMeanOfMatches(t *testing.T) {
	scorer := NewScorer()
	// "death" (0.9) and "danger" (0.8) both match: mean 0.85.
	got := scorer.keywordScore("Death and DANGER ahead")
	if math.Abs(got-0.85) > 1e-9 {
		t.Errorf("keywordScore = %v, want 0.85", got)
	}
	if scorer.keywordScore("a quiet afternoon") != 0 {
		t.Error("expected zero score with no keyword matches")
	}
}

func TestPromotionAfterOneTick(t *testing.T) {
	s := newTestStore(1)
	id := s.Add(0, "a dangerous secret about death", 0.9, nil)

	if _, ok := s.Long.Get(id); ok {
		t.Fatal("memory promoted before any tick")
	}
	s.Tick(0.1, 0.1)
	if _, ok := s.Long.Get(id); !ok {
		t.Fatal("important memory not in long-term after one tick")
	}
	// The short-term copy remains until it ages out.
	if s.Short.Find("dangerous secret") == nil {
		t.Error("promotion should copy, not move, the short-term entry")
	}
}

func TestShortTermCapacity(t *testing.T) {
	s := newTestStore(2)
	for i := 0; i < 100; i++ {
		s.Add(float64(i)*0.01, fmt.Sprintf("event %d", i), 0, nil)
		if s.Short.Len() > shortTermCapacity {
			t.Fatalf("short-term holds %d after add %d, cap is %d", s.Short.Len(), i, shortTermCapacity)
		}
	}
	if s.Short.Len() != shortTermCapacity {
		t.Errorf("short-term holds %d, want full capacity %d", s.Short.Len(), shortTermCapacity)
	}
}

func TestRecallPrefersShortTermMostRecent(t *testing.T) {
	s := newTestStore(3)
	s.Add(0, "saw the merchant at dawn", 0, nil)
	s.Add(1, "saw the merchant at dusk", 0, nil)

	m := s.Recall("merchant")
	if m == nil {
		t.Fatal("expected a recall hit")
	}
	if m.Content != "saw the merchant at dusk" {
		t.Errorf("recalled %q, want the most recent match", m.Content)
	}
	if s.Recall("dragon") != nil {
		t.Error("expected nil for an unknown query")
	}
}

func TestShortTermAgeCutoff(t *testing.T) {
	s := newTestStore(4)
	s.Add(0, "fleeting thought", 0, nil)
	s.Tick(4.9, 4.9)
	if s.Recall("fleeting") == nil {
		t.Fatal("memory aged out before the cutoff")
	}
	s.Tick(5.1, 0.2)
	if s.Short.Find("fleeting") != nil {
		t.Error("memory survived past the short-term age cutoff")
	}
}

func TestSurvivalProbability(t *testing.T) {
	if got := SurvivalProbability(0.1, 0); got != 1 {
		t.Errorf("survival at age 0 = %v, want 1", got)
	}
	// Expected lifetime for rate r is 1/r: survival at that age is e^-1.
	got := SurvivalProbability(0.25, 4)
	if math.Abs(got-math.Exp(-1)) > 1e-9 {
		t.Errorf("survival at expected lifetime = %v, want %v", got, math.Exp(-1))
	}
	// More important and more emotional memories decay slower.
	p := DefaultDecayPolicy()
	if p.Rate(0.9, 0.8) >= p.Rate(0.1, 0.0) {
		t.Error("important emotional memory should have the lower decay rate")
	}
}

// Long-term decay must use true elapsed age, not the tick's delta. Under
// per-delta aging a memory swept with tiny deltas would be near-immortal;
// under elapsed-age semantics it is eventually forgotten.
func TestSurvivalUsesElapsedAge(t *testing.T) {
	s := newTestStore(5)
	id := s.Add(0, "remember the oath of the old king", 0.5, nil)
	s.Tick(0.1, 0.1)
	if _, ok := s.Long.Get(id); !ok {
		t.Fatal("expected promotion to long-term")
	}

	now := 0.1
	for i := 0; i < 2000; i++ {
		now += 0.1
		s.Tick(now, 0.1)
		if _, ok := s.Long.Get(id); !ok {
			return // forgotten, as elapsed-age decay predicts
		}
	}
	t.Error("memory never decayed; sweep appears to age by tick delta instead of elapsed time")
}

func TestBidirectionalLinks(t *testing.T) {
	lt := NewLongTerm()
	a := &Memory{ID: "a", Content: "found the cache", EmotionalValue: 0.5}
	b := &Memory{ID: "b", Content: "told nobody", EmotionalValue: -0.2, RelatedIDs: []string{"a"}}
	lt.Add(a)
	lt.Add(b)

	if got := lt.Connected("a"); len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("Connected(a) = %v, want [b]", got)
	}
	if got := lt.Connected("b"); len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("Connected(b) = %v, want [a]", got)
	}

	lt.Remove("b")
	if got := lt.Connected("a"); len(got) != 0 {
		t.Errorf("links to a removed memory should be dropped, got %v", got)
	}
}

func TestEmotionalIndex(t *testing.T) {
	lt := NewLongTerm()
	lt.Add(&Memory{ID: "joy", Content: "festival day", EmotionalValue: 0.9})
	lt.Add(&Memory{ID: "loss", Content: "the fire", EmotionalValue: -0.9})

	if got := lt.ByEmotion(EmotionVeryPositive); len(got) != 1 || got[0].ID != "joy" {
		t.Errorf("ByEmotion(very_positive) = %v, want the festival memory", got)
	}
	if got := lt.ByEmotion(EmotionVeryNegative); len(got) != 1 || got[0].ID != "loss" {
		t.Errorf("ByEmotion(very_negative) = %v, want the fire memory", got)
	}
	if got := lt.ByEmotion(EmotionNeutral); len(got) != 0 {
		t.Errorf("ByEmotion(neutral) = %v, want empty", got)
	}
}

func TestPromotionKeepsIndependentCopy(t *testing.T) {
	s := newTestStore(1)
	id := s.Add(0, "danger at the collapsed bridge", 0.9, nil)
	s.Tick(0.1, 0.1)

	short := s.Short.Find("bridge")
	long, ok := s.Long.Get(id)
	if short == nil || !ok {
		t.Fatal("memory should live in both stores after promotion")
	}
	if short == long {
		t.Fatal("short- and long-term share the same record")
	}

	short.Content = "nothing happened"
	if long.Content != "danger at the collapsed bridge" {
		t.Error("editing the short-term record changed the long-term copy")
	}
}

func TestStrengthenLink(t *testing.T) {
	lt := NewLongTerm()
	lt.Add(&Memory{ID: "a", Content: "met the trader"})
	lt.Add(&Memory{ID: "b", Content: "the trader cheated me"})

	lt.StrengthenLink("a", "b")
	if got := lt.Connected("a"); len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("Connected(a) = %v, want [b]", got)
	}
	if got := lt.Connected("b"); len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("Connected(b) = %v, want [a]", got)
	}

	lt.StrengthenLink("a", "ghost")
	if len(lt.Links["ghost"]) != 0 {
		t.Error("link created toward a memory that does not exist")
	}
}

func TestShortTermRecentNewestFirst(t *testing.T) {
	st := NewShortTerm()
	for _, c := range []string{"first", "second", "third"} {
		st.Add(&Memory{ID: c, Content: c})
	}

	got := st.Recent(2)
	if len(got) != 2 || got[0].ID != "third" || got[1].ID != "second" {
		t.Fatalf("Recent(2) = %v, want [third second]", got)
	}
	if len(st.Recent(10)) != 3 {
		t.Error("Recent should cap at the buffer length")
	}
}

func TestAnalyzeEmotionalPattern(t *testing.T) {
	scorer := NewScorer()

	p := scorer.AnalyzeEmotionalPattern("Very happy, an absolutely wonderful day")
	if p.PositiveKeywords != 2 {
		t.Errorf("positive keywords = %d, want 2", p.PositiveKeywords)
	}
	if p.NegativeKeywords != 0 {
		t.Errorf("negative keywords = %d, want 0", p.NegativeKeywords)
	}
	if p.Intensity != 0.5 {
		t.Errorf("intensity = %v, want 0.5 for two intensifiers", p.Intensity)
	}

	p = scorer.AnalyzeEmotionalPattern("a terrible, hateful fear")
	if p.NegativeKeywords != 3 {
		t.Errorf("negative keywords = %d, want 3", p.NegativeKeywords)
	}
	if p.Intensity != 0 {
		t.Errorf("intensity = %v, want 0 without intensifiers", p.Intensity)
	}
}
