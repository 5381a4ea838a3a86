package memory

import (
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is one agent's full memory: a short-term buffer feeding a long-term
// associative graph under a shared decay policy and importance scorer.
// A Store is owned by exactly one agent and never shared across agents.
type Store struct {
	Short  *ShortTerm  `json:"short_term"`
	Long   *LongTerm   `json:"long_term"`
	Decay  DecayPolicy `json:"decay"`
	Scorer *Scorer     `json:"scorer"`

	rng    *rand.Rand
	logger *zap.Logger
}

// NewStore creates a memory store with a seeded RNG for decay sweeps.
func NewStore(rng *rand.Rand, logger *zap.Logger) *Store {
	return &Store{
		Short:  NewShortTerm(),
		Long:   NewLongTerm(),
		Decay:  DefaultDecayPolicy(),
		Scorer: NewScorer(),
		rng:    rng,
		logger: logger,
	}
}

// Rebind reattaches runtime dependencies after a snapshot restore.
func (s *Store) Rebind(rng *rand.Rand, logger *zap.Logger) {
	s.rng = rng
	s.logger = logger
}

// Add scores and stores a new memory, returning its id. The memory starts
// in short-term storage; promotion to long-term happens on Tick.
func (s *Store) Add(now float64, content string, emotionalValue float64, relatedIDs []string) string {
	importance := s.Scorer.Score(content, emotionalValue)
	m := &Memory{
		ID:             uuid.New().String(),
		Content:        content,
		Importance:     importance,
		EmotionalValue: clamp(emotionalValue, -1, 1),
		Timestamp:      now,
		RelatedIDs:     relatedIDs,
		DecayRate:      s.Decay.InitialRate(importance),
	}
	s.Short.Add(m)

	s.logger.Debug("memory added",
		zap.String("id", m.ID),
		zap.Float64("importance", importance))
	return m.ID
}

// AddWithContext is Add with context relevance and novelty feeding the score.
func (s *Store) AddWithContext(now float64, content string, emotionalValue, contextRelevance, novelty float64, relatedIDs []string) string {
	importance := s.Scorer.ScoreWithContext(content, emotionalValue, contextRelevance, novelty)
	m := &Memory{
		ID:             uuid.New().String(),
		Content:        content,
		Importance:     importance,
		EmotionalValue: clamp(emotionalValue, -1, 1),
		Timestamp:      now,
		RelatedIDs:     relatedIDs,
		DecayRate:      s.Decay.InitialRate(importance),
	}
	s.Short.Add(m)
	return m.ID
}

// Recall returns the first memory whose content contains query, searching
// short-term (most recent first) before long-term. Nil when nothing matches.
func (s *Store) Recall(query string) *Memory {
	if m := s.Short.Find(query); m != nil {
		return m
	}
	return s.Long.Find(query)
}

// Tick advances memory by one step: ages out stale short-term entries,
// promotes important ones into long-term, and runs the probabilistic
// long-term survival sweep.
func (s *Store) Tick(now, dt float64) {
	_ = dt // decay depends on true elapsed age, not the tick's delta

	s.promote()
	s.Short.ClearOld(now, shortTermMaxAge)
	s.sweep(now)
}

// promote copies short-term memories past the importance bar into long-term.
// The short-term copy still ages out normally.
func (s *Store) promote() {
	for _, m := range s.Short.Important() {
		s.Long.Add(m)
	}
}

// sweep removes long-term memories that fail their survival roll. Age is
// the true elapsed time since creation.
func (s *Store) sweep(now float64) {
	var forgotten []string
	for id, m := range s.Long.Memories {
		age := now - m.Timestamp
		if age <= 0 {
			continue
		}
		rate := s.Decay.Rate(m.Importance, m.EmotionalValue)
		if s.rng.Float64() >= SurvivalProbability(rate, age) {
			forgotten = append(forgotten, id)
		}
	}
	for _, id := range forgotten {
		s.Long.Remove(id)
	}
	if len(forgotten) > 0 {
		s.logger.Debug("decay sweep complete",
			zap.Int("forgotten", len(forgotten)),
			zap.Int("remaining", s.Long.Len()))
	}
}
