package memory

import "strings"

// shortTermCapacity is the FIFO cap on working recollection.
const shortTermCapacity = 20

// ShortTerm is a capped most-recent-first buffer of fresh memories.
type ShortTerm struct {
	Memories []*Memory `json:"memories"` // index 0 is newest
	Capacity int       `json:"capacity"`
}

// NewShortTerm creates an empty short-term buffer with the default capacity.
func NewShortTerm() *ShortTerm {
	return &ShortTerm{Capacity: shortTermCapacity}
}

// Add places a memory at the front, evicting the oldest past capacity.
func (st *ShortTerm) Add(m *Memory) {
	st.Memories = append([]*Memory{m}, st.Memories...)
	if len(st.Memories) > st.Capacity {
		st.Memories = st.Memories[:st.Capacity]
	}
}

// Find returns the first (most recent) memory whose content contains query.
func (st *ShortTerm) Find(query string) *Memory {
	for _, m := range st.Memories {
		if strings.Contains(m.Content, query) {
			return m
		}
	}
	return nil
}

// Recent returns up to count memories, newest first.
func (st *ShortTerm) Recent(count int) []*Memory {
	if count > len(st.Memories) {
		count = len(st.Memories)
	}
	out := make([]*Memory, count)
	copy(out, st.Memories[:count])
	return out
}

// Important returns memories above the long-term promotion bar.
func (st *ShortTerm) Important() []*Memory {
	var out []*Memory
	for _, m := range st.Memories {
		if m.Importance > promotionThreshold {
			out = append(out, m)
		}
	}
	return out
}

// ByEmotion returns memories at or above an emotional value threshold.
func (st *ShortTerm) ByEmotion(threshold float64) []*Memory {
	var out []*Memory
	for _, m := range st.Memories {
		if m.EmotionalValue >= threshold {
			out = append(out, m)
		}
	}
	return out
}

// ClearOld drops memories older than maxAge relative to now.
func (st *ShortTerm) ClearOld(now, maxAge float64) {
	kept := st.Memories[:0]
	for _, m := range st.Memories {
		if now-m.Timestamp < maxAge {
			kept = append(kept, m)
		}
	}
	st.Memories = kept
}

// Len reports the number of buffered memories.
func (st *ShortTerm) Len() int {
	return len(st.Memories)
}
