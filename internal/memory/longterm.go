package memory

import "strings"

// LongTerm is the associative store of consolidated memories. Links are
// non-owning id references kept in an adjacency map so the graph serializes
// without ownership cycles.
type LongTerm struct {
	Memories       map[string]*Memory  `json:"memories"`
	Links          map[string][]string `json:"links"`
	EmotionalIndex map[string][]string `json:"emotional_index"`
}

// NewLongTerm creates an empty long-term store.
func NewLongTerm() *LongTerm {
	return &LongTerm{
		Memories:       make(map[string]*Memory),
		Links:          make(map[string][]string),
		EmotionalIndex: make(map[string][]string),
	}
}

// Add consolidates a memory: indexes it by emotion bucket and links it
// bidirectionally to any related memories already present. The store keeps
// its own copy, so later changes to the caller's record do not leak in.
func (lt *LongTerm) Add(m *Memory) {
	if _, exists := lt.Memories[m.ID]; exists {
		return
	}

	kept := *m
	kept.RelatedIDs = append([]string(nil), m.RelatedIDs...)

	bucket := CategorizeEmotion(kept.EmotionalValue)
	lt.EmotionalIndex[bucket] = append(lt.EmotionalIndex[bucket], kept.ID)

	for _, relatedID := range kept.RelatedIDs {
		if _, ok := lt.Memories[relatedID]; ok {
			lt.Links[kept.ID] = append(lt.Links[kept.ID], relatedID)
			lt.Links[relatedID] = append(lt.Links[relatedID], kept.ID)
		}
	}

	lt.Memories[kept.ID] = &kept
}

// Find returns any memory whose content contains query, or nil.
func (lt *LongTerm) Find(query string) *Memory {
	for _, m := range lt.Memories {
		if strings.Contains(m.Content, query) {
			return m
		}
	}
	return nil
}

// Get looks up a memory by id.
func (lt *LongTerm) Get(id string) (*Memory, bool) {
	m, ok := lt.Memories[id]
	return m, ok
}

// Connected returns the memories linked to the given id.
func (lt *LongTerm) Connected(id string) []*Memory {
	var out []*Memory
	for _, linked := range lt.Links[id] {
		if m, ok := lt.Memories[linked]; ok {
			out = append(out, m)
		}
	}
	return out
}

// ByEmotion returns all memories indexed under an emotion bucket.
func (lt *LongTerm) ByEmotion(bucket string) []*Memory {
	var out []*Memory
	for _, id := range lt.EmotionalIndex[bucket] {
		if m, ok := lt.Memories[id]; ok {
			out = append(out, m)
		}
	}
	return out
}

// StrengthenLink adds a bidirectional link between two stored memories.
func (lt *LongTerm) StrengthenLink(a, b string) {
	if _, ok := lt.Memories[a]; !ok {
		return
	}
	if _, ok := lt.Memories[b]; !ok {
		return
	}
	lt.Links[a] = append(lt.Links[a], b)
	lt.Links[b] = append(lt.Links[b], a)
}

// Remove forgets a memory, dropping its index entries and incoming links.
func (lt *LongTerm) Remove(id string) {
	m, ok := lt.Memories[id]
	if !ok {
		return
	}
	delete(lt.Memories, id)

	bucket := CategorizeEmotion(m.EmotionalValue)
	lt.EmotionalIndex[bucket] = removeID(lt.EmotionalIndex[bucket], id)

	for _, linked := range lt.Links[id] {
		lt.Links[linked] = removeID(lt.Links[linked], id)
	}
	delete(lt.Links, id)
}

// Len reports the number of consolidated memories.
func (lt *LongTerm) Len() int {
	return len(lt.Memories)
}

func removeID(ids []string, id string) []string {
	kept := ids[:0]
	for _, v := range ids {
		if v != id {
			kept = append(kept, v)
		}
	}
	return kept
}
