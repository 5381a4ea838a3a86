package goal

// Category groups desires by the kind of need they express.
type Category string

const (
	CategoryBasic       Category = "basic"
	CategorySocial      Category = "social"
	CategoryAchievement Category = "achievement"
	CategoryGrowth      Category = "growth"
	CategorySecurity    Category = "security"
)

// categoryRates is the per-category intensity growth per time unit.
var categoryRates = map[Category]float64{
	CategoryBasic:       0.1,
	CategorySocial:      0.05,
	CategoryAchievement: 0.03,
	CategoryGrowth:      0.02,
	CategorySecurity:    0.04,
}

// defaultSatisfactionThreshold activates a desire once intensity passes it.
const defaultSatisfactionThreshold = 0.7

// Desire is one abstract need with rising intensity and derived urgency.
type Desire struct {
	Name         string   `json:"name"`
	Intensity    float64  `json:"intensity"`
	Urgency      float64  `json:"urgency"`
	Satisfaction float64  `json:"satisfaction"` // 0.0 - 1.0
	Category     Category `json:"category"`
	LastUpdate   float64  `json:"last_update"` // sim time of last satisfaction
}

// DesireSystem tracks per-need intensity, urgency and satisfaction.
type DesireSystem struct {
	Desires    map[string]*Desire `json:"desires"`
	Active     map[string]bool    `json:"active"`
	Weights    map[string]float64 `json:"weights"`
	Thresholds map[string]float64 `json:"thresholds"`
	Mood       float64            `json:"mood"`
}

// NewDesireSystem creates an empty desire set.
func NewDesireSystem() *DesireSystem {
	return &DesireSystem{
		Desires:    make(map[string]*Desire),
		Active:     make(map[string]bool),
		Weights:    make(map[string]float64),
		Thresholds: make(map[string]float64),
		Mood:       0.5,
	}
}

// SeedDefaults installs the baseline needs every agent starts with.
func (ds *DesireSystem) SeedDefaults(now float64) {
	ds.Add(now, "social_interaction", CategorySocial, 0.5)
	ds.Add(now, "achievement", CategoryAchievement, 0.3)
	ds.Add(now, "learning", CategoryGrowth, 0.4)
	ds.Add(now, "security", CategorySecurity, 0.6)
}

// Add registers a desire with initial intensity and default weight/threshold.
func (ds *DesireSystem) Add(now float64, name string, category Category, intensity float64) {
	ds.Desires[name] = &Desire{
		Name:       name,
		Intensity:  clamp(intensity, 0, 1),
		Category:   category,
		LastUpdate: now,
	}
	ds.Weights[name] = 1.0
	ds.Thresholds[name] = defaultSatisfactionThreshold
}

// Satisfy quenches part of a desire: satisfaction rises, intensity drops
// proportionally, and staleness resets.
func (ds *DesireSystem) Satisfy(now float64, name string, amount float64) bool {
	d, ok := ds.Desires[name]
	if !ok {
		return false
	}
	amount = clamp(amount, 0, 1)
	d.Satisfaction = clamp(d.Satisfaction+amount, 0, 1)
	d.Intensity *= 1 - amount
	d.LastUpdate = now
	return true
}

// Tick raises intensities by category rate against unmet satisfaction,
// derives urgency from staleness, refreshes the active set and mood.
func (ds *DesireSystem) Tick(now, dt float64) {
	for _, d := range ds.Desires {
		rate := categoryRates[d.Category]
		d.Intensity += rate * dt * (1 - d.Satisfaction)
		d.Intensity = clamp(d.Intensity, 0, 1)

		staleness := now - d.LastUpdate
		d.Urgency = clamp(d.Intensity*min(1, staleness/100), 0, 1)
	}

	ds.Active = make(map[string]bool)
	for name, d := range ds.Desires {
		threshold, ok := ds.Thresholds[name]
		if !ok {
			threshold = defaultSatisfactionThreshold
		}
		if d.Intensity > threshold {
			ds.Active[name] = true
		}
	}

	ds.updateMood()
}

// Strongest returns the weighted-highest-intensity desire, nil when empty.
func (ds *DesireSystem) Strongest() *Desire {
	var best *Desire
	bestPriority := -1.0
	for name, d := range ds.Desires {
		weight := ds.Weights[name]
		if weight == 0 {
			weight = 1.0
		}
		if priority := d.Intensity * weight; priority > bestPriority {
			bestPriority = priority
			best = d
		}
	}
	return best
}

// ActiveDesires returns desires whose intensity exceeds their threshold.
func (ds *DesireSystem) ActiveDesires() []*Desire {
	var out []*Desire
	for name := range ds.Active {
		if d, ok := ds.Desires[name]; ok {
			out = append(out, d)
		}
	}
	return out
}

// AdjustWeight changes a desire's priority weight, clamped [0, 2].
func (ds *DesireSystem) AdjustWeight(name string, weight float64) {
	if _, ok := ds.Desires[name]; ok {
		ds.Weights[name] = clamp(weight, 0, 2)
	}
}

// CategorySatisfaction is the mean satisfaction across a category,
// 1.0 when the category has no desires.
func (ds *DesireSystem) CategorySatisfaction(category Category) float64 {
	var sum float64
	var count int
	for _, d := range ds.Desires {
		if d.Category == category {
			sum += d.Satisfaction
			count++
		}
	}
	if count == 0 {
		return 1.0
	}
	return sum / float64(count)
}

// updateMood sets mood to weight-normalized mean satisfaction,
// neutral 0.5 when there is no weight.
func (ds *DesireSystem) updateMood() {
	var totalSatisfaction, totalWeight float64
	for name, d := range ds.Desires {
		weight := ds.Weights[name]
		if weight == 0 {
			weight = 1.0
		}
		totalSatisfaction += d.Satisfaction * weight
		totalWeight += weight
	}
	if totalWeight == 0 {
		ds.Mood = 0.5
		return
	}
	ds.Mood = totalSatisfaction / totalWeight
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
