package telemetry

import "sync"

// Store holds the canonical in-memory telemetry collections. There is one
// Store per process and every consumer reads through it; nothing holds a
// private copy. Alert acknowledgment is the only mutation after generation.
type Store struct {
	mu              sync.RWMutex
	units           []RefineryUnit
	samples         []Sample
	kpis            []KPI
	alerts          []Alert
	recommendations []Recommendation
	predictions     []Prediction
}

func NewStore(seed int64, sampleDays int) *Store {
	s := &Store{}
	s.generate(seed, sampleDays)
	return s
}

// Data seeds a store directly, bypassing synthetic generation. Used when the
// collections come from somewhere else (tests, fixtures).
type Data struct {
	Units           []RefineryUnit
	Samples         []Sample
	KPIs            []KPI
	Alerts          []Alert
	Recommendations []Recommendation
	Predictions     []Prediction
}

func NewStoreFromData(d Data) *Store {
	return &Store{
		units:           d.Units,
		samples:         d.Samples,
		kpis:            d.KPIs,
		alerts:          d.Alerts,
		recommendations: d.Recommendations,
		predictions:     d.Predictions,
	}
}

func (s *Store) Units() []RefineryUnit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]RefineryUnit, len(s.units))
	copy(out, s.units)
	return out
}

func (s *Store) Unit(unitID string) (RefineryUnit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.units {
		if u.UnitID == unitID {
			return u, true
		}
	}
	return RefineryUnit{}, false
}

func (s *Store) Samples() []Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Sample, len(s.samples))
	copy(out, s.samples)
	return out
}

func (s *Store) UnitSamples(unitID string) []Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Sample
	for _, sample := range s.samples {
		if sample.UnitID == unitID {
			out = append(out, sample)
		}
	}
	return out
}

func (s *Store) KPIs() []KPI {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]KPI, len(s.kpis))
	copy(out, s.kpis)
	return out
}

func (s *Store) KPI(name string) (KPI, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, k := range s.kpis {
		if k.Name == name {
			return k, true
		}
	}
	return KPI{}, false
}

// Alerts returns a snapshot in insertion order. Ordering for display is the
// alert manager's concern.
func (s *Store) Alerts() []Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// AcknowledgeAlert flips the acknowledged flag. The flip is monotone: an
// already-acknowledged alert stays acknowledged. Reports whether the id
// matched a stored alert.
func (s *Store) AcknowledgeAlert(alertID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.alerts {
		if s.alerts[i].ID == alertID {
			s.alerts[i].Acknowledged = true
			return true
		}
	}
	return false
}

func (s *Store) Recommendations() []Recommendation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Recommendation, len(s.recommendations))
	copy(out, s.recommendations)
	return out
}

// TopRecommendations returns at most n recommendations, highest priority
// first, preserving generation order within a priority.
func (s *Store) TopRecommendations(n int) []Recommendation {
	recs := s.Recommendations()
	rank := func(p Priority) int {
		switch p {
		case PriorityHigh:
			return 0
		case PriorityMedium:
			return 1
		case PriorityLow:
			return 2
		default:
			return 3
		}
	}
	// Insertion sort keeps it stable; the collection is small.
	for i := 1; i < len(recs); i++ {
		for j := i; j > 0 && rank(recs[j].Priority) < rank(recs[j-1].Priority); j-- {
			recs[j], recs[j-1] = recs[j-1], recs[j]
		}
	}
	if n < len(recs) {
		recs = recs[:n]
	}
	return recs
}

func (s *Store) Predictions() []Prediction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Prediction, len(s.predictions))
	copy(out, s.predictions)
	return out
}

// DailyTotals aggregates the current sample set. Derived on demand, never
// cached.
func (s *Store) DailyTotals() []DailyTotal {
	return DailyTotals(s.Samples())
}
