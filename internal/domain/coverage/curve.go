package coverage

import "sort"

// DefaultThresholds are the coverage levels reported by Milestones when none are given.
var DefaultThresholds = []float64{0.5, 0.6, 0.7, 0.8, 0.9, 0.95, 1.0}

// DefaultMinDelta is the per-skill coverage increase below which learning more
// stops paying off.
const DefaultMinDelta = 0.005

const epsilon = 1e-9

// Milestone is the first step at which the curve reaches Threshold.
type Milestone struct {
	Threshold float64 `json:"threshold"`
	Reached   bool    `json:"reached"`
	// Step counts learned skills; 0 means the known skills already suffice.
	Step  int    `json:"step"`
	Skill string `json:"skill,omitempty"`
}

// Milestones reports, for each threshold, the first entry of seq at or above it.
// A nil thresholds slice means DefaultThresholds.
func Milestones(seq Sequence, thresholds []float64) []Milestone {
	if thresholds == nil {
		thresholds = DefaultThresholds
	}

	out := make([]Milestone, 0, len(thresholds))
	for _, t := range thresholds {
		m := Milestone{Threshold: t}
		for i, e := range seq {
			if e.Coverage+epsilon >= t {
				m.Reached = true
				m.Step = i
				m.Skill = e.Skill
				break
			}
		}
		out = append(out, m)
	}
	return out
}

// DiminishingPoint returns the step of the first skill whose coverage increase
// is below minDelta. ok is false when every step clears it.
func DiminishingPoint(seq Sequence, minDelta float64) (step int, ok bool) {
	for i := 1; i < len(seq); i++ {
		if seq[i].Coverage-seq[i-1].Coverage < minDelta-epsilon {
			return i, true
		}
	}
	return 0, false
}

func sortUnlocks(u []Unlock) {
	sort.Slice(u, func(i, j int) bool {
		if u[i].Postings != u[j].Postings {
			return u[i].Postings > u[j].Postings
		}
		return u[i].Skill < u[j].Skill
	})
}
