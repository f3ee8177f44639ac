// Package coverage orders skills by how many postings they make fully attainable.
//
// Optimize is the greedy set-cover approximation (ln(n)+1 of optimal). A posting
// counts as satisfied only once every one of its required skills is known, so a
// skill is credited for a posting only when it is the last one that posting was
// missing.
package coverage

import (
	"github.com/honeycarbs/skillgraph/internal/domain/index"
	"github.com/honeycarbs/skillgraph/internal/domain/skills"
)

// Entry is one point of the coverage curve.
type Entry struct {
	// Skill is empty for the initial entry describing the known skills.
	Skill     string  `json:"skill"`
	Coverage  float64 `json:"coverage"`
	Satisfied int     `json:"satisfied"`
	// Gain is the number of postings this skill completed.
	Gain int `json:"gain"`
}

// Sequence is the acquisition order, starting with the initial entry.
type Sequence []Entry

// Skills returns the selected skills without the initial entry.
func (s Sequence) Skills() []string {
	if len(s) <= 1 {
		return nil
	}
	out := make([]string, 0, len(s)-1)
	for _, e := range s[1:] {
		out = append(out, e.Skill)
	}
	return out
}

// Final returns the last coverage fraction, or 0 for an empty sequence.
func (s Sequence) Final() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Coverage
}

// Option configures Optimize
type Option func(*options)

type options struct {
	strict bool
}

// WithStrictGain stops the search as soon as no candidate completes a posting.
//
// Without it, when every unsatisfied posting still needs two or more skills the
// optimizer keeps going with the candidate required by the most unsatisfied
// postings (ties by name), recording a zero gain for that step.
func WithStrictGain() Option {
	return func(o *options) {
		o.strict = true
	}
}

// Optimize returns up to maxSkills skills in greedy order together with the
// cumulative coverage after each one. Known skills absent from the corpus are
// ignored. maxSkills <= 0 yields only the initial entry.
//
// Equal gains are broken by skill name, lexicographically smallest first, so the
// result depends only on the inputs.
func Optimize(idx *index.Index, known skills.Set, maxSkills int, opts ...Option) Sequence {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	st := newState(idx, known)
	seq := Sequence{st.entry("", 0)}

	for picked := 0; picked < maxSkills && st.satisfied < st.total; picked++ {
		best, bestGain := st.bestByGain()
		if bestGain == 0 {
			if o.strict {
				break
			}
			best = st.bestByDemand()
		}
		if best == "" {
			break
		}

		seq = append(seq, st.entry(best, st.learn(best)))
	}

	return seq
}

// Unlock is a skill ranked by the postings it completes on its own.
type Unlock struct {
	Skill    string `json:"skill"`
	Postings int    `json:"postings"`
}

// Unlocks ranks skills by the postings each would complete if it were the only
// skill added to known. Skills completing nothing are omitted. limit <= 0 returns
// the full ranking.
func Unlocks(idx *index.Index, known skills.Set, limit int) []Unlock {
	st := newState(idx, known)

	out := make([]Unlock, 0, len(st.gain))
	for _, s := range st.candidates {
		if g := st.gain[s]; g > 0 {
			out = append(out, Unlock{Skill: s, Postings: g})
		}
	}

	sortUnlocks(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// state is the private bookkeeping of one optimization run.
type state struct {
	idx        *index.Index
	known      skills.Set
	chosen     map[string]bool
	candidates []string // sorted, shrinks as skills are chosen
	missing    []int    // position -> required skills not yet known
	gain       map[string]int
	satisfied  int
	total      int
}

func newState(idx *index.Index, known skills.Set) *state {
	total := idx.TotalPostings()
	st := &state{
		idx:     idx,
		known:   known,
		chosen:  make(map[string]bool),
		missing: make([]int, total),
		gain:    make(map[string]int),
		total:   total,
	}

	for _, s := range idx.AllSkills() {
		if !known.Has(s) {
			st.candidates = append(st.candidates, s)
		}
	}

	for pos := 0; pos < total; pos++ {
		for _, s := range idx.Requirements(pos) {
			if !known.Has(s) {
				st.missing[pos]++
			}
		}
		switch st.missing[pos] {
		case 0:
			st.satisfied++
		case 1:
			st.gain[st.lastMissing(pos)]++
		}
	}

	return st
}

func (st *state) isKnown(skill string) bool {
	return st.known.Has(skill) || st.chosen[skill]
}

// lastMissing returns the single unknown skill of a posting with missing == 1.
func (st *state) lastMissing(pos int) string {
	for _, s := range st.idx.Requirements(pos) {
		if !st.isKnown(s) {
			return s
		}
	}
	return ""
}

// bestByGain scans candidates in name order; the first maximum wins ties.
func (st *state) bestByGain() (string, int) {
	best, bestGain := "", 0
	for _, s := range st.candidates {
		if g := st.gain[s]; g > bestGain {
			best, bestGain = s, g
		}
	}
	return best, bestGain
}

// bestByDemand picks the candidate required by the most postings. Every posting
// requiring a candidate is unsatisfied, so corpus demand is the open demand.
func (st *state) bestByDemand() string {
	best, bestDemand := "", 0
	for _, s := range st.candidates {
		if d := st.idx.Demand(s); d > bestDemand {
			best, bestDemand = s, d
		}
	}
	return best
}

// learn marks skill as known and returns how many postings it completed.
func (st *state) learn(skill string) int {
	st.chosen[skill] = true
	delete(st.gain, skill)
	for i, s := range st.candidates {
		if s == skill {
			st.candidates = append(st.candidates[:i:i], st.candidates[i+1:]...)
			break
		}
	}

	completed := 0
	for _, pos := range st.idx.PositionsFor(skill) {
		if st.missing[pos] == 0 {
			continue
		}
		st.missing[pos]--
		switch st.missing[pos] {
		case 0:
			st.satisfied++
			completed++
		case 1:
			st.gain[st.lastMissing(pos)]++
		}
	}
	return completed
}

func (st *state) entry(skill string, gain int) Entry {
	return Entry{
		Skill:     skill,
		Coverage:  float64(st.satisfied) / float64(st.total),
		Satisfied: st.satisfied,
		Gain:      gain,
	}
}
