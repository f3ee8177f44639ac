// Package demand reports how often skills are requested across the corpus.
package demand

import (
	"sort"

	"github.com/honeycarbs/skillgraph/internal/domain/index"
)

// Share is the demand of one skill.
type Share struct {
	Skill    string  `json:"skill"`
	Postings int     `json:"postings"`
	Fraction float64 `json:"fraction"` // of all postings
}

// ParetoPoint is one step of the cumulative mention curve.
type ParetoPoint struct {
	Skill      string  `json:"skill"`
	Mentions   int     `json:"mentions"`
	Cumulative float64 `json:"cumulative"` // share of all skill mentions up to and including Skill
}

// Ranking returns every skill by posting count descending, then name.
func Ranking(idx *index.Index) []Share {
	total := float64(idx.TotalPostings())

	all := idx.AllSkills()
	out := make([]Share, 0, len(all))
	for _, s := range all {
		n := idx.Demand(s)
		out = append(out, Share{Skill: s, Postings: n, Fraction: float64(n) / total})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Postings > out[j].Postings
	})
	return out
}

// Pareto returns the cumulative share of all skill mentions covered by the topN
// most demanded skills. topN <= 0 covers every skill.
func Pareto(idx *index.Index, topN int) []ParetoPoint {
	ranked := Ranking(idx)

	mentions := 0
	for _, r := range ranked {
		mentions += r.Postings
	}
	if mentions == 0 {
		return nil
	}

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}

	out := make([]ParetoPoint, 0, len(ranked))
	running := 0
	for _, r := range ranked {
		running += r.Postings
		out = append(out, ParetoPoint{
			Skill:      r.Skill,
			Mentions:   r.Postings,
			Cumulative: float64(running) / float64(mentions),
		})
	}
	return out
}
