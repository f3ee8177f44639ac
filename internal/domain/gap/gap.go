// Package gap finds the skills a learner is missing for postings that are
// nearly within reach.
package gap

import (
	"sort"
	"strings"

	"github.com/honeycarbs/skillgraph/internal/domain"
	"github.com/honeycarbs/skillgraph/internal/domain/index"
	"github.com/honeycarbs/skillgraph/internal/domain/skills"
)

// Record is the set difference between a posting's requirements and the known
// skills. Records are derived per query and never stored.
type Record struct {
	PostingID domain.PostingID `json:"posting_id"`
	Missing   []string         `json:"missing"`
}

// Records returns one record per posting in corpus order. Missing skills are sorted.
func Records(idx *index.Index, known skills.Set) []Record {
	out := make([]Record, idx.TotalPostings())
	for pos := range out {
		out[pos] = Record{
			PostingID: idx.ID(pos),
			Missing:   missing(idx, known, pos),
		}
	}
	return out
}

// Analyze counts, for every skill, the postings missing it among those missing
// at least one and at most maxMissing skills. The result is empty, never nil,
// when no posting qualifies.
func Analyze(idx *index.Index, known skills.Set, maxMissing int) map[string]int {
	counts := make(map[string]int)
	for pos := 0; pos < idx.TotalPostings(); pos++ {
		m := missing(idx, known, pos)
		if len(m) == 0 || len(m) > maxMissing {
			continue
		}
		for _, s := range m {
			counts[s]++
		}
	}
	return counts
}

// Top ranks counts by value descending, then name. n <= 0 returns everything.
func Top(counts map[string]int, n int) []domain.SkillCount {
	return domain.RankCounts(counts, n)
}

// Matrix is a symmetric count matrix over Skills. Counts[i][j] is the number of
// postings missing both Skills[i] and Skills[j]; the diagonal holds the number
// missing Skills[i].
type Matrix struct {
	Skills []string `json:"skills"`
	Counts [][]int  `json:"counts"`
}

// MissingCooccurrence builds the co-occurrence matrix of the topN most frequently
// missing skills over every posting with a non-empty gap.
func MissingCooccurrence(idx *index.Index, known skills.Set, topN int) Matrix {
	records := Records(idx, known)

	freq := make(map[string]int)
	for _, r := range records {
		for _, s := range r.Missing {
			freq[s]++
		}
	}

	ranked := Top(freq, topN)
	mx := Matrix{
		Skills: make([]string, len(ranked)),
		Counts: make([][]int, len(ranked)),
	}
	at := make(map[string]int, len(ranked))
	for i, sc := range ranked {
		mx.Skills[i] = sc.Skill
		mx.Counts[i] = make([]int, len(ranked))
		at[sc.Skill] = i
	}

	for _, r := range records {
		var hit []int
		for _, s := range r.Missing {
			if i, ok := at[s]; ok {
				hit = append(hit, i)
			}
		}
		for _, i := range hit {
			for _, j := range hit {
				mx.Counts[i][j]++
			}
		}
	}
	return mx
}

// CompanyGap is the missing-skill breakdown for one employer.
type CompanyGap struct {
	Company  string              `json:"company"`
	Postings int                 `json:"postings"`
	Missing  []domain.SkillCount `json:"missing"`
}

// ByCompany picks the topCompanies employers with the most postings (ties by
// name) and ranks the topSkills skills their postings need beyond known. Each
// posting counts a missing skill once. Postings without a company are ignored;
// a value <= 0 keeps every company or skill.
func ByCompany(postings []domain.Posting, known skills.Set, topCompanies, topSkills int) []CompanyGap {
	type employer struct {
		name     string
		postings int
		missing  map[string]int
	}

	byName := make(map[string]*employer)
	for _, p := range postings {
		name := strings.TrimSpace(p.Company)
		if name == "" {
			continue
		}
		e, ok := byName[name]
		if !ok {
			e = &employer{name: name, missing: make(map[string]int)}
			byName[name] = e
		}
		e.postings++
		for _, s := range skills.Dedupe(p.Skills) {
			if !known.Has(s) {
				e.missing[s]++
			}
		}
	}

	ranked := make([]*employer, 0, len(byName))
	for _, e := range byName {
		ranked = append(ranked, e)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].postings != ranked[j].postings {
			return ranked[i].postings > ranked[j].postings
		}
		return ranked[i].name < ranked[j].name
	})
	if topCompanies > 0 && len(ranked) > topCompanies {
		ranked = ranked[:topCompanies]
	}

	out := make([]CompanyGap, 0, len(ranked))
	for _, e := range ranked {
		out = append(out, CompanyGap{
			Company:  e.name,
			Postings: e.postings,
			Missing:  Top(e.missing, topSkills),
		})
	}
	return out
}

func missing(idx *index.Index, known skills.Set, pos int) []string {
	var out []string
	for _, s := range idx.Requirements(pos) {
		if !known.Has(s) {
			out = append(out, s)
		}
	}
	return out
}
