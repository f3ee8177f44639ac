package domain

import "sort"

// PostingID uniquely identifies a posting within a corpus
type PostingID = string

// Posting is a job listing annotated with its required skills
type Posting struct {
	ID        PostingID
	Title     string
	Company   string
	Location  string
	Remote    bool
	SalaryAvg *float64
	Skills    []string
	// Optional lists the skills the source marks as nice to have. They appear
	// in Skills only when the load filter keeps optional skills.
	Optional []string
}

// PostingFilter narrows the postings a source returns
type PostingFilter struct {
	// RequiredOnly keeps only skills flagged as required by the source
	RequiredOnly bool
	// MaxSalary drops postings whose average salary is unknown or above the cap
	MaxSalary *float64
}

// SkillCount pairs a skill with an occurrence count
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// RankCounts orders counts by value descending, then name. n <= 0 keeps everything.
func RankCounts(counts map[string]int, n int) []SkillCount {
	out := make([]SkillCount, 0, len(counts))
	for s, c := range counts {
		out = append(out, SkillCount{Skill: s, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Skill < out[j].Skill
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
