package demand

import (
	"sort"
	"strings"

	"github.com/honeycarbs/skillgraph/internal/domain"
	"github.com/honeycarbs/skillgraph/internal/domain/skills"
)

// Employer counts the postings of one company asking for selected skills.
type Employer struct {
	Company  string `json:"company"`
	Postings int    `json:"postings"`
}

// Employers ranks companies by the number of postings that mention any skill
// containing one of the selected names, e.g. "sql" also matches "postgresql".
// Optional skills count too. A posting counts once however many skills match.
// Ties go by name; limit <= 0 keeps every company.
func Employers(postings []domain.Posting, selected skills.Set, limit int) []Employer {
	if selected.Len() == 0 {
		return nil
	}
	wanted := selected.Sorted()

	counts := make(map[string]int)
	for _, p := range postings {
		name := strings.TrimSpace(p.Company)
		if name == "" {
			continue
		}
		if mentionsAny(p, wanted) {
			counts[name]++
		}
	}

	out := make([]Employer, 0, len(counts))
	for name, n := range counts {
		out = append(out, Employer{Company: name, Postings: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Postings != out[j].Postings {
			return out[i].Postings > out[j].Postings
		}
		return out[i].Company < out[j].Company
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func mentionsAny(p domain.Posting, wanted []string) bool {
	for _, s := range skills.NewSet(p.Skills...).Union(skills.NewSet(p.Optional...)).Sorted() {
		for _, w := range wanted {
			if strings.Contains(s, w) {
				return true
			}
		}
	}
	return false
}

// Split ranks required and optional skills separately
type Split struct {
	Required []domain.SkillCount `json:"required"`
	Optional []domain.SkillCount `json:"optional"`
}

// RequiredOptional counts, per posting, the skills it requires and the skills
// it marks optional, leaving out known skills, and keeps the top n of each.
// A skill both listed and marked optional counts as optional.
func RequiredOptional(postings []domain.Posting, known skills.Set, n int) Split {
	required := make(map[string]int)
	optional := make(map[string]int)
	for _, p := range postings {
		req, opt := skills.Partition(p.Skills, p.Optional)
		for _, s := range req {
			if !known.Has(s) {
				required[s]++
			}
		}
		for _, s := range opt {
			if !known.Has(s) {
				optional[s]++
			}
		}
	}
	return Split{
		Required: domain.RankCounts(required, n),
		Optional: domain.RankCounts(optional, n),
	}
}
