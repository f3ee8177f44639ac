// Package index maps postings to the skills they require and back.
//
// An Index is built once from the full corpus and never mutated afterwards, so
// any number of goroutines may read it concurrently without locking. To pick up
// new postings, build a new Index.
package index

import (
	"errors"
	"fmt"
	"sort"

	"github.com/honeycarbs/skillgraph/internal/domain"
	"github.com/honeycarbs/skillgraph/internal/domain/skills"
)

var (
	// ErrEmptyCorpus is returned when Build receives no postings
	ErrEmptyCorpus = errors.New("index: corpus has no postings")
	// ErrDuplicateKey is returned when two postings share an ID
	ErrDuplicateKey = errors.New("index: duplicate posting id")
)

// Index is the bidirectional posting/skill mapping.
type Index struct {
	ids      []domain.PostingID       // input order
	position map[domain.PostingID]int // posting id -> position in ids
	required [][]string               // position -> sorted canonical skills
	demand   map[string][]int         // skill -> ascending posting positions
	skills   []string                 // sorted
}

// Build indexes postings, normalizing their skills. Blank skills are dropped and
// repeated skills within a posting collapse. It returns ErrEmptyCorpus for an
// empty input and ErrDuplicateKey when an ID repeats; on error no index is
// returned.
func Build(postings []domain.Posting) (*Index, error) {
	if len(postings) == 0 {
		return nil, ErrEmptyCorpus
	}

	idx := &Index{
		ids:      make([]domain.PostingID, 0, len(postings)),
		position: make(map[domain.PostingID]int, len(postings)),
		required: make([][]string, 0, len(postings)),
		demand:   make(map[string][]int),
	}

	for _, p := range postings {
		if _, ok := idx.position[p.ID]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, p.ID)
		}

		pos := len(idx.ids)
		idx.position[p.ID] = pos
		idx.ids = append(idx.ids, p.ID)

		req := skills.Dedupe(p.Skills)
		idx.required = append(idx.required, req)
		for _, s := range req {
			idx.demand[s] = append(idx.demand[s], pos)
		}
	}

	idx.skills = make([]string, 0, len(idx.demand))
	for s := range idx.demand {
		idx.skills = append(idx.skills, s)
	}
	sort.Strings(idx.skills)

	return idx, nil
}

// TotalPostings returns the corpus size.
func (x *Index) TotalPostings() int {
	return len(x.ids)
}

// AllSkills returns every skill required by at least one posting, sorted.
func (x *Index) AllSkills() []string {
	return append([]string(nil), x.skills...)
}

// Postings returns posting IDs in input order.
func (x *Index) Postings() []domain.PostingID {
	return append([]domain.PostingID(nil), x.ids...)
}

// SkillsFor returns the sorted requirement set of a posting.
func (x *Index) SkillsFor(id domain.PostingID) ([]string, bool) {
	pos, ok := x.position[id]
	if !ok {
		return nil, false
	}
	return append([]string(nil), x.required[pos]...), true
}

// PostingsFor returns the IDs of postings requiring skill, in input order.
func (x *Index) PostingsFor(skill string) []domain.PostingID {
	positions := x.demand[skill]
	out := make([]domain.PostingID, len(positions))
	for i, pos := range positions {
		out[i] = x.ids[pos]
	}
	return out
}

// Demand returns the number of postings requiring skill.
func (x *Index) Demand(skill string) int {
	return len(x.demand[skill])
}

// HasSkill reports whether any posting requires skill.
func (x *Index) HasSkill(skill string) bool {
	_, ok := x.demand[skill]
	return ok
}

// The positional accessors below let sibling analyses walk the corpus without
// copying. Callers must treat returned slices as read-only.

// Requirements returns the requirement set at position pos.
func (x *Index) Requirements(pos int) []string {
	return x.required[pos]
}

// PositionsFor returns ascending positions of postings requiring skill.
func (x *Index) PositionsFor(skill string) []int {
	return x.demand[skill]
}

// ID returns the posting ID at position pos.
func (x *Index) ID(pos int) domain.PostingID {
	return x.ids[pos]
}
