package demand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/skillgraph/internal/domain"
	"github.com/honeycarbs/skillgraph/internal/domain/index"
	"github.com/honeycarbs/skillgraph/internal/domain/skills"
)

func corpus(t *testing.T) *index.Index {
	t.Helper()

	idx, err := index.Build([]domain.Posting{
		{ID: "p1", Skills: []string{"sql", "python"}},
		{ID: "p2", Skills: []string{"sql", "excel"}},
		{ID: "p3", Skills: []string{"sql", "python", "aws"}},
		{ID: "p4"},
	})
	require.NoError(t, err)
	return idx
}

func TestRanking(t *testing.T) {
	got := Ranking(corpus(t))

	require.Len(t, got, 4)
	assert.Equal(t, Share{Skill: "sql", Postings: 3, Fraction: 0.75}, got[0])
	assert.Equal(t, Share{Skill: "python", Postings: 2, Fraction: 0.5}, got[1])
	assert.Equal(t, "aws", got[2].Skill)
	assert.Equal(t, "excel", got[3].Skill)
}

func TestPareto(t *testing.T) {
	got := Pareto(corpus(t), 2)

	require.Len(t, got, 2)
	assert.Equal(t, "sql", got[0].Skill)
	assert.InDelta(t, 3.0/7.0, got[0].Cumulative, 1e-9)
	assert.InDelta(t, 5.0/7.0, got[1].Cumulative, 1e-9)

	all := Pareto(corpus(t), 0)
	assert.InDelta(t, 1.0, all[len(all)-1].Cumulative, 1e-9)
}

func TestParetoWithoutSkills(t *testing.T) {
	idx, err := index.Build([]domain.Posting{{ID: "p1"}})
	require.NoError(t, err)

	assert.Nil(t, Pareto(idx, 5))
	assert.Empty(t, Ranking(idx))
}

func TestEmployers(t *testing.T) {
	postings := []domain.Posting{
		{ID: "p1", Company: "Acme", Skills: []string{"PostgreSQL", "python"}},
		{ID: "p2", Company: "Acme", Skills: []string{"sql"}},
		{ID: "p3", Company: "Globex", Skills: []string{"excel"}, Optional: []string{"sql"}},
		{ID: "p4", Company: "Initech", Skills: []string{"excel"}},
		{ID: "p5", Skills: []string{"sql"}},
	}

	tests := []struct {
		name     string
		selected skills.Set
		limit    int
		want     []Employer
	}{
		{
			name:     "substring match counts each posting once",
			selected: skills.NewSet("SQL"),
			want:     []Employer{{Company: "Acme", Postings: 2}, {Company: "Globex", Postings: 1}},
		},
		{
			name:     "any of several skills",
			selected: skills.NewSet("python", "excel"),
			want: []Employer{
				{Company: "Acme", Postings: 1},
				{Company: "Globex", Postings: 1},
				{Company: "Initech", Postings: 1},
			},
		},
		{
			name:     "limit",
			selected: skills.NewSet("python", "excel"),
			limit:    1,
			want:     []Employer{{Company: "Acme", Postings: 1}},
		},
		{
			name:     "nothing selected",
			selected: skills.NewSet(),
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Employers(postings, tt.selected, tt.limit))
		})
	}
}

func TestRequiredOptional(t *testing.T) {
	postings := []domain.Posting{
		{ID: "p1", Skills: []string{"python", "sql", "docker"}, Optional: []string{"docker"}},
		{ID: "p2", Skills: []string{"sql", "aws"}, Optional: []string{"Docker", "git"}},
		{ID: "p3", Skills: []string{"SQL", "sql"}},
	}

	got := RequiredOptional(postings, skills.NewSet("python"), 1)

	assert.Equal(t, []domain.SkillCount{{Skill: "sql", Count: 3}}, got.Required)
	assert.Equal(t, []domain.SkillCount{{Skill: "docker", Count: 2}}, got.Optional)

	all := RequiredOptional(postings, skills.NewSet("sql", "docker"), 0)
	assert.Equal(t, []domain.SkillCount{{Skill: "aws", Count: 1}, {Skill: "python", Count: 1}}, all.Required)
	assert.Equal(t, []domain.SkillCount{{Skill: "git", Count: 1}}, all.Optional)
}
