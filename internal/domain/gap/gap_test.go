package gap

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
		{ID: "p1", Skills: []string{"python", "sql", "aws"}},
		{ID: "p2", Skills: []string{"python", "excel"}},
	})
	require.NoError(t, err)
	return idx
}

func TestAnalyze(t *testing.T) {
	got := Analyze(corpus(t), skills.NewSet("python"), 2)

	assert.Equal(t, map[string]int{"sql": 1, "aws": 1, "excel": 1}, got)
}

func TestAnalyzeRespectsMaxMissing(t *testing.T) {
	got := Analyze(corpus(t), skills.NewSet("python"), 1)

	assert.Equal(t, map[string]int{"excel": 1}, got)
}

func TestAnalyzeNoOpportunities(t *testing.T) {
	idx := corpus(t)

	all := Analyze(idx, skills.NewSet("python", "sql", "aws", "excel"), 3)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	assert.Empty(t, Analyze(idx, skills.NewSet(), 0))
}

func TestRecordsWithNoKnownSkills(t *testing.T) {
	idx := corpus(t)

	records := Records(idx, skills.NewSet())

	require.Len(t, records, 2)
	for _, r := range records {
		req, ok := idx.SkillsFor(r.PostingID)
		require.True(t, ok)
		assert.Equal(t, req, r.Missing)
	}
}

func TestRecordsFullySatisfied(t *testing.T) {
	records := Records(corpus(t), skills.NewSet("Python", "Excel"))

	assert.Equal(t, []Record{
		{PostingID: "p1", Missing: []string{"aws", "sql"}},
		{PostingID: "p2"},
	}, records)
}

func TestTop(t *testing.T) {
	got := Top(map[string]int{"sql": 3, "aws": 3, "go": 1, "k8s": 5}, 3)

	assert.Equal(t, []domain.SkillCount{
		{Skill: "k8s", Count: 5},
		{Skill: "aws", Count: 3},
		{Skill: "sql", Count: 3},
	}, got)
}

func TestMissingCooccurrence(t *testing.T) {
	idx, err := index.Build([]domain.Posting{
		{ID: "p1", Skills: []string{"go", "sql", "aws"}},
		{ID: "p2", Skills: []string{"go", "sql"}},
		{ID: "p3", Skills: []string{"go", "docker"}},
		{ID: "p4", Skills: []string{"go"}},
	})
	require.NoError(t, err)

	mx := MissingCooccurrence(idx, skills.NewSet("go"), 2)

	assert.Equal(t, []string{"sql", "aws"}, mx.Skills)
	assert.Equal(t, [][]int{
		{2, 1},
		{1, 1},
	}, mx.Counts)
}

func TestByCompany(t *testing.T) {
	postings := []domain.Posting{
		{ID: "p1", Company: "Acme", Skills: []string{"Python", "SQL", "sql"}},
		{ID: "p2", Company: " Acme ", Skills: []string{"python", "aws"}},
		{ID: "p3", Company: "Globex", Skills: []string{"sql", "excel"}},
		{ID: "p4", Company: "Initech", Skills: []string{"excel"}},
		{ID: "p5", Skills: []string{"go"}},
	}

	tests := []struct {
		name         string
		known        skills.Set
		topCompanies int
		topSkills    int
		want         []CompanyGap
	}{
		{
			name:         "top employer with its missing skills",
			known:        skills.NewSet("python"),
			topCompanies: 1,
			topSkills:    0,
			want: []CompanyGap{
				{Company: "Acme", Postings: 2, Missing: []domain.SkillCount{{Skill: "aws", Count: 1}, {Skill: "sql", Count: 1}}},
			},
		},
		{
			name:         "ties between employers go by name",
			known:        skills.NewSet(),
			topCompanies: 0,
			topSkills:    1,
			want: []CompanyGap{
				{Company: "Acme", Postings: 2, Missing: []domain.SkillCount{{Skill: "python", Count: 2}}},
				{Company: "Globex", Postings: 1, Missing: []domain.SkillCount{{Skill: "excel", Count: 1}}},
				{Company: "Initech", Postings: 1, Missing: []domain.SkillCount{{Skill: "excel", Count: 1}}},
			},
		},
		{
			name:         "known skills leave an employer with nothing missing",
			known:        skills.NewSet("excel"),
			topCompanies: 3,
			topSkills:    5,
			want: []CompanyGap{
				{Company: "Acme", Postings: 2, Missing: []domain.SkillCount{{Skill: "python", Count: 2}, {Skill: "aws", Count: 1}, {Skill: "sql", Count: 1}}},
				{Company: "Globex", Postings: 1, Missing: []domain.SkillCount{{Skill: "sql", Count: 1}}},
				{Company: "Initech", Postings: 1, Missing: []domain.SkillCount{}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ByCompany(postings, tt.known, tt.topCompanies, tt.topSkills)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestByCompanyWithoutEmployers(t *testing.T) {
	got := ByCompany([]domain.Posting{{ID: "p1", Skills: []string{"go"}}}, skills.NewSet(), 5, 5)

	assert.Empty(t, got)
}
