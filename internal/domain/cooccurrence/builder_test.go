package cooccurrence

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/skillgraph/internal/domain"
	"github.com/honeycarbs/skillgraph/internal/domain/index"
	"github.com/honeycarbs/skillgraph/internal/domain/skills"
)

func mustIndex(t *testing.T, reqs ...[]string) *index.Index {
	t.Helper()

	postings := make([]domain.Posting, len(reqs))
	for i, r := range reqs {
		postings[i] = domain.Posting{ID: fmt.Sprintf("p%d", i), Skills: r}
	}
	idx, err := index.Build(postings)
	require.NoError(t, err)
	return idx
}

func TestBuildCountsPairs(t *testing.T) {
	idx := mustIndex(t,
		[]string{"go", "sql", "aws"},
		[]string{"go", "sql"},
		[]string{"sql", "aws"},
		[]string{"rust"},
	)

	g, err := Build(context.Background(), idx, Params{MinEdgeWeight: 1})
	require.NoError(t, err)

	assert.Equal(t, []Edge{
		{A: "aws", B: "go", Weight: 1},
		{A: "aws", B: "sql", Weight: 2},
		{A: "go", B: "sql", Weight: 2},
	}, g.Edges())
	assert.Equal(t, 2, g.Weight("sql", "go"))
	assert.Equal(t, 0, g.Weight("go", "rust"))
	assert.Equal(t, 5, g.TotalWeight())
	assert.Equal(t, 3, g.EdgeCount())

	// isolated skills stay when no degree filter applies
	assert.True(t, g.HasNode("rust"))
	assert.Equal(t, []string{"aws", "go", "rust", "sql"}, g.Nodes())
}

func TestBuildEdgeThreshold(t *testing.T) {
	idx := mustIndex(t,
		[]string{"go", "sql", "aws"},
		[]string{"go", "sql"},
		[]string{"sql", "aws"},
	)

	g, err := Build(context.Background(), idx, Params{MinEdgeWeight: 2, MinNodeDegree: 1})
	require.NoError(t, err)

	for _, e := range g.Edges() {
		assert.GreaterOrEqual(t, e.Weight, 2)
	}
	assert.Equal(t, 0, g.Weight("aws", "go"))
	assert.Equal(t, []string{"aws", "go", "sql"}, g.Nodes())
	assert.Equal(t, 2, g.Degree("sql"))
	assert.Equal(t, 4, g.Strength("sql"))
}

func TestBuildZeroEdgeWeightMeansOne(t *testing.T) {
	idx := mustIndex(t, []string{"go", "sql"}, []string{"aws"})

	g, err := Build(context.Background(), idx, Params{MinEdgeWeight: 0, MinNodeDegree: 1})
	require.NoError(t, err)

	assert.Equal(t, []string{"go", "sql"}, g.Nodes())
}

func TestBuildNoEdges(t *testing.T) {
	idx := mustIndex(t, []string{"go"}, []string{"sql"})

	g, err := Build(context.Background(), idx, Params{MinEdgeWeight: 1})

	require.ErrorIs(t, err, ErrEmptyGraph)
	assert.Nil(t, g)
}

func TestBuildDegreeFilterCascades(t *testing.T) {
	// triangle a-b-c plus a tail c-d-e; with degree >= 2 the tail unravels
	idx := mustIndex(t,
		[]string{"a", "b"},
		[]string{"b", "c"},
		[]string{"a", "c"},
		[]string{"c", "d"},
		[]string{"d", "e"},
	)

	g, err := Build(context.Background(), idx, Params{MinEdgeWeight: 1, MinNodeDegree: 2})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, g.Nodes())
	for _, n := range g.Nodes() {
		assert.GreaterOrEqual(t, g.Degree(n), 2)
	}
}

func TestBuildDegreeFilterEmpties(t *testing.T) {
	idx := mustIndex(t, []string{"a", "b"}, []string{"c", "d"})

	_, err := Build(context.Background(), idx, Params{MinEdgeWeight: 1, MinNodeDegree: 2})

	require.ErrorIs(t, err, ErrEmptyGraph)
}

func TestBuildExcludedSkills(t *testing.T) {
	idx := mustIndex(t,
		[]string{"go", "sql", "english"},
		[]string{"go", "english"},
		[]string{"sql", "english"},
	)

	g, err := Build(context.Background(), idx, Params{
		MinEdgeWeight: 1,
		MinNodeDegree: 1,
		Excluded:      skills.NewSet("English"),
	})
	require.NoError(t, err)

	assert.False(t, g.HasNode("english"))
	assert.Equal(t, []Edge{{A: "go", B: "sql", Weight: 1}}, g.Edges())
	assert.Equal(t, 1, g.TotalWeight())
}

func TestBuildMaxNodes(t *testing.T) {
	idx := mustIndex(t,
		[]string{"hub", "a"},
		[]string{"hub", "b"},
		[]string{"hub", "c"},
		[]string{"a", "b"},
	)

	g, err := Build(context.Background(), idx, Params{MinEdgeWeight: 1, MaxNodes: 3})
	require.NoError(t, err)

	// hub has degree 3, a and b degree 2, c degree 1
	assert.Equal(t, []string{"a", "b", "hub"}, g.Nodes())
}

func TestBuildCancelled(t *testing.T) {
	idx := mustIndex(t, []string{"go", "sql"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, idx, Params{})

	require.ErrorIs(t, err, context.Canceled)
}

func TestBuildIsIdempotent(t *testing.T) {
	var reqs [][]string
	pool := []string{"go", "sql", "aws", "docker", "k8s", "python"}
	for i := 0; i < 30; i++ {
		reqs = append(reqs, []string{pool[i%6], pool[(i*2+1)%6], pool[(i*5+2)%6]})
	}
	idx := mustIndex(t, reqs...)
	p := Params{MinEdgeWeight: 2, MinNodeDegree: 1}

	g1, err := Build(context.Background(), idx, p)
	require.NoError(t, err)
	g2, err := Build(context.Background(), idx, p)
	require.NoError(t, err)

	assert.Equal(t, g1.Nodes(), g2.Nodes())
	assert.Equal(t, g1.Edges(), g2.Edges())
}

func TestTopNeighbors(t *testing.T) {
	g := New(nil, []Edge{
		{A: "go", B: "sql", Weight: 3},
		{A: "go", B: "aws", Weight: 3},
		{A: "go", B: "k8s", Weight: 5},
	})

	assert.Equal(t, []Neighbor{
		{Skill: "k8s", Weight: 5},
		{Skill: "aws", Weight: 3},
	}, g.TopNeighbors("go", 2))
	assert.Equal(t, []string{"aws", "k8s", "sql"}, g.Neighbors("go"))
	assert.Empty(t, g.TopNeighbors("missing", 3))
}

func TestNewSkipsInvalidEdges(t *testing.T) {
	g := New([]string{"solo"}, []Edge{
		{A: "a", B: "a", Weight: 2},
		{A: "a", B: "b", Weight: 0},
		{A: "a", B: "b", Weight: 1},
		{A: "b", B: "a", Weight: 4},
	})

	assert.Equal(t, []string{"a", "b", "solo"}, g.Nodes())
	assert.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, 4, g.Weight("a", "b"))
	assert.Equal(t, 4, g.TotalWeight())
}
