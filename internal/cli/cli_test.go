package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/skillgraph/internal/domain"
	"github.com/honeycarbs/skillgraph/internal/domain/analysis"
	sqlitestorage "github.com/honeycarbs/skillgraph/internal/storage/sqlite"
	"github.com/honeycarbs/skillgraph/pkg/sqlite"
)

func seedCorpus(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "jobs.db")
	ctx := context.Background()

	client, err := sqlite.NewClient(sqlite.Config{Path: path})
	require.NoError(t, err)
	defer func() { _ = client.Close(ctx) }()
	require.NoError(t, client.Migrate(ctx))

	require.NoError(t, sqlitestorage.NewPostingRepository(client).UpsertPostings(ctx, []domain.Posting{
		{ID: "p1", Company: "Acme", Skills: []string{"python", "sql"}},
		{ID: "p2", Company: "Acme", Skills: []string{"python", "sql", "excel"}},
		{ID: "p3", Company: "Globex", Skills: []string{"sql", "excel"}},
		{ID: "p4", Company: "Initech", Skills: []string{"python", "aws"}, Optional: []string{"docker"}},
	}))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCoverageJSON(t *testing.T) {
	db := seedCorpus(t)

	out, err := run(t, "--db", db, "--format", "json", "coverage", "--known", "python", "--max-skills", "2")
	require.NoError(t, err)

	var res analysis.CoverageResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 4, res.TotalPostings)
	assert.Equal(t, []string{"python"}, res.KnownSkills)
	// aws and sql each complete one posting; the name decides
	assert.Equal(t, []string{"aws", "sql"}, res.Steps.Skills())
	assert.InDelta(t, 0.5, res.Steps.Final(), 1e-9)
}

func TestCoverageText(t *testing.T) {
	db := seedCorpus(t)

	out, err := run(t, "--db", db, "coverage", "--known", "python,sql")
	require.NoError(t, err)

	assert.Contains(t, out, "STEP")
	assert.Contains(t, out, "(start)")
	assert.Contains(t, out, "25.0%")
}

func TestGraphCommand(t *testing.T) {
	db := seedCorpus(t)

	out, err := run(t, "--db", db, "--format", "json", "graph", "--min-edge-weight", "1", "--min-node-degree", "1", "--top-neighbors", "1")
	require.NoError(t, err)

	var res analysis.GraphResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Len(t, res.Nodes, 4)
	assert.NotEmpty(t, res.Clusters)
	assert.False(t, res.Persisted)
}

func TestGraphCommandEmpty(t *testing.T) {
	db := seedCorpus(t)

	_, err := run(t, "--db", db, "graph", "--min-edge-weight", "10")

	assert.ErrorContains(t, err, "graph is empty")
}

func TestGraphPersistNeedsNeo4j(t *testing.T) {
	db := seedCorpus(t)

	_, err := run(t, "--db", db, "graph", "--persist")

	assert.ErrorContains(t, err, "--neo4j-uri")
}

func TestGapsCommand(t *testing.T) {
	db := seedCorpus(t)

	out, err := run(t, "--db", db, "gaps", "--known", "python", "--max-missing", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "Postings within reach:")
	assert.Contains(t, out, "sql")
	assert.Contains(t, out, "aws")
}

func TestDemandCommand(t *testing.T) {
	db := seedCorpus(t)

	out, err := run(t, "--db", db, "--format", "json", "demand", "--limit", "2")
	require.NoError(t, err)

	var res analysis.DemandResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Skills, 2)
	assert.Equal(t, "python", res.Skills[0].Skill)
	assert.Equal(t, "sql", res.Skills[1].Skill)
}

func TestGapsByCompany(t *testing.T) {
	db := seedCorpus(t)

	out, err := run(t, "--db", db, "--format", "json", "gaps", "--known", "python", "--companies", "1", "--company-skills", "1")
	require.NoError(t, err)

	var res analysis.GapResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.ByCompany, 1)
	assert.Equal(t, "Acme", res.ByCompany[0].Company)
	assert.Equal(t, 2, res.ByCompany[0].Postings)
	assert.Equal(t, []domain.SkillCount{{Skill: "sql", Count: 2}}, res.ByCompany[0].Missing)

	out, err = run(t, "--db", db, "gaps", "--known", "python", "--companies", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "EMPLOYER")
	assert.Contains(t, out, "sql (2)")
}

func TestDemandSplitAndEmployers(t *testing.T) {
	db := seedCorpus(t)

	out, err := run(t, "--db", db, "--format", "json", "demand",
		"--split", "2", "--known", "python", "--employers-for", "sql")
	require.NoError(t, err)

	var res analysis.DemandResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.NotNil(t, res.Split)
	assert.Equal(t, []domain.SkillCount{{Skill: "sql", Count: 3}, {Skill: "excel", Count: 2}}, res.Split.Required)
	assert.Equal(t, []domain.SkillCount{{Skill: "docker", Count: 1}}, res.Split.Optional)
	require.Len(t, res.Employers, 2)
	assert.Equal(t, "Acme", res.Employers[0].Company)
	assert.Equal(t, 2, res.Employers[0].Postings)
	for _, s := range res.Skills {
		assert.NotEqual(t, "docker", s.Skill, "optional skills stay out of the ranking by default")
	}

	out, err = run(t, "--db", db, "--required-only=false", "--format", "json", "demand")
	require.NoError(t, err)
	res = analysis.DemandResult{}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Len(t, res.Skills, 5)
}

func TestEnvOverridesDefaults(t *testing.T) {
	db := seedCorpus(t)
	t.Setenv("SKILLGRAPH_MAX_SKILLS", "1")
	t.Setenv("SKILLGRAPH_FORMAT", "json")

	out, err := run(t, "--db", db, "coverage")
	require.NoError(t, err)

	var res analysis.CoverageResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Len(t, res.Steps, 2)
}

func TestConfigFile(t *testing.T) {
	db := seedCorpus(t)
	cfg := filepath.Join(t.TempDir(), "skillgraph.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("format: json\nmax_missing: 1\n"), 0o600))

	out, err := run(t, "--config", cfg, "--db", db, "gaps", "--known", "python")
	require.NoError(t, err)

	var res analysis.GapResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 1, res.MaxMissing)
}

func TestMissingConfigFile(t *testing.T) {
	db := seedCorpus(t)

	_, err := run(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "--db", db, "demand")

	assert.Error(t, err)
}

func TestUnknownFormat(t *testing.T) {
	db := seedCorpus(t)

	_, err := run(t, "--db", db, "--format", "xml", "demand")

	assert.ErrorContains(t, err, `unknown format "xml"`)
}

func TestEmptyCorpus(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := run(t, "--db", filepath.Join(t.TempDir(), "empty.db"), "demand")

	assert.ErrorContains(t, err, "corpus has no postings")
}

func TestImportValidation(t *testing.T) {
	db := seedCorpus(t)

	_, err := run(t, "--db", db, "import", "--batch", "0")
	assert.ErrorContains(t, err, "--batch must be positive")

	_, err = run(t, "--db", db, "import")
	assert.ErrorContains(t, err, "--neo4j-uri")
}

type fakeWriter struct {
	batches [][]domain.Posting
	failAt  int
}

func (f *fakeWriter) UpsertPostings(_ context.Context, postings []domain.Posting) error {
	if f.failAt > 0 && len(f.batches) == f.failAt {
		return errors.New("write failed")
	}
	f.batches = append(f.batches, postings)
	return nil
}

func TestCopyPostingsBatches(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	postings := make([]domain.Posting, 5)

	w := &fakeWriter{}
	n, err := copyPostings(cmd, w, postings, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	require.Len(t, w.batches, 3)
	assert.Len(t, w.batches[2], 1)

	failing := &fakeWriter{failAt: 1}
	n, err = copyPostings(cmd, failing, postings, 2)
	assert.ErrorContains(t, err, "batch at 2")
	assert.Equal(t, 2, n)
}
