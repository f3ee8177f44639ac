package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"LOG_LEVEL", "LOG_FORMAT", "MCP_HOST", "PORT", "SKILLS_SOURCE", "SQLITE_PATH",
	"NEO4J_URI", "NEO4J_USERNAME", "NEO4J_PASSWORD", "NEO4J_DATABASE",
	"GOOGLE_SHEETS_CREDENTIALS_PATH", "MAX_SKILLS", "MIN_EDGE_WEIGHT",
	"MIN_NODE_DEGREE", "MAX_MISSING", "MAX_SALARY", "REQUIRED_ONLY",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, SourceSQLite, cfg.Source)
	assert.Equal(t, "jobs.db", cfg.SQLite.Path)
	assert.Equal(t, 30, cfg.Analysis.MaxSkills)
	assert.Equal(t, 5, cfg.Analysis.MinEdgeWeight)
	assert.Equal(t, 3, cfg.Analysis.MinNodeDegree)
	assert.Equal(t, 3, cfg.Analysis.MaxMissing)
	assert.Nil(t, cfg.Analysis.MaxSalary)
	assert.True(t, cfg.Analysis.RequiredOnly)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SKILLS_SOURCE", "NEO4J")
	t.Setenv("NEO4J_URI", "bolt://localhost:7687")
	t.Setenv("NEO4J_USERNAME", "neo4j")
	t.Setenv("NEO4J_PASSWORD", "secret")
	t.Setenv("NEO4J_DATABASE", "skills")
	t.Setenv("MAX_SKILLS", "12")
	t.Setenv("MAX_SALARY", "90000")
	t.Setenv("REQUIRED_ONLY", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, SourceNeo4j, cfg.Source)
	assert.Equal(t, "skills", cfg.Neo4j.Database)
	assert.Equal(t, 12, cfg.Analysis.MaxSkills)
	require.NotNil(t, cfg.Analysis.MaxSalary)
	assert.Equal(t, 90000.0, *cfg.Analysis.MaxSalary)
	assert.False(t, cfg.Analysis.RequiredOnly)
}

func TestLoadAggregatesProblems(t *testing.T) {
	clearEnv(t)
	t.Setenv("SKILLS_SOURCE", "neo4j")
	t.Setenv("MIN_EDGE_WEIGHT", "five")
	t.Setenv("MAX_SALARY", "-1")

	_, err := Load()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "NEO4J_URI")
	assert.Contains(t, msg, "NEO4J_PASSWORD")
	assert.Contains(t, msg, "MIN_EDGE_WEIGHT")
	assert.Contains(t, msg, "MAX_SALARY")
}

func TestLoadUnknownSource(t *testing.T) {
	clearEnv(t)
	t.Setenv("SKILLS_SOURCE", "postgres")

	_, err := Load()

	require.ErrorContains(t, err, "SKILLS_SOURCE")
}
