package mcp

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/skillgraph/internal/config"
	"github.com/honeycarbs/skillgraph/internal/domain"
	"github.com/honeycarbs/skillgraph/internal/mcp/tools"
	sqlitestorage "github.com/honeycarbs/skillgraph/internal/storage/sqlite"
	"github.com/honeycarbs/skillgraph/pkg/logging"
)

func sqliteConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Config{Source: config.SourceSQLite, Host: "127.0.0.1", Port: "0"}
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "jobs.db")
	cfg.Analysis.MaxSkills = 5
	cfg.Analysis.MinEdgeWeight = 1
	cfg.Analysis.MinNodeDegree = 1
	cfg.Analysis.MaxMissing = 2
	return cfg
}

func seed(t *testing.T, st *Storage) {
	t.Helper()
	repo := st.Postings.(*sqlitestorage.PostingRepository)
	require.NoError(t, repo.UpsertPostings(context.Background(), []domain.Posting{
		{ID: "p1", Skills: []string{"python", "sql"}},
		{ID: "p2", Skills: []string{"python", "excel"}},
		{ID: "p3", Skills: []string{"sql", "excel"}},
	}))
}

func TestInitializeResourcesSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig(t)

	res, err := InitializeResources(ctx, cfg, logging.NewNop())
	require.NoError(t, err)

	assert.NotNil(t, res.SQLiteClient)
	assert.Nil(t, res.Neo4jClient)
	assert.Len(t, res.Closers(), 1)

	for _, c := range res.Closers() {
		assert.NoError(t, c(ctx))
	}
}

func TestProvideStorageUnknownSource(t *testing.T) {
	cfg := config.Config{Source: "csv"}

	_, err := provideStorage(context.Background(), cfg, logging.NewNop())

	assert.ErrorContains(t, err, `no corpus source for "csv"`)
}

func TestSheetsAdapterUnconfigured(t *testing.T) {
	adapter := provideSheetsClient(context.Background(), config.Config{}, logging.NewNop())

	_, err := adapter.WriteTable(context.Background(), "sheet", "tab", nil, nil)

	assert.ErrorIs(t, err, tools.ErrSheetsUnavailable)
}

func TestRegisterAllWithoutNeo4j(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig(t)
	log := logging.NewNop()

	st, err := provideStorage(ctx, cfg, log)
	require.NoError(t, err)
	defer func() { _ = st.SQLite.Close(ctx) }()

	res := newResources(st, provideAnalysisService(st, cfg, log), provideSheetsClient(ctx, cfg, log))
	server := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "test", Version: "0.0.0"}, nil)

	names := NewToolRegistry(log).RegisterAll(server, res)

	assert.Contains(t, names, "coverage_plan")
	assert.Contains(t, names, "sheets_export")
	assert.NotContains(t, names, "graph_inspect")
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(newMux(sdkmcp.NewServer(&sdkmcp.Implementation{Name: "test", Version: "0.0.0"}, nil)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestStreamCoveragePlan(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig(t)
	log := logging.NewNop()

	res, err := InitializeResources(ctx, cfg, log)
	require.NoError(t, err)
	st := &Storage{Postings: sqlitestorage.NewPostingRepository(res.SQLiteClient)}
	seed(t, st)
	defer func() {
		for _, c := range res.Closers() {
			_ = c(ctx)
		}
	}()

	s := NewServer(log, cfg, res)
	srv := httptest.NewServer(s.srv.Handler)
	defer srv.Close()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "0.0.0"}, nil)
	session, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{Endpoint: srv.URL + "/mcp/stream"}, nil)
	require.NoError(t, err)
	defer func() { _ = session.Close() }()

	out, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "coverage_plan",
		Arguments: map[string]any{"known_skills": []string{"python"}},
	})
	require.NoError(t, err)
	require.False(t, out.IsError)
	require.NotEmpty(t, out.Content)

	text, ok := out.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "[coverage_plan] 3 postings")
}
