package mcp

import (
	"context"
	"fmt"

	"github.com/honeycarbs/skillgraph/internal/config"
	"github.com/honeycarbs/skillgraph/internal/domain"
	"github.com/honeycarbs/skillgraph/internal/domain/analysis"
	"github.com/honeycarbs/skillgraph/internal/repository"
	neo4jstorage "github.com/honeycarbs/skillgraph/internal/storage/neo4j"
	sqlitestorage "github.com/honeycarbs/skillgraph/internal/storage/sqlite"
	"github.com/honeycarbs/skillgraph/pkg/logging"
	n4j "github.com/honeycarbs/skillgraph/pkg/neo4j"
	"github.com/honeycarbs/skillgraph/pkg/sqlite"
)

// Storage is the opened corpus backend. Clusters is nil when Neo4j is not configured.
type Storage struct {
	Postings repository.PostingRepository
	Clusters repository.ClusterWriter
	Neo4j    *n4j.Client
	SQLite   *sqlite.Client
}

// provideStorage opens the corpus source named by cfg.Source. A SQLite corpus
// still connects to Neo4j when NEO4J_URI is set so clusters can be persisted.
func provideStorage(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Storage, error) {
	st := &Storage{}

	if cfg.Source == config.SourceSQLite {
		client, err := sqlite.NewClient(sqlite.Config{Path: cfg.SQLite.Path})
		if err != nil {
			return nil, err
		}
		if err := client.Migrate(ctx); err != nil {
			_ = client.Close(ctx)
			return nil, err
		}
		st.SQLite = client
		st.Postings = sqlitestorage.NewPostingRepository(client)
		logger.Info("SQLite corpus opened", "path", cfg.SQLite.Path)
	}

	if cfg.Neo4j.URI != "" {
		client, err := n4j.NewClient(n4j.Config{
			URI:      cfg.Neo4j.URI,
			Username: cfg.Neo4j.Username,
			Password: cfg.Neo4j.Password,
			Database: cfg.Neo4j.Database,
		})
		switch {
		case err == nil:
			st.Neo4j = client
			st.Clusters = neo4jstorage.NewClusterRepository(client)
			if st.Postings == nil {
				st.Postings = neo4jstorage.NewPostingRepository(client)
			}
			logger.Info("Neo4j client initialized", "uri", cfg.Neo4j.URI)
		case cfg.Source == config.SourceNeo4j:
			return nil, err
		default:
			logger.Warn("Neo4j unavailable, cluster persistence disabled", "err", err)
		}
	}

	if st.Postings == nil {
		return nil, fmt.Errorf("mcp: no corpus source for %q", cfg.Source)
	}
	return st, nil
}

func provideAnalysisService(st *Storage, cfg config.Config, logger *logging.Logger) *analysis.Service {
	opts := []analysis.Option{
		analysis.WithFilter(domain.PostingFilter{
			RequiredOnly: cfg.Analysis.RequiredOnly,
			MaxSalary:    cfg.Analysis.MaxSalary,
		}),
		analysis.WithDefaults(analysis.Defaults{
			MaxSkills:     cfg.Analysis.MaxSkills,
			MinEdgeWeight: cfg.Analysis.MinEdgeWeight,
			MinNodeDegree: cfg.Analysis.MinNodeDegree,
			MaxMissing:    cfg.Analysis.MaxMissing,
		}),
	}
	if st.Clusters != nil {
		opts = append(opts, analysis.WithClusterWriter(st.Clusters))
	}
	return analysis.NewService(st.Postings, logger.Named("analysis"), opts...)
}

func newResources(st *Storage, svc *analysis.Service, sheets *sheetsClientAdapter) *Resources {
	return &Resources{
		AnalysisSvc:  svc,
		SheetsClient: sheets,
		Neo4jClient:  st.Neo4j,
		SQLiteClient: st.SQLite,
	}
}
