package mcp

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/skillgraph/internal/mcp/tools"
	"github.com/honeycarbs/skillgraph/pkg/logging"
	n4j "github.com/honeycarbs/skillgraph/pkg/neo4j"
	"github.com/honeycarbs/skillgraph/pkg/shutdown"
	"github.com/honeycarbs/skillgraph/pkg/sqlite"
)

type ToolRegistry struct {
	logger *logging.Logger
}

// Resources holds everything the tools need plus the clients to release on shutdown
type Resources struct {
	AnalysisSvc  tools.AnalysisService
	SheetsClient tools.SheetsClient
	Neo4jClient  *n4j.Client
	SQLiteClient *sqlite.Client
}

func NewToolRegistry(logger *logging.Logger) *ToolRegistry {
	return &ToolRegistry{logger: logger}
}

// RegisterAll registers the analysis tools, plus graph_inspect when Neo4j is connected
func (r *ToolRegistry) RegisterAll(server *sdkmcp.Server, res *Resources) []string {
	opts := []tools.Option{
		tools.WithCoveragePlan(res.AnalysisSvc),
		tools.WithSkillGraph(res.AnalysisSvc),
		tools.WithSkillGaps(res.AnalysisSvc),
		tools.WithSkillDemand(res.AnalysisSvc),
		tools.WithSkillReport(res.AnalysisSvc),
		tools.WithReloadCorpus(res.AnalysisSvc),
		tools.WithSheetsExport(res.AnalysisSvc, res.SheetsClient),
	}
	if res.Neo4jClient != nil {
		opts = append(opts, tools.WithGraphInspect(res.Neo4jClient))
	}
	return tools.Register(server, r.logger, opts...)
}

// Closers returns the shutdown hooks for the opened clients
func (res *Resources) Closers() []shutdown.Closer {
	var closers []shutdown.Closer
	if res.SQLiteClient != nil {
		closers = append(closers, res.SQLiteClient.Close)
	}
	if res.Neo4jClient != nil {
		closers = append(closers, res.Neo4jClient.Close)
	}
	return closers
}
