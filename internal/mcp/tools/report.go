package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/skillgraph/internal/domain/analysis"
	"github.com/honeycarbs/skillgraph/pkg/logging"
)

// SkillReportParams defines the arguments for the skill_report tool
type SkillReportParams struct {
	KnownSkills []string         `json:"known_skills,omitempty" jsonschema:"Skills the learner already has"`
	MaxSkills   int              `json:"max_skills,omitempty" jsonschema:"How many skills to plan; 0 uses the server default"`
	MaxMissing  int              `json:"max_missing,omitempty" jsonschema:"Gap window; 0 uses the server default"`
	DemandLimit int              `json:"demand_limit,omitempty" jsonschema:"Limit the demand ranking"`
	Graph       SkillGraphParams `json:"graph,omitempty" jsonschema:"Graph thresholds"`
}

type skillReportTool struct {
	service AnalysisService
	logger  *logging.Logger
}

// WithSkillReport registers the skill_report tool
func WithSkillReport(service AnalysisService) Option {
	return func(reg *registry) {
		handler := skillReportTool{service: service, logger: reg.logger.Named("skill_report")}
		addTool(reg, &sdkmcp.Tool{
			Name:        "skill_report",
			Description: "Run the coverage plan, skill graph, gap and demand analyses in one call",
		}, handler.handle)
	}
}

func (t skillReportTool) handle(ctx context.Context, req *sdkmcp.CallToolRequest, params SkillReportParams) (*sdkmcp.CallToolResult, any, error) {
	t.logger.Info("skill_report request", "known_skills", len(params.KnownSkills))

	result, err := t.service.Report(ctx, analysis.ReportParams{
		KnownSkills: params.KnownSkills,
		MaxSkills:   params.MaxSkills,
		MaxMissing:  params.MaxMissing,
		DemandLimit: params.DemandLimit,
		Graph: analysis.GraphParams{
			MinEdgeWeight: params.Graph.MinEdgeWeight,
			MinNodeDegree: params.Graph.MinNodeDegree,
			MaxNodes:      params.Graph.MaxNodes,
			Excluded:      params.Graph.ExcludedSkills,
			TopNeighbors:  params.Graph.TopNeighbors,
			Persist:       params.Graph.Persist,
		},
	})
	if err != nil {
		t.logger.Error("skill_report failed", "err", err)
		return nil, nil, fmt.Errorf("skill report failed: %w", err)
	}

	msg := fmt.Sprintf("[skill_report] run %s over %d postings\n\n%s\n\n%s\n\n%s",
		result.RunID,
		result.Corpus.Postings,
		formatCoverage(result.Coverage),
		formatGaps(result.Gaps),
		formatDemand(result.Demand),
	)
	if result.Graph != nil {
		msg += "\n\n" + formatGraph(*result.Graph)
	} else {
		msg += "\n\n[skill_graph] " + result.GraphError
	}
	return textResult(msg), result, nil
}

// ReloadCorpusParams defines the arguments for the reload_corpus tool
type ReloadCorpusParams struct{}

type reloadCorpusTool struct {
	service AnalysisService
	logger  *logging.Logger
}

// WithReloadCorpus registers the reload_corpus tool
func WithReloadCorpus(service AnalysisService) Option {
	return func(reg *registry) {
		handler := reloadCorpusTool{service: service, logger: reg.logger.Named("reload_corpus")}
		addTool(reg, &sdkmcp.Tool{
			Name:        "reload_corpus",
			Description: "Reload postings from storage and rebuild the session index",
		}, handler.handle)
	}
}

func (t reloadCorpusTool) handle(ctx context.Context, req *sdkmcp.CallToolRequest, _ ReloadCorpusParams) (*sdkmcp.CallToolResult, any, error) {
	info, err := t.service.Reload(ctx)
	if err != nil {
		t.logger.Error("reload_corpus failed", "err", err)
		return nil, nil, fmt.Errorf("reload failed: %w", err)
	}

	msg := fmt.Sprintf("[reload_corpus] %d postings, %d skills loaded at %s",
		info.Postings, info.Skills, info.LoadedAt.Format("2006-01-02T15:04:05Z07:00"))
	return textResult(msg), info, nil
}
