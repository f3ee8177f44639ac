package tools

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/skillgraph/internal/domain/analysis"
	"github.com/honeycarbs/skillgraph/pkg/logging"
)

// CoveragePlanParams defines the arguments for the coverage_plan tool
type CoveragePlanParams struct {
	KnownSkills []string `json:"known_skills,omitempty" jsonschema:"Skills the learner already has"`
	MaxSkills   int      `json:"max_skills,omitempty" jsonschema:"How many skills to plan; 0 uses the server default"`
	StrictGain  bool     `json:"strict_gain,omitempty" jsonschema:"Stop once no single skill completes another posting"`
	Unlocks     int      `json:"unlocks,omitempty" jsonschema:"Also rank this many skills by postings they complete on their own"`
}

type coveragePlanTool struct {
	service AnalysisService
	logger  *logging.Logger
}

// WithCoveragePlan registers the coverage_plan tool
func WithCoveragePlan(service AnalysisService) Option {
	return func(reg *registry) {
		handler := coveragePlanTool{service: service, logger: reg.logger.Named("coverage_plan")}
		addTool(reg, &sdkmcp.Tool{
			Name:        "coverage_plan",
			Description: "Order skills to learn so that the most job postings become fully attainable",
		}, handler.handle)
	}
}

func (t coveragePlanTool) handle(ctx context.Context, req *sdkmcp.CallToolRequest, params CoveragePlanParams) (*sdkmcp.CallToolResult, any, error) {
	t.logger.Info("coverage_plan request",
		"known_skills", len(params.KnownSkills),
		"max_skills", params.MaxSkills,
		"strict_gain", params.StrictGain,
	)

	result, err := t.service.Coverage(ctx, analysis.CoverageParams{
		KnownSkills: params.KnownSkills,
		MaxSkills:   params.MaxSkills,
		StrictGain:  params.StrictGain,
		Unlocks:     params.Unlocks,
	})
	if err != nil {
		t.logger.Error("coverage_plan failed", "err", err)
		return nil, nil, fmt.Errorf("coverage plan failed: %w", err)
	}

	t.logger.Debug("coverage_plan completed", "run_id", result.RunID, "steps", len(result.Steps)-1)
	return textResult(formatCoverage(result)), result, nil
}

func formatCoverage(r analysis.CoverageResult) string {
	var sb strings.Builder

	start := r.Steps[0]
	fmt.Fprintf(&sb, "[coverage_plan] %d postings, starting coverage %s (%d satisfied)\n",
		r.TotalPostings, percent(start.Coverage), start.Satisfied)

	if len(r.Steps) == 1 {
		sb.WriteString("No skill adds coverage.")
		return sb.String()
	}

	for i, e := range r.Steps[1:] {
		fmt.Fprintf(&sb, "%2d. %-24s %6s  +%d\n", i+1, e.Skill, percent(e.Coverage), e.Gain)
	}
	if r.DiminishingAt > 0 {
		fmt.Fprintf(&sb, "Returns diminish from step %d.\n", r.DiminishingAt)
	}
	for _, u := range r.Unlocks {
		fmt.Fprintf(&sb, "unlock: %s completes %d posting(s)\n", u.Skill, u.Postings)
	}
	return strings.TrimRight(sb.String(), "\n")
}
