package tools

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/skillgraph/internal/domain"
	"github.com/honeycarbs/skillgraph/internal/domain/analysis"
	"github.com/honeycarbs/skillgraph/pkg/logging"
)

// SkillDemandParams defines the arguments for the skill_demand tool
type SkillDemandParams struct {
	Limit        int      `json:"limit,omitempty" jsonschema:"Return only this many most demanded skills"`
	Split        int      `json:"split,omitempty" jsonschema:"Also list this many top required and top optional skills"`
	KnownSkills  []string `json:"known_skills,omitempty" jsonschema:"Skills left out of the required/optional split"`
	EmployersFor []string `json:"employers_for,omitempty" jsonschema:"Rank companies hiring for any of these skills (substring match)"`
	Employers    int      `json:"employers,omitempty" jsonschema:"Length of the employer ranking; 0 uses 10"`
}

type skillDemandTool struct {
	service AnalysisService
	logger  *logging.Logger
}

// WithSkillDemand registers the skill_demand tool
func WithSkillDemand(service AnalysisService) Option {
	return func(reg *registry) {
		handler := skillDemandTool{service: service, logger: reg.logger.Named("skill_demand")}
		addTool(reg, &sdkmcp.Tool{
			Name:        "skill_demand",
			Description: "Rank skills by the share of postings requiring them",
		}, handler.handle)
	}
}

func (t skillDemandTool) handle(ctx context.Context, req *sdkmcp.CallToolRequest, params SkillDemandParams) (*sdkmcp.CallToolResult, any, error) {
	t.logger.Info("skill_demand request", "limit", params.Limit, "split", params.Split, "employers_for", params.EmployersFor)

	result, err := t.service.Demand(ctx, analysis.DemandParams{
		Limit:        params.Limit,
		Split:        params.Split,
		KnownSkills:  params.KnownSkills,
		EmployersFor: params.EmployersFor,
		Employers:    params.Employers,
	})
	if err != nil {
		t.logger.Error("skill_demand failed", "err", err)
		return nil, nil, fmt.Errorf("skill demand failed: %w", err)
	}

	return textResult(formatDemand(result)), result, nil
}

func formatDemand(r analysis.DemandResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[skill_demand] %d postings\n", r.TotalPostings)
	for i, s := range r.Skills {
		cumulative := ""
		if i < len(r.Pareto) {
			cumulative = percent(r.Pareto[i].Cumulative)
		}
		fmt.Fprintf(&sb, "%-24s %5d %7s %7s\n", s.Skill, s.Postings, percent(s.Fraction), cumulative)
	}
	if r.Split != nil {
		writeCounts(&sb, "required", r.Split.Required)
		writeCounts(&sb, "optional", r.Split.Optional)
	}
	if len(r.Employers) > 0 {
		sb.WriteString("employers:\n")
		for _, e := range r.Employers {
			fmt.Fprintf(&sb, "  %-22s %d\n", e.Company, e.Postings)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func writeCounts(sb *strings.Builder, label string, counts []domain.SkillCount) {
	if len(counts) == 0 {
		fmt.Fprintf(sb, "%s: none\n", label)
		return
	}
	fmt.Fprintf(sb, "%s:\n", label)
	for _, c := range counts {
		fmt.Fprintf(sb, "  %-22s %d\n", c.Skill, c.Count)
	}
}
