package tools

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/skillgraph/internal/domain/analysis"
	"github.com/honeycarbs/skillgraph/pkg/logging"
)

// SkillGapsParams defines the arguments for the skill_gaps tool
type SkillGapsParams struct {
	KnownSkills   []string `json:"known_skills,omitempty" jsonschema:"Skills the learner already has"`
	MaxMissing    int      `json:"max_missing,omitempty" jsonschema:"Only consider postings missing at most this many skills; 0 uses the server default"`
	Top           int      `json:"top,omitempty" jsonschema:"Limit the ranking to this many skills"`
	MatrixSize    int      `json:"matrix_size,omitempty" jsonschema:"Include how often the top missing skills are missing together"`
	Companies     int      `json:"companies,omitempty" jsonschema:"Also break missing skills down for this many top employers"`
	CompanySkills int      `json:"company_skills,omitempty" jsonschema:"Missing skills listed per employer; 0 uses 10"`
}

type skillGapsTool struct {
	service AnalysisService
	logger  *logging.Logger
}

// WithSkillGaps registers the skill_gaps tool
func WithSkillGaps(service AnalysisService) Option {
	return func(reg *registry) {
		handler := skillGapsTool{service: service, logger: reg.logger.Named("skill_gaps")}
		addTool(reg, &sdkmcp.Tool{
			Name:        "skill_gaps",
			Description: "Rank the skills missing from postings that are nearly within reach",
		}, handler.handle)
	}
}

func (t skillGapsTool) handle(ctx context.Context, req *sdkmcp.CallToolRequest, params SkillGapsParams) (*sdkmcp.CallToolResult, any, error) {
	t.logger.Info("skill_gaps request", "known_skills", len(params.KnownSkills), "max_missing", params.MaxMissing, "companies", params.Companies)

	result, err := t.service.Gaps(ctx, analysis.GapParams{
		KnownSkills:   params.KnownSkills,
		MaxMissing:    params.MaxMissing,
		Top:           params.Top,
		MatrixSize:    params.MatrixSize,
		Companies:     params.Companies,
		CompanySkills: params.CompanySkills,
	})
	if err != nil {
		t.logger.Error("skill_gaps failed", "err", err)
		return nil, nil, fmt.Errorf("skill gaps failed: %w", err)
	}

	return textResult(formatGaps(result)), result, nil
}

func formatGaps(r analysis.GapResult) string {
	var sb strings.Builder
	if r.Opportunities == 0 {
		fmt.Fprintf(&sb, "[skill_gaps] No posting is missing between 1 and %d skills\n", r.MaxMissing)
	} else {
		fmt.Fprintf(&sb, "[skill_gaps] %d posting(s) missing at most %d skill(s)\n", r.Opportunities, r.MaxMissing)
		for _, m := range r.Missing {
			fmt.Fprintf(&sb, "%-24s %d\n", m.Skill, m.Count)
		}
	}
	for _, c := range r.ByCompany {
		writeCounts(&sb, fmt.Sprintf("%s (%d postings)", c.Company, c.Postings), c.Missing)
	}
	return strings.TrimRight(sb.String(), "\n")
}
