package tools

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/skillgraph/internal/domain/analysis"
	"github.com/honeycarbs/skillgraph/pkg/logging"
)

// SkillGraphParams defines the arguments for the skill_graph tool
type SkillGraphParams struct {
	MinEdgeWeight  int      `json:"min_edge_weight,omitempty" jsonschema:"Minimum postings a skill pair must share; 0 uses the server default"`
	MinNodeDegree  int      `json:"min_node_degree,omitempty" jsonschema:"Minimum neighbors a skill keeps; 0 uses the server default"`
	MaxNodes       int      `json:"max_nodes,omitempty" jsonschema:"Keep only this many best connected skills"`
	ExcludedSkills []string `json:"excluded_skills,omitempty" jsonschema:"Skills to leave out of the graph"`
	TopNeighbors   int      `json:"top_neighbors,omitempty" jsonschema:"List this many strongest neighbors per skill"`
	Persist        bool     `json:"persist,omitempty" jsonschema:"Store cluster membership on the skill graph"`
}

type skillGraphTool struct {
	service AnalysisService
	logger  *logging.Logger
}

// WithSkillGraph registers the skill_graph tool
func WithSkillGraph(service AnalysisService) Option {
	return func(reg *registry) {
		handler := skillGraphTool{service: service, logger: reg.logger.Named("skill_graph")}
		addTool(reg, &sdkmcp.Tool{
			Name:        "skill_graph",
			Description: "Build the skill co-occurrence graph and group skills into clusters",
		}, handler.handle)
	}
}

func (t skillGraphTool) handle(ctx context.Context, req *sdkmcp.CallToolRequest, params SkillGraphParams) (*sdkmcp.CallToolResult, any, error) {
	t.logger.Info("skill_graph request",
		"min_edge_weight", params.MinEdgeWeight,
		"min_node_degree", params.MinNodeDegree,
		"excluded", params.ExcludedSkills,
		"persist", params.Persist,
	)

	result, err := t.service.Graph(ctx, analysis.GraphParams{
		MinEdgeWeight: params.MinEdgeWeight,
		MinNodeDegree: params.MinNodeDegree,
		MaxNodes:      params.MaxNodes,
		Excluded:      params.ExcludedSkills,
		TopNeighbors:  params.TopNeighbors,
		Persist:       params.Persist,
	})
	if err != nil {
		t.logger.Error("skill_graph failed", "err", err)
		return nil, nil, fmt.Errorf("skill graph failed: %w", err)
	}

	t.logger.Debug("skill_graph completed",
		"run_id", result.RunID,
		"nodes", len(result.Nodes),
		"edges", len(result.Edges),
		"clusters", len(result.Clusters),
	)
	return textResult(formatGraph(result)), result, nil
}

func formatGraph(r analysis.GraphResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[skill_graph] %d skills, %d edges, %d clusters, modularity %.3f\n",
		len(r.Nodes), len(r.Edges), len(r.Clusters), r.Modularity)
	for _, c := range r.Clusters {
		fmt.Fprintf(&sb, "cluster %d (%d): %s\n", c.ID, c.Size, strings.Join(c.Members, ", "))
	}
	if r.Persisted {
		fmt.Fprintf(&sb, "clusters saved as run %s\n", r.RunID)
	}
	return strings.TrimRight(sb.String(), "\n")
}
