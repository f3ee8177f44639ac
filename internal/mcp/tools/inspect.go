package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/honeycarbs/skillgraph/pkg/logging"
)

// ErrGraphUnavailable is returned by graph_inspect when no Neo4j client is configured
var ErrGraphUnavailable = errors.New("graph_inspect: Neo4j client not configured")

// SessionFactory opens Neo4j sessions
type SessionFactory interface {
	NewSession(ctx context.Context, config neo4j.SessionConfig) neo4j.SessionWithContext
}

// GraphInspectParams defines the arguments for the graph_inspect tool
type GraphInspectParams struct {
	Cypher string `json:"cypher,omitempty" jsonschema:"Custom read-only Cypher query to run"`
	Skill  string `json:"skill,omitempty" jsonschema:"Show one skill with its cluster and the postings requiring it"`
	RunID  string `json:"run_id,omitempty" jsonschema:"Restrict the cluster summary to one clustering run"`
}

type graphInspectTool struct {
	sessions SessionFactory
	logger   *logging.Logger
}

// WithGraphInspect registers the graph_inspect developer tool
func WithGraphInspect(sessions SessionFactory) Option {
	return func(reg *registry) {
		handler := graphInspectTool{sessions: sessions, logger: reg.logger.Named("graph_inspect")}
		addTool(reg, &sdkmcp.Tool{
			Name:        "graph_inspect",
			Description: "Developer tool for inspecting postings, skills and stored clusters in Neo4j",
		}, handler.handle)
	}
}

const (
	clusterSummaryQuery = `
		MATCH (s:Skill)
		WHERE s.cluster IS NOT NULL AND ($runId = '' OR s.clusterRun = $runId)
		RETURN s.clusterRun AS run, s.cluster AS cluster, count(s) AS size, collect(s.name)[..10] AS sample
		ORDER BY run, cluster
		LIMIT 50
	`
	skillQuery = `
		MATCH (s:Skill {name: $skill})
		OPTIONAL MATCH (j:Job)-[:REQUIRES]->(s)
		RETURN s.name AS skill, s.cluster AS cluster, s.clusterRun AS run, count(j) AS postings
	`
)

func (t graphInspectTool) handle(ctx context.Context, req *sdkmcp.CallToolRequest, params GraphInspectParams) (*sdkmcp.CallToolResult, any, error) {
	if t.sessions == nil {
		return nil, nil, ErrGraphUnavailable
	}

	query, queryParams := inspectQuery(params)
	t.logger.Debug("graph_inspect query", "custom", params.Cypher != "", "skill", params.Skill)

	out, err := t.executeQuery(ctx, query, queryParams)
	if err != nil {
		t.logger.Error("graph_inspect failed", "err", err)
		return nil, nil, err
	}
	return textResult(out), nil, nil
}

func inspectQuery(params GraphInspectParams) (string, map[string]any) {
	switch {
	case params.Cypher != "":
		queryParams := map[string]any{}
		if params.Skill != "" {
			queryParams["skill"] = strings.ToLower(strings.TrimSpace(params.Skill))
		}
		if params.RunID != "" {
			queryParams["runId"] = params.RunID
		}
		return params.Cypher, queryParams
	case params.Skill != "":
		return skillQuery, map[string]any{"skill": strings.ToLower(strings.TrimSpace(params.Skill))}
	default:
		return clusterSummaryQuery, map[string]any{"runId": params.RunID}
	}
}

func (t graphInspectTool) executeQuery(ctx context.Context, query string, params map[string]any) (string, error) {
	session := t.sessions.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	var (
		records []*neo4j.Record
		keys    []string
	)
	_, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		for result.Next(ctx) {
			record := result.Record()
			if keys == nil {
				keys = record.Keys
			}
			records = append(records, record)
		}
		return nil, result.Err()
	})
	if err != nil {
		return "", fmt.Errorf("graph_inspect: query failed: %w", err)
	}

	return formatRecords(records, keys), nil
}

func formatRecords(records []*neo4j.Record, keys []string) string {
	if len(records) == 0 {
		return "Query executed successfully but returned no rows"
	}

	var sb strings.Builder
	for i, record := range records {
		fmt.Fprintf(&sb, "Row %d:\n", i+1)
		for _, key := range keys {
			val, ok := record.Get(key)
			if !ok {
				fmt.Fprintf(&sb, "  %s: <not found>\n", key)
				continue
			}
			fmt.Fprintf(&sb, "  %s: %s\n", key, formatValue(val))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatValue(val any) string {
	switch v := val.(type) {
	case nil:
		return "null"
	case neo4j.Node:
		props, _ := json.Marshal(v.Props)
		return fmt.Sprintf("Node%v %s", v.Labels, props)
	case neo4j.Relationship:
		props, _ := json.Marshal(v.Props)
		return fmt.Sprintf("Relationship[%s] %s", v.Type, props)
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, formatValue(item))
		}
		return "[" + strings.Join(items, ", ") + "]"
	case string:
		return fmt.Sprintf("%q", v)
	case int64:
		return fmt.Sprintf("%d", v)
	case float64:
		return fmt.Sprintf("%.2f", v)
	case bool:
		return fmt.Sprintf("%t", v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}
