package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/skillgraph/internal/domain/analysis"
	"github.com/honeycarbs/skillgraph/pkg/logging"
)

// ErrSheetsUnavailable is returned when no Sheets client is configured
var ErrSheetsUnavailable = errors.New("sheets: client not configured (GOOGLE_SHEETS_CREDENTIALS_PATH not set)")

// SheetsClient writes a table into a spreadsheet tab, replacing what was there
type SheetsClient interface {
	WriteTable(ctx context.Context, spreadsheetID, tab string, header []string, rows [][]interface{}) (int, error)
}

// Export kinds
const (
	ExportCoverage = "coverage"
	ExportGaps     = "gaps"
	ExportDemand   = "demand"
	ExportClusters = "clusters"
)

// SheetsExportParams defines the arguments for the sheets_export tool
type SheetsExportParams struct {
	Kind          string           `json:"kind" jsonschema:"What to export: coverage, gaps, demand or clusters"`
	SpreadsheetID string           `json:"spreadsheet_id" jsonschema:"Google Sheets document ID"`
	Tab           string           `json:"tab,omitempty" jsonschema:"Tab name; defaults to the kind"`
	KnownSkills   []string         `json:"known_skills,omitempty" jsonschema:"Skills the learner already has (coverage, gaps)"`
	MaxSkills     int              `json:"max_skills,omitempty" jsonschema:"Plan length for coverage"`
	MaxMissing    int              `json:"max_missing,omitempty" jsonschema:"Gap window for gaps"`
	Limit         int              `json:"limit,omitempty" jsonschema:"Row limit for demand and gaps"`
	Graph         SkillGraphParams `json:"graph,omitempty" jsonschema:"Graph thresholds for clusters"`
}

// SheetsExportResult describes the summary returned after export
type SheetsExportResult struct {
	Kind          string    `json:"kind"`
	SpreadsheetID string    `json:"spreadsheet_id"`
	Tab           string    `json:"tab"`
	RunID         string    `json:"run_id"`
	WrittenRows   int       `json:"written_rows"`
	CompletedAt   time.Time `json:"completed_at"`
}

type sheetsExportTool struct {
	service AnalysisService
	client  SheetsClient
	logger  *logging.Logger
	clock   func() time.Time
}

// WithSheetsExport registers the sheets_export tool
func WithSheetsExport(service AnalysisService, client SheetsClient) Option {
	return func(reg *registry) {
		handler := sheetsExportTool{
			service: service,
			client:  client,
			logger:  reg.logger.Named("sheets_export"),
			clock:   time.Now,
		}
		addTool(reg, &sdkmcp.Tool{
			Name:        "sheets_export",
			Description: "Export a coverage plan, gap ranking, demand ranking or skill clusters to Google Sheets",
		}, handler.handle)
	}
}

func (t sheetsExportTool) handle(ctx context.Context, req *sdkmcp.CallToolRequest, params SheetsExportParams) (*sdkmcp.CallToolResult, any, error) {
	if t.client == nil {
		return nil, nil, ErrSheetsUnavailable
	}
	if params.SpreadsheetID == "" {
		return nil, nil, errors.New("sheets_export: spreadsheet_id is required")
	}

	kind := strings.ToLower(strings.TrimSpace(params.Kind))
	tab := params.Tab
	if tab == "" {
		tab = kind
	}

	table, err := t.buildTable(ctx, kind, params)
	if err != nil {
		t.logger.Error("sheets_export analysis failed", "kind", kind, "err", err)
		return nil, nil, err
	}

	written, err := t.client.WriteTable(ctx, params.SpreadsheetID, tab, table.header, table.rows)
	if err != nil {
		t.logger.Error("sheets_export write failed", "kind", kind, "tab", tab, "err", err)
		return nil, nil, err
	}

	result := SheetsExportResult{
		Kind:          kind,
		SpreadsheetID: params.SpreadsheetID,
		Tab:           tab,
		RunID:         table.runID,
		WrittenRows:   written,
		CompletedAt:   t.clock().UTC(),
	}
	t.logger.Info("sheets_export completed", "kind", kind, "tab", tab, "rows", written, "run_id", table.runID)

	msg := fmt.Sprintf("[sheets_export] wrote %d %s row(s) to %s!%s", written, kind, params.SpreadsheetID, tab)
	return textResult(msg), result, nil
}

type table struct {
	runID  string
	header []string
	rows   [][]interface{}
}

func (t sheetsExportTool) buildTable(ctx context.Context, kind string, params SheetsExportParams) (table, error) {
	switch kind {
	case ExportCoverage:
		res, err := t.service.Coverage(ctx, analysis.CoverageParams{KnownSkills: params.KnownSkills, MaxSkills: params.MaxSkills})
		if err != nil {
			return table{}, err
		}
		return coverageTable(res), nil
	case ExportGaps:
		res, err := t.service.Gaps(ctx, analysis.GapParams{KnownSkills: params.KnownSkills, MaxMissing: params.MaxMissing, Top: params.Limit})
		if err != nil {
			return table{}, err
		}
		return gapsTable(res), nil
	case ExportDemand:
		res, err := t.service.Demand(ctx, analysis.DemandParams{Limit: params.Limit})
		if err != nil {
			return table{}, err
		}
		return demandTable(res), nil
	case ExportClusters:
		res, err := t.service.Graph(ctx, analysis.GraphParams{
			MinEdgeWeight: params.Graph.MinEdgeWeight,
			MinNodeDegree: params.Graph.MinNodeDegree,
			MaxNodes:      params.Graph.MaxNodes,
			Excluded:      params.Graph.ExcludedSkills,
		})
		if err != nil {
			return table{}, err
		}
		return clustersTable(res), nil
	default:
		return table{}, fmt.Errorf("sheets_export: unknown kind %q (want coverage, gaps, demand or clusters)", params.Kind)
	}
}

func coverageTable(r analysis.CoverageResult) table {
	t := table{runID: r.RunID, header: []string{"step", "skill", "coverage", "satisfied", "gain"}}
	for i, e := range r.Steps {
		t.rows = append(t.rows, []interface{}{i, e.Skill, e.Coverage, e.Satisfied, e.Gain})
	}
	return t
}

func gapsTable(r analysis.GapResult) table {
	t := table{runID: r.RunID, header: []string{"skill", "missing_in"}}
	for _, m := range r.Missing {
		t.rows = append(t.rows, []interface{}{m.Skill, m.Count})
	}
	return t
}

func demandTable(r analysis.DemandResult) table {
	t := table{runID: r.RunID, header: []string{"skill", "postings", "share"}}
	for _, s := range r.Skills {
		t.rows = append(t.rows, []interface{}{s.Skill, s.Postings, s.Fraction})
	}
	return t
}

func clustersTable(r analysis.GraphResult) table {
	t := table{runID: r.RunID, header: []string{"skill", "cluster", "degree", "strength", "demand"}}
	for _, n := range r.Nodes {
		t.rows = append(t.rows, []interface{}{n.Skill, n.Cluster, n.Degree, n.Strength, n.Demand})
	}
	return t
}
