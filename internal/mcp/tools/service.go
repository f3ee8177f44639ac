package tools

import (
	"context"

	"github.com/honeycarbs/skillgraph/internal/domain/analysis"
)

// AnalysisService runs analyses over the session corpus
type AnalysisService interface {
	Coverage(ctx context.Context, p analysis.CoverageParams) (analysis.CoverageResult, error)
	Graph(ctx context.Context, p analysis.GraphParams) (analysis.GraphResult, error)
	Gaps(ctx context.Context, p analysis.GapParams) (analysis.GapResult, error)
	Demand(ctx context.Context, p analysis.DemandParams) (analysis.DemandResult, error)
	Report(ctx context.Context, p analysis.ReportParams) (analysis.ReportResult, error)
	Reload(ctx context.Context) (analysis.CorpusInfo, error)
}

var _ AnalysisService = (*analysis.Service)(nil)
