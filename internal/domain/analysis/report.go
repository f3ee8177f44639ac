package analysis

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/honeycarbs/skillgraph/internal/domain/cooccurrence"
)

// ReportParams combines the parameters of every analysis. Known skills apply
// to both the plan and the gaps.
type ReportParams struct {
	KnownSkills []string
	MaxSkills   int
	StrictGain  bool
	MaxMissing  int
	DemandLimit int
	Graph       GraphParams
}

// ReportResult bundles every analysis over the same session index
type ReportResult struct {
	Run
	Corpus   CorpusInfo     `json:"corpus"`
	Coverage CoverageResult `json:"coverage"`
	Gaps     GapResult      `json:"gaps"`
	Demand   DemandResult   `json:"demand"`
	// Graph is nil when the thresholds leave no graph
	Graph      *GraphResult `json:"graph,omitempty"`
	GraphError string       `json:"graph_error,omitempty"`
}

// Report runs coverage, graph, gap and demand analyses concurrently against
// one snapshot of the corpus. Corpus describes that snapshot even when a Reload
// lands meanwhile. An empty graph is reported in GraphError rather than failing
// the whole report.
func (s *Service) Report(ctx context.Context, p ReportParams) (ReportResult, error) {
	sn, err := s.snapshot(ctx)
	if err != nil {
		return ReportResult{}, err
	}
	idx, info := sn.idx, sn.info()

	res := ReportResult{Run: s.newRun(), Corpus: info}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res.Coverage = s.coverage(idx, CoverageParams{
			KnownSkills: p.KnownSkills,
			MaxSkills:   p.MaxSkills,
			StrictGain:  p.StrictGain,
		})
		return nil
	})
	g.Go(func() error {
		res.Gaps = s.gaps(sn, GapParams{KnownSkills: p.KnownSkills, MaxMissing: p.MaxMissing})
		return nil
	})
	g.Go(func() error {
		res.Demand = s.demand(sn, DemandParams{Limit: p.DemandLimit})
		return nil
	})
	g.Go(func() error {
		graph, a, err := s.graph(gctx, idx, p.Graph)
		if errors.Is(err, cooccurrence.ErrEmptyGraph) {
			res.GraphError = err.Error()
			return nil
		}
		if err != nil {
			return err
		}
		if p.Graph.Persist {
			if err := s.SaveClusters(gctx, graph.RunID, a); err != nil {
				return err
			}
			graph.Persisted = true
		}
		res.Graph = &graph
		return nil
	})

	if err := g.Wait(); err != nil {
		return ReportResult{}, err
	}

	s.logger.Info("report generated",
		"run_id", res.RunID,
		"postings", info.Postings,
		"plan_steps", len(res.Coverage.Steps)-1,
		"has_graph", res.Graph != nil,
	)
	return res, nil
}
