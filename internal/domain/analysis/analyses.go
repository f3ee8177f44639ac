package analysis

import (
	"context"
	"fmt"

	"github.com/honeycarbs/skillgraph/internal/domain"
	"github.com/honeycarbs/skillgraph/internal/domain/community"
	"github.com/honeycarbs/skillgraph/internal/domain/cooccurrence"
	"github.com/honeycarbs/skillgraph/internal/domain/coverage"
	"github.com/honeycarbs/skillgraph/internal/domain/demand"
	"github.com/honeycarbs/skillgraph/internal/domain/gap"
	"github.com/honeycarbs/skillgraph/internal/domain/index"
	"github.com/honeycarbs/skillgraph/internal/domain/skills"
	"github.com/honeycarbs/skillgraph/internal/repository"
)

// CoverageParams configures a learning plan. MaxSkills 0 means the service
// default; a negative value returns only the starting point.
type CoverageParams struct {
	KnownSkills []string
	MaxSkills   int
	StrictGain  bool
	// Unlocks is how many single-skill unlocks to rank; 0 skips them
	Unlocks int
}

// CoverageResult is a learning plan
type CoverageResult struct {
	Run
	TotalPostings int                  `json:"total_postings"`
	KnownSkills   []string             `json:"known_skills"`
	Steps         coverage.Sequence    `json:"steps"`
	Milestones    []coverage.Milestone `json:"milestones"`
	// DiminishingAt is the first step adding less than 0.5% coverage, 0 if none
	DiminishingAt int               `json:"diminishing_at,omitempty"`
	Unlocks       []coverage.Unlock `json:"unlocks,omitempty"`
}

// Coverage orders skills by how many more postings they make attainable
func (s *Service) Coverage(ctx context.Context, p CoverageParams) (CoverageResult, error) {
	idx, err := s.Index(ctx)
	if err != nil {
		return CoverageResult{}, err
	}
	return s.coverage(idx, p), nil
}

func (s *Service) coverage(idx *index.Index, p CoverageParams) CoverageResult {
	known := skills.NewSet(p.KnownSkills...)

	var opts []coverage.Option
	if p.StrictGain {
		opts = append(opts, coverage.WithStrictGain())
	}
	seq := coverage.Optimize(idx, known, orDefault(p.MaxSkills, s.defaults.MaxSkills), opts...)

	res := CoverageResult{
		Run:           s.newRun(),
		TotalPostings: idx.TotalPostings(),
		KnownSkills:   known.Sorted(),
		Steps:         seq,
		Milestones:    coverage.Milestones(seq, nil),
	}
	if step, ok := coverage.DiminishingPoint(seq, coverage.DefaultMinDelta); ok {
		res.DiminishingAt = step
	}
	if p.Unlocks > 0 {
		res.Unlocks = coverage.Unlocks(idx, known, p.Unlocks)
	}
	return res
}

// GraphParams configures the co-occurrence graph. Zero thresholds mean the
// service defaults.
type GraphParams struct {
	MinEdgeWeight int
	MinNodeDegree int
	MaxNodes      int
	Excluded      []string
	// TopNeighbors lists this many strongest neighbors per node; 0 skips them
	TopNeighbors int
	// Persist stores cluster membership through the configured ClusterWriter
	Persist bool
}

// NodeSummary describes one skill in the graph
type NodeSummary struct {
	Skill        string                  `json:"skill"`
	Cluster      int                     `json:"cluster"`
	Degree       int                     `json:"degree"`
	Strength     int                     `json:"strength"`
	Demand       int                     `json:"demand"`
	TopNeighbors []cooccurrence.Neighbor `json:"top_neighbors,omitempty"`
}

// ClusterSummary is one community of skills
type ClusterSummary struct {
	ID      int      `json:"id"`
	Size    int      `json:"size"`
	Members []string `json:"members"`
}

// GraphResult is the filtered co-occurrence graph with its clusters
type GraphResult struct {
	Run
	Nodes      []NodeSummary       `json:"nodes"`
	Edges      []cooccurrence.Edge `json:"edges"`
	Clusters   []ClusterSummary    `json:"clusters"`
	Modularity float64             `json:"modularity"`
	Persisted  bool                `json:"persisted"`
}

// Graph builds the co-occurrence graph and partitions it into clusters.
// It returns cooccurrence.ErrEmptyGraph, wrapped, when filtering leaves nothing.
func (s *Service) Graph(ctx context.Context, p GraphParams) (GraphResult, error) {
	idx, err := s.Index(ctx)
	if err != nil {
		return GraphResult{}, err
	}

	res, assignment, err := s.graph(ctx, idx, p)
	if err != nil {
		return GraphResult{}, err
	}

	if p.Persist {
		if err := s.SaveClusters(ctx, res.RunID, assignment); err != nil {
			return res, err
		}
		res.Persisted = true
	}
	return res, nil
}

func (s *Service) graph(ctx context.Context, idx *index.Index, p GraphParams) (GraphResult, community.Assignment, error) {
	g, err := cooccurrence.Build(ctx, idx, cooccurrence.Params{
		MinEdgeWeight: orDefault(p.MinEdgeWeight, s.defaults.MinEdgeWeight),
		MinNodeDegree: orDefault(p.MinNodeDegree, s.defaults.MinNodeDegree),
		MaxNodes:      p.MaxNodes,
		Excluded:      skills.NewSet(p.Excluded...),
	})
	if err != nil {
		return GraphResult{}, community.Assignment{}, fmt.Errorf("analysis: co-occurrence graph: %w", err)
	}

	a := community.Partition(g)

	res := GraphResult{
		Run:        s.newRun(),
		Edges:      g.Edges(),
		Modularity: a.Modularity(),
	}
	for _, n := range g.Nodes() {
		cluster, _ := a.Cluster(n)
		node := NodeSummary{
			Skill:    n,
			Cluster:  cluster,
			Degree:   g.Degree(n),
			Strength: g.Strength(n),
			Demand:   idx.Demand(n),
		}
		if p.TopNeighbors > 0 {
			node.TopNeighbors = g.TopNeighbors(n, p.TopNeighbors)
		}
		res.Nodes = append(res.Nodes, node)
	}
	for id, members := range a.Clusters() {
		res.Clusters = append(res.Clusters, ClusterSummary{ID: id, Size: len(members), Members: members})
	}
	return res, a, nil
}

// SaveClusters persists an assignment under runID
func (s *Service) SaveClusters(ctx context.Context, runID string, a community.Assignment) error {
	if s.clusters == nil {
		return ErrNoClusterWriter
	}

	var entries []repository.SkillCluster
	for id, members := range a.Clusters() {
		for _, m := range members {
			entries = append(entries, repository.SkillCluster{Skill: m, Cluster: id})
		}
	}

	if err := s.clusters.SaveClusters(ctx, runID, entries); err != nil {
		return fmt.Errorf("analysis: save clusters: %w", err)
	}
	s.logger.Info("clusters saved", "run_id", runID, "clusters", a.Len(), "skills", len(entries))
	return nil
}

// GapParams configures gap analysis. MaxMissing 0 means the service default.
type GapParams struct {
	KnownSkills []string
	MaxMissing  int
	// Top limits the ranked missing skills; 0 returns all
	Top int
	// MatrixSize adds the co-occurrence matrix of this many missing skills; 0 skips it
	MatrixSize int
	// Companies adds the missing skills of this many top employers; 0 skips them
	Companies int
	// CompanySkills limits the skills listed per employer; 0 means DefaultCompanySkills
	CompanySkills int
}

// DefaultCompanySkills is the per-employer skill limit when none is given
const DefaultCompanySkills = 10

// GapResult ranks the skills standing between the learner and nearly attainable postings
type GapResult struct {
	Run
	KnownSkills []string `json:"known_skills"`
	MaxMissing  int      `json:"max_missing"`
	// Opportunities counts postings missing between 1 and MaxMissing skills
	Opportunities int                 `json:"opportunities"`
	Missing       []domain.SkillCount `json:"missing"`
	Matrix        *gap.Matrix         `json:"matrix,omitempty"`
	// ByCompany covers every posting of each employer, not only near matches
	ByCompany []gap.CompanyGap `json:"by_company,omitempty"`
}

// Gaps counts missing skills across nearly attainable postings
func (s *Service) Gaps(ctx context.Context, p GapParams) (GapResult, error) {
	sn, err := s.snapshot(ctx)
	if err != nil {
		return GapResult{}, err
	}
	return s.gaps(sn, p), nil
}

func (s *Service) gaps(sn *snapshot, p GapParams) GapResult {
	idx := sn.idx
	known := skills.NewSet(p.KnownSkills...)
	maxMissing := orDefault(p.MaxMissing, s.defaults.MaxMissing)

	res := GapResult{
		Run:         s.newRun(),
		KnownSkills: known.Sorted(),
		MaxMissing:  maxMissing,
		Missing:     gap.Top(gap.Analyze(idx, known, maxMissing), p.Top),
	}
	for _, r := range gap.Records(idx, known) {
		if n := len(r.Missing); n > 0 && n <= maxMissing {
			res.Opportunities++
		}
	}
	if p.MatrixSize > 0 {
		mx := gap.MissingCooccurrence(idx, known, p.MatrixSize)
		res.Matrix = &mx
	}
	if p.Companies > 0 {
		res.ByCompany = gap.ByCompany(sn.postings, known, p.Companies, orDefault(p.CompanySkills, DefaultCompanySkills))
	}
	return res
}

// DemandParams configures the demand ranking
type DemandParams struct {
	// Limit caps the ranking and the Pareto curve; <= 0 returns every skill
	Limit int
	// Split adds the top required and optional skills outside KnownSkills; 0 skips it
	Split       int
	KnownSkills []string
	// EmployersFor ranks companies hiring for any of these skills; empty skips it
	EmployersFor []string
	// Employers limits that ranking; 0 means DefaultEmployers
	Employers int
}

// DefaultEmployers is the employer ranking length when none is given
const DefaultEmployers = 10

// DemandResult ranks skills by how many postings request them
type DemandResult struct {
	Run
	TotalPostings int                  `json:"total_postings"`
	Skills        []demand.Share       `json:"skills"`
	Pareto        []demand.ParetoPoint `json:"pareto"`
	Split         *demand.Split        `json:"split,omitempty"`
	Employers     []demand.Employer    `json:"employers,omitempty"`
}

// Demand ranks skills by demand
func (s *Service) Demand(ctx context.Context, p DemandParams) (DemandResult, error) {
	sn, err := s.snapshot(ctx)
	if err != nil {
		return DemandResult{}, err
	}
	return s.demand(sn, p), nil
}

func (s *Service) demand(sn *snapshot, p DemandParams) DemandResult {
	idx := sn.idx
	ranking := demand.Ranking(idx)
	if p.Limit > 0 && len(ranking) > p.Limit {
		ranking = ranking[:p.Limit]
	}
	res := DemandResult{
		Run:           s.newRun(),
		TotalPostings: idx.TotalPostings(),
		Skills:        ranking,
		Pareto:        demand.Pareto(idx, p.Limit),
	}
	if p.Split > 0 {
		split := demand.RequiredOptional(sn.postings, skills.NewSet(p.KnownSkills...), p.Split)
		res.Split = &split
	}
	if len(p.EmployersFor) > 0 {
		res.Employers = demand.Employers(sn.postings, skills.NewSet(p.EmployersFor...), orDefault(p.Employers, DefaultEmployers))
	}
	return res
}
