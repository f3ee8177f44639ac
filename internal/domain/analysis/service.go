// Package analysis runs the skill analytics against one session index and shapes
// the results for transports (MCP tools, CLI, spreadsheet export).
package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/honeycarbs/skillgraph/internal/domain"
	"github.com/honeycarbs/skillgraph/internal/domain/index"
	"github.com/honeycarbs/skillgraph/internal/repository"
	"github.com/honeycarbs/skillgraph/pkg/logging"
)

// ErrNoClusterWriter is returned when clusters should be persisted but no
// writer was configured.
var ErrNoClusterWriter = errors.New("analysis: cluster persistence not configured")

// Defaults fill parameters a caller leaves at zero
type Defaults struct {
	MaxSkills     int
	MinEdgeWeight int
	MinNodeDegree int
	MaxMissing    int
}

// DefaultDefaults mirrors the server configuration defaults
var DefaultDefaults = Defaults{
	MaxSkills:     30,
	MinEdgeWeight: 5,
	MinNodeDegree: 3,
	MaxMissing:    3,
}

// Option configures Service
type Option func(*Service)

// WithClusterWriter enables cluster persistence
func WithClusterWriter(w repository.ClusterWriter) Option {
	return func(s *Service) {
		s.clusters = w
	}
}

// WithFilter restricts the postings loaded into the session index
func WithFilter(f domain.PostingFilter) Option {
	return func(s *Service) {
		s.filter = f
	}
}

// WithDefaults overrides DefaultDefaults
func WithDefaults(d Defaults) Option {
	return func(s *Service) {
		s.defaults = d
	}
}

// WithClock sets a custom clock
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// Service holds the session index and runs analyses on it. The index is loaded
// on first use and replaced wholesale by Reload; analyses already running keep
// the index they started with.
type Service struct {
	repo     repository.PostingRepository
	clusters repository.ClusterWriter
	logger   *logging.Logger
	filter   domain.PostingFilter
	defaults Defaults
	clock    func() time.Time

	mu   sync.Mutex
	snap *snapshot
}

// snapshot is one loaded corpus: the index and the postings it was built from,
// which keep the attributes the index drops.
type snapshot struct {
	idx      *index.Index
	postings []domain.Posting
	loadedAt time.Time
}

func (sn *snapshot) info() CorpusInfo {
	return CorpusInfo{
		Postings: sn.idx.TotalPostings(),
		Skills:   len(sn.idx.AllSkills()),
		LoadedAt: sn.loadedAt,
	}
}

// NewService creates an analysis service
func NewService(repo repository.PostingRepository, logger *logging.Logger, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		logger:   logger,
		defaults: DefaultDefaults,
		clock:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	return s
}

// CorpusInfo describes the loaded session index
type CorpusInfo struct {
	Postings int       `json:"postings"`
	Skills   int       `json:"skills"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Index returns the session index, loading it on first use
func (s *Service) Index(ctx context.Context) (*index.Index, error) {
	sn, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return sn.idx, nil
}

func (s *Service) snapshot(ctx context.Context) (*snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snap != nil {
		return s.snap, nil
	}

	sn, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.snap = sn
	return sn, nil
}

// Reload rebuilds the session index from the repository. On failure the
// previous index stays in place.
func (s *Service) Reload(ctx context.Context) (CorpusInfo, error) {
	sn, err := s.load(ctx)
	if err != nil {
		return CorpusInfo{}, err
	}

	s.mu.Lock()
	s.snap = sn
	s.mu.Unlock()

	info := sn.info()

	s.logger.Info("session index reloaded", "postings", info.Postings, "skills", info.Skills)
	return info, nil
}

// Info describes the current session index, loading it if needed
func (s *Service) Info(ctx context.Context) (CorpusInfo, error) {
	sn, err := s.snapshot(ctx)
	if err != nil {
		return CorpusInfo{}, err
	}
	return sn.info(), nil
}

func (s *Service) load(ctx context.Context) (*snapshot, error) {
	started := s.clock()

	postings, err := s.repo.LoadPostings(ctx, s.filter)
	if err != nil {
		return nil, fmt.Errorf("analysis: load postings: %w", err)
	}

	idx, err := index.Build(postings)
	if err != nil {
		return nil, fmt.Errorf("analysis: build index: %w", err)
	}

	s.logger.Debug("session index built",
		"postings", idx.TotalPostings(),
		"skills", len(idx.AllSkills()),
		"took", s.clock().Sub(started),
	)
	return &snapshot{idx: idx, postings: postings, loadedAt: s.clock().UTC()}, nil
}

// Run identifies one analysis result
type Run struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
}

func (s *Service) newRun() Run {
	return Run{RunID: uuid.NewString(), GeneratedAt: s.clock().UTC()}
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
