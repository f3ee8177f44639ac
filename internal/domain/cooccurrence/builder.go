// Package cooccurrence builds the weighted skill co-occurrence graph.
//
// Two skills are joined by an edge whose weight is the number of postings that
// require both. Weak edges are dropped, excluded skills are removed, and nodes
// below the minimum degree are pruned repeatedly until none remain.
package cooccurrence

import (
	"context"
	"errors"
	"sort"

	"github.com/honeycarbs/skillgraph/internal/domain/index"
	"github.com/honeycarbs/skillgraph/internal/domain/skills"
)

// ErrEmptyGraph is returned when thresholds leave no edges or no nodes.
var ErrEmptyGraph = errors.New("cooccurrence: graph is empty after filtering")

// Params controls edge and node filtering.
type Params struct {
	// MinEdgeWeight is the minimum pair count for an edge; values below 1 mean 1.
	MinEdgeWeight int
	// MinNodeDegree is the minimum neighbor count a node keeps after pruning.
	MinNodeDegree int
	Excluded      skills.Set
	// MaxNodes caps the graph to the highest-degree nodes. 0 disables the cap.
	MaxNodes int
}

type pair struct {
	a, b string
}

// Build constructs the co-occurrence graph for idx. It checks ctx once per
// posting and returns ctx.Err() when cancelled.
func Build(ctx context.Context, idx *index.Index, p Params) (*Graph, error) {
	minWeight := p.MinEdgeWeight
	if minWeight < 1 {
		minWeight = 1
	}

	counts := make(map[pair]int)
	for pos := 0; pos < idx.TotalPostings(); pos++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		req := idx.Requirements(pos)
		for i := 0; i < len(req); i++ {
			for j := i + 1; j < len(req); j++ {
				counts[pair{req[i], req[j]}]++
			}
		}
	}

	g := newGraph()
	for _, s := range idx.AllSkills() {
		g.addNode(s)
	}
	for pr, c := range counts {
		if c >= minWeight {
			g.setEdge(pr.a, pr.b, c)
		}
	}
	if g.edges == 0 {
		return nil, ErrEmptyGraph
	}

	for _, s := range p.Excluded.Sorted() {
		g.removeNode(s)
	}

	g.pruneDegree(p.MinNodeDegree)
	if p.MaxNodes > 0 && len(g.adj) > p.MaxNodes {
		g.keepTop(p.MaxNodes)
		g.pruneDegree(p.MinNodeDegree)
	}

	if len(g.adj) == 0 {
		return nil, ErrEmptyGraph
	}

	g.seal()
	return g, nil
}

// pruneDegree removes nodes with fewer than minDegree neighbors until every remaining
// node has at least minDegree. Removing a node re-queues its former neighbors.
func (g *Graph) pruneDegree(minDegree int) {
	if minDegree <= 0 {
		return
	}

	var queue []string
	queued := make(map[string]bool)
	for _, n := range sortedKeys(g.adj) {
		if len(g.adj[n]) < minDegree {
			queue = append(queue, n)
			queued[n] = true
		}
	}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		nbrs := sortedKeys(g.adj[n])
		g.removeNode(n)
		for _, m := range nbrs {
			if !queued[m] && len(g.adj[m]) < minDegree {
				queue = append(queue, m)
				queued[m] = true
			}
		}
	}
}

// keepTop retains the n nodes with the highest degree, ties by name.
func (g *Graph) keepTop(n int) {
	ranked := sortedKeys(g.adj)
	sort.SliceStable(ranked, func(i, j int) bool {
		return len(g.adj[ranked[i]]) > len(g.adj[ranked[j]])
	})
	for _, s := range ranked[n:] {
		g.removeNode(s)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
