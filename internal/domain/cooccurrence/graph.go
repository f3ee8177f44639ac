package cooccurrence

import (
	"sort"
)

// Edge is an unordered skill pair with A < B.
type Edge struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Weight int    `json:"weight"`
}

// Neighbor is a skill adjacent to another one.
type Neighbor struct {
	Skill  string `json:"skill"`
	Weight int    `json:"weight"`
}

// Graph is an undirected weighted simple graph over skills. It is read-only once
// returned from Build or New.
type Graph struct {
	adj   map[string]map[string]int
	nodes []string // sorted, filled by seal
	edges int
	total int
}

// New builds a graph from explicit nodes and edges. Edge endpoints are added as
// nodes; self loops and non-positive weights are skipped and repeated pairs keep
// the last weight.
func New(nodes []string, edges []Edge) *Graph {
	g := newGraph()
	for _, n := range nodes {
		g.addNode(n)
	}
	for _, e := range edges {
		if e.A == e.B || e.Weight < 1 {
			continue
		}
		g.addNode(e.A)
		g.addNode(e.B)
		g.setEdge(e.A, e.B, e.Weight)
	}
	g.seal()
	return g
}

func newGraph() *Graph {
	return &Graph{adj: make(map[string]map[string]int)}
}

func (g *Graph) addNode(n string) {
	if _, ok := g.adj[n]; !ok {
		g.adj[n] = make(map[string]int)
	}
}

func (g *Graph) setEdge(a, b string, w int) {
	if old, ok := g.adj[a][b]; ok {
		g.total -= old
	} else {
		g.edges++
	}
	g.adj[a][b] = w
	g.adj[b][a] = w
	g.total += w
}

func (g *Graph) removeNode(n string) {
	nbrs, ok := g.adj[n]
	if !ok {
		return
	}
	for m, w := range nbrs {
		delete(g.adj[m], n)
		g.edges--
		g.total -= w
	}
	delete(g.adj, n)
}

func (g *Graph) seal() {
	g.nodes = make([]string, 0, len(g.adj))
	for n := range g.adj {
		g.nodes = append(g.nodes, n)
	}
	sort.Strings(g.nodes)
}

// Nodes returns the skills in the graph, sorted.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.nodes...)
}

// Edges returns every edge once, sorted by (A, B).
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for _, a := range g.nodes {
		for b, w := range g.adj[a] {
			if a < b {
				out = append(out, Edge{A: a, B: b, Weight: w})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// Weight returns the pair weight, 0 when a and b are not adjacent.
func (g *Graph) Weight(a, b string) int {
	return g.adj[a][b]
}

// Degree returns the number of neighbors of skill.
func (g *Graph) Degree(skill string) int {
	return len(g.adj[skill])
}

// Strength returns the sum of weights incident to skill.
func (g *Graph) Strength(skill string) int {
	s := 0
	for _, w := range g.adj[skill] {
		s += w
	}
	return s
}

// Neighbors returns the sorted neighbors of skill.
func (g *Graph) Neighbors(skill string) []string {
	out := make([]string, 0, len(g.adj[skill]))
	for n := range g.adj[skill] {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// TopNeighbors returns up to n neighbors by weight descending, then name.
// n <= 0 returns all of them.
func (g *Graph) TopNeighbors(skill string, n int) []Neighbor {
	out := make([]Neighbor, 0, len(g.adj[skill]))
	for m, w := range g.adj[skill] {
		out = append(out, Neighbor{Skill: m, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Skill < out[j].Skill
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// TotalWeight is the sum of all edge weights (m in the modularity formula).
func (g *Graph) TotalWeight() int {
	return g.total
}

// HasNode reports whether skill survived filtering.
func (g *Graph) HasNode(skill string) bool {
	_, ok := g.adj[skill]
	return ok
}
