// Package community partitions the co-occurrence graph into skill clusters by
// greedy modularity agglomeration (Clauset, Newman and Moore).
package community

import (
	"sort"

	"github.com/honeycarbs/skillgraph/internal/domain/cooccurrence"
)

// Assignment maps every node of a graph to exactly one cluster. Cluster ids run
// 0..Len()-1 ordered by size descending, then by smallest member name.
type Assignment struct {
	clusters   [][]string
	of         map[string]int
	modularity float64
}

// Cluster returns the cluster id of skill.
func (a Assignment) Cluster(skill string) (int, bool) {
	id, ok := a.of[skill]
	return id, ok
}

// Clusters returns the sorted members of every cluster, indexed by id.
func (a Assignment) Clusters() [][]string {
	out := make([][]string, len(a.clusters))
	for i, c := range a.clusters {
		out[i] = append([]string(nil), c...)
	}
	return out
}

// Members returns the sorted members of cluster id, nil when out of range.
func (a Assignment) Members(id int) []string {
	if id < 0 || id >= len(a.clusters) {
		return nil
	}
	return append([]string(nil), a.clusters[id]...)
}

// Len returns the number of clusters.
func (a Assignment) Len() int {
	return len(a.clusters)
}

// Modularity is the modularity of the partition on the graph it was built from.
func (a Assignment) Modularity() float64 {
	return a.modularity
}

// Partition merges clusters while some merge of two connected clusters raises
// modularity. A graph without edges yields one cluster per node.
//
// Gains are compared exactly as 2m*w_ij - d_i*d_j, which is ΔQ scaled by 2m².
// Singletons are indexed in sorted node order; among equal gains the pair with
// the smallest (lower, upper) index wins and the merged cluster keeps the lower
// index.
func Partition(g *cooccurrence.Graph) Assignment {
	nodes := g.Nodes()
	pos := make(map[string]int, len(nodes))
	for i, n := range nodes {
		pos[n] = i
	}

	m2 := 2 * int64(g.TotalWeight())
	strength := make([]int64, len(nodes))
	between := make([]map[int]int64, len(nodes))
	members := make([][]string, len(nodes))
	active := make([]bool, len(nodes))
	for i, n := range nodes {
		strength[i] = int64(g.Strength(n))
		between[i] = make(map[int]int64)
		members[i] = []string{n}
		active[i] = true
	}
	for _, e := range g.Edges() {
		i, j := pos[e.A], pos[e.B]
		between[i][j] = int64(e.Weight)
		between[j][i] = int64(e.Weight)
	}

	for {
		bi, bj := -1, -1
		var best int64
		for i := range nodes {
			if !active[i] {
				continue
			}
			for _, j := range sortedNeighbors(between[i]) {
				if j <= i {
					continue
				}
				gain := m2*between[i][j] - strength[i]*strength[j]
				if gain > best {
					bi, bj, best = i, j, gain
				}
			}
		}
		if bi < 0 {
			break
		}

		strength[bi] += strength[bj]
		members[bi] = append(members[bi], members[bj]...)
		for k, w := range between[bj] {
			delete(between[k], bj)
			if k == bi {
				continue
			}
			between[bi][k] += w
			between[k][bi] += w
		}
		between[bj] = nil
		members[bj] = nil
		active[bj] = false
	}

	var clusters [][]string
	for i := range nodes {
		if active[i] {
			c := members[i]
			sort.Strings(c)
			clusters = append(clusters, c)
		}
	}

	a := newAssignment(clusters)
	a.modularity = Modularity(g, a)
	return a
}

func newAssignment(clusters [][]string) Assignment {
	sort.SliceStable(clusters, func(i, j int) bool {
		if len(clusters[i]) != len(clusters[j]) {
			return len(clusters[i]) > len(clusters[j])
		}
		return clusters[i][0] < clusters[j][0]
	})

	of := make(map[string]int)
	for id, c := range clusters {
		for _, s := range c {
			of[s] = id
		}
	}
	return Assignment{clusters: clusters, of: of}
}

// Modularity evaluates Q = Σ_c (L_c/m - (D_c/2m)²) where L_c is the weight
// inside cluster c and D_c its total strength. Nodes missing from a are ignored.
// A graph without edges has modularity 0.
func Modularity(g *cooccurrence.Graph, a Assignment) float64 {
	m := float64(g.TotalWeight())
	if m == 0 {
		return 0
	}

	inside := make([]float64, a.Len())
	strength := make([]float64, a.Len())
	for _, n := range g.Nodes() {
		if id, ok := a.Cluster(n); ok {
			strength[id] += float64(g.Strength(n))
		}
	}
	for _, e := range g.Edges() {
		ia, okA := a.Cluster(e.A)
		ib, okB := a.Cluster(e.B)
		if okA && okB && ia == ib {
			inside[ia] += float64(e.Weight)
		}
	}

	var q float64
	for id := range inside {
		d := strength[id] / (2 * m)
		q += inside[id]/m - d*d
	}
	return q
}

func sortedNeighbors(m map[int]int64) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
