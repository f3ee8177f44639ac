package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/honeycarbs/skillgraph/internal/domain/analysis"
	neo4jstorage "github.com/honeycarbs/skillgraph/internal/storage/neo4j"
)

func newGraphCmd(a *app) *cobra.Command {
	var (
		maxNodes     int
		exclude      []string
		topNeighbors int
		persist      bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Build the skill co-occurrence graph and cluster it",
		Long: `Counts how many postings require each pair of skills, drops weak pairs and
poorly connected skills, then groups the rest into clusters by modularity.

Examples:
  skillgraph graph --min-edge-weight 3 --min-node-degree 2
  skillgraph graph --exclude communication,teamwork --top-neighbors 3
  skillgraph graph --persist --neo4j-uri bolt://localhost:7687`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.bind(cmd, map[string]string{
				"min_edge_weight": "min-edge-weight",
				"min_node_degree": "min-node-degree",
			}); err != nil {
				return err
			}

			var opts []analysis.Option
			if persist {
				client, err := a.openNeo4j()
				if err != nil {
					return err
				}
				defer func() { _ = client.Close(cmd.Context()) }()
				opts = append(opts, analysis.WithClusterWriter(neo4jstorage.NewClusterRepository(client)))
			}

			svc, closeFn, err := a.openService(cmd.Context(), opts...)
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := svc.Graph(cmd.Context(), analysis.GraphParams{
				MinEdgeWeight: a.v.GetInt("min_edge_weight"),
				MinNodeDegree: a.v.GetInt("min_node_degree"),
				MaxNodes:      maxNodes,
				Excluded:      exclude,
				TopNeighbors:  topNeighbors,
				Persist:       persist,
			})
			if err != nil {
				return err
			}
			return a.render(cmd, res, func(w io.Writer) { writeGraph(w, res) })
		},
	}

	cmd.Flags().Int("min-edge-weight", analysis.DefaultDefaults.MinEdgeWeight, "Minimum postings shared by a skill pair")
	cmd.Flags().Int("min-node-degree", analysis.DefaultDefaults.MinNodeDegree, "Minimum neighbors a skill keeps")
	cmd.Flags().IntVar(&maxNodes, "max-nodes", 0, "Keep only this many best connected skills (0 keeps all)")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Skills to leave out")
	cmd.Flags().IntVar(&topNeighbors, "top-neighbors", 0, "List this many strongest neighbors per skill")
	cmd.Flags().BoolVar(&persist, "persist", false, "Store cluster membership on Neo4j Skill nodes")
	return cmd
}

func writeGraph(w io.Writer, res analysis.GraphResult) {
	fmt.Fprintf(w, "Skills:\t%d\n", len(res.Nodes))
	fmt.Fprintf(w, "Edges:\t%d\n", len(res.Edges))
	fmt.Fprintf(w, "Modularity:\t%.4f\n", res.Modularity)
	if res.Persisted {
		fmt.Fprintf(w, "Saved as run:\t%s\n", res.RunID)
	}

	fmt.Fprintln(w, "\nCLUSTER\tSIZE\tMEMBERS")
	for _, c := range res.Clusters {
		fmt.Fprintf(w, "%d\t%d\t%s\n", c.ID, c.Size, strings.Join(c.Members, ", "))
	}

	fmt.Fprintln(w, "\nSKILL\tCLUSTER\tDEGREE\tSTRENGTH\tDEMAND\tNEIGHBORS")
	for _, n := range res.Nodes {
		neighbors := make([]string, 0, len(n.TopNeighbors))
		for _, nb := range n.TopNeighbors {
			neighbors = append(neighbors, fmt.Sprintf("%s(%d)", nb.Skill, nb.Weight))
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%s\n", n.Skill, n.Cluster, n.Degree, n.Strength, n.Demand, strings.Join(neighbors, " "))
	}
}
