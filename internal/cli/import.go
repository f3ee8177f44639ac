package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/honeycarbs/skillgraph/internal/domain"
	"github.com/honeycarbs/skillgraph/internal/repository"
	neo4jstorage "github.com/honeycarbs/skillgraph/internal/storage/neo4j"
	sqlitestorage "github.com/honeycarbs/skillgraph/internal/storage/sqlite"
)

func newImportCmd(a *app) *cobra.Command {
	var batch int

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy the SQLite corpus into Neo4j",
		Long: `Loads postings from the SQLite corpus, applying --required-only and
--max-salary, and upserts them into Neo4j as (:Job)-[:REQUIRES]->(:Skill).

Examples:
  skillgraph import --db jobs.db --neo4j-uri bolt://localhost:7687 --neo4j-password secret`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if batch <= 0 {
				return fmt.Errorf("--batch must be positive, got %d", batch)
			}

			ctx := cmd.Context()

			corpus, err := a.openCorpus(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = corpus.Close(ctx) }()

			postings, err := sqlitestorage.NewPostingRepository(corpus).LoadPostings(ctx, a.filter())
			if err != nil {
				return err
			}

			graph, err := a.openNeo4j()
			if err != nil {
				return err
			}
			defer func() { _ = graph.Close(ctx) }()

			n, err := copyPostings(cmd, neo4jstorage.NewPostingRepository(graph), postings, batch)
			if err != nil {
				return err
			}
			a.log.Info("import complete", "postings", n)

			out := struct {
				Imported int `json:"imported"`
			}{Imported: n}
			return a.render(cmd, out, func(w io.Writer) {
				fmt.Fprintf(w, "Imported %d postings\n", n)
			})
		},
	}

	cmd.Flags().IntVar(&batch, "batch", 500, "Postings per Neo4j transaction")
	return cmd
}

// copyPostings writes postings in batches and returns how many were written
func copyPostings(cmd *cobra.Command, dst repository.PostingWriter, postings []domain.Posting, batch int) (int, error) {
	written := 0
	for start := 0; start < len(postings); start += batch {
		end := min(start+batch, len(postings))
		if err := dst.UpsertPostings(cmd.Context(), postings[start:end]); err != nil {
			return written, fmt.Errorf("import: batch at %d: %w", start, err)
		}
		written = end
	}
	return written, nil
}
