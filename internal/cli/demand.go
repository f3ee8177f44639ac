package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/honeycarbs/skillgraph/internal/domain/analysis"
)

func newDemandCmd(a *app) *cobra.Command {
	var (
		limit        int
		split        int
		known        []string
		employersFor []string
		employers    int
	)

	cmd := &cobra.Command{
		Use:   "demand",
		Short: "Rank skills by the share of postings requiring them",
		Long: `Ranks skills by the share of postings requiring them, with the cumulative
share of all skill mentions.

--split lists the top required and optional skills you do not know yet; run it
with --required-only=false to rank optional skills in the main table too.

Examples:
  skillgraph demand --limit 10
  skillgraph demand --split 10 --known python,aws
  skillgraph demand --employers-for python,sql --employers 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := a.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := svc.Demand(cmd.Context(), analysis.DemandParams{
				Limit:        limit,
				Split:        split,
				KnownSkills:  known,
				EmployersFor: employersFor,
				Employers:    employers,
			})
			if err != nil {
				return err
			}
			return a.render(cmd, res, func(w io.Writer) { writeDemand(w, res) })
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 25, "Number of skills to list (0 lists all)")
	cmd.Flags().IntVar(&split, "split", 0, "Also list the top N required and top N optional skills")
	cmd.Flags().StringSliceVar(&known, "known", nil, "Skills left out of --split (comma separated)")
	cmd.Flags().StringSliceVar(&employersFor, "employers-for", nil, "Rank employers hiring for any of these skills")
	cmd.Flags().IntVar(&employers, "employers", analysis.DefaultEmployers, "Number of employers to list")
	return cmd
}

func writeDemand(w io.Writer, res analysis.DemandResult) {
	fmt.Fprintf(w, "Postings:\t%d\n\n", res.TotalPostings)
	fmt.Fprintln(w, "SKILL\tPOSTINGS\tSHARE\tCUMULATIVE")
	for i, s := range res.Skills {
		cumulative := ""
		if i < len(res.Pareto) {
			cumulative = pct(res.Pareto[i].Cumulative)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", s.Skill, s.Postings, pct(s.Fraction), cumulative)
	}

	if res.Split != nil {
		fmt.Fprintln(w, "\nTYPE\tSKILL\tPOSTINGS")
		for _, c := range res.Split.Required {
			fmt.Fprintf(w, "required\t%s\t%d\n", c.Skill, c.Count)
		}
		for _, c := range res.Split.Optional {
			fmt.Fprintf(w, "optional\t%s\t%d\n", c.Skill, c.Count)
		}
	}
	if len(res.Employers) > 0 {
		fmt.Fprintln(w, "\nEMPLOYER\tPOSTINGS")
		for _, e := range res.Employers {
			fmt.Fprintf(w, "%s\t%d\n", e.Company, e.Postings)
		}
	}
}
