package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/honeycarbs/skillgraph/internal/domain/analysis"
	"github.com/honeycarbs/skillgraph/internal/domain/gap"
)

func newGapsCmd(a *app) *cobra.Command {
	var (
		known         []string
		top           int
		matrix        int
		companies     int
		companySkills int
	)

	cmd := &cobra.Command{
		Use:   "gaps",
		Short: "Rank the skills missing from nearly attainable postings",
		Long: `Looks at postings missing between one and --max-missing of their required
skills and counts how often each missing skill shows up.

Examples:
  skillgraph gaps --known python,sql
  skillgraph gaps --known python --max-missing 1 --top 10
  skillgraph gaps --known python,sql --companies 5 --company-skills 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.bind(cmd, map[string]string{"max_missing": "max-missing"}); err != nil {
				return err
			}

			svc, closeFn, err := a.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := svc.Gaps(cmd.Context(), analysis.GapParams{
				KnownSkills:   known,
				MaxMissing:    a.v.GetInt("max_missing"),
				Top:           top,
				MatrixSize:    matrix,
				Companies:     companies,
				CompanySkills: companySkills,
			})
			if err != nil {
				return err
			}
			return a.render(cmd, res, func(w io.Writer) { writeGaps(w, res) })
		},
	}

	cmd.Flags().StringSliceVar(&known, "known", nil, "Skills already known (comma separated)")
	cmd.Flags().Int("max-missing", analysis.DefaultDefaults.MaxMissing, "Only count postings missing at most this many skills")
	cmd.Flags().IntVar(&top, "top", 0, "Limit the ranking (0 lists all)")
	cmd.Flags().IntVar(&matrix, "matrix", 0, "Show how often the top N missing skills are missing together")
	cmd.Flags().IntVar(&companies, "companies", 0, "Also list missing skills for the N employers with most postings")
	cmd.Flags().IntVar(&companySkills, "company-skills", analysis.DefaultCompanySkills, "Missing skills listed per employer")
	return cmd
}

func writeGaps(w io.Writer, res analysis.GapResult) {
	defer writeCompanyGaps(w, res.ByCompany)

	if res.Opportunities == 0 {
		fmt.Fprintf(w, "No posting is missing between 1 and %d skills\n", res.MaxMissing)
		return
	}

	fmt.Fprintf(w, "Postings within reach:\t%d\n\n", res.Opportunities)
	fmt.Fprintln(w, "SKILL\tMISSING IN")
	for _, m := range res.Missing {
		fmt.Fprintf(w, "%s\t%d\n", m.Skill, m.Count)
	}

	if res.Matrix == nil || len(res.Matrix.Skills) == 0 {
		return
	}
	fmt.Fprint(w, "\n")
	for _, s := range res.Matrix.Skills {
		fmt.Fprintf(w, "\t%s", s)
	}
	fmt.Fprintln(w)
	for i, s := range res.Matrix.Skills {
		fmt.Fprint(w, s)
		for _, c := range res.Matrix.Counts[i] {
			fmt.Fprintf(w, "\t%d", c)
		}
		fmt.Fprintln(w)
	}
}

func writeCompanyGaps(w io.Writer, companies []gap.CompanyGap) {
	if len(companies) == 0 {
		return
	}
	fmt.Fprintln(w, "\nEMPLOYER\tPOSTINGS\tMISSING")
	for _, c := range companies {
		missing := make([]string, 0, len(c.Missing))
		for _, m := range c.Missing {
			missing = append(missing, fmt.Sprintf("%s (%d)", m.Skill, m.Count))
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", c.Company, c.Postings, strings.Join(missing, ", "))
	}
}
