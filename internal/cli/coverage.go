package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/honeycarbs/skillgraph/internal/domain/analysis"
)

func newCoverageCmd(a *app) *cobra.Command {
	var (
		known   []string
		strict  bool
		unlocks int
	)

	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Plan which skills to learn to fully qualify for the most postings",
		Long: `Greedily picks, one skill at a time, the skill that completes the most
postings, given the skills already known.

Examples:
  skillgraph coverage --known python,sql --max-skills 10
  skillgraph coverage --strict --unlocks 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.bind(cmd, map[string]string{"max_skills": "max-skills"}); err != nil {
				return err
			}

			svc, closeFn, err := a.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := svc.Coverage(cmd.Context(), analysis.CoverageParams{
				KnownSkills: known,
				MaxSkills:   a.v.GetInt("max_skills"),
				StrictGain:  strict,
				Unlocks:     unlocks,
			})
			if err != nil {
				return err
			}
			return a.render(cmd, res, func(w io.Writer) { writeCoverage(w, res) })
		},
	}

	cmd.Flags().StringSliceVar(&known, "known", nil, "Skills already known (comma separated)")
	cmd.Flags().Int("max-skills", analysis.DefaultDefaults.MaxSkills, "Maximum skills to add (negative for none)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Stop when no skill completes another posting")
	cmd.Flags().IntVar(&unlocks, "unlocks", 0, "Also list this many skills ranked by postings they complete alone")
	return cmd
}

func writeCoverage(w io.Writer, res analysis.CoverageResult) {
	fmt.Fprintf(w, "Postings:\t%d\n", res.TotalPostings)
	fmt.Fprintf(w, "Known:\t%v\n\n", res.KnownSkills)

	fmt.Fprintln(w, "STEP\tSKILL\tCOVERAGE\tSATISFIED\tGAIN")
	for i, e := range res.Steps {
		skill := e.Skill
		if i == 0 {
			skill = "(start)"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\n", i, skill, pct(e.Coverage), e.Satisfied, e.Gain)
	}

	fmt.Fprintln(w)
	for _, m := range res.Milestones {
		if m.Reached {
			fmt.Fprintf(w, "%s reached at step %d (%s)\n", pct(m.Threshold), m.Step, m.Skill)
		}
	}
	if res.DiminishingAt > 0 {
		fmt.Fprintf(w, "Returns diminish from step %d\n", res.DiminishingAt)
	}

	if len(res.Unlocks) > 0 {
		fmt.Fprintln(w, "\nUNLOCK\tPOSTINGS")
		for _, u := range res.Unlocks {
			fmt.Fprintf(w, "%s\t%d\n", u.Skill, u.Postings)
		}
	}
}
