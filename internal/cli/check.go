package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conflictwatch/casemap/internal/domain"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Audit the dataset: schema and per-row quality issues",
	Long: `Check loads the dataset, verifies the required column schema, and
lists per-row quality issues (missing or out-of-range coordinates,
missing sources). Schema failures exit non-zero; quality issues are
informational and do not.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}

		res, err := a.svc.Run(cmd.Context(), domain.ViewFilter{})
		if err != nil {
			return describeRunError(err, a)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "dataset: %s\n", res.Path)
		fmt.Fprintf(out, "rows: %d\n", res.TotalRows)
		fmt.Fprintf(out, "regions: %d, statuses: %d, years: %d-%d\n",
			len(res.Regions), len(res.Statuses), res.YearMin, res.YearMax)

		if len(res.Issues) == 0 {
			fmt.Fprintln(out, "no quality issues")
			return nil
		}
		fmt.Fprintf(out, "quality issues (%d):\n", len(res.Issues))
		for _, issue := range res.Issues {
			fmt.Fprintf(out, "  row %d: %s\n", issue.Row, issue.Message())
		}
		return nil
	},
}
