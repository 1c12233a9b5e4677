package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/conflictwatch/casemap/internal/adapter/render"
	"github.com/conflictwatch/casemap/internal/domain"
	"github.com/conflictwatch/casemap/internal/repository"
)

var (
	exportRegions  []string
	exportStatuses []string
	exportFromYear int
	exportToYear   int
	exportFormat   string
	exportOutput   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Run the pipeline once and write the filtered dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportFormat != "csv" && exportFormat != "table" {
			return fmt.Errorf("unknown format %q (want csv or table)", exportFormat)
		}
		if exportToYear != 0 && exportFromYear > exportToYear {
			return errors.New("--from-year must not exceed --to-year")
		}

		a, err := newApp(false)
		if err != nil {
			return err
		}

		res, err := a.svc.Run(cmd.Context(), domain.ViewFilter{
			Regions:  exportRegions,
			Statuses: exportStatuses,
			YearMin:  exportFromYear,
			YearMax:  exportToYear,
		})
		if err != nil {
			return describeRunError(err, a)
		}

		var out io.Writer = cmd.OutOrStdout()
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}

		if exportFormat == "table" {
			_, err = fmt.Fprint(out, render.Table(domain.TableRows(res.Cases)))
			return err
		}
		if err := repository.ExportCSV(out, res.Cases); err != nil {
			return err
		}
		a.metrics.ExportsTotal.Inc()
		return nil
	},
}

// describeRunError turns pipeline failures into actionable CLI errors.
func describeRunError(err error, a *app) error {
	var schemaErr *domain.SchemaError
	switch {
	case errors.Is(err, repository.ErrNoDataSource):
		return fmt.Errorf("no CSV found at %s or %s; run \"casemap sample\" to create one",
			a.cfg.CSVPath, a.cfg.CSVFallbackPath)
	case errors.As(err, &schemaErr):
		return err
	default:
		return err
	}
}

func init() {
	exportCmd.Flags().StringSliceVar(&exportRegions, "region", nil, "region filter (repeatable; empty passes all)")
	exportCmd.Flags().StringSliceVar(&exportStatuses, "status", nil, "status filter (repeatable; empty passes all)")
	exportCmd.Flags().IntVar(&exportFromYear, "from-year", 0, "start-year lower bound (0 uses the dataset default)")
	exportCmd.Flags().IntVar(&exportToYear, "to-year", 0, "start-year upper bound (0 uses the dataset default)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or table")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
}
