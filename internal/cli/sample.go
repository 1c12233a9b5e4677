package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conflictwatch/casemap/internal/pipeline"
)

var sampleForce bool

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Write a two-row starter dataset to the preferred CSV path",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}

		if err := a.svc.CreateSample(sampleForce); err != nil {
			if errors.Is(err, pipeline.ErrSourceExists) {
				return fmt.Errorf("%w at %s; pass --force to overwrite", err, a.svc.SamplePath())
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "sample written to %s\n", a.svc.SamplePath())
		return nil
	},
}

func init() {
	sampleCmd.Flags().BoolVar(&sampleForce, "force", false, "overwrite an existing dataset")
}
