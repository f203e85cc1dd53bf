package main

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/palemoky/chinese-trainer/internal/dataset"
	"github.com/palemoky/chinese-trainer/internal/exercise"
	"github.com/palemoky/chinese-trainer/internal/loader"
)

func newLintCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "lint <file>",
		Short: "Report records that make degraded or ungradable exercises",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, ok, err := loader.ReadFile(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s does not exist", args[0])
			}

			ds, _ := dataset.Ingest(data, dataset.SourceFileDefault)
			if ds.Empty() {
				return fmt.Errorf("%s has no usable records", args[0])
			}

			issues := exercise.Lint(ds.Records)
			out := cmd.OutOrStdout()
			if len(issues) == 0 {
				fmt.Fprintf(out, "%d records, no issues\n", ds.Len())
				return nil
			}

			table := tablewriter.NewWriter(out)
			table.Header("ID", "Chinese", "Issue", "Suggestion")
			for _, is := range issues {
				if err := table.Append([]string{strconv.Itoa(is.RecordID), is.Chinese, string(is.Code), is.Suggestion}); err != nil {
					return err
				}
			}
			if err := table.Render(); err != nil {
				return err
			}

			if strict {
				return fmt.Errorf("%d issues in %d records", len(issues), ds.Len())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any issue is found")
	return cmd
}
