package main

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/palemoky/chinese-trainer/internal/dataset"
	"github.com/palemoky/chinese-trainer/internal/loader"
)

func newInspectCmd() *cobra.Command {
	var (
		excludes []string
		requires []string
	)

	cmd := &cobra.Command{
		Use:   "inspect <path>...",
		Short: "Show how vocabulary files are parsed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			required, err := parseFields(requires)
			if err != nil {
				return err
			}
			incomplete := 0

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("File", "Delimiter", "Mapped", "Rows", "Blank", "Dropped", "Malformed", "Records", "Fingerprint")

			for _, path := range args {
				fl, err := loader.NewFileLoader(path, excludes...)
				if err != nil {
					return err
				}
				files, warnings, err := fl.LoadAll()
				if err != nil {
					return err
				}
				for _, w := range warnings {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", w)
				}

				for _, f := range files {
					ds, stats := dataset.Ingest(f.Data, dataset.SourceFileDefault)
					fingerprint := "-"
					if !ds.Empty() {
						fingerprint = ds.Fingerprint
					}
					if err := table.Append([]string{
						filepath.Base(f.Path),
						loader.DelimiterName(stats.Delimiter),
						strings.Join(stats.MappedNames(), " "),
						strconv.Itoa(stats.Rows),
						strconv.Itoa(stats.Blank),
						strconv.Itoa(stats.Dropped),
						strconv.Itoa(stats.Malformed),
						strconv.Itoa(stats.Records),
						fingerprint,
					}); err != nil {
						return err
					}

					if missing := missingFields(stats.Mapped, required); len(missing) > 0 {
						fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s has no %s column\n", f.Path, strings.Join(missing, ", "))
						incomplete++
					}
				}
			}

			if err := table.Render(); err != nil {
				return err
			}
			if incomplete > 0 {
				return fmt.Errorf("%d file(s) lack required columns", incomplete)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&excludes, "exclude", "x", nil, "File names to skip when scanning directories")
	cmd.Flags().StringSliceVarP(&requires, "require", "r", nil, "Columns every file must map, e.g. pinyin,example")
	return cmd
}

// parseFields resolves canonical column keys such as "pinyin" or "example_english".
func parseFields(names []string) ([]loader.Field, error) {
	fields := make([]loader.Field, 0, len(names))
	for _, name := range names {
		f, ok := loader.ParseField(strings.ToLower(strings.TrimSpace(name)))
		if !ok {
			return nil, fmt.Errorf("unknown column %q", name)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func missingFields(mapped, required []loader.Field) []string {
	var missing []string
	for _, f := range required {
		if !slices.Contains(mapped, f) {
			missing = append(missing, f.String())
		}
	}
	return missing
}
