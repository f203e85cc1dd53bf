package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/palemoky/chinese-trainer/internal/database"
	"github.com/palemoky/chinese-trainer/internal/loader"
	"github.com/palemoky/chinese-trainer/internal/logger"
	"github.com/palemoky/chinese-trainer/internal/processor"
)

func newImportCmd() *cobra.Command {
	var (
		dbPath    string
		workers   int
		batchSize int
		script    string
		excludes  []string
	)

	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Import vocabulary files into the dataset library",
		Long:  "Parse every vocabulary file under path concurrently and store each one in the library, keyed by fingerprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := processor.ParseScript(script)
			if err != nil {
				return err
			}
			if dbPath == "" {
				dbPath = cfg.Database.Path
			}

			fl, err := loader.NewFileLoader(args[0], excludes...)
			if err != nil {
				return err
			}
			files, warnings, err := fl.LoadAll()
			if err != nil {
				return fmt.Errorf("failed to load files: %w", err)
			}
			for _, w := range warnings {
				logger.Warn("Skipped unreadable file", zap.Error(w))
			}
			logger.Info("Loaded vocabulary files", zap.Int("count", len(files)), zap.String("path", args[0]))

			db, err := database.Open(dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if err := db.Migrate(); err != nil {
				return err
			}
			repo := database.NewRepository(db)

			proc := processor.NewProcessor(repo, workers, target)
			proc.SetBatchSize(batchSize)
			proc.SetOutput(cmd.ErrOrStderr())

			result, procErr := proc.Process(files)
			if procErr != nil {
				logger.Warn("Import incomplete", zap.Error(procErr))
			}

			if err := printLibrary(cmd, repo); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "files: %d, imported: %d, failed: %d, records: %d\n",
				result.Files, result.Imported, result.Failed, result.Records)

			if result.Imported == 0 && procErr != nil {
				return procErr
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dbPath, "db", "o", "", "SQLite database (default: database.path from config)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of concurrent workers (0 = number of CPUs)")
	cmd.Flags().IntVarP(&batchSize, "batch-size", "b", 0, "Datasets per insert transaction (0 = automatic)")
	cmd.Flags().StringVarP(&script, "script", "s", "as-is", "Convert hanzi to as-is, simplified or traditional")
	cmd.Flags().StringSliceVarP(&excludes, "exclude", "x", nil, "File names to skip")
	return cmd
}

func printLibrary(cmd *cobra.Command, repo *database.Repository) error {
	datasets, err := repo.ListLibrary(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list library: %w", err)
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("Fingerprint", "Name", "Delimiter", "Records", "Path")
	for _, d := range datasets {
		if err := table.Append([]string{d.Fingerprint, d.Name, d.Delimiter, strconv.Itoa(d.RecordCount), d.Path}); err != nil {
			return err
		}
	}
	return table.Render()
}
