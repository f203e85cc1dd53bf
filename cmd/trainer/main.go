package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/palemoky/chinese-trainer/internal/config"
	"github.com/palemoky/chinese-trainer/internal/logger"
)

var (
	configPath string
	debug      bool
	cfg        *config.Config
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "trainer",
		Short:         "Chinese vocabulary trainer",
		Long:          "Inspect, lint and import vocabulary files, or drill them in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(""); err != nil {
				return err
			}
			logger.Init(debug)

			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			if debug {
				return nil
			}
			return logger.SetLevel(cfg.Log.Level)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newInspectCmd(), newLintCmd(), newImportCmd(), newPlayCmd())

	if err := rootCmd.Execute(); err != nil {
		logger.Init(debug)
		logger.Error("Command execution failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}
