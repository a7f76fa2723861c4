package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"svw.info/bottlesort/internal/generator"
	"svw.info/bottlesort/internal/hint"
	"svw.info/bottlesort/internal/infrastructure/storage"
	"svw.info/bottlesort/internal/solver"
	"svw.info/bottlesort/internal/usecase"
	"svw.info/bottlesort/internal/validator"
)

var (
	flagConfig   string
	flagLogLevel string

	cfg    Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "bottlesort",
	Short:         "Generate and solve liquid-sorting puzzles",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		lvl := slog.LevelInfo
		switch strings.ToLower(flagLogLevel) {
		case "debug":
			lvl = slog.LevelDebug
		case "warn":
			lvl = slog.LevelWarn
		case "error":
			lvl = slog.LevelError
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
		slog.SetDefault(logger)

		var err error
		cfg, err = loadConfig(flagConfig)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "optional YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "debug|info|warn|error")
	rootCmd.AddCommand(generateCmd, solveCmd, batchCmd, serveCmd)
}

// newService wires the engine behind the usecase facade, the composition the
// whole CLI shares.
func newService() *usecase.Service {
	s := solver.NewBFSSolver()
	g := generator.New(s, logger)
	h := hint.New(s)
	v := validator.New()
	st := storage.NewFS(cfg.DataDir)
	return usecase.NewService(s, g, h, v, st)
}
