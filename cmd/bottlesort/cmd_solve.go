package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"svw.info/bottlesort/internal/domain"
)

var (
	solveIn         string
	solveWithPath   bool
	solveAllowSinks bool
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Compute the optimal move count (and optionally the path) for a saved state",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(solveIn)
		if err != nil {
			return err
		}
		var st domain.PuzzleState
		if err := json.Unmarshal(data, &st); err != nil {
			return fmt.Errorf("parse state: %w", err)
		}

		uc := newService()
		var res domain.SolverResult
		var nodes int
		var dur time.Duration
		if solveWithPath {
			r, stats, err := uc.SolveWithPath(cmd.Context(), &st, cfg.budget(), solveAllowSinks)
			if err != nil {
				return err
			}
			res, nodes, dur = r, stats.Nodes, stats.Duration
		} else {
			r, stats, err := uc.Solve(cmd.Context(), &st, cfg.budget())
			if err != nil {
				return err
			}
			res, nodes, dur = r, stats.Nodes, stats.Duration
		}

		if res.OptimalMoves == domain.UnknownOptimal {
			logger.Warn("unknown within budget", "nodes", nodes, "dur", dur.Round(time.Millisecond))
		} else {
			logger.Info("solved", "optimal", res.OptimalMoves, "nodes", nodes, "dur", dur.Round(time.Millisecond))
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	solveCmd.Flags().StringVar(&solveIn, "in", "", "JSON state file")
	solveCmd.Flags().BoolVar(&solveWithPath, "path", false, "reconstruct the full move path")
	solveCmd.Flags().BoolVar(&solveAllowSinks, "allow-sinks", true, "allow pours into sink bottles")
	_ = solveCmd.MarkFlagRequired("in")
}
