package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	genLevel int
	genSeed  int64
	genOut   string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a puzzle instance for a level",
	RunE: func(cmd *cobra.Command, args []string) error {
		seed := genSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		uc := newService()
		st, stats, err := uc.Generate(cmd.Context(), seed, genLevel)
		if err != nil {
			return err
		}
		logger.Info("generated",
			"level", genLevel,
			"seed", seed,
			"optimal", st.OptimalMoves,
			"allowed", st.MovesAllowed,
			"scramble", st.ScrambleMoves,
			"bottles", len(st.Bottles),
			"nodes", stats.Nodes,
			"dur", stats.Duration.Round(time.Millisecond),
		)

		out := os.Stdout
		if genOut != "" {
			f, err := os.Create(genOut)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	},
}

func init() {
	generateCmd.Flags().IntVar(&genLevel, "level", 1, "level index (>=1)")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "seed (0 = current time)")
	generateCmd.Flags().StringVar(&genOut, "out", "", "output file (default stdout)")
}
