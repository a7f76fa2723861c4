package main

import (
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"svw.info/bottlesort/internal/domain"
)

var (
	batchFrom    int
	batchTo      int
	batchSeed    int64
	batchWorkers int
)

// batchCmd pre-generates a level range and persists the results. The engine
// spawns no goroutines of its own, so caller-side concurrency is just one
// Generate call per worker on independent seeds.
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Pre-generate and persist a range of levels",
	RunE: func(cmd *cobra.Command, args []string) error {
		uc := newService()
		start := time.Now()

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(batchWorkers)
		for level := batchFrom; level <= batchTo; level++ {
			level := level
			g.Go(func() error {
				seed := batchSeed + int64(level)
				st, stats, err := uc.Generate(ctx, seed, level)
				if err != nil {
					return err
				}
				p := &domain.Puzzle{
					Band:       domain.BandForLevel(level),
					LevelIndex: level,
					Seed:       seed,
					State:      *st,
					CreatedAt:  time.Now().UnixNano(),
				}
				if err := uc.Save(ctx, p); err != nil {
					return err
				}
				logger.Info("level ready",
					"level", level,
					"optimal", st.OptimalMoves,
					"nodes", stats.Nodes,
					"id", p.ID,
				)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		logger.Info("batch done",
			"levels", batchTo-batchFrom+1,
			"dur", time.Since(start).Round(time.Millisecond),
		)
		return nil
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchFrom, "from", 1, "first level")
	batchCmd.Flags().IntVar(&batchTo, "to", 10, "last level")
	batchCmd.Flags().Int64Var(&batchSeed, "seed", 1, "base seed; each level uses seed+level")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 4, "concurrent generations")
}
