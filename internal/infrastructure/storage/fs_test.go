package storage

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/bottlesort/internal/domain"
)

func samplePuzzle(name string, band domain.Band) *domain.Puzzle {
	return &domain.Puzzle{
		Name:       name,
		Band:       band,
		LevelIndex: 12,
		Seed:       42,
		CreatedAt:  1756166400,
		State: domain.PuzzleState{
			Bottles: []domain.Bottle{
				{Capacity: 4, Units: []domain.ColorID{1, 2, 1}},
				{Capacity: 4, Units: []domain.ColorID{2, 1, 2}},
				domain.NewBottle(4),
			},
			MovesAllowed: 9,
			OptimalMoves: 6,
			LevelIndex:   12,
			Seed:         42,
		},
	}
}

func TestSaveAssignsIDAndRoundTrips(t *testing.T) {
	fs := NewFS(t.TempDir())
	ctx := context.Background()

	p := samplePuzzle("morning", domain.Easy)
	require.NoError(t, fs.Save(ctx, p))
	require.NotEmpty(t, p.ID, "save must assign an id when none is set")

	got, err := fs.Load(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestSaveKeepsExplicitID(t *testing.T) {
	fs := NewFS(t.TempDir())
	p := samplePuzzle("fixed", domain.Medium)
	p.ID = "level-12-replay"
	require.NoError(t, fs.Save(context.Background(), p))
	assert.Equal(t, "level-12-replay", p.ID)

	got, err := fs.Load(context.Background(), "level-12-replay")
	require.NoError(t, err)
	assert.Equal(t, domain.Medium, got.Band)
}

func TestSaveRejectsNil(t *testing.T) {
	fs := NewFS(t.TempDir())
	assert.ErrorIs(t, fs.Save(context.Background(), nil), domain.ErrInvalidState)
}

func TestRejectsPathEscapingIDs(t *testing.T) {
	dir := t.TempDir()
	fs := NewFS(dir)
	ctx := context.Background()

	for _, id := range []string{"../../escape", "a/b", `a\b`, "..", "x/../y", ""} {
		p := samplePuzzle("escape", domain.Easy)
		p.ID = id
		if id != "" {
			assert.ErrorIs(t, fs.Save(ctx, p), ErrInvalidID, "save id %q", id)
		}
		_, err := fs.Load(ctx, id)
		assert.ErrorIs(t, err, ErrInvalidID, "load id %q", id)
	}

	// Nothing may have been written outside the band directories.
	ents, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, ents)
}

func TestLoadMissing(t *testing.T) {
	fs := NewFS(t.TempDir())
	_, err := fs.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestListAcrossBands(t *testing.T) {
	fs := NewFS(t.TempDir())
	ctx := context.Background()

	easy := samplePuzzle("a", domain.Easy)
	hard := samplePuzzle("b", domain.Hard)
	require.NoError(t, fs.Save(ctx, easy))
	require.NoError(t, fs.Save(ctx, hard))

	metas, err := fs.List(ctx)
	require.NoError(t, err)
	require.Len(t, metas, 2)

	byID := make(map[string]domain.PuzzleMeta, len(metas))
	for _, m := range metas {
		byID[m.ID] = m
	}
	assert.Equal(t, domain.Easy, byID[easy.ID].Band)
	assert.Equal(t, domain.Hard, byID[hard.ID].Band)
	assert.Equal(t, "a", byID[easy.ID].Name)
	assert.Equal(t, 12, byID[hard.ID].LevelIndex)
}

func TestListEmptyDir(t *testing.T) {
	fs := NewFS(t.TempDir())
	metas, err := fs.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, metas)
}
