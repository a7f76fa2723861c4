package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"svw.info/bottlesort/internal/domain"
)

// ErrInvalidID rejects puzzle ids that could resolve outside the data
// directory.
var ErrInvalidID = errors.New("bottlesort: invalid puzzle id")

// FS persists puzzles as pretty-printed JSON files under one subdirectory
// per difficulty band.
type FS struct{ dir string }

func NewFS(dir string) *FS { return &FS{dir: dir} }

// validID admits ids that stay within their band directory. IDs are
// caller-supplied via the load endpoint, so path separators and parent
// references are rejected outright.
func validID(id string) bool {
	if id == "" || strings.Contains(id, "..") {
		return false
	}
	return !strings.ContainsAny(id, `/\`)
}

func (s *FS) pathFor(id string, b domain.Band) string {
	return filepath.Join(s.dir, b.String(), strings.TrimSpace(id)+".json")
}

// Save writes the puzzle, assigning a fresh ID when the caller left it
// empty.
func (s *FS) Save(ctx context.Context, p *domain.Puzzle) error {
	if p == nil {
		return domain.ErrInvalidState
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if !validID(p.ID) {
		return ErrInvalidID
	}
	target := s.pathFor(p.ID, p.Band)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

func (s *FS) Load(ctx context.Context, id string) (*domain.Puzzle, error) {
	if !validID(id) {
		return nil, ErrInvalidID
	}
	for _, b := range []domain.Band{domain.Easy, domain.Medium, domain.Hard, domain.Expert} {
		data, err := os.ReadFile(s.pathFor(id, b))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		var out domain.Puzzle
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, err
		}
		return &out, nil
	}
	return nil, os.ErrNotExist
}

func (s *FS) List(ctx context.Context) ([]domain.PuzzleMeta, error) {
	var out []domain.PuzzleMeta
	for _, b := range []domain.Band{domain.Easy, domain.Medium, domain.Hard, domain.Expert} {
		ents, err := os.ReadDir(filepath.Join(s.dir, b.String()))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		for _, e := range ents {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(s.dir, b.String(), e.Name()))
			if err != nil {
				continue
			}
			var p domain.Puzzle
			if err := json.Unmarshal(data, &p); err != nil || p.ID == "" {
				continue
			}
			out = append(out, domain.PuzzleMeta{
				ID:         p.ID,
				Name:       p.Name,
				Band:       b,
				LevelIndex: p.LevelIndex,
				CreatedAt:  p.CreatedAt,
			})
		}
	}
	return out, nil
}
