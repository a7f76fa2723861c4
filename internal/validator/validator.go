package validator

import (
	"context"
	"fmt"

	"svw.info/bottlesort/internal/domain"
)

// FastValidator performs the structural checks applied to states crossing
// the API boundary: capacity bounds, reserved colors, and enough bottles to
// pour between.
type FastValidator struct{}

func New() *FastValidator { return &FastValidator{} }

func (v *FastValidator) Validate(ctx context.Context, s *domain.PuzzleState) (bool, []string, error) {
	if s == nil {
		return false, []string{"nil state"}, nil
	}
	var problems []string
	if len(s.Bottles) < 2 {
		problems = append(problems, "fewer than two bottles")
	}
	for i, b := range s.Bottles {
		if b.Capacity <= 0 {
			problems = append(problems, fmt.Sprintf("bottle %d: non-positive capacity", i))
		}
		if len(b.Units) > b.Capacity {
			problems = append(problems, fmt.Sprintf("bottle %d: %d units exceed capacity %d", i, len(b.Units), b.Capacity))
		}
		for _, u := range b.Units {
			if u == domain.NoColor {
				problems = append(problems, fmt.Sprintf("bottle %d: reserved zero color in occupied slot", i))
				break
			}
		}
	}
	if s.MovesUsed < 0 || (s.MovesAllowed != 0 && s.MovesAllowed < s.MovesUsed) {
		problems = append(problems, "move counters out of range")
	}
	return len(problems) == 0, problems, nil
}
