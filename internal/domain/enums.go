package domain

// ColorID identifies a liquid color. Zero is reserved for "no color" so that
// occupied slots are always non-zero.
type ColorID uint8

// NoColor marks an unoccupied slot or an empty bottle's top.
const NoColor ColorID = 0

// Band labels the difficulty tier used by quality gating.
type Band int

const (
	Easy Band = iota
	Medium
	Hard
	Expert
)

func (b Band) String() string {
	switch b {
	case Easy:
		return "easy"
	case Hard:
		return "hard"
	case Expert:
		return "expert"
	default:
		return "medium"
	}
}

// BandForLevel maps a level index onto its difficulty band.
func BandForLevel(level int) Band {
	switch {
	case level <= 25:
		return Easy
	case level <= 50:
		return Medium
	case level <= 75:
		return Hard
	default:
		return Expert
	}
}
