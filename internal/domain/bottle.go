package domain

// Bottle is a fixed-capacity stack of colored liquid units. Units are stored
// bottom-up, so occupancy is contiguous by construction. A sink bottle can
// receive pours but can never be the source of a move.
type Bottle struct {
	Capacity int       `json:"capacity"`
	Sink     bool      `json:"sink,omitempty"`
	Units    []ColorID `json:"units"`
}

// NewBottle returns an empty bottle with the given capacity.
func NewBottle(capacity int) Bottle {
	return Bottle{Capacity: capacity, Units: make([]ColorID, 0, capacity)}
}

// NewSink returns an empty sink bottle with the given capacity.
func NewSink(capacity int) Bottle {
	b := NewBottle(capacity)
	b.Sink = true
	return b
}

// FullBottle returns a bottle filled to capacity with a single color.
func FullBottle(capacity int, c ColorID) Bottle {
	b := NewBottle(capacity)
	for i := 0; i < capacity; i++ {
		b.Units = append(b.Units, c)
	}
	return b
}

func (b Bottle) Count() int     { return len(b.Units) }
func (b Bottle) IsEmpty() bool  { return len(b.Units) == 0 }
func (b Bottle) IsFull() bool   { return len(b.Units) == b.Capacity }
func (b Bottle) FreeSpace() int { return b.Capacity - len(b.Units) }

// TopColor returns the color of the highest occupied slot, or NoColor if the
// bottle is empty.
func (b Bottle) TopColor() ColorID {
	if len(b.Units) == 0 {
		return NoColor
	}
	return b.Units[len(b.Units)-1]
}

// TopRun returns the color and length of the contiguous same-color run at the
// top of the bottle. An empty bottle reports (NoColor, 0).
func (b Bottle) TopRun() (ColorID, int) {
	n := len(b.Units)
	if n == 0 {
		return NoColor, 0
	}
	c := b.Units[n-1]
	run := 1
	for i := n - 2; i >= 0 && b.Units[i] == c; i-- {
		run++
	}
	return c, run
}

// IsSolved reports whether the bottle is non-empty and every occupied slot
// holds the same color.
func (b Bottle) IsSolved() bool {
	if len(b.Units) == 0 {
		return false
	}
	c := b.Units[0]
	for _, u := range b.Units[1:] {
		if u != c {
			return false
		}
	}
	return true
}

// Clone returns a deep value copy so that holders of the original and the
// copy never alias each other's unit storage.
func (b Bottle) Clone() Bottle {
	out := b
	out.Units = make([]ColorID, len(b.Units), b.Capacity)
	copy(out.Units, b.Units)
	return out
}

func (b *Bottle) push(c ColorID, n int) {
	for i := 0; i < n; i++ {
		b.Units = append(b.Units, c)
	}
}

func (b *Bottle) pop(n int) {
	b.Units = b.Units[:len(b.Units)-n]
}
