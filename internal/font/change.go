package font

import "fmt"

// ChangeType selects the direction in which a BatchPixelChange is applied.
type ChangeType int

const (
	// Normal applies each tuple's New value.
	Normal ChangeType = iota
	// Reverse restores each tuple's Old value.
	Reverse
)

func (t ChangeType) String() string {
	switch t {
	case Normal:
		return "normal"
	case Reverse:
		return "reverse"
	default:
		return fmt.Sprintf("ChangeType(%d)", int(t))
	}
}

// PixelChange is one pixel transition. Old and New are both stored so a
// Reverse application needs no recomputation.
type PixelChange struct {
	X, Y int
	Old  bool
	New  bool
}

// BatchPixelChange is an ordered, reversible set of pixel transitions.
type BatchPixelChange struct {
	Changes []PixelChange
}

// Diff returns the minimal change that turns before into after, in
// row-major order (y ascending, then x ascending).
func Diff(before, after *PixelGrid) (BatchPixelChange, error) {
	if !before.SameSize(after) {
		return BatchPixelChange{}, fmt.Errorf("diff %dx%d against %dx%d: %w",
			before.Width(), before.Height(), after.Width(), after.Height(), ErrSizeMismatch)
	}
	var change BatchPixelChange
	for i, old := range before.pixels {
		if now := after.pixels[i]; now != old {
			change.Changes = append(change.Changes, PixelChange{
				X:   i % before.width,
				Y:   i / before.width,
				Old: old,
				New: now,
			})
		}
	}
	return change, nil
}

// Toggle returns the single-pixel change that flips (x, y) on g.
func Toggle(g *PixelGrid, x, y int) (BatchPixelChange, error) {
	if !g.Contains(x, y) {
		return BatchPixelChange{}, &InvalidCoordinateError{X: x, Y: y, Width: g.Width(), Height: g.Height()}
	}
	old := g.At(x, y)
	return BatchPixelChange{Changes: []PixelChange{{X: x, Y: y, Old: old, New: !old}}}, nil
}

// Len returns the number of pixel transitions.
func (c BatchPixelChange) Len() int { return len(c.Changes) }

// IsEmpty reports whether the change touches no pixel.
func (c BatchPixelChange) IsEmpty() bool { return len(c.Changes) == 0 }

// Validate checks every tuple against a width x height grid.
func (c BatchPixelChange) Validate(width, height int) error {
	for _, p := range c.Changes {
		if p.X < 0 || p.Y < 0 || p.X >= width || p.Y >= height {
			return &InvalidCoordinateError{X: p.X, Y: p.Y, Width: width, Height: height}
		}
	}
	return nil
}

// each walks the tuples in application order for t and hands over the value
// to write. Reverse walks backwards so repeated coordinates unwind correctly.
func (c BatchPixelChange) each(t ChangeType, fn func(x, y int, value bool)) {
	if t == Reverse {
		for i := len(c.Changes) - 1; i >= 0; i-- {
			p := c.Changes[i]
			fn(p.X, p.Y, p.Old)
		}
		return
	}
	for _, p := range c.Changes {
		fn(p.X, p.Y, p.New)
	}
}

// Apply writes change onto g in direction t. The whole change is validated
// first, so a failing Apply leaves g untouched. Cost is O(len(change)).
func Apply(g *PixelGrid, change BatchPixelChange, t ChangeType) error {
	if err := change.Validate(g.Width(), g.Height()); err != nil {
		return err
	}
	change.each(t, g.Set)
	return nil
}
