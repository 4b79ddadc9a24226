package flow

import "fmt"

// MaxCoord is used to probe "beyond everything" positions, in millimeters.
const MaxCoord = 20000.0

// Point represents a position on a page.
type Point struct {
	X, Y float64
}

// Bounds is a page relative rectangle. Y grows downwards so Top <= Bottom.
type Bounds struct {
	Left, Top, Right, Bottom float64
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%.2f,%.2f - %.2f,%.2f]", b.Left, b.Top, b.Right, b.Bottom)
}

func (b Bounds) Width() float64 {
	return b.Right - b.Left
}

func (b Bounds) Height() float64 {
	return b.Bottom - b.Top
}

// Translate returns bounds moved by dx, dy.
func (b Bounds) Translate(dx, dy float64) Bounds {
	return Bounds{Left: b.Left + dx, Top: b.Top + dy, Right: b.Right + dx, Bottom: b.Bottom + dy}
}

func (b Bounds) Contains(p Point) bool {
	return p.X >= b.Left && p.X <= b.Right && p.Y >= b.Top && p.Y <= b.Bottom
}

// Union returns the smallest bounds covering both. Empty (zero) bounds are
// ignored.
func (b Bounds) Union(o Bounds) Bounds {
	if b == (Bounds{}) {
		return o
	}
	if o == (Bounds{}) {
		return b
	}
	return Bounds{
		Left:   min(b.Left, o.Left),
		Top:    min(b.Top, o.Top),
		Right:  max(b.Right, o.Right),
		Bottom: max(b.Bottom, o.Bottom),
	}
}
