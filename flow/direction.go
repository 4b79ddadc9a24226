package flow

// Direction of selection or traversal. Forward means selection end lies after
// its start in logical order, Backward - before, Neutral - selection does not
// cross container boundaries.
type Direction int

const (
	Backward Direction = -1
	Neutral  Direction = 0
	Forward  Direction = 1
)

// DirectionOf returns direction for traversal sign.
func DirectionOf(sign int) Direction {
	switch {
	case sign < 0:
		return Backward
	case sign > 0:
		return Forward
	default:
		return Neutral
	}
}

func (d Direction) Sign() int {
	return int(d)
}

// Reverse returns opposite direction, Neutral stays Neutral.
func (d Direction) Reverse() Direction {
	return -d
}

func (d Direction) String() string {
	switch d {
	case Backward:
		return "backward"
	case Forward:
		return "forward"
	default:
		return "neutral"
	}
}
