package grid

// Kind selects one of the independent occupancy channels of a cell. A unit
// and a tile may share a location; two units may not.
type Kind uint8

const (
	KindUnit Kind = iota
	KindTile
	kindCount // sentinel
)

// Kinds returns every occupancy channel in ordinal order.
func Kinds() []Kind {
	return []Kind{KindUnit, KindTile}
}

// Valid reports whether k names a real channel.
func (k Kind) Valid() bool {
	return k < kindCount
}

func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindTile:
		return "tile"
	default:
		return "unknown"
	}
}

// Cell holds at most one occupant per Kind.
type Cell[H comparable] struct {
	slots [kindCount]H
	used  [kindCount]bool
}

// Get returns the occupant of kind k.
func (c *Cell[H]) Get(k Kind) (H, bool) {
	if !k.Valid() {
		var zero H
		return zero, false
	}
	return c.slots[k], c.used[k]
}

// Empty reports whether the slot for k is free.
func (c *Cell[H]) Empty(k Kind) bool {
	_, ok := c.Get(k)
	return !ok
}

func (c *Cell[H]) put(k Kind, h H) {
	c.slots[k] = h
	c.used[k] = true
}

func (c *Cell[H]) take(k Kind) (H, bool) {
	h, ok := c.slots[k], c.used[k]
	var zero H
	c.slots[k] = zero
	c.used[k] = false
	return h, ok
}
