package brd

import "fmt"

// Side is the canonical board side. Numbered copper layers run from
// SideTop (layer 1) to SideBottom (layer 32), enough for KiCad's F.Cu,
// In1.Cu..In30.Cu and B.Cu; SideBoth covers parts and primitives that are
// not bound to one surface.
type Side int

const (
	SideBoth   Side = 0
	SideTop    Side = 1
	SideBottom Side = MaxLayer
)

// MaxLayer is the highest numbered layer a Side can carry.
const MaxLayer = 32

// LayerSide maps a numbered layer onto a Side. Anything outside 0..MaxLayer
// maps to SideBoth.
func LayerSide(n int) Side {
	if n < 0 || n > MaxLayer {
		return SideBoth
	}
	return Side(n)
}

// innerLayer maps a dialect's numbered inner layer onto a Side. Values that
// would collide with the top or bottom surface map to SideBoth.
func innerLayer(n int) Side {
	if n <= int(SideTop) || n >= int(SideBottom) {
		return SideBoth
	}
	return Side(n)
}

func (s Side) String() string {
	switch s {
	case SideBoth:
		return "both"
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	}
	return fmt.Sprintf("layer%d", int(s))
}

// IsLayer reports whether s names a single layer rather than both sides.
func (s Side) IsLayer() bool {
	return s >= SideTop && s <= SideBottom
}
