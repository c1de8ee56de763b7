package vlist

// Geometry is the content size and viewport extent a coordinate mapping is
// computed against.
type Geometry struct {
	Total  float64
	Extent float64
}

// MaxOffset returns the largest valid scroll offset.
func (g Geometry) MaxOffset() float64 {
	return max(g.Total-g.Extent, 0)
}

// span is the length mirrored coordinates are reflected across. Content
// shorter than the viewport hugs the far edge in mirrored layouts.
func (g Geometry) span() float64 {
	return max(g.Total, g.Extent)
}

// ReverseAdapter translates between logical coordinates, used by every other
// component, and physical coordinates, used by the render surface and the
// raw scroll offset.
//
// In reverse mode the index order is flipped so logical row 0 is rendered
// last, and offsets are mirrored so it sits flush against the far edge. In
// RTL mode on the horizontal axis offsets are mirrored but index order is
// kept. Reverse and RTL together cancel the mirroring.
type ReverseAdapter struct {
	reverse bool
	mirror  bool
}

// NewReverseAdapter returns the adapter for the given layout.
func NewReverseAdapter(axis Axis, reverse, rtl bool) ReverseAdapter {
	mirror := reverse
	if rtl && axis == AxisHorizontal {
		mirror = !mirror
	}
	return ReverseAdapter{reverse: reverse, mirror: mirror}
}

// Reverse reports whether index order is flipped.
func (a ReverseAdapter) Reverse() bool { return a.reverse }

// Mirrored reports whether offsets are reflected.
func (a ReverseAdapter) Mirrored() bool { return a.mirror }

// ToPhysicalIndex maps a logical index among n rows to DOM order.
func (a ReverseAdapter) ToPhysicalIndex(logical, n int) int {
	if a.reverse {
		return n - 1 - logical
	}
	return logical
}

// ToLogicalIndex is the inverse of ToPhysicalIndex.
func (a ReverseAdapter) ToLogicalIndex(physical, n int) int {
	return a.ToPhysicalIndex(physical, n)
}

// ToPhysicalRange maps a logical range to the physical range covering the
// same rows.
func (a ReverseAdapter) ToPhysicalRange(r Range, n int) Range {
	if !a.reverse || r.Len() == 0 {
		return r
	}
	return Range{Start: n - r.End, End: n - r.Start}
}

// ToPhysicalOffset maps the logical offset of a row of the given size to the
// physical offset of its leading edge.
func (a ReverseAdapter) ToPhysicalOffset(logical, size float64, g Geometry) float64 {
	if a.mirror {
		return g.span() - logical - size
	}
	return logical
}

// ToLogicalOffset is the inverse of ToPhysicalOffset.
func (a ReverseAdapter) ToLogicalOffset(physical, size float64, g Geometry) float64 {
	return a.ToPhysicalOffset(physical, size, g)
}

// ScrollToPhysical maps a logical scroll offset to the value written to the
// scroll container.
func (a ReverseAdapter) ScrollToPhysical(logical float64, g Geometry) float64 {
	return a.ToPhysicalOffset(logical, g.Extent, g)
}

// ScrollToLogical maps a raw scroll container offset to a logical one.
func (a ReverseAdapter) ScrollToLogical(physical float64, g Geometry) float64 {
	return a.ToLogicalOffset(physical, g.Extent, g)
}
