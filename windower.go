package vlist

// Viewport is the visible window along the scroll axis, in logical
// coordinates: Offset is the distance from the logical start of the content
// to the viewport's near edge.
type Viewport struct {
	Offset float64
	Extent float64
}

// End returns the logical offset of the viewport's far edge.
func (v Viewport) End() float64 {
	return v.Offset + v.Extent
}

// Range is a half-open run of logical row indices [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of rows in the range.
func (r Range) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Contains reports whether index lies in the range.
func (r Range) Contains(index int) bool {
	return index >= r.Start && index < r.End
}

// ComputeRange returns the rows that must be rendered for the viewport: the
// rows intersecting it, extended by the overscan margins and clamped to the
// store. The result depends only on its inputs.
func ComputeRange(store *ItemStore, viewport Viewport, overscanBefore, overscanAfter int) Range {
	n := store.Len()
	if n == 0 {
		return Range{}
	}

	first := store.IndexAt(viewport.Offset)
	end := first + 1
	limit := viewport.End()
	for end < n && store.offsetAt(end) < limit {
		end++
	}

	start := max(first-max(overscanBefore, 0), 0)
	end = min(end+max(overscanAfter, 0), n)
	return Range{Start: start, End: end}
}
