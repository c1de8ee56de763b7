package vlist

import "math"

// staleTolerance is how far two back-to-back reads may disagree before the
// value is considered unsettled.
const staleTolerance = 1

// readTrustedOffset works around WebKit's touch scrolling, which can report a
// reset or stale offset right after a touch is released. The offset is read
// twice; the result is rejected when the reads disagree, are not finite, or
// jump against the gesture direction by more than a viewport.
//
// previous is the last trusted offset and direction the sign of the gesture's
// last movement (0 if unknown).
func readTrustedOffset(read func() float64, previous float64, direction int, extent float64) (float64, error) {
	first := read()
	second := read()
	stale := &StaleObservationError{First: first, Second: second, Previous: previous}
	if !isFinite(first) || !isFinite(second) {
		return 0, stale
	}
	if math.Abs(first-second) > staleTolerance {
		return 0, stale
	}
	if direction != 0 && extent > 0 {
		moved := second - previous
		if moved*float64(direction) < 0 && math.Abs(moved) > extent {
			return 0, stale
		}
	}
	return second, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
