package vlist

import "github.com/rs/zerolog"

// Anchor is the row whose position on screen is kept fixed, and the distance
// from that row's leading edge to the viewport's near edge.
type Anchor struct {
	Index  int
	Within float64
}

// Correction is a signed delta added to the logical scroll offset.
type Correction float64

// SizeChange is one row whose size changed.
type SizeChange struct {
	Index   int
	OldSize float64
	NewSize float64
}

// Delta returns the growth of the row.
func (c SizeChange) Delta() float64 {
	return c.NewSize - c.OldSize
}

// ReconciliationReport lists rows whose size changed during a pass.
// Insertions are reported with OldSize 0 and removals with NewSize 0.
type ReconciliationReport struct {
	Changes []SizeChange
}

// Empty reports whether nothing changed.
func (r ReconciliationReport) Empty() bool {
	return len(r.Changes) == 0
}

// TotalDelta returns the summed growth of every change.
func (r ReconciliationReport) TotalDelta() float64 {
	var total float64
	for _, c := range r.Changes {
		total += c.Delta()
	}
	return total
}

// SelectAnchor returns the row at the viewport's near edge.
func SelectAnchor(store *ItemStore, viewport Viewport) (Anchor, bool) {
	return RederiveAnchor(store, viewport.Offset)
}

// RederiveAnchor returns the first row overlapping offset. It is used when
// the previous anchor row no longer exists.
func RederiveAnchor(store *ItemStore, offset float64) (Anchor, bool) {
	index := store.IndexAt(offset)
	if index < 0 {
		return Anchor{}, false
	}
	within := max(offset-store.offsetAt(index), 0)
	return Anchor{Index: index, Within: within}, true
}

// CompensationEngine turns size reconciliations into scroll corrections that
// keep the anchor row still.
type CompensationEngine struct {
	log zerolog.Logger
}

// NewCompensationEngine returns a compensation engine.
func NewCompensationEngine(log zerolog.Logger) *CompensationEngine {
	return &CompensationEngine{log: log.With().Str("component", "compensation").Logger()}
}

// Reconcile returns the correction that keeps anchor at the same distance
// from the viewport's near edge after the changes in report. Only rows before
// the anchor move it. A nil anchor means nothing has been rendered yet and no
// correction is made. The corrected offset never goes below zero.
func (c *CompensationEngine) Reconcile(report ReconciliationReport, anchor *Anchor, viewport Viewport) Correction {
	if anchor == nil || report.Empty() {
		return 0
	}
	var delta float64
	for _, change := range report.Changes {
		if change.Index < anchor.Index {
			delta += change.Delta()
		}
	}
	if delta == 0 {
		return 0
	}
	if viewport.Offset+delta < 0 {
		delta = -viewport.Offset
	}
	c.log.Debug().
		Int("anchor", anchor.Index).
		Float64("within", anchor.Within).
		Float64("correction", delta).
		Int("changes", len(report.Changes)).
		Msg("reconcile")
	return Correction(delta)
}
