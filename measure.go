package vlist

import (
	"math"

	"github.com/rs/zerolog"
)

// MountedRow pairs a logical index with the handle the surface returned for it.
type MountedRow struct {
	Index  int
	Handle RowHandle
}

// MeasurementScheduler reads rendered sizes from the host and reconciles them
// into the store. It is the only writer of measured sizes.
type MeasurementScheduler struct {
	store *ItemStore
	log   zerolog.Logger
}

// NewMeasurementScheduler returns a scheduler writing into store.
func NewMeasurementScheduler(store *ItemStore, log zerolog.Logger) *MeasurementScheduler {
	return &MeasurementScheduler{
		store: store,
		log:   log.With().Str("component", "measure").Logger(),
	}
}

// Measure measures rows and records every size that changed. Rows whose
// measurement is not a positive finite number keep their prior size and are
// returned in retry so the caller measures them again on the next pass.
func (m *MeasurementScheduler) Measure(measurer Measurer, rows []MountedRow) (report ReconciliationReport, retry []int) {
	for _, r := range rows {
		old, err := m.store.SizeOf(r.Index)
		if err != nil {
			m.log.Warn().Err(err).Msg("measured row no longer exists")
			continue
		}
		size := measurer.Measure(r.Handle)
		if !(size > 0) || math.IsInf(size, 1) {
			m.log.Warn().
				Err(&InvalidMeasurementError{Index: r.Index, Size: size}).
				Int("index", r.Index).
				Msg("keeping estimate")
			retry = append(retry, r.Index)
			continue
		}
		wasMeasured := m.store.IsMeasured(r.Index)
		if err := m.store.Resize(r.Index, size); err != nil {
			m.log.Warn().Err(err).Msg("resize")
			continue
		}
		if size != old {
			report.Changes = append(report.Changes, SizeChange{Index: r.Index, OldSize: old, NewSize: size})
		} else if !wasMeasured {
			m.log.Trace().Int("index", r.Index).Msg("estimate confirmed")
		}
	}
	if !report.Empty() {
		m.log.Debug().
			Int("rows", len(rows)).
			Int("changed", len(report.Changes)).
			Float64("delta", report.TotalDelta()).
			Msg("reconciled")
	}
	return report, retry
}
