package vlist

import (
	"math"
	"slices"
	"sort"
)

// Estimator returns the size assumed for a row before it is measured.
type Estimator func(index int) float64

// FixedEstimate returns an Estimator that assumes every row has the given size.
func FixedEstimate(size float64) Estimator {
	return func(int) float64 { return size }
}

type row struct {
	estimate float64
	measured float64
	// Set once the row has been rendered and measured.
	hasMeasured bool
}

func (r row) size() float64 {
	if r.hasMeasured {
		return r.measured
	}
	return r.estimate
}

// ItemStore holds the ordered rows of a list and the prefix sums used to map
// an index to its offset along the scroll axis.
//
// Offsets are rebuilt lazily: a mutation only lowers the valid watermark, and
// the next query extends the prefix from that watermark forward.
type ItemStore struct {
	rows []row

	// offsets[i] is the offset of row i and offsets[len(rows)] the total size.
	// Entries are trustworthy for i <= valid.
	offsets []float64
	valid   int

	estimate Estimator
}

// NewItemStore returns an empty store using estimate for unmeasured rows.
func NewItemStore(estimate Estimator) *ItemStore {
	if estimate == nil {
		estimate = FixedEstimate(1)
	}
	return &ItemStore{
		offsets:  []float64{0},
		estimate: estimate,
	}
}

// Len returns the number of rows.
func (s *ItemStore) Len() int {
	return len(s.rows)
}

// SizeOf returns the measured size of the row, or its estimate if it has not
// been measured yet.
func (s *ItemStore) SizeOf(index int) (float64, error) {
	if index < 0 || index >= len(s.rows) {
		return 0, &OutOfRangeError{Op: "SizeOf", Index: index, Len: len(s.rows)}
	}
	return s.rows[index].size(), nil
}

// IsMeasured reports whether the row has a measured size.
func (s *ItemStore) IsMeasured(index int) bool {
	return index >= 0 && index < len(s.rows) && s.rows[index].hasMeasured
}

// OffsetOf returns the cumulative size of all rows before index. Passing Len()
// returns the total size.
func (s *ItemStore) OffsetOf(index int) (float64, error) {
	if index < 0 || index > len(s.rows) {
		return 0, &OutOfRangeError{Op: "OffsetOf", Index: index, Len: len(s.rows)}
	}
	return s.offsetAt(index), nil
}

// TotalSize returns the sum of all row sizes.
func (s *ItemStore) TotalSize() float64 {
	return s.offsetAt(len(s.rows))
}

// Resize records a measured size for the row.
func (s *ItemStore) Resize(index int, size float64) error {
	if index < 0 || index >= len(s.rows) {
		return &OutOfRangeError{Op: "Resize", Index: index, Len: len(s.rows)}
	}
	r := &s.rows[index]
	if r.hasMeasured && r.measured == size {
		return nil
	}
	r.measured = size
	r.hasMeasured = true
	s.invalidate(index)
	return nil
}

// Insert adds count unmeasured rows before index. Index may equal Len().
func (s *ItemStore) Insert(index, count int) error {
	if index < 0 || index > len(s.rows) {
		return &OutOfRangeError{Op: "Insert", Index: index, Len: len(s.rows)}
	}
	if count <= 0 {
		return nil
	}
	added := make([]row, count)
	for i := range added {
		added[i] = row{estimate: sanitizeEstimate(s.estimate(index + i))}
	}
	s.rows = slices.Insert(s.rows, index, added...)
	s.offsets = append(s.offsets, make([]float64, count)...)
	s.invalidate(index)
	return nil
}

// Append adds count unmeasured rows at the end.
func (s *ItemStore) Append(count int) {
	_ = s.Insert(len(s.rows), count)
}

// Remove deletes count rows starting at index.
func (s *ItemStore) Remove(index, count int) error {
	if count <= 0 {
		return nil
	}
	if index < 0 || index >= len(s.rows) {
		return &OutOfRangeError{Op: "Remove", Index: index, Len: len(s.rows)}
	}
	if index+count > len(s.rows) {
		return &OutOfRangeError{Op: "Remove", Index: index + count - 1, Len: len(s.rows)}
	}
	s.rows = slices.Delete(s.rows, index, index+count)
	s.offsets = s.offsets[:len(s.rows)+1]
	s.invalidate(index)
	return nil
}

// IndexAt returns the row containing offset, clamped to the first and last
// rows. It returns -1 for an empty store.
func (s *ItemStore) IndexAt(offset float64) int {
	n := len(s.rows)
	if n == 0 {
		return -1
	}
	if offset <= 0 || math.IsNaN(offset) {
		return 0
	}
	if offset >= s.TotalSize() {
		return n - 1
	}
	// Smallest index whose end lies past offset.
	return sort.Search(n, func(i int) bool {
		return s.offsetAt(i+1) > offset
	})
}

func (s *ItemStore) offsetAt(index int) float64 {
	if index > s.valid {
		for i := s.valid; i < index; i++ {
			s.offsets[i+1] = s.offsets[i] + s.rows[i].size()
		}
		s.valid = index
	}
	return s.offsets[index]
}

func (s *ItemStore) invalidate(from int) {
	if from < s.valid {
		s.valid = from
	}
	if s.valid > len(s.rows) {
		s.valid = len(s.rows)
	}
}

func sanitizeEstimate(v float64) float64 {
	if v > 0 && !math.IsInf(v, 1) {
		return v
	}
	return 1
}
