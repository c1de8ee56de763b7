package vlist

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestComputeRange(t *testing.T) {
	s := NewItemStore(FixedEstimate(10))
	s.Append(10)

	tests := map[string]struct {
		viewport      Viewport
		before, after int
		want          Range
	}{
		"visible rows": {
			viewport: Viewport{Offset: 25, Extent: 30},
			want:     Range{Start: 2, End: 6},
		},
		"with overscan": {
			viewport: Viewport{Offset: 25, Extent: 30},
			before:   1,
			after:    2,
			want:     Range{Start: 1, End: 8},
		},
		"overscan clamped": {
			viewport: Viewport{Offset: 25, Extent: 30},
			before:   10,
			after:    10,
			want:     Range{Start: 0, End: 10},
		},
		"aligned to rows": {
			viewport: Viewport{Offset: 20, Extent: 20},
			want:     Range{Start: 2, End: 4},
		},
		"larger than content": {
			viewport: Viewport{Offset: 0, Extent: 500},
			want:     Range{Start: 0, End: 10},
		},
		"at the end": {
			viewport: Viewport{Offset: 80, Extent: 20},
			after:    4,
			want:     Range{Start: 8, End: 10},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := ComputeRange(s, tc.viewport, tc.before, tc.after)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ComputeRange() mismatch (-want +got):\n%s", diff)
			}
			again := ComputeRange(s, tc.viewport, tc.before, tc.after)
			if diff := cmp.Diff(got, again); diff != "" {
				t.Errorf("ComputeRange() not deterministic (-first +second):\n%s", diff)
			}
		})
	}
}

func TestComputeRange_Empty(t *testing.T) {
	got := ComputeRange(NewItemStore(nil), Viewport{Extent: 100}, 4, 4)
	if got.Len() != 0 {
		t.Errorf("ComputeRange() on empty store = %+v, want empty", got)
	}
}

func TestRange(t *testing.T) {
	r := Range{Start: 2, End: 5}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
	if !r.Contains(2) || !r.Contains(4) || r.Contains(5) || r.Contains(1) {
		t.Errorf("Contains() wrong for %+v", r)
	}
	if (Range{Start: 4, End: 1}).Len() != 0 {
		t.Error("inverted range should be empty")
	}
}
