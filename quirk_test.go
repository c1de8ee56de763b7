package vlist

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reads(values ...float64) func() float64 {
	return func() float64 {
		v := values[0]
		if len(values) > 1 {
			values = values[1:]
		}
		return v
	}
}

func TestReadTrustedOffset(t *testing.T) {
	tests := map[string]struct {
		reads     []float64
		previous  float64
		direction int
		want      float64
		stale     bool
	}{
		"settled":              {reads: []float64{500, 500}, previous: 520, direction: -1, want: 500},
		"within tolerance":     {reads: []float64{500, 500.5}, previous: 520, direction: -1, want: 500.5},
		"reset then real":      {reads: []float64{0, 500}, previous: 520, direction: -1, stale: true},
		"reset twice":          {reads: []float64{0, 0}, previous: 5000, direction: 1, stale: true},
		"small reversal":       {reads: []float64{530, 530}, previous: 520, direction: -1, want: 530},
		"unknown direction":    {reads: []float64{0, 0}, previous: 5000, want: 0},
		"not a number":         {reads: []float64{math.NaN(), 500}, previous: 520, stale: true},
		"continuing direction": {reads: []float64{4000, 4000}, previous: 500, direction: 1, want: 4000},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := readTrustedOffset(reads(tc.reads...), tc.previous, tc.direction, 800)
			if tc.stale {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrStaleObservation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
