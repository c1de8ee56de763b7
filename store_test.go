package vlist

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemStore_Offsets(t *testing.T) {
	s := NewItemStore(FixedEstimate(10))
	s.Append(5)

	assert.Equal(t, 5, s.Len())
	assert.Equal(t, 50.0, s.TotalSize())
	off, err := s.OffsetOf(3)
	require.NoError(t, err)
	assert.Equal(t, 30.0, off)

	require.NoError(t, s.Resize(1, 25))
	assert.True(t, s.IsMeasured(1))
	assert.False(t, s.IsMeasured(2))
	off, err = s.OffsetOf(3)
	require.NoError(t, err)
	assert.Equal(t, 45.0, off)
	assert.Equal(t, 65.0, s.TotalSize())

	end, err := s.OffsetOf(5)
	require.NoError(t, err)
	assert.Equal(t, s.TotalSize(), end)
}

func TestItemStore_ResizeAfterOffsetsComputed(t *testing.T) {
	s := NewItemStore(FixedEstimate(10))
	s.Append(5)
	require.Equal(t, 50.0, s.TotalSize())

	require.NoError(t, s.Resize(2, 30))
	off, err := s.OffsetOf(3)
	require.NoError(t, err)
	assert.Equal(t, 50.0, off)
	assert.Equal(t, 70.0, s.TotalSize())

	require.NoError(t, s.Resize(4, 5))
	assert.Equal(t, 65.0, s.TotalSize())

	require.NoError(t, s.Resize(2, 10))
	off, err = s.OffsetOf(3)
	require.NoError(t, err)
	assert.Equal(t, 30.0, off)
	assert.Equal(t, 45.0, s.TotalSize())
}

func TestItemStore_InsertRemove(t *testing.T) {
	s := NewItemStore(FixedEstimate(10))
	s.Append(3)
	require.NoError(t, s.Resize(0, 30))

	require.NoError(t, s.Insert(0, 2))
	assert.Equal(t, 5, s.Len())
	size, err := s.SizeOf(2)
	require.NoError(t, err)
	assert.Equal(t, 30.0, size, "measured row shifts with insertion")
	off, err := s.OffsetOf(2)
	require.NoError(t, err)
	assert.Equal(t, 20.0, off)
	assert.Equal(t, 70.0, s.TotalSize())

	require.NoError(t, s.Remove(0, 2))
	assert.Equal(t, 3, s.Len())
	size, err = s.SizeOf(0)
	require.NoError(t, err)
	assert.Equal(t, 30.0, size)
	assert.Equal(t, 50.0, s.TotalSize())

	require.NoError(t, s.Remove(1, 2))
	assert.Equal(t, 30.0, s.TotalSize())
}

func TestItemStore_IndexAt(t *testing.T) {
	s := NewItemStore(FixedEstimate(10))
	assert.Equal(t, -1, s.IndexAt(0))

	s.Append(5)
	tests := map[string]struct {
		offset float64
		want   int
	}{
		"negative":       {offset: -5, want: 0},
		"start":          {offset: 0, want: 0},
		"inside first":   {offset: 9.9, want: 0},
		"boundary":       {offset: 10, want: 1},
		"inside last":    {offset: 49, want: 4},
		"end":            {offset: 50, want: 4},
		"past the end":   {offset: 1000, want: 4},
		"middle of list": {offset: 25, want: 2},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, s.IndexAt(tc.offset))
		})
	}
}

func TestItemStore_OutOfRange(t *testing.T) {
	s := NewItemStore(FixedEstimate(10))
	s.Append(2)

	tests := map[string]func() error{
		"size of":       func() error { _, err := s.SizeOf(2); return err },
		"offset of":     func() error { _, err := s.OffsetOf(3); return err },
		"resize":        func() error { return s.Resize(-1, 4) },
		"insert":        func() error { return s.Insert(3, 1) },
		"remove":        func() error { return s.Remove(2, 1) },
		"remove beyond": func() error { return s.Remove(1, 2) },
	}
	for name, fn := range tests {
		t.Run(name, func(t *testing.T) {
			err := fn()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrOutOfRange))
			var rangeErr *OutOfRangeError
			require.True(t, errors.As(err, &rangeErr))
			assert.Equal(t, 2, rangeErr.Len)
		})
	}
	assert.Equal(t, 2, s.Len(), "failed operations leave the store unchanged")
}

func TestItemStore_EstimatorSanitized(t *testing.T) {
	s := NewItemStore(func(i int) float64 {
		if i == 1 {
			return -3
		}
		return 5
	})
	s.Append(3)

	size, err := s.SizeOf(1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, size)
	assert.Equal(t, 11.0, s.TotalSize())
}
