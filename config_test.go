package vlist

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig(strings.NewReader(`
axis: horizontal
reverse: true
rtl: true
overscanBefore: 2
overscanAfter: 6
estimateSize: 24
flushDebounceMs: 200
webkitTouchQuirk: true
`))
	require.NoError(t, err)

	assert.Equal(t, AxisHorizontal, config.Axis)
	assert.True(t, config.Reverse)
	assert.True(t, config.RTL)
	assert.Equal(t, 2, config.OverscanBefore)
	assert.Equal(t, 6, config.OverscanAfter)
	assert.Equal(t, 24.0, config.EstimateSize)
	assert.Equal(t, 200*time.Millisecond, config.FlushDebounce)
	assert.True(t, config.WebKitTouchQuirk)
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig(strings.NewReader(""))
	require.NoError(t, err)

	want := DefaultConfig()
	assert.Equal(t, want.Axis, config.Axis)
	assert.Equal(t, want.OverscanBefore, config.OverscanBefore)
	assert.Equal(t, want.OverscanAfter, config.OverscanAfter)
	assert.Equal(t, want.EstimateSize, config.EstimateSize)
	assert.Equal(t, want.FlushDebounce, config.FlushDebounce)
	assert.False(t, config.WebKitTouchQuirk)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string]struct {
		doc   string
		field string
	}{
		"unknown axis":      {doc: "axis: diagonal", field: "axis"},
		"negative overscan": {doc: "overscanBefore: -1", field: "overscanBefore"},
		"zero estimate":     {doc: "estimateSize: 0", field: "estimateSize"},
		"zero debounce":     {doc: "flushDebounceMs: 0", field: "flushDebounceMs"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(strings.NewReader(tc.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
			var configErr *ConfigError
			require.True(t, errors.As(err, &configErr))
			assert.Equal(t, tc.field, configErr.Field)
		})
	}
}

func TestLoadConfig_UnknownField(t *testing.T) {
	_, err := LoadConfig(strings.NewReader("overscan: 3"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overscan")
}

func TestOptions(t *testing.T) {
	config := DefaultConfig()
	for _, opt := range []Option{
		WithAxis(AxisHorizontal),
		WithReverse(true),
		WithOverscan(1, 3),
		WithEstimateSize(12),
		WithFlushDebounce(time.Second),
		WithWebKitTouchQuirk(true),
	} {
		opt(&config)
	}
	require.NoError(t, config.Validate())
	assert.Equal(t, AxisHorizontal, config.Axis)
	assert.True(t, config.Reverse)
	assert.Equal(t, 1, config.OverscanBefore)
	assert.Equal(t, 3, config.OverscanAfter)
	assert.Equal(t, 12.0, config.estimator()(7))
	assert.Equal(t, time.Second, config.FlushDebounce)
	assert.True(t, config.WebKitTouchQuirk)

	WithEstimator(func(i int) float64 { return float64(i) })(&config)
	assert.Equal(t, 7.0, config.estimator()(7))
}

func TestParseAxis(t *testing.T) {
	for in, want := range map[string]Axis{
		"vertical":   AxisVertical,
		"":           AxisVertical,
		"Horizontal": AxisHorizontal,
		"x":          AxisHorizontal,
	} {
		got, err := ParseAxis(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseAxis("z")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
