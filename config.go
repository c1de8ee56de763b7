package vlist

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Axis selects the scroll axis.
type Axis int

const (
	AxisVertical Axis = iota
	AxisHorizontal
)

func (a Axis) String() string {
	switch a {
	case AxisVertical:
		return "vertical"
	case AxisHorizontal:
		return "horizontal"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// ParseAxis parses "vertical" or "horizontal".
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "vertical", "v", "y":
		return AxisVertical, nil
	case "horizontal", "h", "x":
		return AxisHorizontal, nil
	}
	return 0, &ConfigError{Field: "axis", Reason: fmt.Sprintf("unknown axis %q", s)}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Axis) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseAxis(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (a Axis) MarshalYAML() (any, error) {
	return a.String(), nil
}

const (
	DefaultOverscan      = 4
	DefaultEstimateSize  = 40
	DefaultFlushDebounce = 150 * time.Millisecond
)

// Config holds the recognized options of an Engine.
type Config struct {
	Axis           Axis
	Reverse        bool
	RTL            bool
	OverscanBefore int
	OverscanAfter  int

	// EstimateSize is used for unmeasured rows unless Estimator is set.
	EstimateSize float64
	Estimator    Estimator

	// FlushDebounce is the quiet period after the last scroll event before
	// the final correction is applied.
	FlushDebounce time.Duration

	// WebKitTouchQuirk enables the touch-release stale read detector and
	// defers measurement corrections while a gesture is in flight.
	WebKitTouchQuirk bool

	Logger zerolog.Logger
}

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{
		OverscanBefore: DefaultOverscan,
		OverscanAfter:  DefaultOverscan,
		EstimateSize:   DefaultEstimateSize,
		FlushDebounce:  DefaultFlushDebounce,
		Logger:         zerolog.Nop(),
	}
}

// Validate reports the first malformed field.
func (c Config) Validate() error {
	if c.Axis != AxisVertical && c.Axis != AxisHorizontal {
		return &ConfigError{Field: "axis", Reason: fmt.Sprintf("unknown axis %d", int(c.Axis))}
	}
	if c.OverscanBefore < 0 {
		return &ConfigError{Field: "overscanBefore", Reason: "must be >= 0"}
	}
	if c.OverscanAfter < 0 {
		return &ConfigError{Field: "overscanAfter", Reason: "must be >= 0"}
	}
	if c.Estimator == nil && !(c.EstimateSize > 0 && !math.IsInf(c.EstimateSize, 1)) {
		return &ConfigError{Field: "estimateSize", Reason: "must be a positive finite number"}
	}
	if c.FlushDebounce <= 0 {
		return &ConfigError{Field: "flushDebounceMs", Reason: "must be > 0"}
	}
	return nil
}

func (c Config) estimator() Estimator {
	if c.Estimator != nil {
		return c.Estimator
	}
	return FixedEstimate(c.EstimateSize)
}

// Option configures an Engine.
type Option func(*Config)

// WithConfig replaces the whole configuration. Later options still apply.
func WithConfig(config Config) Option {
	return func(c *Config) {
		*c = config
	}
}

// WithAxis sets the scroll axis.
func WithAxis(axis Axis) Option {
	return func(c *Config) {
		c.Axis = axis
	}
}

// WithReverse anchors logical row 0 at the far end of the scrollable range.
func WithReverse(reverse bool) Option {
	return func(c *Config) {
		c.Reverse = reverse
	}
}

// WithRTL mirrors horizontal offsets for right-to-left layouts.
func WithRTL(rtl bool) Option {
	return func(c *Config) {
		c.RTL = rtl
	}
}

// WithOverscan sets the number of extra rows rendered on each side.
func WithOverscan(before, after int) Option {
	return func(c *Config) {
		c.OverscanBefore = before
		c.OverscanAfter = after
	}
}

// WithEstimateSize sets a fixed size estimate for unmeasured rows.
func WithEstimateSize(size float64) Option {
	return func(c *Config) {
		c.EstimateSize = size
		c.Estimator = nil
	}
}

// WithEstimator sets a per-row size estimate.
func WithEstimator(estimate Estimator) Option {
	return func(c *Config) {
		c.Estimator = estimate
	}
}

// WithFlushDebounce sets the quiet period before the flush correction.
func WithFlushDebounce(d time.Duration) Option {
	return func(c *Config) {
		c.FlushDebounce = d
	}
}

// WithWebKitTouchQuirk toggles the touch-release workaround.
func WithWebKitTouchQuirk(enabled bool) Option {
	return func(c *Config) {
		c.WebKitTouchQuirk = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

type fileConfig struct {
	Axis             *Axis    `yaml:"axis"`
	Reverse          *bool    `yaml:"reverse"`
	RTL              *bool    `yaml:"rtl"`
	OverscanBefore   *int     `yaml:"overscanBefore"`
	OverscanAfter    *int     `yaml:"overscanAfter"`
	EstimateSize     *float64 `yaml:"estimateSize"`
	FlushDebounceMs  *int     `yaml:"flushDebounceMs"`
	WebKitTouchQuirk *bool    `yaml:"webkitTouchQuirk"`
}

// LoadConfig decodes a YAML document on top of DefaultConfig and validates
// the result. An empty document yields the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	config := DefaultConfig()
	var fc fileConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("vlist: decode config: %w", err)
	}
	if fc.Axis != nil {
		config.Axis = *fc.Axis
	}
	if fc.Reverse != nil {
		config.Reverse = *fc.Reverse
	}
	if fc.RTL != nil {
		config.RTL = *fc.RTL
	}
	if fc.OverscanBefore != nil {
		config.OverscanBefore = *fc.OverscanBefore
	}
	if fc.OverscanAfter != nil {
		config.OverscanAfter = *fc.OverscanAfter
	}
	if fc.EstimateSize != nil {
		config.EstimateSize = *fc.EstimateSize
	}
	if fc.FlushDebounceMs != nil {
		config.FlushDebounce = time.Duration(*fc.FlushDebounceMs) * time.Millisecond
	}
	if fc.WebKitTouchQuirk != nil {
		config.WebKitTouchQuirk = *fc.WebKitTouchQuirk
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}
