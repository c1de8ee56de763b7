// Package replay drives scripted touch gestures through an engine running on
// a real event loop and reports where each gesture settles.
package replay

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/xqrs/vlist"
)

// ErrInvalidScenario is wrapped by every scenario validation failure.
var ErrInvalidScenario = errors.New("replay: invalid scenario")

// SizeModel gives row i the size Base + (i*Stride) mod Spread. A zero Spread
// makes every row Base.
type SizeModel struct {
	Base   float64 `yaml:"base"`
	Stride int     `yaml:"stride"`
	Spread int     `yaml:"spread"`
}

// Size returns the rendered size of physical row i.
func (m SizeModel) Size(i int) float64 {
	if m.Spread <= 0 {
		return m.Base
	}
	return m.Base + float64((i*m.Stride)%m.Spread)
}

// Scenario describes a list and the gestures replayed against it.
type Scenario struct {
	Rows   int       `yaml:"rows"`
	Extent float64   `yaml:"extent"`
	Sizes  SizeModel `yaml:"sizes"`

	// Gestures is the number of touch gestures. Each one drags by every
	// entry of Drags in order and then releases.
	Gestures int       `yaml:"gestures"`
	Drags    []float64 `yaml:"drags"`

	// StaleReads is the number of offset reads after a release that
	// report 0.
	StaleReads int `yaml:"staleReads"`

	// QuietMs is how long the runner waits after a release before reading
	// the flushed offset. It must exceed FlushDebounceMs.
	QuietMs int `yaml:"quietMs"`

	Reverse          bool    `yaml:"reverse"`
	WebKitTouchQuirk bool    `yaml:"webkitTouchQuirk"`
	EstimateSize     float64 `yaml:"estimateSize"`
	FlushDebounceMs  int     `yaml:"flushDebounceMs"`
}

// DefaultScenario is a reverse chat list of a thousand rows scrolled up
// toward older rows with the WebKit touch quirk enabled.
func DefaultScenario() Scenario {
	return Scenario{
		Rows:             1000,
		Extent:           800,
		Sizes:            SizeModel{Base: 44, Stride: 5, Spread: 9},
		Gestures:         10,
		Drags:            []float64{-100, -100},
		StaleReads:       1,
		QuietMs:          300,
		Reverse:          true,
		WebKitTouchQuirk: true,
		EstimateSize:     vlist.DefaultEstimateSize,
		FlushDebounceMs:  int(vlist.DefaultFlushDebounce / time.Millisecond),
	}
}

// LoadScenario decodes a YAML document on top of DefaultScenario.
func LoadScenario(r io.Reader) (Scenario, error) {
	sc := DefaultScenario()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil && !errors.Is(err, io.EOF) {
		return Scenario{}, fmt.Errorf("replay: decode scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

// Validate reports the first malformed field.
func (sc Scenario) Validate() error {
	switch {
	case sc.Rows <= 0:
		return fmt.Errorf("%w: rows must be > 0", ErrInvalidScenario)
	case sc.Extent <= 0:
		return fmt.Errorf("%w: extent must be > 0", ErrInvalidScenario)
	case sc.Sizes.Base <= 0:
		return fmt.Errorf("%w: sizes.base must be > 0", ErrInvalidScenario)
	case sc.Sizes.Stride < 0 || sc.Sizes.Spread < 0:
		return fmt.Errorf("%w: sizes.stride and sizes.spread must be >= 0", ErrInvalidScenario)
	case sc.Gestures < 0:
		return fmt.Errorf("%w: gestures must be >= 0", ErrInvalidScenario)
	case len(sc.Drags) == 0:
		return fmt.Errorf("%w: drags is empty", ErrInvalidScenario)
	case sc.StaleReads < 0:
		return fmt.Errorf("%w: staleReads must be >= 0", ErrInvalidScenario)
	case sc.QuietMs <= sc.FlushDebounceMs:
		return fmt.Errorf("%w: quietMs must exceed flushDebounceMs", ErrInvalidScenario)
	}
	return nil
}

// Options returns the engine options the scenario runs with.
func (sc Scenario) Options() []vlist.Option {
	return []vlist.Option{
		vlist.WithReverse(sc.Reverse),
		vlist.WithWebKitTouchQuirk(sc.WebKitTouchQuirk),
		vlist.WithEstimateSize(sc.EstimateSize),
		vlist.WithFlushDebounce(time.Duration(sc.FlushDebounceMs) * time.Millisecond),
	}
}

func (sc Scenario) quiet() time.Duration {
	return time.Duration(sc.QuietMs) * time.Millisecond
}

func (sc Scenario) direction() float64 {
	var sum float64
	for _, d := range sc.Drags {
		sum += d
	}
	return sum
}
