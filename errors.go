package vlist

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is matched by every *OutOfRangeError.
	ErrOutOfRange = errors.New("vlist: index out of range")
	// ErrInvalidConfig is matched by every *ConfigError.
	ErrInvalidConfig = errors.New("vlist: invalid configuration")
	// ErrInvalidMeasurement is matched by every *InvalidMeasurementError.
	ErrInvalidMeasurement = errors.New("vlist: invalid measurement")
	// ErrStaleObservation is matched by every *StaleObservationError.
	ErrStaleObservation = errors.New("vlist: stale scroll observation")
	// ErrClosed is returned by engine operations after Close.
	ErrClosed = errors.New("vlist: engine closed")
)

// OutOfRangeError reports an index outside [0, Len).
type OutOfRangeError struct {
	Op    string
	Index int
	Len   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("vlist: %s: index %d out of range [0, %d)", e.Op, e.Index, e.Len)
}

func (e *OutOfRangeError) Unwrap() error { return ErrOutOfRange }

// ConfigError reports a malformed configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("vlist: config %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// InvalidMeasurementError is recorded when the host reports a size that is not
// a positive finite number. The row keeps its prior size and is measured again
// on the next pass.
type InvalidMeasurementError struct {
	Index int
	Size  float64
}

func (e *InvalidMeasurementError) Error() string {
	return fmt.Sprintf("vlist: row %d measured %v", e.Index, e.Size)
}

func (e *InvalidMeasurementError) Unwrap() error { return ErrInvalidMeasurement }

// StaleObservationError is recorded when consecutive offset reads look like
// the touch-release reset. The read is discarded.
type StaleObservationError struct {
	First, Second float64
	Previous      float64
}

func (e *StaleObservationError) Error() string {
	return fmt.Sprintf("vlist: suspect offset reads %v, %v (previous %v)", e.First, e.Second, e.Previous)
}

func (e *StaleObservationError) Unwrap() error { return ErrStaleObservation }
