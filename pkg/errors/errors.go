// Package errors provides the error types used across the flotation
// predictor. Every failure the application can surface to the user maps to
// one of the structured types below, each carrying a stack trace via
// cockroachdb/errors and structured fields for zerolog output.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// LoadError indicates that the serialized model artifact could not be
// loaded: the file does not exist, is unreadable, or does not parse as a
// boosted-tree dump.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("flotacion: model artifact %q could not be loaded: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds the structured load failure fields to a zerolog event.
func (e *LoadError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model.path", e.Path).
		AnErr("cause", e.Err).
		Str("type", "LoadError")
}

// NewLoadError creates a LoadError with a stack trace attached.
func NewLoadError(path string, err error) error {
	return errors.WithStack(&LoadError{Path: path, Err: err})
}

// SchemaError indicates that a prediction record does not match the feature
// schema the model was trained on. Names must match exactly, in order.
type SchemaError struct {
	Op       string
	Expected []string
	Got      []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("flotacion: %s: feature schema mismatch. Expected %v, got %v", e.Op, e.Expected, e.Got)
}

// MarshalZerologObject adds the structured schema fields to a zerolog event.
func (e *SchemaError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Strs("expected", e.Expected).
		Strs("got", e.Got).
		Str("type", "SchemaError")
}

// NewSchemaError creates a SchemaError with a stack trace attached.
func NewSchemaError(op string, expected, got []string) error {
	return errors.WithStack(&SchemaError{Op: op, Expected: expected, Got: got})
}

// DimensionError indicates that an input matrix has the wrong shape for the
// loaded ensemble.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("flotacion: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds the structured dimension fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace attached.
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// PredictionError wraps any failure raised while evaluating the model,
// including recovered panics and non-finite outputs. The cause message is
// what the UI shows inline to the user.
type PredictionError struct {
	Op  string
	Err error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("flotacion: %s: prediction failed: %v", e.Op, e.Err)
}

func (e *PredictionError) Unwrap() error {
	return e.Err
}

// Cause returns the underlying failure message without the operation prefix.
func (e *PredictionError) Cause() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// MarshalZerologObject adds the structured prediction failure fields to a zerolog event.
func (e *PredictionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		AnErr("cause", e.Err).
		Str("type", "PredictionError")
}

// NewPredictionError creates a PredictionError with a stack trace attached.
func NewPredictionError(op string, err error) error {
	return errors.WithStack(&PredictionError{Op: op, Err: err})
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message, preserving the chain.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a formatted message, preserving the chain.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}
