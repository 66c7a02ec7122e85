// This file converts unexpected panics inside a pipeline stage into
// structured errors so a single bad stage cannot crash the caller.

package errors

import (
	"fmt"
	"runtime/debug"
)

// PanicError is an error created from a recovered panic.
type PanicError struct {
	// PanicValue is the original value passed to panic()
	PanicValue interface{}

	// StackTrace is the goroutine stack at the time of the panic
	StackTrace string

	// Stage names the pipeline stage that panicked
	Stage string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Stage, e.PanicValue)
}

// String includes the stack trace.
func (e *PanicError) String() string {
	return fmt.Sprintf("panic in %s: %v\nStack trace:\n%s", e.Stage, e.PanicValue, e.StackTrace)
}

// NewPanicError creates a PanicError for the given stage.
func NewPanicError(stage string, panicValue interface{}) *PanicError {
	return &PanicError{
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Stage:      stage,
	}
}

// Recover is used with defer to turn a panic into an error assigned to *err.
// An error already stored in *err is kept in the chain.
//
//	func (s *Service) Predict(x []float64) (p Prediction, err error) {
//	    defer errors.Recover(&err, "Service.Predict")
//	    ...
//	}
func Recover(err *error, stage string) {
	r := recover()
	if r == nil {
		return
	}
	if *err != nil {
		*err = Wrapf(*err, "panic in %s: %v", stage, r)
		return
	}
	*err = NewPanicError(stage, r)
}

// SafeExecute runs fn and converts any panic into a PanicError.
func SafeExecute(stage string, fn func() error) (err error) {
	defer Recover(&err, stage)
	return fn()
}
