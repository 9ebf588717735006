// Package errors provides structured error reporting for the ad view bridge.
//
// Failures inside view creation never cross the host boundary as panics or
// returned errors; they are reported here and the caller falls back to an
// error view.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConfiguration indicates the bridge was used before the host
	// provided a rendering context.
	KindConfiguration
	// KindLookup indicates a handle that is not registered or whose ad has
	// not finished loading.
	KindLookup
	// KindMalformedRequest indicates a creation request of unexpected shape.
	KindMalformedRequest
	// KindResource indicates that building a native surface failed.
	KindResource
	// KindValidation indicates invalid ad display options.
	KindValidation
	// KindPlatform indicates a platform channel or native bridge error.
	KindPlatform
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindLookup:
		return "lookup"
	case KindMalformedRequest:
		return "malformed_request"
	case KindResource:
		return "resource"
	case KindValidation:
		return "validation"
	case KindPlatform:
		return "platform"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// NoHandle marks an AdError that is not tied to a specific ad handle.
const NoHandle = -1

// AdError represents a structured error in the ad view bridge.
type AdError struct {
	// Op is the operation that failed (e.g., "ads.ViewFactory.Create").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Handle is the ad handle involved, or NoHandle.
	Handle int
	// Err is the underlying error.
	Err error
	// Channel is the platform channel name, if applicable.
	Channel string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *AdError) Error() string {
	switch {
	case e.Channel != "":
		return fmt.Sprintf("%s [%s] channel=%s: %v", e.Op, e.Kind, e.Channel, e.Err)
	case e.Handle != NoHandle:
		return fmt.Sprintf("%s [%s] handle=%d: %v", e.Op, e.Kind, e.Handle, e.Err)
	default:
		return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
	}
}

func (e *AdError) Unwrap() error {
	return e.Err
}

// New returns an AdError for op with the given kind, handle, and cause.
func New(op string, kind ErrorKind, handle int, err error) *AdError {
	return &AdError{Op: op, Kind: kind, Handle: handle, Err: err}
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "ads.NativeAd.OnLoaded").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by the bridge.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *AdError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
