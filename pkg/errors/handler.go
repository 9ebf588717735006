package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var (
	handlerMu sync.RWMutex
	handler   ErrorHandler = &LogHandler{}

	reported [KindPanic + 1]atomic.Int64
)

// SetHandler installs the handler that receives reported errors and panics.
// Nil restores a LogHandler on the package logger.
func SetHandler(h ErrorHandler) {
	if h == nil {
		h = &LogHandler{}
	}
	handlerMu.Lock()
	handler = h
	handlerMu.Unlock()
}

// Handler returns the installed handler.
func Handler() ErrorHandler {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return handler
}

// Report stamps err (if it has no timestamp yet), counts it under its kind,
// and passes it to the installed handler.
func Report(err *AdError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	count(err.Kind)
	Handler().HandleError(err)
}

// ReportPanic counts a recovered panic and passes it to the handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	count(KindPanic)
	Handler().HandlePanic(err)
}

func count(k ErrorKind) {
	if k < 0 || int(k) >= len(reported) {
		k = KindUnknown
	}
	reported[k].Add(1)
}

// Counts returns how many errors of each kind were reported since start or
// the last ResetCounts. Kinds with no reports are omitted.
func Counts() map[ErrorKind]int64 {
	out := make(map[ErrorKind]int64)
	for k := range reported {
		if n := reported[k].Load(); n > 0 {
			out[ErrorKind(k)] = n
		}
	}
	return out
}

// ResetCounts zeroes the per-kind counters.
func ResetCounts() {
	for k := range reported {
		reported[k].Store(0)
	}
}

// Recover reports a panic in progress under op. Use it deferred:
//
//	defer errors.Recover("ads.Manager.DisposeAd")
func Recover(op string) {
	if r := recover(); r != nil {
		ReportPanic(&PanicError{Op: op, Value: r, StackTrace: CaptureStack()})
	}
}

// RecoverWithCallback is Recover followed by callback(r), which lets the
// deferring function replace its results after a panic.
func RecoverWithCallback(op string, callback func(r any)) {
	r := recover()
	if r == nil {
		return
	}
	ReportPanic(&PanicError{Op: op, Value: r, StackTrace: CaptureStack()})
	if callback != nil {
		callback(r)
	}
}

// CaptureStack formats the caller's stack, one "function\n\tfile:line" entry
// per frame, starting above CaptureStack's own caller.
func CaptureStack() string {
	var pcs [32]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return ""
	}
	var b strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		fmt.Fprintf(&b, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		if !more {
			return b.String()
		}
	}
}
