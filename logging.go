package rolling

import (
	"sync/atomic"

	"github.com/joeycumines/logiface"
)

// Logging is an infrastructure cross-cutting concern, configured at the
// package level: aggregator instances share logging semantics, and a global
// avoids bloating the per-constructor configuration surface.
var packageLogger atomic.Pointer[logiface.Logger[logiface.Event]]

// SetLogger configures an optional structured logger, used by all windowing
// drivers in this package, primarily for trace-level tracing of lifecycle
// transitions. Pass nil to disable (the default). Typed loggers may be
// converted using [logiface.Logger.Logger].
func SetLogger(logger *logiface.Logger[logiface.Event]) {
	packageLogger.Store(logger)
}

// loggerInstance returns the configured logger, which may be nil. The
// logiface builders no-op on a nil logger, so call sites chain directly.
func loggerInstance() *logiface.Logger[logiface.Event] {
	return packageLogger.Load()
}
