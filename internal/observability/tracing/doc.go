// Package tracing provides OpenTelemetry tracing integration.
//
// It exposes a global tracer, an HTTP middleware that opens a server span per
// request and propagates the trace ID via the X-Trace-Id response header, and
// an SDK provider initializer wired up in the cmd entrypoints.
package tracing
