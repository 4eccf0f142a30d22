// Package observability groups the logging, metrics, and tracing support
// packages used across the API server and the reaper worker.
package observability
