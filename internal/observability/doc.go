// Package observability groups the logging, metrics and tracing support used
// by the catalog service, its HTTP API and the CLI.
//
// Subpackages:
//   - logging: slog logger construction and context propagation
//   - metrics: Prometheus metrics for catalog mutations, queries and cache use
//   - tracing: OpenTelemetry tracer, provider setup and HTTP middleware
package observability
