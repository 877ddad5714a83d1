// Package observability provides structured logging and provider metrics
// for the travel gateway.
//
// This package implements:
//   - zap logger construction from level and format settings
//   - request-scoped loggers carrying the request ID
//   - per-provider attempt counters, fed by the fallback chains, kept in
//     process and exported as OpenTelemetry instruments
package observability
