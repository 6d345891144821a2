// Package server assembles the editor config HTTP service: the evaluator,
// the gin router with its middleware, the REST and WebSocket handlers and the
// Prometheus registry behind /metrics.
package server
