// Package main is the entry point for the editor config evaluation server.
//
// The server runs widget editor config scripts on behalf of a Studio-like
// frontend and answers with the filtered property groups, the visible
// property keys and the validation errors for the current values.
//
// The server provides:
//   - REST API for evaluate, visible-keys and validate
//   - WebSocket channel for live evaluation while a user edits values
//   - Prometheus metrics and a health endpoint
//   - Rate limiting and CORS
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 8000 -timeout 2s -max-concurrent 64
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
