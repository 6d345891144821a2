/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

This package implements Prometheus-based metrics collection for the editor
config service, tracking HTTP requests, script evaluations, contract function lookups
and WebSocket connections.

# Features

- HTTP request metrics (latency, throughput, size)
- Evaluation metrics (duration, outcome, in-flight count)
- Error metrics by kind and pipeline stage
- Lookup results per contract function
- WebSocket connection metrics
- Uptime

# Usage

	// Create metrics collector on its own registry
	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Attach to the evaluator
	eval := editorconfig.NewEvaluator(cfg).WithMetrics(metrics)

# Metrics Endpoint

Expose metrics via the standard Prometheus endpoint:

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
*/
package monitoring
