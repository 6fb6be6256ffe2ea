// Package main is the entry point for the LEO Core HTTP API server.
//
// The server audits pages on demand and reports recorded scores:
//
//	GET /healthz
//	GET /audit?url=https://example.com&persist=true
//	GET /metrics?limit=10
//	GET /metrics/prometheus
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 8000 -weights config/weights.yml
//
//	# Development mode (colored logs)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
