// Package server provides HTTP server setup for the LEO API.
//
// The router stacks recovery, request ids, access logging, Prometheus
// instrumentation, CORS and per-IP rate limiting in front of the API
// handlers, and the whole tree is wrapped in gzip compression.
//
// Server Lifecycle:
//  1. Load configuration from environment/flags
//  2. Wire the pipeline and store (package app)
//  3. Build the router
//  4. Serve until a signal, then Shutdown with a deadline
//
// Example Usage:
//
//	a := app.New(ctx, cfg, logger)
//	srv := server.NewServer(cfg, a)
//	go srv.Run()
//	...
//	srv.Shutdown(ctx)
package server
