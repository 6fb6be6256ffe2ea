// Package app wires configuration into a ready-to-use audit pipeline.
//
// New opens the score store, builds the fetch and AI clients, creates the
// Prometheus metrics and assembles the pipeline with them. The HTTP server,
// the MCP server and the CLI all start from an App.
//
// Example Usage:
//
//	a := app.New(ctx, config.LoadOrDefault(), logger)
//	defer a.Close()
//	rec, err := a.Pipeline.RunAudit(ctx, "https://example.com")
package app
