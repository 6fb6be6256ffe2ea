// Command leo is the LEO Core command line.
//
// Usage:
//
//	leo audit https://example.com [--output report.json] [--no-persist] [--json]
//	leo recent [--limit 10]
//	leo serve [--host 0.0.0.0] [--port 8000]
//	leo mcp [--addr :8800 | --stdio]
//
// Configuration comes from the environment (see internal/infrastructure/config);
// flags override it. Logs go to stderr so stdout carries only results.
package main
