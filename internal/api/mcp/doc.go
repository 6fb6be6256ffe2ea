// Package mcp serves the LEO audit tools over the Model Context Protocol.
//
// Tools:
//   - leo_audit {url, persist?}: runs an audit and returns its report
//   - leo_recent {limit?}: returns the most recent persisted scores
//
// Results are JSON text content. Failures, including an invalid URL, are
// reported as tool errors rather than protocol errors.
package mcp
