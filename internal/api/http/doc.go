// Package http exposes the audit pipeline and the score store over HTTP.
//
// Routes:
//
//	GET /healthz              liveness and version
//	GET /audit?url=&persist=  run an audit, answer with its report
//	GET /metrics?limit=       recent scores and store summary
//	GET /metrics/prometheus   Prometheus exposition
package http
