/*
Package monitoring provides Prometheus metrics for the HTTP surface and the
audit pipeline.

Metrics implements the pipeline observer, so stage timings, collaborator
fallbacks, ranks and swallowed persistence failures are visible without the
pipeline importing Prometheus.

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics/prometheus", gin.WrapH(metrics.Handler()))

	p := pipeline.New(deps, pipeline.WithObserver(metrics))

Every Metrics owns a private registry, so tests can build as many as they like.
*/
package monitoring
