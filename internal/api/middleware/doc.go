// Package middleware provides the gin middleware of the LEO API.
//
// Middleware stack:
//   - RequestID: X-Request-ID propagation, UUID when absent
//   - Logger: one zap line per request
//   - CORS: cross-origin access with configurable origins
//   - RateLimit: per-IP token bucket, idle clients evicted
//   - GlobalRateLimit: one bucket for all clients
//
// Example Usage:
//
//	router.Use(middleware.RequestID(), middleware.Logger(logger))
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
