// Package health serves liveness and readiness probes.
//
// Liveness always answers OK while the process is up. Readiness runs a set of
// named checks concurrently under a shared timeout and answers 503 when any fails:
//
//	checks := health.Checks{"redis": redis.Healthcheck(client)}
//	mux.Handle("GET /health/ready", health.ReadinessHandler(checks, health.WithTimeout(2*time.Second)))
//
// Both handlers answer plain text by default and JSON when the client sends
// Accept: application/json or ?format=json.
package health
