// Package server provides the HTTP validation service.
//
// Routes:
//
//	POST /v1/validate      validate the record in the request body
//	GET  /v1/reports       list stored reports (history enabled)
//	GET  /v1/reports/{id}  fetch one stored report (history enabled)
//	GET  /health           liveness
//	GET  /ready            readiness (rules loadable, history reachable)
//	GET  /version          build information
//	GET  /metrics          Prometheus metrics (metrics enabled)
//
// Rules are reloaded from the configured path on every validation, so
// editing the rules file takes effect without a restart.
package server
