// Package health provides liveness and readiness probes for the validation
// service.
//
// Liveness (/health) only confirms the process is serving. Readiness (/ready)
// runs every registered check concurrently, each under its own timeout, and
// reports 503 if any check fails:
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("rules", health.RulesCheck(src))
//	checker.RegisterCheck("history", store.Ping)
//	health.Mount(mux, checker, version.Info())
package health
