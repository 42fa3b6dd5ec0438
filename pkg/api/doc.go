// Package api is the thin HTTP trigger surface: a liveness endpoint, the
// Prometheus handler, and the scheduler-facing route that kicks off one
// summary task run.
package api
