// Package metrics defines Prometheus metrics for the notifier, covering
// portal requests, summary task runs, and mail delivery.
package metrics
