// Package metrics declares the Prometheus collectors of p1-alert.
//
// Collectors are registered on the default registry at init time and exposed
// by the HTTP surface under /metrics.
package metrics
