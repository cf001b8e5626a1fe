// Package prometheus renders authgate metrics in Prometheus text
// exposition format.
//
// [NewPrometheusExporter] accepts an [authgate.Controller] and exposes an
// [http.Handler] that renders all authgate counters and the role-check
// latency histogram. Counter names are prefixed authgate_*_total; the
// single histogram is authgate_role_check_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry; callers mount the Handler.
//   - Mutate controller state.
package prometheus
