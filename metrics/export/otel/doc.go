// Package otel provides OpenTelemetry metric exporter bindings for authgate
// counters and the role-check latency histogram.
//
// [NewOTelExporter] registers Int64ObservableCounter instruments for each
// authgate metric and Int64ObservableGauge per histogram bucket. A single
// callback reads [authgate.Controller.MetricsSnapshot] on each collection
// cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider; callers supply the Meter.
//   - Mutate controller state.
package otel
