// Package otel binds goConsole metrics to OpenTelemetry instruments.
//
// [NewOTelExporter] registers one Int64ObservableCounter per counter and one
// Int64ObservableGauge per histogram bucket. A single callback reads
// [goConsole.Client.MetricsSnapshot] on each collection. Callers own the
// MeterProvider.
package otel
