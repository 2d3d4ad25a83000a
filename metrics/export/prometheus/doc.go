// Package prometheus renders goConsole metrics in the Prometheus text
// exposition format.
//
// [NewPrometheusExporter] reads a [goConsole.Client] and exposes an
// [http.Handler]. Counters are named goconsole_*_total and the single
// histogram is goconsole_request_latency_seconds.
//
// Nothing is registered in a global registry; callers mount the Handler.
package prometheus
