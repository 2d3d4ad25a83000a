package internaldefs

import (
	goConsole "github.com/MrEthical07/goConsole"
)

// CounterDef names one exported counter.
type CounterDef struct {
	ID   goConsole.MetricID
	Name string
	Help string
}

// HistogramDef names one exported histogram.
type HistogramDef struct {
	ID   goConsole.MetricID
	Name string
	Help string
}

// NotifyDroppedName is the counter for notices lost to a full async buffer.
const NotifyDroppedName = "goconsole_notify_dropped_total"

var CounterDefs = []CounterDef{
	{ID: goConsole.MetricRequestSent, Name: "goconsole_request_total", Help: "Finished API calls."},
	{ID: goConsole.MetricRequestSuccess, Name: "goconsole_request_success_total", Help: "API calls that succeeded."},
	{ID: goConsole.MetricRequestEnvelopeError, Name: "goconsole_request_envelope_error_total", Help: "API calls rejected by the envelope success flag."},
	{ID: goConsole.MetricRequestUnauthorized, Name: "goconsole_request_unauthorized_total", Help: "API calls answered with 401."},
	{ID: goConsole.MetricRequestServerError, Name: "goconsole_request_server_error_total", Help: "API calls answered with a 5xx status."},
	{ID: goConsole.MetricRequestFailed, Name: "goconsole_request_failed_total", Help: "API calls that failed in transport or with a 4xx status."},
	{ID: goConsole.MetricRequestAborted, Name: "goconsole_request_aborted_total", Help: "API calls aborted by cancellation."},
	{ID: goConsole.MetricDownload, Name: "goconsole_download_total", Help: "Completed file downloads."},
	{ID: goConsole.MetricPermissionAllowed, Name: "goconsole_permission_allowed_total", Help: "Permission checks that passed."},
	{ID: goConsole.MetricPermissionDenied, Name: "goconsole_permission_denied_total", Help: "Permission checks that failed."},
	{ID: goConsole.MetricSessionCleared, Name: "goconsole_session_cleared_total", Help: "Session teardowns."},
}

var HistogramDefs = []HistogramDef{
	{ID: goConsole.MetricRequestLatency, Name: "goconsole_request_latency_seconds", Help: "API call latency histogram."},
}

var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix renders HistogramBounds as instrument name suffixes.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets copies raw into a fixed array, zero-filling missing
// buckets.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
