package goConsole

import (
	"sync/atomic"
	"time"

	"github.com/MrEthical07/goConsole/dispatch"
)

// MetricID identifies one counter or histogram.
type MetricID uint16

const (
	// MetricRequestSent counts every finished dispatcher call.
	MetricRequestSent MetricID = iota
	MetricRequestSuccess
	MetricRequestEnvelopeError
	MetricRequestUnauthorized
	MetricRequestServerError
	MetricRequestFailed
	MetricRequestAborted
	// MetricDownload counts successful downloads.
	MetricDownload
	MetricPermissionAllowed
	MetricPermissionDenied
	// MetricSessionCleared counts session teardowns, whether from logout or
	// from a 401.
	MetricSessionCleared
	// MetricRequestLatency is the only histogram.
	MetricRequestLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds lock-free counters and the request latency histogram. A nil
// or disabled Metrics ignores every write.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of all metrics.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records d in the histogram for id. Only [MetricRequestLatency]
// has one.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id != MetricRequestLatency {
		return
	}
	atomic.AddUint64(&m.histograms[id].buckets[bucketIndex(d)], 1)
}

func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// ObserveCall implements [dispatch.Observer].
func (m *Metrics) ObserveCall(outcome dispatch.Outcome, download bool, elapsed time.Duration) {
	if !m.Enabled() {
		return
	}
	m.Inc(MetricRequestSent)
	switch outcome {
	case dispatch.OutcomeSuccess:
		m.Inc(MetricRequestSuccess)
		if download {
			m.Inc(MetricDownload)
		}
	case dispatch.OutcomeEnvelopeError:
		m.Inc(MetricRequestEnvelopeError)
	case dispatch.OutcomeUnauthorized:
		m.Inc(MetricRequestUnauthorized)
	case dispatch.OutcomeServerError:
		m.Inc(MetricRequestServerError)
	case dispatch.OutcomeFailed:
		m.Inc(MetricRequestFailed)
	case dispatch.OutcomeAborted:
		m.Inc(MetricRequestAborted)
	}
	m.Observe(MetricRequestLatency, elapsed)
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		if id == MetricRequestLatency {
			continue
		}
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricRequestLatency].buckets[i])
		}
		s.Histograms[MetricRequestLatency] = buckets
	}

	return s
}

func bucketIndex(d time.Duration) int {
	ms := d.Milliseconds()

	switch {
	case ms <= 5:
		return 0
	case ms <= 10:
		return 1
	case ms <= 25:
		return 2
	case ms <= 50:
		return 3
	case ms <= 100:
		return 4
	case ms <= 250:
		return 5
	case ms <= 500:
		return 6
	default:
		return 7
	}
}
