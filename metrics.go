package authgate

import (
	"sync/atomic"
	"time"
)

// MetricID defines a public type used by authgate APIs.
//
// MetricID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricID uint16

const (
	// MetricSignInSuccess is an exported constant or variable used by the auth gate client.
	MetricSignInSuccess MetricID = iota
	// MetricSignInFailure is an exported constant or variable used by the auth gate client.
	MetricSignInFailure
	// MetricSignUpSuccess is an exported constant or variable used by the auth gate client.
	MetricSignUpSuccess
	// MetricSignUpFailure is an exported constant or variable used by the auth gate client.
	MetricSignUpFailure
	// MetricResetRequested is an exported constant or variable used by the auth gate client.
	MetricResetRequested
	// MetricRecoveryConfirmSuccess is an exported constant or variable used by the auth gate client.
	MetricRecoveryConfirmSuccess
	// MetricRecoveryConfirmFailure is an exported constant or variable used by the auth gate client.
	MetricRecoveryConfirmFailure
	// MetricRecoveryValidationRejected is an exported constant or variable used by the auth gate client.
	MetricRecoveryValidationRejected
	// MetricRoleCheckGranted is an exported constant or variable used by the auth gate client.
	MetricRoleCheckGranted
	// MetricRoleCheckDenied is an exported constant or variable used by the auth gate client.
	MetricRoleCheckDenied
	// MetricRoleCheckStaleDiscarded is an exported constant or variable used by the auth gate client.
	MetricRoleCheckStaleDiscarded
	// MetricSessionReplaced is an exported constant or variable used by the auth gate client.
	MetricSessionReplaced
	// MetricSessionCleared is an exported constant or variable used by the auth gate client.
	MetricSessionCleared
	// MetricSignOut is an exported constant or variable used by the auth gate client.
	MetricSignOut
	// MetricRoleCheckLatency is the single histogram metric (role checks are
	// the only remote authority call on the render path).
	MetricRoleCheckLatency

	metricIDCount
)

const histBucketCount = 8

type paddedCounter struct {
	value uint64
	_     [56]byte
}

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

// Metrics defines a public type used by authgate APIs.
//
// Metrics instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot defines a public type used by authgate APIs.
//
// MetricsSnapshot instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics describes the newmetrics operation and its observable behavior.
//
// NewMetrics does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled describes the enabled operation and its observable behavior.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc describes the inc operation and its observable behavior.
//
// Inc does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe describes the observe operation and its observable behavior.
//
// Observe does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enableLatency || id != MetricRoleCheckLatency {
		return
	}

	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

// Value describes the value operation and its observable behavior.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot describes the snapshot operation and its observable behavior.
//
// Snapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
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
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricRoleCheckLatency].buckets[i])
		}
		s.Histograms[MetricRoleCheckLatency] = buckets
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
