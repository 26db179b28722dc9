package dirauth

import "sync/atomic"

// MetricID identifies one counter in the metrics snapshot.
type MetricID uint16

const (
	// MetricSessionCreated counts sessions written by Add.
	MetricSessionCreated MetricID = iota
	// MetricSessionRenewed counts successful touch-on-read gets.
	MetricSessionRenewed
	// MetricSessionMiss counts gets for absent or expired session IDs.
	MetricSessionMiss
	// MetricSessionPromoted counts registration→person promotions.
	MetricSessionPromoted
	// MetricSessionRemoved counts explicit removals.
	MetricSessionRemoved
	// MetricRegistrationStarted counts OTP codes dispatched.
	MetricRegistrationStarted
	// MetricRegistrationConfirmed counts successful confirms.
	MetricRegistrationConfirmed
	// MetricRegistrationInvalid counts confirms with a bad (phone, code).
	MetricRegistrationInvalid
	// MetricAuthenticationStarted counts auth challenges dispatched.
	MetricAuthenticationStarted
	// MetricAuthenticationVerified counts redeemed auth tokens.
	MetricAuthenticationVerified
	// MetricAuthenticationInvalid counts rejected auth tokens.
	MetricAuthenticationInvalid
	// MetricSMSFailure counts gateway dispatch failures.
	MetricSMSFailure

	metricCount
)

// MetricsSnapshot is a point-in-time copy of every counter.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

type metricsRecorder struct {
	counters [metricCount]atomic.Uint64
}

func newMetricsRecorder() *metricsRecorder {
	return &metricsRecorder{}
}

func (m *metricsRecorder) inc(id MetricID) {
	if m == nil || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

func (m *metricsRecorder) snapshot() MetricsSnapshot {
	out := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricCount)}
	if m == nil {
		return out
	}
	for id := MetricID(0); id < metricCount; id++ {
		if v := m.counters[id].Load(); v > 0 {
			out.Counters[id] = v
		}
	}
	return out
}
