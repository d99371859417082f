package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RequestCreated()
	m.RequestCreated()
	m.StatusTransition("accepted")
	m.MessageSent()
	m.GateDenied(DenyNotAccepted)
	m.GateDenied(DenyNotAccepted)
	m.GateDenied(DenyNotParticipant)
	m.CacheLookup(true)
	m.CacheLookup(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.statusTransitions.WithLabelValues("accepted")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.statusTransitions.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.messagesSent))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.gateDenials.WithLabelValues(DenyNotAccepted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.gateDenials.WithLabelValues(DenyNotParticipant)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
}

func TestMetrics_HTTPHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveHTTP("GET", "/api/v1/mentors", 200, 20*time.Millisecond)
	m.ObserveHTTP("GET", "", 404, time.Millisecond)

	count, err := testutil.GatherAndCount(reg, "mentorlink_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RequestCreated()
		m.StatusTransition("accepted")
		m.MessageSent()
		m.GateDenied(DenyNotParticipant)
		m.CacheLookup(true)
		m.ObserveHTTP("GET", "/", 200, time.Millisecond)
	})
}
