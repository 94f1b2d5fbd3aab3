package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.Polls.WithLabelValues(OutcomeRendered).Inc()
	m.Polls.WithLabelValues(OutcomeErrored).Add(2)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Polls.WithLabelValues(OutcomeRendered)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Polls.WithLabelValues(OutcomeErrored)))

	m.PollLatency.Observe(0.2)
	m.Requests.WithLabelValues("/", "200").Inc()
	m.Latency.WithLabelValues("/").Observe(0.01)
	m.RateLimited.Inc()
	m.StreamConns.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StreamConns))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 6)
}

func TestNewDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.Error(t, err)
}
