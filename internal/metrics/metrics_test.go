package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	t.Parallel()

	m := New(prometheus.NewRegistry())

	m.IncBidPlaced()
	m.IncBidPlaced()
	m.IncBidWithdrawn()
	m.AddWinnersCreated(3)
	m.AddWinnersCreated(0)
	m.IncPaymentTransition("auction", "approved")
	m.IncPaymentTransition("auction", "approved")
	m.IncPaymentTransition("subscription", "completed")
	m.IncGatewayFailure("complete")
	m.IncActivityDropped()
	m.ObserveRequest("GET", "/api/auction-status", 200, time.Now())

	require.Equal(t, 2.0, testutil.ToFloat64(m.BidsPlaced))
	require.Equal(t, 1.0, testutil.ToFloat64(m.BidsWithdrawn))
	require.Equal(t, 3.0, testutil.ToFloat64(m.WinnersCreated))
	require.Equal(t, 2.0, testutil.ToFloat64(m.PaymentTransitions.WithLabelValues("auction", "approved")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.PaymentTransitions.WithLabelValues("subscription", "completed")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.GatewayFailures.WithLabelValues("complete")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ActivitiesDropped))
	require.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()

	var m *Metrics
	require.NotPanics(t, func() {
		m.IncBidPlaced()
		m.IncBidWithdrawn()
		m.AddWinnersCreated(1)
		m.IncPaymentTransition("auction", "completed")
		m.IncGatewayFailure("approve")
		m.IncActivityDropped()
		m.ObserveRequest("POST", "/api/auction-bid", 201, time.Now())
	})
}
