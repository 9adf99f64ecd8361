package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the auction service counters. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	BidsPlaced         prometheus.Counter
	BidsWithdrawn      prometheus.Counter
	WinnersCreated     prometheus.Counter
	PaymentTransitions *prometheus.CounterVec
	GatewayFailures    *prometheus.CounterVec
	ActivitiesDropped  prometheus.Counter
	RequestDuration    *prometheus.HistogramVec
}

// New registers all metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		BidsPlaced: f.NewCounter(prometheus.CounterOpts{
			Name: "bids_placed_total",
			Help: "Total number of accepted bids",
		}),
		BidsWithdrawn: f.NewCounter(prometheus.CounterOpts{
			Name: "bids_withdrawn_total",
			Help: "Total number of withdrawn bids",
		}),
		WinnersCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "auction_winners_created_total",
			Help: "Winner records created by auction close",
		}),
		PaymentTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "payment_transitions_total",
			Help: "Payment state transitions by payment kind and target state",
		}, []string{"kind", "to"}),
		GatewayFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_failures_total",
			Help: "Failed payment gateway calls by operation",
		}, []string{"op"}),
		ActivitiesDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "activities_dropped_total",
			Help: "Activity log entries dropped because the queue was full or the store failed",
		}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) IncBidPlaced() {
	if m == nil {
		return
	}
	m.BidsPlaced.Inc()
}

func (m *Metrics) IncBidWithdrawn() {
	if m == nil {
		return
	}
	m.BidsWithdrawn.Inc()
}

// AddWinnersCreated counts winner records inserted by one close call.
func (m *Metrics) AddWinnersCreated(n int) {
	if m == nil || n == 0 {
		return
	}
	m.WinnersCreated.Add(float64(n))
}

// IncPaymentTransition records a payment moving to state "to".
func (m *Metrics) IncPaymentTransition(kind, to string) {
	if m == nil {
		return
	}
	m.PaymentTransitions.WithLabelValues(kind, to).Inc()
}

func (m *Metrics) IncGatewayFailure(op string) {
	if m == nil {
		return
	}
	m.GatewayFailures.WithLabelValues(op).Inc()
}

func (m *Metrics) IncActivityDropped() {
	if m == nil {
		return
	}
	m.ActivitiesDropped.Inc()
}

// ObserveRequest records an HTTP request duration.
// Call with time.Now() taken at the start of the request.
func (m *Metrics) ObserveRequest(method, route string, status int, start time.Time) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
}
