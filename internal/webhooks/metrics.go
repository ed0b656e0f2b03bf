package webhooks

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// statusTransportError labels requests that never produced a response.
const statusTransportError = "error"

// Metrics records outbound webhook calls. A nil *Metrics records nothing.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	payloadSize     *prometheus.HistogramVec
}

// NewMetrics registers the client collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blogwebhook_requests_total",
				Help: "Total number of webhook requests by method and response status",
			},
			[]string{"method", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "blogwebhook_request_duration_seconds",
				Help:    "Webhook round trip latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method"},
		),
		payloadSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "blogwebhook_payload_size_bytes",
				Help:    "Signed request body size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method"},
		),
	}
}

func (m *Metrics) record(method string, status int, duration time.Duration, bodySize int) {
	if m == nil {
		return
	}
	statusStr := statusTransportError
	if status > 0 {
		statusStr = strconv.Itoa(status)
	}
	m.requestsTotal.WithLabelValues(method, statusStr).Inc()
	m.requestDuration.WithLabelValues(method).Observe(duration.Seconds())
	m.payloadSize.WithLabelValues(method).Observe(float64(bodySize))
}
