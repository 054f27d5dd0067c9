package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the connection engine.
type Metrics struct {
	// SessionsActive tracks live sessions per hotel.
	SessionsActive *prometheus.GaugeVec
	// FramesDecoded counts frames successfully dispatched, per hotel.
	FramesDecoded *prometheus.CounterVec
	// DecodeFailures counts frames dropped because of parse errors.
	DecodeFailures *prometheus.CounterVec
	// SendFailures counts non-fatal socket write errors.
	SendFailures *prometheus.CounterVec
	// EventsDropped counts bus events lost to slow subscribers.
	EventsDropped *prometheus.CounterVec
	// ConnectFailures counts failed connection attempts, by reason.
	ConnectFailures *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors on reg. Pass
// prometheus.DefaultRegisterer outside of tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SessionsActive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "botty",
			Name:      "sessions_active",
			Help:      "Number of live bot sessions.",
		}, []string{"hotel"}),
		FramesDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "botty",
			Name:      "frames_decoded_total",
			Help:      "Frames decoded and dispatched.",
		}, []string{"hotel"}),
		DecodeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "botty",
			Name:      "decode_failures_total",
			Help:      "Frames dropped because they could not be parsed.",
		}, []string{"hotel"}),
		SendFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "botty",
			Name:      "send_failures_total",
			Help:      "Non-fatal socket write errors.",
		}, []string{"hotel"}),
		EventsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "botty",
			Name:      "events_dropped_total",
			Help:      "Controller events dropped by slow subscribers.",
		}, []string{"hotel"}),
		ConnectFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "botty",
			Name:      "connect_failures_total",
			Help:      "Failed websocket connection attempts.",
		}, []string{"hotel", "reason"}),
	}

	reg.MustRegister(
		m.SessionsActive,
		m.FramesDecoded,
		m.DecodeFailures,
		m.SendFailures,
		m.EventsDropped,
		m.ConnectFailures,
	)
	return m
}

// NopMetrics returns collectors that are not registered anywhere, for tests.
func NopMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
