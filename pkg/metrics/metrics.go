// Package metrics holds the Prometheus collectors of the client sync path and the
// reference backend. Every method is safe on a nil receiver so components can run
// without metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "recipe_decider"

// Result labels.
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultInvalid = "invalid"
)

// Snapshot outcome labels.
const (
	OutcomeApplied = "applied"
	OutcomeStale   = "stale"
	OutcomeFailed  = "failed"
)

// Sync instruments the client-side synchronization controller.
type Sync struct {
	Operations *prometheus.CounterVec
	Snapshots  *prometheus.CounterVec
	PushEvents *prometheus.CounterVec
}

// NewSync creates and registers the client collectors on reg.
func NewSync(reg prometheus.Registerer) *Sync {
	m := &Sync{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sync",
				Name:      "operations_total",
				Help:      "User intents forwarded to the backend, by operation and result",
			},
			[]string{"op", "result"},
		),
		Snapshots: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sync",
				Name:      "snapshots_total",
				Help:      "Authoritative list reads, by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		PushEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sync",
				Name:      "push_events_total",
				Help:      "Push-channel messages, by kind (dropped for undecodable ones)",
			},
			[]string{"kind"},
		),
	}
	reg.MustRegister(m.Operations, m.Snapshots, m.PushEvents)
	return m
}

// ObserveOperation counts an intent outcome.
func (m *Sync) ObserveOperation(op, result string) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(op, result).Inc()
}

// ObserveSnapshot counts an authoritative read outcome.
func (m *Sync) ObserveSnapshot(source, outcome string) {
	if m == nil {
		return
	}
	m.Snapshots.WithLabelValues(source, outcome).Inc()
}

// ObservePush counts a push-channel message.
func (m *Sync) ObservePush(kind string) {
	if m == nil {
		return
	}
	m.PushEvents.WithLabelValues(kind).Inc()
}

// Server instruments the reference backend.
type Server struct {
	Requests    *prometheus.CounterVec
	Broadcasts  *prometheus.CounterVec
	Subscribers prometheus.Gauge
}

// NewServer creates and registers the backend collectors on reg.
func NewServer(reg prometheus.Registerer) *Server {
	m := &Server{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "server",
				Name:      "requests_total",
				Help:      "Requests handled by the recipe service, by operation and result",
			},
			[]string{"op", "result"},
		),
		Broadcasts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "server",
				Name:      "broadcasts_total",
				Help:      "Push events fanned out to subscribers, by kind",
			},
			[]string{"kind"},
		),
		Subscribers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "server",
				Name:      "push_subscribers",
				Help:      "Currently connected push-channel clients",
			},
		),
	}
	reg.MustRegister(m.Requests, m.Broadcasts, m.Subscribers)
	return m
}

// ObserveRequest counts a handled request.
func (m *Server) ObserveRequest(op, result string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(op, result).Inc()
}

// ObserveBroadcast counts a fanned-out event.
func (m *Server) ObserveBroadcast(kind string) {
	if m == nil {
		return
	}
	m.Broadcasts.WithLabelValues(kind).Inc()
}

// SubscriberJoined tracks a new push-channel connection.
func (m *Server) SubscriberJoined() {
	if m == nil {
		return
	}
	m.Subscribers.Inc()
}

// SubscriberLeft tracks a closed push-channel connection.
func (m *Server) SubscriberLeft() {
	if m == nil {
		return
	}
	m.Subscribers.Dec()
}
