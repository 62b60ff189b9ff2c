package observability

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	BeliefAdded   = "added"
	BeliefRemoved = "removed"
)

var (
	registerOnce sync.Once

	framesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mapcctl",
			Subsystem: "session",
			Name:      "frames_received_total",
			Help:      "Frames received from the simulation server.",
		},
		[]string{"agent"},
	)
	malformedFrames = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mapcctl",
			Subsystem: "session",
			Name:      "malformed_frames_total",
			Help:      "Frames dropped because they were not well-formed XML.",
		},
		[]string{"agent"},
	)
	messages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mapcctl",
			Subsystem: "agent",
			Name:      "messages_total",
			Help:      "Messages dispatched by type.",
		},
		[]string{"agent", "type"},
	)
	beliefChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mapcctl",
			Subsystem: "agent",
			Name:      "belief_changes_total",
			Help:      "Belief additions and removals emitted by reconciliation.",
		},
		[]string{"agent", "op"},
	)
	actionsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mapcctl",
			Subsystem: "agent",
			Name:      "actions_sent_total",
			Help:      "Actions sent to the simulation server by type.",
		},
		[]string{"agent", "type"},
	)
	warnings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mapcctl",
			Subsystem: "agent",
			Name:      "warnings_total",
			Help:      "Non-fatal protocol warnings by kind.",
		},
		[]string{"agent", "kind"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mapcctl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"server", "method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			framesReceived, malformedFrames, messages, beliefChanges, actionsSent, warnings,
			httpRequests,
		)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	RegisterMetrics()
	return promhttp.Handler()
}

func RecordFrame(agent string) {
	RegisterMetrics()
	framesReceived.WithLabelValues(agent).Inc()
}

func RecordMalformedFrame(agent string) {
	RegisterMetrics()
	malformedFrames.WithLabelValues(agent).Inc()
}

func RecordMessage(agent, msgType string) {
	RegisterMetrics()
	messages.WithLabelValues(agent, msgType).Inc()
}

func RecordBeliefChange(agent, op string) {
	RegisterMetrics()
	beliefChanges.WithLabelValues(agent, op).Inc()
}

func RecordAction(agent, actionType string) {
	RegisterMetrics()
	actionsSent.WithLabelValues(agent, actionType).Inc()
}

func RecordWarning(agent, kind string) {
	RegisterMetrics()
	warnings.WithLabelValues(agent, kind).Inc()
}

func RecordHTTPRequest(server, method, path string, status int) {
	RegisterMetrics()
	httpRequests.WithLabelValues(server, method, path, strconv.Itoa(status)).Inc()
}
