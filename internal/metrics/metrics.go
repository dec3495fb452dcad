package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// EventsTotal counts processed events by type and outcome.
	EventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slateboard_events_total",
		Help: "Number of whiteboard events processed, by type and outcome.",
	}, []string{"type", "outcome"})

	// ActiveRooms tracks the number of rooms currently held in the registry.
	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slateboard_active_rooms",
		Help: "Number of active rooms.",
	})

	// ConnectedClients tracks the number of open websocket connections.
	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slateboard_connected_clients",
		Help: "Number of connected websocket clients.",
	})

	// SweptRoomsTotal counts rooms reclaimed by the inactivity sweeper.
	SweptRoomsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slateboard_swept_rooms_total",
		Help: "Number of rooms evicted for inactivity.",
	})
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
