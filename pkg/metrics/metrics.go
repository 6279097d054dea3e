package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "portal_ws_connections",
		Help: "Open websocket connections.",
	})
	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "portal_ws_rooms",
		Help: "Article rooms with at least one member.",
	})
	BroadcastFrames = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_ws_broadcast_frames_total",
		Help: "Frames fanned out to rooms (content and presence).",
	})
	RejectedUpgrades = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_ws_rejected_upgrades_total",
		Help: "Upgrade requests rejected before the handshake.",
	}, []string{"reason"})
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
