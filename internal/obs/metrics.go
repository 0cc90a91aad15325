// Package obs exposes process metrics on a Prometheus endpoint.
package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ticks_total", Help: "Price ticks received from the bridge"},
		[]string{"symbol"},
	)
	TradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "trades_total", Help: "Trade commands emitted"},
		[]string{"symbol", "action"},
	)
	SkipsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "skips_total", Help: "Checkpoint-only transitions recorded"},
		[]string{"symbol"},
	)
	DroppedTicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "dropped_ticks_total", Help: "Ticks dropped before evaluation"},
		[]string{"reason"},
	)
	FrameErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "frame_errors_total", Help: "Inbound frames that failed to parse"},
	)
	ReconnectsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "bridge_reconnects_total", Help: "Bridge connections established"},
	)
	MigratedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "migrated_events_total", Help: "Events migrated to permanent storage"},
	)
)

func init() {
	prometheus.MustRegister(
		TicksTotal, TradesTotal, SkipsTotal, DroppedTicksTotal,
		FrameErrorsTotal, ReconnectsTotal, MigratedTotal,
	)
}

// Serve starts the metrics listener in the background.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
