package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rxtech-lab/argo-rotation/internal/types"
)

// Recorder counts strategy order activity. A nil *Recorder is valid and records nothing.
type Recorder struct {
	OrdersSubmitted *prometheus.CounterVec
	OrdersTerminal  *prometheus.CounterVec
	RoundTrips      *prometheus.CounterVec
	RealizedPnL     *prometheus.GaugeVec
}

// NewRecorder creates the collectors and registers them with registerer.
func NewRecorder(registerer prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		OrdersSubmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "strategy_orders_submitted_total", Help: "Order intents submitted by the strategy"},
			[]string{"symbol", "side"},
		),
		OrdersTerminal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "strategy_orders_terminal_total", Help: "Orders that reached a terminal status"},
			[]string{"symbol", "status"},
		),
		RoundTrips: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "strategy_round_trips_total", Help: "Closed round-trips by outcome"},
			[]string{"symbol", "outcome"},
		),
		RealizedPnL: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: "strategy_realized_net_pnl", Help: "Cumulative net pnl of closed round-trips"},
			[]string{"symbol"},
		),
	}

	for _, c := range []prometheus.Collector{r.OrdersSubmitted, r.OrdersTerminal, r.RoundTrips, r.RealizedPnL} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func (r *Recorder) OrderSubmitted(symbol string, side types.PurchaseType) {
	if r == nil {
		return
	}

	r.OrdersSubmitted.WithLabelValues(symbol, string(side)).Inc()
}

func (r *Recorder) OrderTerminal(symbol string, status types.OrderStatus) {
	if r == nil {
		return
	}

	r.OrdersTerminal.WithLabelValues(symbol, string(status)).Inc()
}

func (r *Recorder) RoundTripClosed(trip types.RoundTrip) {
	if r == nil {
		return
	}

	outcome := "loss"
	if trip.IsWin() {
		outcome = "win"
	}

	r.RoundTrips.WithLabelValues(trip.Symbol, outcome).Inc()
	r.RealizedPnL.WithLabelValues(trip.Symbol).Add(trip.NetPnL)
}

// Serve exposes gatherer on addr under /metrics. The server runs until shut down by the caller.
func Serve(addr string, gatherer prometheus.Gatherer) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() { _ = srv.ListenAndServe() }()

	return srv
}
