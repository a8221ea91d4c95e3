package notify

import "github.com/prometheus/client_golang/prometheus"

var (
	queueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "formd",
		Subsystem: "notify",
		Name:      "queue_depth",
		Help:      "Number of owner notifications waiting for delivery.",
	})
	droppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "formd",
		Subsystem: "notify",
		Name:      "dropped_total",
		Help:      "Owner notifications dropped because the queue was full or stopped.",
	})
	deliveredTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "formd",
		Subsystem: "notify",
		Name:      "delivered_total",
		Help:      "Owner notifications delivered, by event kind.",
	}, []string{"kind"})
)

func init() {
	prometheus.MustRegister(queueDepth, droppedTotal, deliveredTotal)
}
