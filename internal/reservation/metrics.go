package reservation

import "github.com/prometheus/client_golang/prometheus"

// reservationsTotal counts conversations that reached the confirmation
// step, by how they ended.
var reservationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "formd",
	Name:      "reservations_total",
	Help:      "Reservation confirmations by result.",
}, []string{"result"})

func init() {
	prometheus.MustRegister(reservationsTotal)
}
