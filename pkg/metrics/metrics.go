package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	AuthAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "neoflix", Name: "auth_attempts_total", Help: "Number of register/login attempts by operation and outcome."},
		[]string{"op", "outcome"},
	)
	FavoriteOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "neoflix", Name: "favorite_ops_total", Help: "Number of favorite list/add/remove operations by outcome."},
		[]string{"op", "outcome"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(AuthAttempts)
	reg.MustRegister(FavoriteOps)
}
