package board

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Denial reasons recorded on the authorization counter.
const (
	reasonUnauthenticated = "unauthenticated"
	reasonNotOwner        = "not_owner"
)

// Metrics holds the board's Prometheus collectors.
type Metrics struct {
	// PostsCreated counts successfully written posts.
	PostsCreated prometheus.Counter
	// AuthorizationDenied counts rejected mutations by operation and reason.
	AuthorizationDenied *prometheus.CounterVec
}

// NewMetrics creates the board collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PostsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "board_posts_created_total",
			Help: "Total number of board posts created",
		}),
		AuthorizationDenied: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "board_authorization_denied_total",
			Help: "Board mutations rejected by the ownership check",
		}, []string{"operation", "reason"}),
	}
}

func (m *Metrics) incPostsCreated() {
	if m == nil {
		return
	}
	m.PostsCreated.Inc()
}

func (m *Metrics) incDenied(operation, reason string) {
	if m == nil {
		return
	}
	m.AuthorizationDenied.WithLabelValues(operation, reason).Inc()
}
