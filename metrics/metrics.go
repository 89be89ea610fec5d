package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "social_request_duration_seconds",
			Help:    "Duration of HTTP and gRPC requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"transport", "route", "status"},
	)

	FollowsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "social_follows_created_total",
		Help: "Follow edges actually created (duplicates excluded).",
	})

	FavoritesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "social_favorites_created_total",
		Help: "Favorites actually created (duplicates excluded).",
	})

	TweetsPosted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "social_tweets_posted_total",
		Help: "Tweets and replies successfully stored.",
	})

	RegisterSuccess = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "social_register_success_total",
		Help: "Successful signups.",
	})

	LoginFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "social_login_failure_total",
		Help: "Failed login attempts.",
	}, []string{"reason"})
)

func init() {
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(FollowsCreated)
	prometheus.MustRegister(FavoritesCreated)
	prometheus.MustRegister(TweetsPosted)
	prometheus.MustRegister(RegisterSuccess)
	prometheus.MustRegister(LoginFailure)
}

func ObserveRequest(transport, route, status string, d time.Duration) {
	RequestDuration.WithLabelValues(transport, route, status).Observe(d.Seconds())
}
