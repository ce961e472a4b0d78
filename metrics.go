package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "neonchat_connections_active",
		Help: "Number of live WebSocket connections.",
	})

	metricBroadcasts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "neonchat_broadcasts_total",
		Help: "Number of room broadcasts initiated.",
	})

	metricAIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "neonchat_ai_requests_total",
		Help: "Completion API calls by result.",
	}, []string{"result"})
)
