package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProductsAdded is a Prometheus counter for tracking the total number of products put under monitoring.
	ProductsAdded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_added_total",
		Help: "The total number of products added to monitoring",
	})

	// ProductsRemoved is a Prometheus counter for tracking the total number of products removed from monitoring.
	ProductsRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_removed_total",
		Help: "The total number of products removed from monitoring",
	})

	// ChatMessages counts operator messages by the flow they were routed to.
	ChatMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_messages_total",
		Help: "The total number of chat messages handled by flow",
	}, []string{"flow"})
)
