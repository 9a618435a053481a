package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersPlaced counts successfully placed orders by payment method.
	OrdersPlaced = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shop",
		Name:      "orders_placed_total",
		Help:      "Orders placed successfully, labelled by payment method.",
	}, []string{"method"})

	// PlacementFailures counts aborted placements by failure reason.
	PlacementFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shop",
		Name:      "order_placement_failures_total",
		Help:      "Order placements aborted before an order was created.",
	}, []string{"reason"})

	// SignatureRejections counts gateway callbacks with a bad signature.
	SignatureRejections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shop",
		Name:      "payment_signature_rejections_total",
		Help:      "Payment verifications rejected for an invalid signature.",
	})
)
