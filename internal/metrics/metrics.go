package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CheckoutAttemptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_attempts_total",
		Help: "Total number of checkout attempts",
	})

	CheckoutFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failed_total",
		Help: "Total number of failed checkouts",
	}, []string{"reason"})

	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created",
	})

	PaymentSessionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_sessions_total",
		Help: "Total number of payment sessions created at the gateway",
	})

	WebhookNotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_notifications_total",
		Help: "Total number of payment webhook notifications processed",
	}, []string{"transaction_status", "result"})
)
