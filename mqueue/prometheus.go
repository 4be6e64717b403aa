package mqueue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	promNamespace = "mqueue"

	subsystemConsumer = "consumer"

	queueLabel = "queue_name"
)

var (
	consumerLabels = []string{
		queueLabel,
	}

	consumerDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: promNamespace,
		Subsystem: subsystemConsumer,
		Name:      "deliveries_total",
		Help:      "The number of messages delivered to the consumer callback",
	}, consumerLabels)

	consumerReceiveErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: promNamespace,
		Subsystem: subsystemConsumer,
		Name:      "receive_errors_total",
		Help:      "The number of consumer receives that failed with something other than a poll timeout",
	}, consumerLabels)

	consumerCallbackTimer = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: promNamespace,
		Subsystem: subsystemConsumer,
		Name:      "callback_duration_seconds",
		Help:      "The time the consumer callback took for a single message",
		Buckets:   prometheus.ExponentialBucketsRange(1e-4, 10, 10), // 100us - 10s
	}, consumerLabels)
)
