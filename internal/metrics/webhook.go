package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	NameWebhookRequestDuration = "webhook_request_duration_seconds"
)

var WebhookRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:      NameWebhookRequestDuration,
		Help:      "Duration of the webhook delivery requests, by response status",
		Namespace: Namespace,
		Buckets:   prometheus.DefBuckets,
	},
	[]string{LabelStatus},
)
