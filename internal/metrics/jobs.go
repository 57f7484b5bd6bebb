package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	NameJobs    = "jobs"
	LabelStatus = "status"
)

var Jobs = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name:      NameJobs,
		Help:      "Current background jobs",
		Namespace: Namespace,
	},
	[]string{LabelStatus},
)
