package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	NameDispatchRuns          = "dispatch_runs_total"
	NameDispatchNotifications = "dispatch_notifications_total"
	NameDispatchCandidates    = "dispatch_candidates"
	LabelOutcome              = "outcome"
)

const (
	OutcomeEmpty    = "empty"
	OutcomeNotified = "notified"
	OutcomeLocked   = "locked"
	OutcomeFailed   = "failed"
)

const (
	NotificationDelivered      = "delivered"
	NotificationDeliveryFailed = "delivery_failed"
	NotificationLedgerFailed   = "ledger_failed"
	NotificationResolveFailed  = "resolve_failed"
)

var DispatchRuns = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameDispatchRuns,
		Help:      "Total deadline dispatcher invocations, by outcome",
		Namespace: Namespace,
	},
	[]string{LabelOutcome},
)

var DispatchNotifications = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameDispatchNotifications,
		Help:      "Total processed deadline notifications, by status",
		Namespace: Namespace,
	},
	[]string{LabelStatus},
)

var DispatchCandidates = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name:      NameDispatchCandidates,
		Help:      "Number of candidates selected by the last dispatcher invocation",
		Namespace: Namespace,
	},
)
