// internal/service/space/metrics.go

package space

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	refreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "unispace",
			Name:      "refreshes_total",
			Help:      "Reconciliation passes by outcome.",
		},
		[]string{"outcome"},
	)

	seedFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "unispace",
			Name:      "seed_fallbacks_total",
			Help:      "Refreshes that populated the replica from the seed dataset.",
		},
	)

	translationGapsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "unispace",
			Name:      "translation_gaps_total",
			Help:      "Remote fields that could not be resolved and were replaced with a placeholder.",
		},
	)

	discardedRefreshesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "unispace",
			Name:      "discarded_refreshes_total",
			Help:      "Refresh results discarded because a newer refresh already applied.",
		},
	)

	messagesAppendedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "unispace",
			Name:      "messages_appended_total",
			Help:      "Messages appended to replica-local logs.",
		},
	)
)

const (
	outcomeRemote        = "remote"
	outcomeFallbackSeed  = "fallback_seed"
	outcomeFallbackStale = "fallback_stale"
)
