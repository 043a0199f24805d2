package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Lifecycle operations on accounts.
	AccountOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "account_operations_total",
			Help: "Successful account lifecycle operations",
		},
		[]string{"op"}, // open|freeze|block|close
	)

	// Ledger operations on balances.
	BalanceOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "balance_operations_total",
			Help: "Successful balance ledger operations",
		},
		[]string{"op"}, // create|update|deposit|withdraw|transfer
	)

	OperationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "operation_failures_total",
			Help: "Business-rule rejections by kind",
		},
		[]string{"kind"},
	)

	VersionConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "version_conflicts_total",
			Help: "Optimistic-concurrency write conflicts",
		},
	)

	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "account_events_published_total",
			Help: "Notification events handed to the dispatch pool",
		},
		[]string{"kind"},
	)

	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current notification worker queue depth",
		},
	)
)

// Handler serves the /metrics endpoint.
var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(AccountOperations)
	prometheus.MustRegister(BalanceOperations)
	prometheus.MustRegister(OperationFailures)
	prometheus.MustRegister(VersionConflicts)
	prometheus.MustRegister(EventsPublished)
	prometheus.MustRegister(WorkerQueueDepth)
}
