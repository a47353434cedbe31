package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Mutation results used as the "result" label of MutationsTotal.
const (
	ResultSuccess         = "success"
	ResultValidationError = "validation_error"
	ResultTypeMismatch    = "type_mismatch"
	ResultImmutableField  = "immutable_field"
	ResultNotFound        = "not_found"
	ResultError           = "error"
)

var (
	// EntitiesTotal tracks the number of registered entities by kind
	EntitiesTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_entities",
			Help: "Number of registered catalog entities",
		},
		[]string{"kind"},
	)

	// MutationsTotal counts catalog write operations by operation and result
	MutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_mutations_total",
			Help: "Total number of catalog mutations",
		},
		[]string{"operation", "result"},
	)

	// QueryDuration measures how long derived queries take to compute.
	// Buckets start at 1µs: queries are in-memory traversals.
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_query_duration_seconds",
			Help:    "Time taken to compute a derived catalog query",
			Buckets: prometheus.ExponentialBuckets(0.000001, 4, 10),
		},
		[]string{"query"},
	)

	// QueryCacheTotal counts derived-query cache lookups by result (hit, miss)
	QueryCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_query_cache_total",
			Help: "Total number of derived-query cache lookups",
		},
		[]string{"result"},
	)
)
