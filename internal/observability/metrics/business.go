package metrics

import (
	"time"
)

// RecordMutation records the outcome of a catalog write.
// Result should be one of the Result* constants.
func RecordMutation(operation, result string) {
	MutationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordQuery records the time taken to compute a derived query.
func RecordQuery(query string, duration time.Duration) {
	QueryDuration.WithLabelValues(query).Observe(duration.Seconds())
}

// RecordCacheLookup records a derived-query cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	QueryCacheTotal.WithLabelValues(result).Inc()
}

// UpdateEntityCounts sets the entity gauges to the current registry counts.
func UpdateEntityCounts(authors, magazines, articles int) {
	EntitiesTotal.WithLabelValues("author").Set(float64(authors))
	EntitiesTotal.WithLabelValues("magazine").Set(float64(magazines))
	EntitiesTotal.WithLabelValues("article").Set(float64(articles))
}
