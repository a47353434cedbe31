// Package metrics provides the Prometheus metrics of the catalog.
//
// Metrics are registered with the Prometheus default registry and exposed via
// the /metrics endpoint of the API server:
//   - catalog_entities{kind}: number of registered authors, magazines and articles
//   - catalog_mutations_total{operation,result}: create/update calls by outcome
//   - catalog_query_duration_seconds{query}: time spent computing derived queries
//   - catalog_query_cache_total{result}: derived-query cache hits and misses
//
// Example usage:
//
//	start := time.Now()
//	titles, ok := magazine.ArticleTitles()
//	metrics.RecordQuery("magazine_article_titles", time.Since(start))
package metrics
