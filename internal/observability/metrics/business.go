package metrics

import "time"

// RecordFeedFetch records a feed fetch attempt and its duration.
// Status should be either "success" or "failure".
func RecordFeedFetch(source string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	FeedFetchesTotal.WithLabelValues(source, status).Inc()
	FeedFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordCandidates records the number of candidate articles extracted
// from a source's feed after recency filtering.
func RecordCandidates(source string, count int) {
	CandidatesTotal.WithLabelValues(source).Add(float64(count))
}

// RecordStaleItem records a feed item discarded by the recency window.
func RecordStaleItem() {
	StaleItemsTotal.Inc()
}

// RecordArticleInserted records a new article written to the store.
func RecordArticleInserted(category string) {
	ArticlesInsertedTotal.WithLabelValues(category).Inc()
}

// RecordArticleDuplicated records a candidate skipped as a duplicate.
func RecordArticleDuplicated() {
	ArticlesDuplicatedTotal.Inc()
}

// RecordStoreError records a per-item store failure.
// Operation should describe the failed call (e.g. "exists", "insert").
func RecordStoreError(operation string) {
	StoreErrorsTotal.WithLabelValues(operation).Inc()
}

// RecordRunDuration records the duration of a full aggregation run.
func RecordRunDuration(duration time.Duration) {
	RunDuration.Observe(duration.Seconds())
}

// UpdateArticlesTotal updates the total count of stored articles.
// This gauge should be refreshed after each aggregation run.
func UpdateArticlesTotal(count int) {
	ArticlesTotal.Set(float64(count))
}
