package metrics

import (
	"fmt"
	"time"
)

// RecordTaskFinished records the final status of a collection task.
// Status should be "completed" or "error".
func RecordTaskFinished(status string) {
	CollectionTasksTotal.WithLabelValues(status).Inc()
}

// RecordSourceCollected records the time spent collecting one source.
func RecordSourceCollected(sourceType string, duration time.Duration) {
	SourceCollectDuration.WithLabelValues(sourceType).Observe(duration.Seconds())
}

// RecordRecordsStored records the number of content records stored for a source.
func RecordRecordsStored(sourceName string, sourceID int64, count int) {
	if count <= 0 {
		return
	}
	RecordsStoredTotal.WithLabelValues(
		sourceName,
		fmt.Sprintf("%d", sourceID),
	).Add(float64(count))
}

// RecordRecordDropped records a content record rejected before storage.
// Reason should be "validation" or "duplicate".
func RecordRecordDropped(reason string) {
	RecordsDroppedTotal.WithLabelValues(reason).Inc()
}

// RecordSourceSkipped records a source skipped by the recency policy.
func RecordSourceSkipped() {
	SourcesSkippedTotal.Inc()
}

// RecordFetch records the outcome of one outbound fetch.
// Status should be "success" or "failure".
func RecordFetch(status string, duration time.Duration, size int) {
	FetchAttemptsTotal.WithLabelValues(status).Inc()
	FetchDuration.Observe(duration.Seconds())
	if size > 0 {
		FetchSize.Observe(float64(size))
	}
}
