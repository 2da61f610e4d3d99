package aggregators

import (
	"sort"
	"time"

	"download-analytics/internal/events"
	"download-analytics/internal/models"
)

// BatchSummarizer condenses the persisted slice of a batch into a
// BatchProcessedEvent with per-service activity counters.
type BatchSummarizer struct{}

func NewBatchSummarizer() *BatchSummarizer {
	return &BatchSummarizer{}
}

// Summarize builds the event for one processed batch. Service entries are
// sorted by name so consumers see a stable order.
func (s *BatchSummarizer) Summarize(timestamp time.Time, records []*models.ParsedRecord) *events.BatchProcessedEvent {
	type tally struct {
		count      int64
		totalBytes int64
	}

	byService := make(map[string]*tally)
	for _, record := range records {
		t := byService[record.Service]
		if t == nil {
			t = &tally{}
			byService[record.Service] = t
		}
		t.count++
		t.totalBytes += record.ByteCount
	}

	names := make([]string, 0, len(byService))
	for name := range byService {
		names = append(names, name)
	}
	sort.Strings(names)

	services := make([]events.ServiceActivity, 0, len(names))
	for _, name := range names {
		t := byService[name]
		services = append(services, events.ServiceActivity{
			Name:       name,
			Count:      t.count,
			TotalBytes: t.totalBytes,
		})
	}

	return &events.BatchProcessedEvent{
		Timestamp:        timestamp,
		RecordsProcessed: len(records),
		Services:         services,
	}
}
