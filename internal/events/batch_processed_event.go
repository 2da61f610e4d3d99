package events

import "time"

// BatchProcessedEvent is the realtime summary published to subscribers after
// a flushed batch has been folded into the persisted aggregates. It reduces
// the batch to per-service counts so observers never see individual records.
//
// Example JSON:
//
//	{
//	  "timestamp": "2026-08-30T18:03:12Z",
//	  "recordsProcessed": 3,
//	  "services": [
//	    {"name": "steam", "count": 2, "totalBytes": 5242880},
//	    {"name": "epic", "count": 1, "totalBytes": 1048576}
//	  ]
//	}
//
// Delivery is best-effort: a publish that cannot be delivered is logged and
// dropped, and never affects persistence.
type BatchProcessedEvent struct {
	Timestamp        time.Time         `json:"timestamp"`
	RecordsProcessed int               `json:"recordsProcessed"`
	Services         []ServiceActivity `json:"services"`
}

// ServiceActivity is one service's slice of a processed batch.
type ServiceActivity struct {
	Name       string `json:"name"`
	Count      int64  `json:"count"`
	TotalBytes int64  `json:"totalBytes"`
}
