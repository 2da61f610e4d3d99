package models

// PipelineStats is a point-in-time snapshot of the ingestion pipeline,
// exposed for introspection. Depths are approximate under concurrency.
type PipelineStats struct {
	RawQueueDepth    int  `json:"rawQueueDepth"`
	ParsedQueueDepth int  `json:"parsedQueueDepth"`
	BufferedCount    int  `json:"bufferedCount"`
	Capacity         int  `json:"configuredCapacity"`
	ActiveConsumers  int  `json:"activeConsumers"`
	ActiveParsers    int  `json:"activeParsers"`
	ThroughputMode   bool `json:"throughputMode"`
}
