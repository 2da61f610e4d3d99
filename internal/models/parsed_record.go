package models

import "time"

// CacheStatus classifies where the bytes of a record were served from:
// the local cache (HIT) or the upstream origin (MISS).
type CacheStatus string

const (
	CacheHit     CacheStatus = "HIT"
	CacheMiss    CacheStatus = "MISS"
	CacheUnknown CacheStatus = "UNKNOWN"
)

// ContentUnitUnknown is the bucket used for records whose URL carries no
// content-unit identifier.
const ContentUnitUnknown = "unknown"

// ParsedRecord is the structured form of one proxy access-log line.
// Immutable once produced by the parser.
type ParsedRecord struct {
	Timestamp   time.Time
	ClientID    string
	Service     string
	ContentUnit string // empty when the URL carries no content-unit identifier
	Status      CacheStatus
	ByteCount   int64
	URL         string
	ClientApp   string // normalized user agent, empty when absent
}

// GroupKey isolates batch processing per client and service.
func (r *ParsedRecord) GroupKey() string {
	return r.ClientID + "|" + r.Service
}

// SessionKey identifies the download session a record folds into.
func (r *ParsedRecord) SessionKey() string {
	return r.Service + "|" + r.ClientID + "|" + r.ContentUnitOrUnknown()
}

func (r *ParsedRecord) ContentUnitOrUnknown() string {
	if r.ContentUnit == "" {
		return ContentUnitUnknown
	}
	return r.ContentUnit
}
