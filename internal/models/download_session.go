package models

import "time"

// SessionStatus is the lifecycle state of a DownloadSession.
type SessionStatus string

const (
	StatusDownloading SessionStatus = "Downloading"
	StatusCompleted   SessionStatus = "Completed"
)

// DownloadSession is a reconstructed logical download spanning every record
// for the same client, service and content unit that arrives within the idle
// window. Sessions are owned exclusively by the aggregation engine and are
// only mutated through its per-record update path.
//
// HitBytes+MissBytes always equals the sum of the byte counts of all records
// folded into the session. A session closes (Active=false, Completed) when
// no record updates it for the idle window, or when its total bytes cross
// the configured size ceiling; the next matching record then starts a fresh
// session instead of reopening the closed one.
type DownloadSession struct {
	ID           string        `json:"id"`
	Service      string        `json:"service"`
	ClientID     string        `json:"clientId"`
	ContentUnit  string        `json:"contentUnit"`
	DisplayName  string        `json:"displayName"`
	ClientApp    string        `json:"clientApp"`
	LastURL      string        `json:"lastUrl"`
	StartTime    time.Time     `json:"startTime"`
	LastActivity time.Time     `json:"lastActivity"`
	HitBytes     int64         `json:"hitBytes"`
	MissBytes    int64         `json:"missBytes"`
	Active       bool          `json:"active"`
	Status       SessionStatus `json:"status"`
}

func (s *DownloadSession) TotalBytes() int64 {
	return s.HitBytes + s.MissBytes
}
