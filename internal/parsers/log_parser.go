package parsers

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"download-analytics/internal/models"

	"github.com/mileusna/useragent"
)

// ErrMalformedLine reports a line that does not match the access-log format.
var ErrMalformedLine = errors.New("malformed log line")

// Access-log line format produced by the caching proxy:
//
//	[service] ip / - - - [timestamp] "METHOD url HTTP/x" status bytes "referer" "ua" "HIT|MISS" "upstream" "-"
//
// The leading [service] tag is optional; heartbeat lines carry an IP there.
var (
	lineRegex  = regexp.MustCompile(`^(?:\[(?P<service>[^\]]+)\]\s+)?(?P<ip>\S+)\s+/\s+-\s+-\s+-\s+\[(?P<time>[^\]]+)\]\s+"(?P<method>[A-Z]+)\s+(?P<url>\S+)(?:\s+HTTP/(?P<httpVersion>[^"\s]+))?"\s+(?P<status>\d{3})\s+(?P<bytes>-|\d+)(?P<rest>.*)$`)
	depotRegex = regexp.MustCompile(`/depot/(\d+)/`)
)

var timestampLayouts = []string{
	"02/Jan/2006:15:04:05 -0700",
	"02/Jan/2006:15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// LogParser transforms raw access-log lines into ParsedRecords.
// Safe for concurrent use.
type LogParser struct{}

func NewLogParser() *LogParser {
	return &LogParser{}
}

// ParseLine parses one trimmed log line. Lines that do not match the format
// or carry an unparsable timestamp return ErrMalformedLine; callers drop
// them, the error is never pipeline-fatal.
func (p *LogParser) ParseLine(line string) (*models.ParsedRecord, error) {
	match := lineRegex.FindStringSubmatch(line)
	if match == nil {
		return nil, ErrMalformedLine
	}

	var (
		service  string
		clientID string
		timeStr  string
		url      string
		bytesStr string
		rest     string
	)
	for i, name := range lineRegex.SubexpNames() {
		switch name {
		case "service":
			service = match[i]
		case "ip":
			clientID = match[i]
		case "time":
			timeStr = match[i]
		case "url":
			url = match[i]
		case "bytes":
			bytesStr = match[i]
		case "rest":
			rest = match[i]
		}
	}
	if service == "" {
		service = "unknown"
	}

	timestamp, ok := parseTimestamp(timeStr)
	if !ok {
		return nil, fmt.Errorf("%w: unparsable timestamp %q", ErrMalformedLine, timeStr)
	}

	var byteCount int64
	if bytesStr != "-" {
		n, err := strconv.ParseInt(bytesStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: byte count %q", ErrMalformedLine, bytesStr)
		}
		byteCount = n
	}

	record := &models.ParsedRecord{
		Timestamp: timestamp,
		ClientID:  clientID,
		Service:   service,
		Status:    extractCacheStatus(rest),
		ByteCount: byteCount,
		URL:       url,
		ClientApp: normalizeClientApp(extractQuotedField(rest, 1)),
	}

	if strings.EqualFold(service, "steam") {
		if depot := depotRegex.FindStringSubmatch(url); depot != nil {
			record.ContentUnit = depot[1]
		}
	}

	return record, nil
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// extractQuotedField returns the n-th (0-based) quoted field of the line
// tail: "referer" "ua" "cache-status" "upstream" "-".
func extractQuotedField(rest string, n int) string {
	parts := strings.Split(rest, `"`)
	idx := 2*n + 1
	if idx >= len(parts) {
		return ""
	}
	return parts[idx]
}

func extractCacheStatus(rest string) models.CacheStatus {
	switch extractQuotedField(rest, 2) {
	case "HIT":
		return models.CacheHit
	case "MISS":
		return models.CacheMiss
	default:
		return models.CacheUnknown
	}
}

// normalizeClientApp reduces a raw user-agent string to its family name,
// falling back to the raw value when parsing yields nothing.
func normalizeClientApp(ua string) string {
	ua = strings.TrimSpace(ua)
	if ua == "" || ua == "-" {
		return ""
	}
	parsed := useragent.Parse(ua)
	if parsed.Name != "" {
		return parsed.Name
	}
	return ua
}
