package ingestors

import (
	"bufio"
	"context"
	"io"
	"strings"

	"download-analytics/internal/shared/loggers"
)

const (
	maxIngestBytes = 8 * 1024 * 1024
	maxLineBytes   = 1024 * 1024
)

// IngestResult reports how a submitted body of raw lines fared at the
// ingestion boundary. Rejected is nonzero only once shutdown has begun.
type IngestResult struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

// IngestService is the HTTP-facing wrapper of the pipeline's ingest
// boundary: one raw log line per line of the request body.
//
//go:generate mockgen -source=ingest_service.go -destination=./mocks/ingest_service_mock.go -package=mocks
type IngestService interface {
	IngestLines(ctx context.Context, r io.Reader) (*IngestResult, error)
}

type ingestService struct {
	pipeline LogPipeline
}

func NewIngestService(pipeline LogPipeline) IngestService {
	return &ingestService{pipeline: pipeline}
}

func (s *ingestService) IngestLines(ctx context.Context, r io.Reader) (*IngestResult, error) {
	if r == nil {
		return nil, errValidationFailed("empty request body", nil)
	}

	logger := loggers.Ctx(ctx)

	// One byte past the cap distinguishes an exactly-full body from a
	// truncated one.
	limited := &io.LimitedReader{R: r, N: maxIngestBytes + 1}
	scanner := bufio.NewScanner(limited)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var lines []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errValidationFailed("failed to read request body", err)
	}
	// A truncated body submits nothing: its final line may be torn mid-write
	// and the remainder was never read.
	if limited.N <= 0 {
		return nil, errPayloadTooLarge()
	}
	if len(lines) == 0 {
		return nil, errValidationFailed("no log lines in request body", nil)
	}

	result := &IngestResult{}
	for _, line := range lines {
		if s.pipeline.Submit(line) {
			result.Accepted++
		} else {
			result.Rejected++
		}
	}

	logger.Debug().
		Int("accepted", result.Accepted).
		Int("rejected", result.Rejected).
		Msg("ingested raw lines")
	return result, nil
}
