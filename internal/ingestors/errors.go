package ingestors

import (
	"download-analytics/internal/shared/svcerrors"
)

// IngestService errors
const (
	codeValidationFailed = "ING_1000"
	codePayloadTooLarge  = "ING_1001"
)

// errValidationFailed returns an error for ingestion validation failures.
func errValidationFailed(msg string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeValidationFailed, msg, cause)
}

// errPayloadTooLarge returns an error for request bodies over the ingest size limit.
func errPayloadTooLarge() *svcerrors.ServiceError {
	return svcerrors.NewPayloadTooLargeError(codePayloadTooLarge, "request body exceeds the ingest size limit", nil)
}
