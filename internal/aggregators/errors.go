package aggregators

import (
	"download-analytics/internal/shared/svcerrors"
)

const (
	codeInternalTxFailed           = "AGG_9000"
	codeInternalSessionStoreFailed = "AGG_9001"
	codeInternalStatsStoreFailed   = "AGG_9002"
)

func errInternalTxFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalTxFailed, cause)
}

func errInternalSessionStoreFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalSessionStoreFailed, cause)
}

func errInternalStatsStoreFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalStatsStoreFailed, cause)
}
