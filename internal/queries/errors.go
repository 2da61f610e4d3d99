package queries

import (
	"download-analytics/internal/shared/svcerrors"
)

const codeInternalProjectionFailed = "QRY_9000"

func errInternalProjectionFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalProjectionFailed, cause)
}
