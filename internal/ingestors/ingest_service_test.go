package ingestors_test

import (
	"context"
	"strings"
	"testing"

	"download-analytics/internal/ingestors"
	ingestormocks "download-analytics/internal/ingestors/mocks"
	"download-analytics/internal/shared/svcerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestIngestLines_SubmitsEachNonEmptyLine(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pipeline := ingestormocks.NewMockLogPipeline(ctrl)
	pipeline.EXPECT().Submit("line one").Return(true)
	pipeline.EXPECT().Submit("line two").Return(true)
	pipeline.EXPECT().Submit("line three").Return(true)

	service := ingestors.NewIngestService(pipeline)
	body := strings.NewReader("line one\n\n  line two  \nline three\n")

	result, err := service.IngestLines(context.Background(), body)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Accepted)
	assert.Equal(t, 0, result.Rejected)
}

func TestIngestLines_CountsRejectedSubmissions(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pipeline := ingestormocks.NewMockLogPipeline(ctrl)
	pipeline.EXPECT().Submit("accepted").Return(true)
	pipeline.EXPECT().Submit("rejected").Return(false)

	service := ingestors.NewIngestService(pipeline)
	body := strings.NewReader("accepted\nrejected\n")

	result, err := service.IngestLines(context.Background(), body)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Accepted)
	assert.Equal(t, 1, result.Rejected)
}

func TestIngestLines_ErrValidationFailed_EmptyBody(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pipeline := ingestormocks.NewMockLogPipeline(ctrl)
	service := ingestors.NewIngestService(pipeline)

	result, err := service.IngestLines(context.Background(), strings.NewReader("\n\n  \n"))

	require.Error(t, err)
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok, "expected ServiceError")
	assert.Equal(t, "ING_1000", svcErr.Code)
	assert.Equal(t, "invalid_argument", svcErr.Category)
	assert.Nil(t, result)
}

func TestIngestLines_ErrPayloadTooLarge_NothingSubmitted(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No Submit expectations: an oversize body must not reach the pipeline,
	// not even the lines scanned before the limit was hit.
	pipeline := ingestormocks.NewMockLogPipeline(ctrl)
	service := ingestors.NewIngestService(pipeline)

	line := strings.Repeat("x", 1023) + "\n"
	body := strings.NewReader(strings.Repeat(line, 8*1024+16))

	result, err := service.IngestLines(context.Background(), body)

	require.Error(t, err)
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok, "expected ServiceError")
	assert.Equal(t, "ING_1001", svcErr.Code)
	assert.Equal(t, 413, svcErr.HttpStatusCode)
	assert.Nil(t, result)
}

func TestIngestLines_ErrValidationFailed_NilReader(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pipeline := ingestormocks.NewMockLogPipeline(ctrl)
	service := ingestors.NewIngestService(pipeline)

	result, err := service.IngestLines(context.Background(), nil)

	require.Error(t, err)
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok, "expected ServiceError")
	assert.Equal(t, "ING_1000", svcErr.Code)
	assert.Nil(t, result)
}
