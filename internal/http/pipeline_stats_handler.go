package http

import (
	"net/http"

	"download-analytics/internal/ingestors"
)

type pipelineStatsHandler struct {
	pipeline ingestors.LogPipeline
}

func NewPipelineStatsHandler(pipeline ingestors.LogPipeline) AppHttpHandler {
	return &pipelineStatsHandler{pipeline: pipeline}
}

// Handle processes GET /api/pipeline/stats requests.
func (h *pipelineStatsHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, http.StatusOK, h.pipeline.Stats())
}
