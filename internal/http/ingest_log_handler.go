package http

import (
	"net/http"

	"download-analytics/internal/ingestors"
)

type AppHttpHandler interface {
	Handle(w http.ResponseWriter, r *http.Request) error
}

type ingestLogHandler struct {
	ingestService ingestors.IngestService
}

func NewIngestLogHandler(ingestService ingestors.IngestService) AppHttpHandler {
	return &ingestLogHandler{
		ingestService: ingestService,
	}
}

// Handle processes POST /logs requests: one raw access-log line per body line.
func (h *ingestLogHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	result, err := h.ingestService.IngestLines(r.Context(), r.Body)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusAccepted, result)
}
