package http

import (
	"encoding/json"
	"net/http"

	"download-analytics/internal/queries"
)

func writeJSON(w http.ResponseWriter, status int, body any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}

type clientStatsHandler struct {
	queryService queries.QueryService
}

func NewClientStatsHandler(queryService queries.QueryService) AppHttpHandler {
	return &clientStatsHandler{queryService: queryService}
}

// Handle processes GET /api/clients requests.
func (h *clientStatsHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	clients, err := h.queryService.Clients(r.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, clients)
}

type serviceStatsHandler struct {
	queryService queries.QueryService
}

func NewServiceStatsHandler(queryService queries.QueryService) AppHttpHandler {
	return &serviceStatsHandler{queryService: queryService}
}

// Handle processes GET /api/services requests.
func (h *serviceStatsHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	services, err := h.queryService.Services(r.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, services)
}

type recentDownloadsHandler struct {
	queryService queries.QueryService
}

func NewRecentDownloadsHandler(queryService queries.QueryService) AppHttpHandler {
	return &recentDownloadsHandler{queryService: queryService}
}

// Handle processes GET /api/downloads/recent requests.
func (h *recentDownloadsHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	recent, err := h.queryService.RecentDownloads(r.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, recent)
}

type activeDownloadsHandler struct {
	queryService queries.QueryService
}

func NewActiveDownloadsHandler(queryService queries.QueryService) AppHttpHandler {
	return &activeDownloadsHandler{queryService: queryService}
}

// Handle processes GET /api/downloads/active requests.
func (h *activeDownloadsHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	active, err := h.queryService.ActiveDownloads(r.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, active)
}
