package queries

import (
	"context"
	"time"

	"download-analytics/internal/caches"
	"download-analytics/internal/enrichments"
	"download-analytics/internal/models"
	"download-analytics/internal/shared/configs"
	"download-analytics/internal/stores"
)

// ActiveDownload is the dashboard view of in-flight activity: sessions for
// the same client, service and content identity are merged into one row even
// when idle gaps split them into several stored sessions.
type ActiveDownload struct {
	Service      string    `json:"service"`
	ClientID     string    `json:"clientId"`
	ContentUnit  string    `json:"contentUnit"`
	DisplayName  string    `json:"displayName"`
	HitBytes     int64     `json:"hitBytes"`
	MissBytes    int64     `json:"missBytes"`
	TotalBytes   int64     `json:"totalBytes"`
	StartTime    time.Time `json:"startTime"`
	LastActivity time.Time `json:"lastActivity"`
	SessionCount int       `json:"sessionCount"`
}

// QueryService serves the read-side projections over the persisted
// aggregates. Every collection is cached behind its own TTL slot; the write
// side expires all slots at once through InvalidateProjections.
//
//go:generate mockgen -source=query_service.go -destination=./mocks/query_service_mock.go -package=mocks
type QueryService interface {
	Clients(ctx context.Context) ([]*models.ClientAggregate, error)
	Services(ctx context.Context) ([]*models.ServiceAggregate, error)
	RecentDownloads(ctx context.Context) ([]*models.DownloadSession, error)
	ActiveDownloads(ctx context.Context) ([]*ActiveDownload, error)
	InvalidateProjections()
}

type queryService struct {
	sessions    *stores.SessionStore
	stats       *stores.StatsStore
	recentLimit int

	clients  *caches.Projection[[]*models.ClientAggregate]
	services *caches.Projection[[]*models.ServiceAggregate]
	recent   *caches.Projection[[]*models.DownloadSession]
	active   *caches.Projection[[]*ActiveDownload]
}

func NewQueryService(sessions *stores.SessionStore, stats *stores.StatsStore, cfg configs.CacheConfig) QueryService {
	return &queryService{
		sessions:    sessions,
		stats:       stats,
		recentLimit: cfg.RecentLimit,
		clients:     caches.NewProjection[[]*models.ClientAggregate](cfg.StatsTTL()),
		services:    caches.NewProjection[[]*models.ServiceAggregate](cfg.StatsTTL()),
		recent:      caches.NewProjection[[]*models.DownloadSession](cfg.StatsTTL()),
		active:      caches.NewProjection[[]*ActiveDownload](cfg.ActiveTTL()),
	}
}

func (s *queryService) Clients(ctx context.Context) ([]*models.ClientAggregate, error) {
	result, err := s.clients.Get(ctx, s.stats.Clients)
	if err != nil {
		return nil, errInternalProjectionFailed(err)
	}
	return result, nil
}

func (s *queryService) Services(ctx context.Context) ([]*models.ServiceAggregate, error) {
	result, err := s.services.Get(ctx, s.stats.Services)
	if err != nil {
		return nil, errInternalProjectionFailed(err)
	}
	return result, nil
}

func (s *queryService) RecentDownloads(ctx context.Context) ([]*models.DownloadSession, error) {
	result, err := s.recent.Get(ctx, func(ctx context.Context) ([]*models.DownloadSession, error) {
		return s.sessions.Recent(ctx, s.recentLimit)
	})
	if err != nil {
		return nil, errInternalProjectionFailed(err)
	}
	return result, nil
}

func (s *queryService) ActiveDownloads(ctx context.Context) ([]*ActiveDownload, error) {
	result, err := s.active.Get(ctx, s.loadActive)
	if err != nil {
		return nil, errInternalProjectionFailed(err)
	}
	return result, nil
}

// InvalidateProjections expires every cached slot so the next read reloads.
func (s *queryService) InvalidateProjections() {
	s.clients.Invalidate()
	s.services.Invalidate()
	s.recent.Invalidate()
	s.active.Invalidate()
}

func (s *queryService) loadActive(ctx context.Context) ([]*ActiveDownload, error) {
	sessions, err := s.sessions.Active(ctx)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]*ActiveDownload)
	var order []string
	for _, session := range sessions {
		key := session.ClientID + "|" + session.Service + "|" + contentIdentity(session)
		row := merged[key]
		if row == nil {
			row = &ActiveDownload{
				Service:      session.Service,
				ClientID:     session.ClientID,
				ContentUnit:  session.ContentUnit,
				DisplayName:  session.DisplayName,
				StartTime:    session.StartTime,
				LastActivity: session.LastActivity,
			}
			merged[key] = row
			order = append(order, key)
		}

		row.HitBytes += session.HitBytes
		row.MissBytes += session.MissBytes
		row.TotalBytes += session.TotalBytes()
		row.SessionCount++
		if session.StartTime.Before(row.StartTime) {
			row.StartTime = session.StartTime
		}
		if session.LastActivity.After(row.LastActivity) {
			row.LastActivity = session.LastActivity
		}
	}

	result := make([]*ActiveDownload, 0, len(order))
	for _, key := range order {
		result = append(result, merged[key])
	}
	return result, nil
}

// contentIdentity merges sessions by resolved display name when resolution
// succeeded; unresolved sessions fall back to the raw content unit so they
// never collapse into one another across different units.
func contentIdentity(session *models.DownloadSession) string {
	if session.DisplayName != "" && session.DisplayName != enrichments.PlaceholderName {
		return session.DisplayName
	}
	return session.ContentUnit
}
