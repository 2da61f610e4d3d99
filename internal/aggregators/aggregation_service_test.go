package aggregators_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"download-analytics/internal/aggregators"
	aggregatormocks "download-analytics/internal/aggregators/mocks"
	enrichmentmocks "download-analytics/internal/enrichments/mocks"
	"download-analytics/internal/events"
	"download-analytics/internal/models"
	"download-analytics/internal/shared/configs"
	"download-analytics/internal/stores"
	streammocks "download-analytics/internal/streams/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const mib = int64(1024 * 1024)

type aggregationFixture struct {
	db          *sql.DB
	resolver    *enrichmentmocks.MockDisplayNameResolver
	publisher   *streammocks.MockRealtimePublisher
	invalidator *aggregatormocks.MockProjectionInvalidator
	service     aggregators.AggregationService
	sessions    *stores.SessionStore
	stats       *stores.StatsStore
}

func newAggregationFixture(t *testing.T, ctrl *gomock.Controller, cfg configs.SessionConfig) *aggregationFixture {
	t.Helper()

	db, err := stores.Open(filepath.Join(t.TempDir(), "analytics.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	resolver := enrichmentmocks.NewMockDisplayNameResolver(ctrl)
	publisher := streammocks.NewMockRealtimePublisher(ctrl)
	invalidator := aggregatormocks.NewMockProjectionInvalidator(ctrl)

	return &aggregationFixture{
		db:          db,
		resolver:    resolver,
		publisher:   publisher,
		invalidator: invalidator,
		service:     aggregators.NewAggregationService(db, resolver, publisher, invalidator, cfg),
		sessions:    stores.NewSessionStore(db),
		stats:       stores.NewStatsStore(db),
	}
}

func defaultSessionConfig() configs.SessionConfig {
	return configs.SessionConfig{
		IdleWindowSeconds: 300,
		SizeCeilingBytes:  20 * 1024 * mib,
		MinRecordBytes:    mib,
	}
}

func testRecord(ts time.Time, clientID, service, contentUnit string, status models.CacheStatus, byteCount int64) *models.ParsedRecord {
	return &models.ParsedRecord{
		Timestamp:   ts,
		ClientID:    clientID,
		Service:     service,
		ContentUnit: contentUnit,
		Status:      status,
		ByteCount:   byteCount,
		URL:         "/depot/" + contentUnit + "/chunk/abc",
	}
}

func TestProcessBatch_FoldsRecordsIntoSingleSession(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newAggregationFixture(t, ctrl, defaultSessionConfig())
	ctx := context.Background()
	base := time.Now().UTC().Add(-2 * time.Minute).Truncate(time.Second)

	f.resolver.EXPECT().
		Resolve(gomock.Any(), "228980", "steam").
		Return("Steam Depot 228980", nil).
		Times(1)
	f.invalidator.EXPECT().InvalidateProjections().Times(1)

	var published *events.BatchProcessedEvent
	f.publisher.EXPECT().
		Publish(gomock.Any()).
		Do(func(event *events.BatchProcessedEvent) { published = event }).
		Times(1)

	f.service.ProcessBatch(ctx, []*models.ParsedRecord{
		testRecord(base, "10.0.0.1", "steam", "228980", models.CacheHit, 2*mib),
		testRecord(base.Add(1*time.Second), "10.0.0.1", "steam", "228980", models.CacheMiss, 3*mib),
		testRecord(base.Add(2*time.Second), "10.0.0.1", "steam", "228980", models.CacheHit, 1*mib),
	})

	active, err := f.sessions.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)

	session := active[0]
	assert.Equal(t, "10.0.0.1", session.ClientID)
	assert.Equal(t, "steam", session.Service)
	assert.Equal(t, "228980", session.ContentUnit)
	assert.Equal(t, "Steam Depot 228980", session.DisplayName)
	assert.Equal(t, 3*mib, session.HitBytes)
	assert.Equal(t, 3*mib, session.MissBytes)
	assert.Equal(t, models.StatusDownloading, session.Status)
	assert.True(t, session.LastActivity.After(session.StartTime))

	clients, err := f.stats.Clients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, 3*mib, clients[0].HitBytes)
	assert.Equal(t, 3*mib, clients[0].MissBytes)
	assert.Equal(t, int64(1), clients[0].SessionCount)

	services, err := f.stats.Services(ctx)
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, "steam", services[0].Service)
	assert.Equal(t, int64(1), services[0].SessionCount)

	require.NotNil(t, published)
	assert.Equal(t, 3, published.RecordsProcessed)
	require.Len(t, published.Services, 1)
	assert.Equal(t, "steam", published.Services[0].Name)
	assert.Equal(t, int64(3), published.Services[0].Count)
	assert.Equal(t, 6*mib, published.Services[0].TotalBytes)
}

func TestProcessBatch_GapBeyondIdleWindowStartsNewSession(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newAggregationFixture(t, ctrl, defaultSessionConfig())
	ctx := context.Background()
	base := time.Now().UTC().Add(-20 * time.Minute).Truncate(time.Second)

	f.resolver.EXPECT().
		Resolve(gomock.Any(), "228980", "steam").
		Return("Steam Depot 228980", nil).
		Times(2)
	f.invalidator.EXPECT().InvalidateProjections().Times(1)
	f.publisher.EXPECT().Publish(gomock.Any()).Times(1)

	f.service.ProcessBatch(ctx, []*models.ParsedRecord{
		testRecord(base, "10.0.0.1", "steam", "228980", models.CacheHit, 2*mib),
		testRecord(base.Add(6*time.Minute), "10.0.0.1", "steam", "228980", models.CacheHit, 4*mib),
	})

	recent, err := f.sessions.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.NotEqual(t, recent[0].ID, recent[1].ID)

	assert.Equal(t, 4*mib, recent[0].HitBytes, "newest session holds only the post-gap record")
	assert.Equal(t, 2*mib, recent[1].HitBytes)
}

func TestProcessBatch_IdleSweepCompletesStaleSessions(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newAggregationFixture(t, ctrl, defaultSessionConfig())
	ctx := context.Background()

	f.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Any()).Return("", nil).AnyTimes()
	f.invalidator.EXPECT().InvalidateProjections().Times(2)
	f.publisher.EXPECT().Publish(gomock.Any()).Times(2)

	stale := time.Now().UTC().Add(-20 * time.Minute).Truncate(time.Second)
	f.service.ProcessBatch(ctx, []*models.ParsedRecord{
		testRecord(stale, "10.0.0.1", "steam", "228980", models.CacheHit, 2*mib),
	})

	fresh := time.Now().UTC().Truncate(time.Second)
	f.service.ProcessBatch(ctx, []*models.ParsedRecord{
		testRecord(fresh, "10.0.0.2", "epic", "fortnite", models.CacheMiss, 2*mib),
	})

	recent, err := f.sessions.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	var staleSession *models.DownloadSession
	for _, session := range recent {
		if session.ClientID == "10.0.0.1" {
			staleSession = session
		}
	}
	require.NotNil(t, staleSession)
	assert.False(t, staleSession.Active)
	assert.Equal(t, models.StatusCompleted, staleSession.Status)
}

func TestProcessBatch_ReplayedLogsKeepSessionAcrossBatches(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newAggregationFixture(t, ctrl, defaultSessionConfig())
	ctx := context.Background()

	f.resolver.EXPECT().
		Resolve(gomock.Any(), "228980", "steam").
		Return("Steam Depot 228980", nil).
		Times(1)
	f.invalidator.EXPECT().InvalidateProjections().Times(2)
	f.publisher.EXPECT().Publish(gomock.Any()).Times(2)

	// Catch-up replay: record timestamps trail wall clock by a day, so a
	// wall-clock sweep would close the session between the two batches.
	base := time.Now().UTC().Add(-24 * time.Hour).Truncate(time.Second)
	f.service.ProcessBatch(ctx, []*models.ParsedRecord{
		testRecord(base, "10.0.0.1", "steam", "228980", models.CacheHit, 2*mib),
	})
	f.service.ProcessBatch(ctx, []*models.ParsedRecord{
		testRecord(base.Add(time.Second), "10.0.0.1", "steam", "228980", models.CacheMiss, 3*mib),
	})

	recent, err := f.sessions.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.True(t, recent[0].Active)
	assert.Equal(t, 2*mib, recent[0].HitBytes)
	assert.Equal(t, 3*mib, recent[0].MissBytes)
}

func TestProcessBatch_SizeCeilingClosesSession(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := defaultSessionConfig()
	cfg.SizeCeilingBytes = 5 * mib
	f := newAggregationFixture(t, ctrl, cfg)
	ctx := context.Background()
	base := time.Now().UTC().Add(-2 * time.Minute).Truncate(time.Second)

	f.resolver.EXPECT().
		Resolve(gomock.Any(), "228980", "steam").
		Return("Steam Depot 228980", nil).
		Times(2)
	f.invalidator.EXPECT().InvalidateProjections().Times(1)
	f.publisher.EXPECT().Publish(gomock.Any()).Times(1)

	f.service.ProcessBatch(ctx, []*models.ParsedRecord{
		testRecord(base, "10.0.0.1", "steam", "228980", models.CacheHit, 4*mib),
		testRecord(base.Add(1*time.Second), "10.0.0.1", "steam", "228980", models.CacheMiss, 2*mib),
		testRecord(base.Add(2*time.Second), "10.0.0.1", "steam", "228980", models.CacheHit, 1*mib),
	})

	recent, err := f.sessions.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	closed := recent[1]
	assert.False(t, closed.Active)
	assert.Equal(t, models.StatusCompleted, closed.Status)
	assert.Equal(t, 4*mib, closed.HitBytes)
	assert.Equal(t, 2*mib, closed.MissBytes)

	reopened := recent[0]
	assert.True(t, reopened.Active)
	assert.Equal(t, 1*mib, reopened.HitBytes)
}

func TestProcessBatch_RecordsBelowThresholdLeaveNoTrace(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newAggregationFixture(t, ctrl, defaultSessionConfig())
	ctx := context.Background()
	base := time.Now().UTC().Add(-2 * time.Minute)

	// No resolver, invalidator, or publisher expectations: any call fails the test.
	f.service.ProcessBatch(ctx, []*models.ParsedRecord{
		testRecord(base, "10.0.0.1", "steam", "228980", models.CacheHit, 500*1024),
	})

	recent, err := f.sessions.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recent)

	clients, err := f.stats.Clients(ctx)
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestProcessBatch_GroupsPersistIndependently(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newAggregationFixture(t, ctrl, defaultSessionConfig())
	ctx := context.Background()
	base := time.Now().UTC().Add(-2 * time.Minute).Truncate(time.Second)

	f.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Any()).Return("", nil).Times(3)
	f.invalidator.EXPECT().InvalidateProjections().Times(1)

	var published *events.BatchProcessedEvent
	f.publisher.EXPECT().
		Publish(gomock.Any()).
		Do(func(event *events.BatchProcessedEvent) { published = event }).
		Times(1)

	f.service.ProcessBatch(ctx, []*models.ParsedRecord{
		testRecord(base, "10.0.0.1", "steam", "228980", models.CacheHit, 2*mib),
		testRecord(base.Add(1*time.Second), "10.0.0.2", "steam", "440", models.CacheMiss, 3*mib),
		testRecord(base.Add(2*time.Second), "10.0.0.1", "epic", "fortnite", models.CacheHit, 4*mib),
	})

	active, err := f.sessions.Active(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 3)

	clients, err := f.stats.Clients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 2)

	services, err := f.stats.Services(ctx)
	require.NoError(t, err)
	require.Len(t, services, 2)

	require.NotNil(t, published)
	assert.Equal(t, 3, published.RecordsProcessed)
	require.Len(t, published.Services, 2)
	assert.Equal(t, "epic", published.Services[0].Name)
	assert.Equal(t, "steam", published.Services[1].Name)
}

func TestProcessBatch_ResolverFailureFallsBackToPlaceholder(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newAggregationFixture(t, ctrl, defaultSessionConfig())
	ctx := context.Background()
	base := time.Now().UTC().Add(-2 * time.Minute).Truncate(time.Second)

	f.resolver.EXPECT().
		Resolve(gomock.Any(), "228980", "steam").
		Return("", assert.AnError).
		Times(1)
	f.invalidator.EXPECT().InvalidateProjections().Times(1)
	f.publisher.EXPECT().Publish(gomock.Any()).Times(1)

	f.service.ProcessBatch(ctx, []*models.ParsedRecord{
		testRecord(base, "10.0.0.1", "steam", "228980", models.CacheHit, 2*mib),
	})

	active, err := f.sessions.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Unknown Content", active[0].DisplayName)
}

func TestProcessBatch_EmptyBatchIsNoOp(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newAggregationFixture(t, ctrl, defaultSessionConfig())
	f.service.ProcessBatch(context.Background(), nil)
}
