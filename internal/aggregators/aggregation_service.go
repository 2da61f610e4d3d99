package aggregators

import (
	"context"
	"database/sql"
	"time"

	"download-analytics/internal/enrichments"
	"download-analytics/internal/models"
	"download-analytics/internal/shared/configs"
	"download-analytics/internal/shared/loggers"
	"download-analytics/internal/shared/metrics"
	"download-analytics/internal/shared/svcerrors"
	"download-analytics/internal/shared/ulid"
	"download-analytics/internal/stores"
	"download-analytics/internal/streams"
)

// AggregationService folds flushed batches of parsed records into download
// sessions and client/service aggregates.
//
//go:generate mockgen -source=aggregation_service.go -destination=./mocks/aggregation_service_mock.go -package=mocks
type AggregationService interface {
	// ProcessBatch folds one flushed batch. Failures are isolated per
	// (client, service) group: a failed group is logged and its records are
	// lost, the remaining groups still persist.
	ProcessBatch(ctx context.Context, records []*models.ParsedRecord)
}

// ProjectionInvalidator is implemented by the read side; the engine calls it
// after every successful persist so cached projections expire early.
type ProjectionInvalidator interface {
	InvalidateProjections()
}

type aggregationService struct {
	db          *sql.DB
	sessions    *stores.SessionStore
	stats       *stores.StatsStore
	resolver    enrichments.DisplayNameResolver
	publisher   streams.RealtimePublisher
	invalidator ProjectionInvalidator
	summarizer  *BatchSummarizer

	idleWindow  time.Duration
	sizeCeiling int64
	minRecord   int64

	nowFn func() time.Time
}

func NewAggregationService(
	db *sql.DB,
	resolver enrichments.DisplayNameResolver,
	publisher streams.RealtimePublisher,
	invalidator ProjectionInvalidator,
	cfg configs.SessionConfig,
) AggregationService {
	return &aggregationService{
		db:          db,
		sessions:    stores.NewSessionStore(db),
		stats:       stores.NewStatsStore(db),
		resolver:    resolver,
		publisher:   publisher,
		invalidator: invalidator,
		summarizer:  NewBatchSummarizer(),
		idleWindow:  cfg.IdleWindow(),
		sizeCeiling: cfg.SizeCeilingBytes,
		minRecord:   cfg.MinRecordBytes,
		nowFn:       time.Now,
	}
}

func (s *aggregationService) ProcessBatch(ctx context.Context, records []*models.ParsedRecord) {
	if len(records) == 0 {
		return
	}

	logger := loggers.Ctx(ctx)
	now := s.nowFn()

	// Idle reclamation runs before group processing so sessions close even
	// when their key sees no further traffic. The cutoff is measured in
	// record time, like the gap check in processGroup; replayed logs can lag
	// wall clock by more than the idle window.
	cutoff := latestRecordTime(records).Add(-s.idleWindow)
	if closed, err := s.sessions.CloseIdleBefore(ctx, cutoff); err != nil {
		logger.Error().Err(err).Msg("idle session sweep failed")
	} else if closed > 0 {
		metricSessionsClosedTotal.WithLabelValues(closeReasonIdle).Add(float64(closed))
	}

	// Groups are isolated: a persistence failure loses only that group's
	// slice of the batch.
	groupKeys, groups := groupByClientService(records)
	var persisted []*models.ParsedRecord
	for _, key := range groupKeys {
		folded, svcErr := s.processGroup(ctx, groups[key])
		if svcErr != nil {
			metricGroupProcessedTotal.WithLabelValues(svcErr.Code).Inc()
			logger.Error().
				Err(svcErr.Cause).
				Str(loggers.FieldErrorCode, svcErr.Code).
				Str(loggers.FieldGroupKey, key).
				Int("records_lost", len(groups[key])).
				Msg("group persist failed, group records lost")
			continue
		}
		metricGroupProcessedTotal.WithLabelValues(metrics.ValueNoError).Inc()
		persisted = append(persisted, folded...)
	}

	if len(persisted) == 0 {
		return
	}

	metricRecordsAggregatedTotal.WithLabelValues().Add(float64(len(persisted)))

	// Writes never invalidate projections implicitly; this is the explicit
	// trigger the read side relies on.
	s.invalidator.InvalidateProjections()

	// Best-effort: publish failures are absorbed by the hub, never surfaced.
	s.publisher.Publish(s.summarizer.Summarize(now, persisted))
}

// processGroup folds one (client, service) group inside a single
// transaction and returns the records that actually contributed (records
// below the minimum size threshold never do).
func (s *aggregationService) processGroup(ctx context.Context, group []*models.ParsedRecord) ([]*models.ParsedRecord, *svcerrors.ServiceError) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errInternalTxFailed(err)
	}
	defer tx.Rollback()

	sessions := s.sessions.WithTx(tx)
	stats := s.stats.WithTx(tx)

	var (
		folded          []*models.ParsedRecord
		hitBytes        int64
		missBytes       int64
		lastSeen        time.Time
		createdSessions int64
	)

	// Sessions touched by this group, so later records in the same batch
	// fold into the session created for an earlier one.
	open := make(map[string]*models.DownloadSession)

	for _, record := range group {
		if record.ByteCount < s.minRecord {
			metricRecordsSkippedTotal.WithLabelValues(skipReasonBelowThreshold).Inc()
			continue
		}

		session := open[record.SessionKey()]
		if session != nil && !session.Active {
			session = nil
		}
		if session == nil {
			session, err = sessions.FindActive(ctx, record.Service, record.ClientID,
				record.ContentUnitOrUnknown(), record.Timestamp.Add(-s.idleWindow))
			if err != nil {
				return nil, errInternalSessionStoreFailed(err)
			}
		}

		created := session == nil
		if created {
			session = s.newSession(ctx, record)
			if err := sessions.Insert(ctx, session); err != nil {
				return nil, errInternalSessionStoreFailed(err)
			}
			createdSessions++
			metricSessionsCreatedTotal.WithLabelValues().Inc()
		}

		if record.Status == models.CacheHit {
			session.HitBytes += record.ByteCount
			hitBytes += record.ByteCount
		} else {
			session.MissBytes += record.ByteCount
			missBytes += record.ByteCount
		}
		session.LastActivity = record.Timestamp
		session.LastURL = record.URL
		if record.ClientApp != "" {
			session.ClientApp = record.ClientApp
		}

		// Size ceiling closes the session immediately; the next record for
		// this key starts a fresh one.
		if session.TotalBytes() > s.sizeCeiling {
			session.Active = false
			session.Status = models.StatusCompleted
			metricSessionsClosedTotal.WithLabelValues(closeReasonCeiling).Inc()
		}

		if err := sessions.Update(ctx, session); err != nil {
			return nil, errInternalSessionStoreFailed(err)
		}

		open[record.SessionKey()] = session
		folded = append(folded, record)
		lastSeen = record.Timestamp
	}

	if len(folded) > 0 {
		first := folded[0]
		if err := stats.UpsertClient(ctx, first.ClientID, hitBytes, missBytes, lastSeen, createdSessions); err != nil {
			return nil, errInternalStatsStoreFailed(err)
		}
		if err := stats.UpsertService(ctx, first.Service, hitBytes, missBytes, lastSeen, createdSessions); err != nil {
			return nil, errInternalStatsStoreFailed(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errInternalTxFailed(err)
	}
	return folded, nil
}

func (s *aggregationService) newSession(ctx context.Context, record *models.ParsedRecord) *models.DownloadSession {
	displayName, err := s.resolver.Resolve(ctx, record.ContentUnitOrUnknown(), record.Service)
	if err != nil {
		loggers.Ctx(ctx).Debug().Err(err).
			Str(loggers.FieldService, record.Service).
			Msg("display name resolution failed, using placeholder")
		displayName = enrichments.PlaceholderName
	}

	return &models.DownloadSession{
		ID:           ulid.NewULID(),
		Service:      record.Service,
		ClientID:     record.ClientID,
		ContentUnit:  record.ContentUnitOrUnknown(),
		DisplayName:  displayName,
		ClientApp:    record.ClientApp,
		LastURL:      record.URL,
		StartTime:    record.Timestamp,
		LastActivity: record.Timestamp,
		Active:       true,
		Status:       models.StatusDownloading,
	}
}

// latestRecordTime returns the newest timestamp in a non-empty batch.
func latestRecordTime(records []*models.ParsedRecord) time.Time {
	latest := records[0].Timestamp
	for _, record := range records[1:] {
		if record.Timestamp.After(latest) {
			latest = record.Timestamp
		}
	}
	return latest
}

// groupByClientService splits a batch into per (client, service) groups,
// preserving batch order within each group and first-seen group order.
func groupByClientService(records []*models.ParsedRecord) ([]string, map[string][]*models.ParsedRecord) {
	groups := make(map[string][]*models.ParsedRecord)
	var order []string
	for _, record := range records {
		key := record.GroupKey()
		if _, exists := groups[key]; !exists {
			order = append(order, key)
		}
		groups[key] = append(groups[key], record)
	}
	return order, groups
}
