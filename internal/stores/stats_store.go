package stores

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"download-analytics/internal/models"
)

// StatsStore persists the per-client and per-service running aggregates.
// Rows are created on first sight and accumulated thereafter; nothing here
// deletes them (ResetAll is the only teardown path).
type StatsStore struct {
	db DBTX
}

func NewStatsStore(db DBTX) *StatsStore {
	return &StatsStore{db: db}
}

// WithTx returns a store bound to tx.
func (s *StatsStore) WithTx(tx *sql.Tx) *StatsStore {
	return &StatsStore{db: tx}
}

// UpsertClient adds hit/miss bytes to the client's aggregate, creating the
// row if absent. newSessions is the session-counter increment and is nonzero
// only when the aggregation engine created a session for this client.
// last_seen never moves backwards; batches persist out of order.
func (s *StatsStore) UpsertClient(ctx context.Context, clientID string, hitBytes, missBytes int64, lastSeen time.Time, newSessions int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO client_stats (client_id, hit_bytes, miss_bytes, last_seen, session_count)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(client_id) DO UPDATE SET
			hit_bytes = hit_bytes + excluded.hit_bytes,
			miss_bytes = miss_bytes + excluded.miss_bytes,
			last_seen = MAX(last_seen, excluded.last_seen),
			session_count = session_count + excluded.session_count`,
		clientID, hitBytes, missBytes, formatTime(lastSeen), newSessions)
	if err != nil {
		return fmt.Errorf("failed to upsert client stats for %s: %w", clientID, err)
	}
	return nil
}

// UpsertService mirrors UpsertClient for the per-service aggregate.
func (s *StatsStore) UpsertService(ctx context.Context, service string, hitBytes, missBytes int64, lastActivity time.Time, newSessions int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO service_stats (service, hit_bytes, miss_bytes, last_activity, session_count)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(service) DO UPDATE SET
			hit_bytes = hit_bytes + excluded.hit_bytes,
			miss_bytes = miss_bytes + excluded.miss_bytes,
			last_activity = MAX(last_activity, excluded.last_activity),
			session_count = session_count + excluded.session_count`,
		service, hitBytes, missBytes, formatTime(lastActivity), newSessions)
	if err != nil {
		return fmt.Errorf("failed to upsert service stats for %s: %w", service, err)
	}
	return nil
}

// Clients returns every client aggregate, most recently seen first.
func (s *StatsStore) Clients(ctx context.Context) ([]*models.ClientAggregate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT client_id, hit_bytes, miss_bytes, last_seen, session_count
		FROM client_stats
		ORDER BY last_seen DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query client stats: %w", err)
	}
	defer rows.Close()

	var clients []*models.ClientAggregate
	for rows.Next() {
		var (
			client   models.ClientAggregate
			lastSeen string
		)
		if err := rows.Scan(&client.ClientID, &client.HitBytes, &client.MissBytes, &lastSeen, &client.SessionCount); err != nil {
			return nil, err
		}
		if client.LastSeen, err = parseStoredTime(lastSeen); err != nil {
			return nil, err
		}
		clients = append(clients, &client)
	}
	return clients, rows.Err()
}

// Services returns every service aggregate, most recently active first.
func (s *StatsStore) Services(ctx context.Context) ([]*models.ServiceAggregate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT service, hit_bytes, miss_bytes, last_activity, session_count
		FROM service_stats
		ORDER BY last_activity DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query service stats: %w", err)
	}
	defer rows.Close()

	var services []*models.ServiceAggregate
	for rows.Next() {
		var (
			service      models.ServiceAggregate
			lastActivity string
		)
		if err := rows.Scan(&service.Service, &service.HitBytes, &service.MissBytes, &lastActivity, &service.SessionCount); err != nil {
			return nil, err
		}
		if service.LastActivity, err = parseStoredTime(lastActivity); err != nil {
			return nil, err
		}
		services = append(services, &service)
	}
	return services, rows.Err()
}
