package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"download-analytics/internal/models"
)

// SessionStore persists download sessions. All methods run against the DBTX
// supplied at construction, so the aggregation engine can scope a store to a
// per-group transaction with WithTx.
type SessionStore struct {
	db DBTX
}

func NewSessionStore(db DBTX) *SessionStore {
	return &SessionStore{db: db}
}

// WithTx returns a store bound to tx.
func (s *SessionStore) WithTx(tx *sql.Tx) *SessionStore {
	return &SessionStore{db: tx}
}

const sessionColumns = `id, service, client_id, content_unit, display_name, client_app, last_url,
	start_time, last_activity, hit_bytes, miss_bytes, is_active, status`

// FindActive returns the active session for (service, client, contentUnit)
// whose last activity is at or after activeSince, or nil when none exists.
func (s *SessionStore) FindActive(ctx context.Context, service, clientID, contentUnit string, activeSince time.Time) (*models.DownloadSession, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`
		FROM downloads
		WHERE is_active = 1 AND service = ? AND client_id = ? AND content_unit = ? AND last_activity >= ?
		ORDER BY last_activity DESC
		LIMIT 1`,
		service, clientID, contentUnit, formatTime(activeSince))

	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return session, err
}

func (s *SessionStore) Insert(ctx context.Context, session *models.DownloadSession) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO downloads (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID, session.Service, session.ClientID, session.ContentUnit,
		session.DisplayName, session.ClientApp, session.LastURL,
		formatTime(session.StartTime), formatTime(session.LastActivity),
		session.HitBytes, session.MissBytes, boolToInt(session.Active), string(session.Status))
	if err != nil {
		return fmt.Errorf("failed to insert session %s: %w", session.ID, err)
	}
	return nil
}

// Update persists the mutable fields of an existing session.
func (s *SessionStore) Update(ctx context.Context, session *models.DownloadSession) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE downloads
		SET last_activity = ?, hit_bytes = ?, miss_bytes = ?, last_url = ?,
			client_app = ?, is_active = ?, status = ?
		WHERE id = ?`,
		formatTime(session.LastActivity), session.HitBytes, session.MissBytes,
		session.LastURL, session.ClientApp, boolToInt(session.Active),
		string(session.Status), session.ID)
	if err != nil {
		return fmt.Errorf("failed to update session %s: %w", session.ID, err)
	}
	return nil
}

// CloseIdleBefore marks every active session whose last activity predates
// cutoff as completed, returning how many sessions were closed.
func (s *SessionStore) CloseIdleBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE downloads
		SET is_active = 0, status = ?
		WHERE is_active = 1 AND last_activity < ?`,
		string(models.StatusCompleted), formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to close idle sessions: %w", err)
	}
	closed, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return closed, nil
}

// Recent returns the most recently active sessions, newest first.
func (s *SessionStore) Recent(ctx context.Context, limit int) ([]*models.DownloadSession, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+sessionColumns+`
		FROM downloads
		ORDER BY last_activity DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent sessions: %w", err)
	}
	defer rows.Close()
	return collectSessions(rows)
}

// Active returns every session still marked active.
func (s *SessionStore) Active(ctx context.Context) ([]*models.DownloadSession, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+sessionColumns+`
		FROM downloads
		WHERE is_active = 1
		ORDER BY last_activity DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query active sessions: %w", err)
	}
	defer rows.Close()
	return collectSessions(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.DownloadSession, error) {
	var (
		session       models.DownloadSession
		startTime     string
		lastActivity  string
		isActive      int
		sessionStatus string
	)
	err := row.Scan(&session.ID, &session.Service, &session.ClientID, &session.ContentUnit,
		&session.DisplayName, &session.ClientApp, &session.LastURL,
		&startTime, &lastActivity, &session.HitBytes, &session.MissBytes,
		&isActive, &sessionStatus)
	if err != nil {
		return nil, err
	}

	if session.StartTime, err = parseStoredTime(startTime); err != nil {
		return nil, err
	}
	if session.LastActivity, err = parseStoredTime(lastActivity); err != nil {
		return nil, err
	}
	session.Active = isActive != 0
	session.Status = models.SessionStatus(sessionStatus)
	return &session, nil
}

func collectSessions(rows *sql.Rows) ([]*models.DownloadSession, error) {
	var sessions []*models.DownloadSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
