package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/uplink/internal/models"
	"github.com/desertthunder/uplink/internal/shared"
)

// SessionRepository persists [models.SessionRecord] rows to sqlite.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Record inserts a finished session into the history table. A missing ID is
// generated; the record must validate before it is written.
func (r *SessionRepository) Record(rec *models.SessionRecord) error {
	if rec.ID == "" {
		rec.ID = shared.GenerateID()
	}

	if err := rec.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO sessions (id, status, file_count, total_bytes, loaded_bytes, form_action, navigation, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		rec.ID, rec.Status, rec.FileCount, rec.TotalBytes, rec.LoadedBytes,
		rec.FormAction, rec.Navigation, rec.Error, rec.StartedAt, rec.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

// Get retrieves a single session by ID
func (r *SessionRepository) Get(id string) (*models.SessionRecord, error) {
	query := `
		SELECT id, status, file_count, total_bytes, loaded_bytes, form_action, navigation, error, started_at, finished_at
		FROM sessions
		WHERE id = ?
	`

	rec := &models.SessionRecord{}
	err := r.db.QueryRow(query, id).Scan(
		&rec.ID, &rec.Status, &rec.FileCount, &rec.TotalBytes, &rec.LoadedBytes,
		&rec.FormAction, &rec.Navigation, &rec.Error, &rec.StartedAt, &rec.FinishedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	return rec, nil
}

// List retrieves the most recent sessions, newest first. A non-positive limit
// returns everything.
func (r *SessionRepository) List(limit int) ([]*models.SessionRecord, error) {
	query := `
		SELECT id, status, file_count, total_bytes, loaded_bytes, form_action, navigation, error, started_at, finished_at
		FROM sessions
		ORDER BY started_at DESC
	`

	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var records []*models.SessionRecord
	for rows.Next() {
		rec := &models.SessionRecord{}
		err := rows.Scan(
			&rec.ID, &rec.Status, &rec.FileCount, &rec.TotalBytes, &rec.LoadedBytes,
			&rec.FormAction, &rec.Navigation, &rec.Error, &rec.StartedAt, &rec.FinishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// Clear deletes all session history and reports how many rows were removed
func (r *SessionRepository) Clear() (int64, error) {
	result, err := r.db.Exec("DELETE FROM sessions")
	if err != nil {
		return 0, fmt.Errorf("failed to clear sessions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows, nil
}
