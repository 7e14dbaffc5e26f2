// ABOUTME: Storage for context events, lens episodes, and archives.
// ABOUTME: ConcludeEpisode is transactional: close, archive, compact.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/conradlabs/coach/internal/models"
)

// UpsertContextEvent inserts or replaces the event for (user, day, tag).
func (d *DB) UpsertContextEvent(ev *models.ContextEvent) error {
	query := `INSERT INTO context_events (user_id, day, tag, adjustment_attempted)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, day, tag) DO UPDATE SET
			adjustment_attempted = excluded.adjustment_attempted`
	if _, err := d.db.Exec(query, ev.UserID, ev.Day, ev.Tag, ev.AdjustmentAttempted); err != nil {
		return fmt.Errorf("upsert context event: %w", err)
	}
	return nil
}

// ListContextEvents retrieves events for a tag in [startDay, endDay],
// ordered by day ascending. An empty tag matches all tags.
func (d *DB) ListContextEvents(userID, tag, startDay, endDay string) ([]*models.ContextEvent, error) {
	query := `SELECT user_id, day, tag, adjustment_attempted, created_at FROM context_events
		WHERE user_id = ? AND day >= ? AND day <= ?`
	args := []interface{}{userID, startDay, endDay}
	if tag != "" {
		query += ` AND tag = ?`
		args = append(args, tag)
	}
	query += ` ORDER BY day ASC, tag ASC`

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list context events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []*models.ContextEvent
	for rows.Next() {
		ev := &models.ContextEvent{}
		if err := rows.Scan(&ev.UserID, &ev.Day, &ev.Tag, &ev.AdjustmentAttempted, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan context event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// DeleteContextEvents removes a tag's events in [startDay, endDay].
func (d *DB) DeleteContextEvents(userID, tag, startDay, endDay string) error {
	query := `DELETE FROM context_events WHERE user_id = ? AND tag = ? AND day >= ? AND day <= ?`
	if _, err := d.db.Exec(query, userID, tag, startDay, endDay); err != nil {
		return fmt.Errorf("delete context events: %w", err)
	}
	return nil
}

// OpenEpisode returns the open episode for (user, tag), or nil when the
// tag has no open episode.
func (d *DB) OpenEpisode(userID, tag string) (*models.LensEpisode, error) {
	query := `SELECT id, user_id, tag, start_day, end_day, created_at FROM lens_episodes
		WHERE user_id = ? AND tag = ? AND end_day IS NULL`
	ep, err := scanEpisode(d.db.QueryRow(query, userID, tag))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get open episode: %w", err)
	}
	return ep, nil
}

// CreateEpisode inserts a new open episode. The partial unique index on
// (user_id, tag) WHERE end_day IS NULL rejects a second open episode at
// the database level even if callers race past the precheck.
func (d *DB) CreateEpisode(ep *models.LensEpisode) error {
	query := `INSERT INTO lens_episodes (id, user_id, tag, start_day, end_day)
		VALUES (?, ?, ?, ?, ?)`
	if _, err := d.db.Exec(query, ep.ID.String(), ep.UserID, ep.Tag, ep.StartDay, ep.EndDay); err != nil {
		return fmt.Errorf("create episode: %w", err)
	}
	return nil
}

// ConcludeEpisode closes an episode at endDay, writes its archive row,
// and compacts the day-level events inside its span, all in one
// transaction. Either everything lands or nothing does.
func (d *DB) ConcludeEpisode(ep *models.LensEpisode, endDay, summaryJSON string) (*models.LensArchive, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin conclude: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`UPDATE lens_episodes SET end_day = ? WHERE id = ? AND end_day IS NULL`,
		endDay, ep.ID.String())
	if err != nil {
		return nil, fmt.Errorf("close episode: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("episode %s is not open", ep.ID)
	}

	archive := &models.LensArchive{
		ID:          uuid.New(),
		UserID:      ep.UserID,
		Tag:         ep.Tag,
		StartDay:    ep.StartDay,
		EndDay:      endDay,
		SummaryJSON: summaryJSON,
		CreatedAt:   time.Now(),
	}
	_, err = tx.Exec(`INSERT INTO lens_archives (id, user_id, tag, start_day, end_day, summary_json)
		VALUES (?, ?, ?, ?, ?, ?)`,
		archive.ID.String(), archive.UserID, archive.Tag, archive.StartDay, archive.EndDay, archive.SummaryJSON)
	if err != nil {
		return nil, fmt.Errorf("insert archive: %w", err)
	}

	// Compact only the concluded span; events outside it (or for other
	// tags) survive untouched.
	_, err = tx.Exec(`DELETE FROM context_events
		WHERE user_id = ? AND tag = ? AND day >= ? AND day <= ?`,
		ep.UserID, ep.Tag, ep.StartDay, endDay)
	if err != nil {
		return nil, fmt.Errorf("compact events: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit conclude: %w", err)
	}
	return archive, nil
}

// ListArchives retrieves concluded-episode archives, newest end first.
// An empty tag matches all tags; limit <= 0 means no limit.
func (d *DB) ListArchives(userID, tag string, limit int) ([]*models.LensArchive, error) {
	query := `SELECT id, user_id, tag, start_day, end_day, summary_json, created_at FROM lens_archives
		WHERE user_id = ?`
	args := []interface{}{userID}
	if tag != "" {
		query += ` AND tag = ?`
		args = append(args, tag)
	}
	query += ` ORDER BY end_day DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list archives: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var archives []*models.LensArchive
	for rows.Next() {
		a := &models.LensArchive{}
		var id string
		if err := rows.Scan(&id, &a.UserID, &a.Tag, &a.StartDay, &a.EndDay, &a.SummaryJSON, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan archive: %w", err)
		}
		a.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse archive id: %w", err)
		}
		archives = append(archives, a)
	}
	return archives, rows.Err()
}

func scanEpisode(row scanner) (*models.LensEpisode, error) {
	ep := &models.LensEpisode{}
	var id string
	if err := row.Scan(&id, &ep.UserID, &ep.Tag, &ep.StartDay, &ep.EndDay, &ep.CreatedAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse episode id: %w", err)
	}
	ep.ID = parsed
	return ep, nil
}
