// ABOUTME: CRUD operations for daily logs and proxy scores.
// ABOUTME: Upserts are last-write-wins on (user_id, day).
package storage

import (
	"database/sql"
	"fmt"

	"github.com/conradlabs/coach/internal/models"
)

const dailyLogColumns = `user_id, day, morning_weight_lb, waist_in,
	sleep_start_min, sleep_end_min, sleep_minutes, awake_in_bed_min,
	hrv_ms, resting_hr_bpm,
	cardio_start_min, cardio_end_min, cardio_z1_min, cardio_z2_min, cardio_z3_min,
	lift_start_min, lift_end_min, lift_working_min, lift_idle_min, lift_done, session_strain,
	placeholder, notes`

// UpsertDailyLog inserts or fully replaces the row for (user, day).
func (d *DB) UpsertDailyLog(log *models.DailyLog) error {
	if log.UserID == "" || log.Day == "" {
		return fmt.Errorf("daily log requires user and day")
	}

	query := `INSERT INTO daily_logs (` + dailyLogColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, day) DO UPDATE SET
			morning_weight_lb = excluded.morning_weight_lb,
			waist_in = excluded.waist_in,
			sleep_start_min = excluded.sleep_start_min,
			sleep_end_min = excluded.sleep_end_min,
			sleep_minutes = excluded.sleep_minutes,
			awake_in_bed_min = excluded.awake_in_bed_min,
			hrv_ms = excluded.hrv_ms,
			resting_hr_bpm = excluded.resting_hr_bpm,
			cardio_start_min = excluded.cardio_start_min,
			cardio_end_min = excluded.cardio_end_min,
			cardio_z1_min = excluded.cardio_z1_min,
			cardio_z2_min = excluded.cardio_z2_min,
			cardio_z3_min = excluded.cardio_z3_min,
			lift_start_min = excluded.lift_start_min,
			lift_end_min = excluded.lift_end_min,
			lift_working_min = excluded.lift_working_min,
			lift_idle_min = excluded.lift_idle_min,
			lift_done = excluded.lift_done,
			session_strain = excluded.session_strain,
			placeholder = excluded.placeholder,
			notes = excluded.notes`

	_, err := d.db.Exec(query,
		log.UserID, log.Day, log.MorningWeightLb, log.WaistIn,
		log.SleepStartMin, log.SleepEndMin, log.SleepMinutes, log.AwakeInBedMin,
		log.HRVMs, log.RestingHRBpm,
		log.CardioStartMin, log.CardioEndMin, log.CardioZone1Min, log.CardioZone2Min, log.CardioZone3Min,
		log.LiftStartMin, log.LiftEndMin, log.LiftWorkingMin, log.LiftIdleMin, log.LiftDone, log.SessionStrain,
		log.Placeholder, log.Notes)
	if err != nil {
		return fmt.Errorf("upsert daily log: %w", err)
	}
	return nil
}

// GetDailyLog retrieves the row for (user, day), or nil if the day was
// never logged.
func (d *DB) GetDailyLog(userID, day string) (*models.DailyLog, error) {
	query := `SELECT ` + dailyLogColumns + ` FROM daily_logs WHERE user_id = ? AND day = ?`
	log, err := scanDailyLog(d.db.QueryRow(query, userID, day))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get daily log: %w", err)
	}
	return log, nil
}

// ListDailyLogs retrieves all logged rows in [startDay, endDay], ordered
// by day ascending. Days with no row are simply absent.
func (d *DB) ListDailyLogs(userID, startDay, endDay string) ([]*models.DailyLog, error) {
	query := `SELECT ` + dailyLogColumns + ` FROM daily_logs
		WHERE user_id = ? AND day >= ? AND day <= ? ORDER BY day ASC`

	rows, err := d.db.Query(query, userID, startDay, endDay)
	if err != nil {
		return nil, fmt.Errorf("list daily logs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var logs []*models.DailyLog
	for rows.Next() {
		log, err := scanDailyLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan daily log: %w", err)
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

// LatestWeightOnOrBefore returns the most recent morning weight logged on
// or before day, or nil when no weight exists.
func (d *DB) LatestWeightOnOrBefore(userID, day string) (*float64, error) {
	query := `SELECT morning_weight_lb FROM daily_logs
		WHERE user_id = ? AND day <= ? AND morning_weight_lb IS NOT NULL
		ORDER BY day DESC LIMIT 1`

	var weight float64
	err := d.db.QueryRow(query, userID, day).Scan(&weight)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest weight: %w", err)
	}
	return &weight, nil
}

// UpsertProxyScore inserts or replaces the proxy score for (user, day).
func (d *DB) UpsertProxyScore(p *models.ProxyScore) error {
	query := `INSERT INTO proxy_scores (user_id, day, score) VALUES (?, ?, ?)
		ON CONFLICT(user_id, day) DO UPDATE SET score = excluded.score`
	if _, err := d.db.Exec(query, p.UserID, p.Day, p.Score); err != nil {
		return fmt.Errorf("upsert proxy score: %w", err)
	}
	return nil
}

// ListProxyScores retrieves proxy scores in [startDay, endDay], ordered
// by day ascending.
func (d *DB) ListProxyScores(userID, startDay, endDay string) ([]*models.ProxyScore, error) {
	query := `SELECT user_id, day, score FROM proxy_scores
		WHERE user_id = ? AND day >= ? AND day <= ? ORDER BY day ASC`

	rows, err := d.db.Query(query, userID, startDay, endDay)
	if err != nil {
		return nil, fmt.Errorf("list proxy scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var scores []*models.ProxyScore
	for rows.Next() {
		p := &models.ProxyScore{}
		if err := rows.Scan(&p.UserID, &p.Day, &p.Score); err != nil {
			return nil, fmt.Errorf("scan proxy score: %w", err)
		}
		scores = append(scores, p)
	}
	return scores, rows.Err()
}

// scanner matches both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDailyLog(row scanner) (*models.DailyLog, error) {
	log := &models.DailyLog{}
	err := row.Scan(
		&log.UserID, &log.Day, &log.MorningWeightLb, &log.WaistIn,
		&log.SleepStartMin, &log.SleepEndMin, &log.SleepMinutes, &log.AwakeInBedMin,
		&log.HRVMs, &log.RestingHRBpm,
		&log.CardioStartMin, &log.CardioEndMin, &log.CardioZone1Min, &log.CardioZone2Min, &log.CardioZone3Min,
		&log.LiftStartMin, &log.LiftEndMin, &log.LiftWorkingMin, &log.LiftIdleMin, &log.LiftDone, &log.SessionStrain,
		&log.Placeholder, &log.Notes)
	if err != nil {
		return nil, err
	}
	return log, nil
}
