// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Daily logs, proxy scores, context events, episodes, archives, plans.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS daily_logs (
		user_id TEXT NOT NULL,
		day TEXT NOT NULL,
		morning_weight_lb REAL,
		waist_in REAL,
		sleep_start_min INTEGER,
		sleep_end_min INTEGER,
		sleep_minutes INTEGER,
		awake_in_bed_min INTEGER,
		hrv_ms REAL,
		resting_hr_bpm REAL,
		cardio_start_min INTEGER,
		cardio_end_min INTEGER,
		cardio_z1_min INTEGER,
		cardio_z2_min INTEGER,
		cardio_z3_min INTEGER,
		lift_start_min INTEGER,
		lift_end_min INTEGER,
		lift_working_min INTEGER,
		lift_idle_min INTEGER,
		lift_done INTEGER,
		session_strain REAL,
		placeholder INTEGER NOT NULL DEFAULT 0,
		notes TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, day)
	);

	CREATE TABLE IF NOT EXISTS proxy_scores (
		user_id TEXT NOT NULL,
		day TEXT NOT NULL,
		score REAL NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, day)
	);

	CREATE TABLE IF NOT EXISTS context_events (
		user_id TEXT NOT NULL,
		day TEXT NOT NULL,
		tag TEXT NOT NULL,
		adjustment_attempted INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, day, tag)
	);

	CREATE TABLE IF NOT EXISTS lens_episodes (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		tag TEXT NOT NULL,
		start_day TEXT NOT NULL,
		end_day TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS lens_archives (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		tag TEXT NOT NULL,
		start_day TEXT NOT NULL,
		end_day TEXT NOT NULL,
		summary_json TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS plan_settings (
		user_id TEXT PRIMARY KEY,
		bed_min INTEGER NOT NULL,
		wake_min INTEGER NOT NULL,
		cardio_start_min INTEGER NOT NULL,
		cardio_end_min INTEGER NOT NULL,
		lift_start_min INTEGER NOT NULL,
		lift_end_min INTEGER NOT NULL,
		bedtime_late_tolerance_min INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_daily_logs_day ON daily_logs(user_id, day DESC);
	CREATE INDEX IF NOT EXISTS idx_context_events_tag ON context_events(user_id, tag, day);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_lens_episodes_open
		ON lens_episodes(user_id, tag) WHERE end_day IS NULL;
	CREATE INDEX IF NOT EXISTS idx_lens_archives_tag ON lens_archives(user_id, tag, end_day DESC);
	`

	_, err := d.db.Exec(schema)
	return err
}
