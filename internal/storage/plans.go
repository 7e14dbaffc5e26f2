// ABOUTME: Storage for plan settings, the user's daily schedule template.
// ABOUTME: Unset plans fall back to the locked defaults.
package storage

import (
	"database/sql"
	"fmt"

	"github.com/conradlabs/coach/internal/models"
)

// GetPlan retrieves the plan for a user, falling back to DefaultPlan
// when none was saved.
func (d *DB) GetPlan(userID string) (*models.PlanSettings, error) {
	query := `SELECT user_id, bed_min, wake_min, cardio_start_min, cardio_end_min,
		lift_start_min, lift_end_min, bedtime_late_tolerance_min
		FROM plan_settings WHERE user_id = ?`

	p := &models.PlanSettings{}
	err := d.db.QueryRow(query, userID).Scan(
		&p.UserID, &p.BedMin, &p.WakeMin, &p.CardioStartMin, &p.CardioEndMin,
		&p.LiftStartMin, &p.LiftEndMin, &p.BedtimeLateToleranceMin)
	if err == sql.ErrNoRows {
		return models.DefaultPlan(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return p, nil
}

// SavePlan inserts or replaces the plan for a user.
func (d *DB) SavePlan(userID string, plan *models.PlanSettings) error {
	query := `INSERT INTO plan_settings (user_id, bed_min, wake_min, cardio_start_min,
		cardio_end_min, lift_start_min, lift_end_min, bedtime_late_tolerance_min)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			bed_min = excluded.bed_min,
			wake_min = excluded.wake_min,
			cardio_start_min = excluded.cardio_start_min,
			cardio_end_min = excluded.cardio_end_min,
			lift_start_min = excluded.lift_start_min,
			lift_end_min = excluded.lift_end_min,
			bedtime_late_tolerance_min = excluded.bedtime_late_tolerance_min`
	_, err := d.db.Exec(query, userID, plan.BedMin, plan.WakeMin, plan.CardioStartMin,
		plan.CardioEndMin, plan.LiftStartMin, plan.LiftEndMin, plan.BedtimeLateToleranceMin)
	if err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	return nil
}
