// ABOUTME: Repository interface for physiological data storage.
// ABOUTME: Defines contract for daily logs, context events, episodes, and plans.
package storage

import (
	"github.com/conradlabs/coach/internal/models"
)

// Repository defines the storage interface for coach data.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Daily log operations
	UpsertDailyLog(log *models.DailyLog) error
	GetDailyLog(userID, day string) (*models.DailyLog, error)
	ListDailyLogs(userID, startDay, endDay string) ([]*models.DailyLog, error)
	LatestWeightOnOrBefore(userID, day string) (*float64, error)

	// Proxy score operations
	UpsertProxyScore(p *models.ProxyScore) error
	ListProxyScores(userID, startDay, endDay string) ([]*models.ProxyScore, error)

	// Context event operations
	UpsertContextEvent(ev *models.ContextEvent) error
	ListContextEvents(userID, tag, startDay, endDay string) ([]*models.ContextEvent, error)
	DeleteContextEvents(userID, tag, startDay, endDay string) error

	// Lens episode operations
	OpenEpisode(userID, tag string) (*models.LensEpisode, error)
	CreateEpisode(ep *models.LensEpisode) error
	ConcludeEpisode(ep *models.LensEpisode, endDay, summaryJSON string) (*models.LensArchive, error)
	ListArchives(userID, tag string, limit int) ([]*models.LensArchive, error)

	// Plan operations
	GetPlan(userID string) (*models.PlanSettings, error)
	SavePlan(userID string, plan *models.PlanSettings) error

	// Lifecycle
	Close() error
}
