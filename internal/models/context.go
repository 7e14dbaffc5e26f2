// ABOUTME: Context tagging models: per-day events, episodes, archives.
// ABOUTME: An episode is the bounded lifetime of a user-labeled life event.
package models

import (
	"time"

	"github.com/google/uuid"
)

// ContextEvent records that a named context (free-text tag like "travel"
// or "new job") was active on a day. Uniqueness key is (user, day, tag)
// with upsert semantics, last write wins.
type ContextEvent struct {
	UserID string
	Day    string
	Tag    string

	// AdjustmentAttempted marks the day an intervention for this context
	// was tried; the phase classifier refuses to call a context chronic
	// before an attempt has had time to take effect.
	AdjustmentAttempted bool

	CreatedAt time.Time
}

// LensEpisode is a bounded run of a tag. At most one open episode
// (EndDay == nil) may exist per (user, tag); starting a second is a
// caller error, enforced by the store.
type LensEpisode struct {
	ID       uuid.UUID
	UserID   string
	Tag      string
	StartDay string
	EndDay   *string

	CreatedAt time.Time
}

// Open reports whether the episode has not yet been concluded.
func (e *LensEpisode) Open() bool { return e.EndDay == nil }

// NewLensEpisode creates an open episode for a tag.
func NewLensEpisode(userID, tag, startDay string) *LensEpisode {
	return &LensEpisode{
		ID:        uuid.New(),
		UserID:    userID,
		Tag:       tag,
		StartDay:  startDay,
		CreatedAt: time.Now(),
	}
}

// LensArchive is the sole durable record of a concluded episode. The
// day-level ContextEvent rows for its span are compacted away once the
// archive row exists.
type LensArchive struct {
	ID          uuid.UUID
	UserID      string
	Tag         string
	StartDay    string
	EndDay      string
	SummaryJSON string
	CreatedAt   time.Time
}
