// ABOUTME: Episode lifecycle: start with back-fill, conclude with archiving.
// ABOUTME: Concluding compacts day-level events into a dual-baseline archive.
package lens

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/conradlabs/coach/internal/disturb"
	"github.com/conradlabs/coach/internal/models"
	"github.com/conradlabs/coach/internal/window"
)

// Lifecycle errors. Starting a second open episode is the one
// caller-correctable precondition violation in the system.
var (
	ErrEpisodeOpen   = errors.New("an open episode already exists for this tag")
	ErrNoOpenEpisode = errors.New("no open episode for this tag")
)

// Store is the persistence surface the lifecycle needs. Implemented by
// the SQLite repository; narrow by design so tests can fake it.
type Store interface {
	OpenEpisode(userID, tag string) (*models.LensEpisode, error)
	CreateEpisode(ep *models.LensEpisode) error
	ConcludeEpisode(ep *models.LensEpisode, endDay, summaryJSON string) (*models.LensArchive, error)

	UpsertContextEvent(ev *models.ContextEvent) error
	ListContextEvents(userID, tag, fromDay, toDay string) ([]*models.ContextEvent, error)

	GetDailyLog(userID, day string) (*models.DailyLog, error)
	UpsertDailyLog(log *models.DailyLog) error
	LatestWeightOnOrBefore(userID, day string) (*float64, error)
}

// ScoreFunc computes the disturbance result for one day. Supplied by the
// engine so the lifecycle stays decoupled from series plumbing.
type ScoreFunc func(userID, day string) (disturb.Result, error)

// Service owns episode start/conclude semantics.
type Service struct {
	store Store
	score ScoreFunc
	today func() string
}

// NewService wires the lifecycle. today is injectable for tests.
func NewService(store Store, score ScoreFunc) *Service {
	return &Service{store: store, score: score, today: window.Today}
}

// WithToday overrides the clock. Test hook.
func (s *Service) WithToday(f func() string) *Service {
	s.today = f
	return s
}

// StartEpisode opens an episode for a tag, back-filling a ContextEvent
// for every day from startDay through today. It also seeds a placeholder
// daily log carrying forward the last known weight when today has no row
// yet, so rolling windows do not show a hard gap while the context is
// being tagged.
func (s *Service) StartEpisode(userID, tag, startDay string) (*models.LensEpisode, error) {
	if _, err := window.ParseDay(startDay); err != nil {
		return nil, err
	}

	open, err := s.store.OpenEpisode(userID, tag)
	if err != nil {
		return nil, fmt.Errorf("check open episode: %w", err)
	}
	if open != nil {
		return nil, fmt.Errorf("%w: %s open since %s", ErrEpisodeOpen, tag, open.StartDay)
	}

	ep := models.NewLensEpisode(userID, tag, startDay)
	if err := s.store.CreateEpisode(ep); err != nil {
		return nil, fmt.Errorf("create episode: %w", err)
	}

	// Back-fill startDay..today; a future-dated start gets only its own day.
	end := s.today()
	if window.DaysBetween(startDay, end) < 0 {
		end = startDay
	}
	for _, day := range window.RangeDays(startDay, end) {
		ev := &models.ContextEvent{
			UserID:    userID,
			Day:       day,
			Tag:       tag,
			CreatedAt: time.Now(),
		}
		if err := s.store.UpsertContextEvent(ev); err != nil {
			return nil, fmt.Errorf("backfill context event %s: %w", day, err)
		}
	}

	s.seedPlaceholderLog(userID)
	return ep, nil
}

// seedPlaceholderLog writes a carried-forward weight row for today when
// nothing has been logged yet. Best effort: failure to seed never fails
// the start.
func (s *Service) seedPlaceholderLog(userID string) {
	today := s.today()
	existing, err := s.store.GetDailyLog(userID, today)
	if err != nil || existing != nil {
		return
	}
	weight, err := s.store.LatestWeightOnOrBefore(userID, window.AddDays(today, -1))
	if err != nil || weight == nil {
		return
	}
	_ = s.store.UpsertDailyLog(&models.DailyLog{
		UserID:          userID,
		Day:             today,
		MorningWeightLb: weight,
		Placeholder:     true,
	})
}

// TagDay records that the tag was active on a day. Requires an open
// episode so stray tags cannot accumulate outside any context.
func (s *Service) TagDay(userID, tag, day string) error {
	if _, err := window.ParseDay(day); err != nil {
		return err
	}
	open, err := s.store.OpenEpisode(userID, tag)
	if err != nil {
		return err
	}
	if open == nil {
		return fmt.Errorf("%w: %s", ErrNoOpenEpisode, tag)
	}
	return s.store.UpsertContextEvent(&models.ContextEvent{
		UserID:    userID,
		Day:       day,
		Tag:       tag,
		CreatedAt: time.Now(),
	})
}

// MarkAdjustment records that an intervention for the tag was attempted
// on a day, updating that day's event row.
func (s *Service) MarkAdjustment(userID, tag, day string) error {
	open, err := s.store.OpenEpisode(userID, tag)
	if err != nil {
		return err
	}
	if open == nil {
		return fmt.Errorf("%w: %s", ErrNoOpenEpisode, tag)
	}
	return s.store.UpsertContextEvent(&models.ContextEvent{
		UserID:              userID,
		Day:                 day,
		Tag:                 tag,
		AdjustmentAttempted: true,
		CreatedAt:           time.Now(),
	})
}

// Interpretation labels for the episode-wide comparison.
const (
	InterpImproving    = "improving"
	InterpWorsening    = "worsening"
	InterpFlat         = "flat"
	InterpInsufficient = "insufficient_data"

	changeBand = 5.0 // points, inclusive on both boundaries
)

// ArchiveSummary is the frozen dual-baseline record of a concluded
// episode: a terminal single-day snapshot next to an episode-wide
// start-window vs end-window comparison. The terminal view answers "how
// does it look right now"; the episode-wide view answers "did this
// context get better or worse over its whole run".
type ArchiveSummary struct {
	Tag          string `json:"tag"`
	StartDay     string `json:"start_day"`
	EndDay       string `json:"end_day"`
	DurationDays int    `json:"duration_days"`
	TaggedDays   int    `json:"tagged_days"`
	WindowSize   int    `json:"window_size"`

	TerminalRolling *disturb.Result `json:"terminal_rolling,omitempty"`

	StartWindowMean   *float64 `json:"start_window_mean,omitempty"`
	EndWindowMean     *float64 `json:"end_window_mean,omitempty"`
	DisturbanceChange *float64 `json:"disturbance_change,omitempty"`
	Interpretation    string   `json:"interpretation"`

	Error string `json:"error,omitempty"`
}

// ConcludeEpisode closes the open episode for a tag at endDay, computes
// the dual-baseline summary, archives it, and compacts the day-level
// event rows. A summary computation failure degrades to a minimal
// {error, duration_days} payload; closing is never blocked by a failure
// to summarize.
func (s *Service) ConcludeEpisode(userID, tag, endDay string) (*ArchiveSummary, *models.LensArchive, error) {
	if _, err := window.ParseDay(endDay); err != nil {
		return nil, nil, err
	}

	open, err := s.store.OpenEpisode(userID, tag)
	if err != nil {
		return nil, nil, fmt.Errorf("find open episode: %w", err)
	}
	if open == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrNoOpenEpisode, tag)
	}
	if window.DaysBetween(open.StartDay, endDay) < 0 {
		return nil, nil, fmt.Errorf("end day %s precedes episode start %s", endDay, open.StartDay)
	}

	summary, err := s.computeSummary(userID, open, endDay)
	if err != nil {
		summary = &ArchiveSummary{
			Tag:            tag,
			StartDay:       open.StartDay,
			EndDay:         endDay,
			DurationDays:   window.DaysBetween(open.StartDay, endDay) + 1,
			Interpretation: InterpInsufficient,
			Error:          err.Error(),
		}
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal archive summary: %w", err)
	}

	archive, err := s.store.ConcludeEpisode(open, endDay, string(payload))
	if err != nil {
		return nil, nil, fmt.Errorf("conclude episode: %w", err)
	}
	return summary, archive, nil
}

func (s *Service) computeSummary(userID string, ep *models.LensEpisode, endDay string) (*ArchiveSummary, error) {
	summary := &ArchiveSummary{
		Tag:          ep.Tag,
		StartDay:     ep.StartDay,
		EndDay:       endDay,
		DurationDays: window.DaysBetween(ep.StartDay, endDay) + 1,
	}

	// Only days actually tagged inside the episode's span count; raw
	// events outside [start, end] never leak into the windows.
	events, err := s.store.ListContextEvents(userID, ep.Tag, ep.StartDay, endDay)
	if err != nil {
		return nil, fmt.Errorf("list tagged days: %w", err)
	}
	taggedDays := make([]string, 0, len(events))
	for _, ev := range events {
		taggedDays = append(taggedDays, ev.Day)
	}
	summary.TaggedDays = len(taggedDays)

	terminal, err := s.score(userID, endDay)
	if err != nil {
		return nil, fmt.Errorf("terminal snapshot: %w", err)
	}
	summary.TerminalRolling = &terminal

	size := windowSize(len(taggedDays))
	summary.WindowSize = size
	if size == 0 {
		summary.Interpretation = InterpInsufficient
		return summary, nil
	}

	startMean, err := s.meanScore(userID, taggedDays[:size])
	if err != nil {
		return nil, err
	}
	endMean, err := s.meanScore(userID, taggedDays[len(taggedDays)-size:])
	if err != nil {
		return nil, err
	}
	change := endMean - startMean

	summary.StartWindowMean = &startMean
	summary.EndWindowMean = &endMean
	summary.DisturbanceChange = &change
	summary.Interpretation = interpret(change)
	return summary, nil
}

// windowSize: 7 tagged days or more uses a week on each end; 3 to 6 uses
// 3 (the windows fully overlap at exactly N=3 or N=7); below 3 there is
// nothing to compare.
func windowSize(taggedDays int) int {
	switch {
	case taggedDays >= 7:
		return 7
	case taggedDays >= 3:
		return 3
	default:
		return 0
	}
}

func interpret(change float64) string {
	switch {
	case change <= -changeBand:
		return InterpImproving
	case change >= changeBand:
		return InterpWorsening
	default:
		return InterpFlat
	}
}

func (s *Service) meanScore(userID string, days []string) (float64, error) {
	sum := 0.0
	for _, day := range days {
		r, err := s.score(userID, day)
		if err != nil {
			return 0, fmt.Errorf("score %s: %w", day, err)
		}
		sum += r.Score
	}
	return sum / float64(len(days)), nil
}
