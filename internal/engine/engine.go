// ABOUTME: Service layer wiring stored rows into the scorers.
// ABOUTME: Loads metric series, owns cache invalidation and the episode service.
package engine

import (
	"fmt"

	"github.com/conradlabs/coach/internal/baseline"
	"github.com/conradlabs/coach/internal/cache"
	"github.com/conradlabs/coach/internal/disturb"
	"github.com/conradlabs/coach/internal/lens"
	"github.com/conradlabs/coach/internal/models"
	"github.com/conradlabs/coach/internal/storage"
	"github.com/conradlabs/coach/internal/window"
)

// Minimum sample counts before a rolling baseline is trusted. Fewer
// observations degrade the delta to nil rather than a noisy number.
const (
	MinShortSamples = 2
	MinLongSamples  = 4
)

// Engine computes every derived view from the stored daily rows. All
// results are recomputed per query; the cache only memoizes them.
type Engine struct {
	repo  storage.Repository
	cache *cache.Cache
	lens  *lens.Service
}

// New wires the engine. cache may be nil, which disables memoization.
func New(repo storage.Repository, c *cache.Cache) *Engine {
	e := &Engine{repo: repo, cache: c}
	e.lens = lens.NewService(repo, func(userID, day string) (disturb.Result, error) {
		d, err := e.Disturbance(userID, day)
		if err != nil {
			return disturb.Result{}, err
		}
		return d.Result, nil
	})
	return e
}

// Lens exposes the episode lifecycle service.
func (e *Engine) Lens() *lens.Service { return e.lens }

// LogDay upserts a daily row and invalidates every derived view for the
// user. Last write wins per (user, day).
func (e *Engine) LogDay(log *models.DailyLog) error {
	if _, err := window.ParseDay(log.Day); err != nil {
		return err
	}
	if err := e.repo.UpsertDailyLog(log); err != nil {
		return err
	}
	e.invalidate(log.UserID)
	return nil
}

// LogProxy upserts a daily androgen-proxy score.
func (e *Engine) LogProxy(p *models.ProxyScore) error {
	if _, err := window.ParseDay(p.Day); err != nil {
		return err
	}
	if err := e.repo.UpsertProxyScore(p); err != nil {
		return err
	}
	e.invalidate(p.UserID)
	return nil
}

func (e *Engine) invalidate(userID string) {
	if e.cache == nil {
		return
	}
	for _, concern := range []string{"disturbance", "regimen"} {
		_ = e.cache.InvalidatePrefix(concern + ":" + userID)
	}
}

// seriesSet is the loaded metric view over one date range. The logs map
// keeps the raw rows for timing lookups the series do not carry.
type seriesSet struct {
	weight *baseline.Series
	waist  *baseline.Series
	hrv    *baseline.Series
	rhr    *baseline.Series
	sleep  *baseline.Series
	proxy  *baseline.Series

	logs map[string]*models.DailyLog
}

// loadSeries builds the per-metric series for [fromDay, toDay]. Days
// with no row are explicit gaps. Placeholder rows contribute only their
// carried-forward weight.
func (e *Engine) loadSeries(userID, fromDay, toDay string) (*seriesSet, error) {
	logs, err := e.repo.ListDailyLogs(userID, fromDay, toDay)
	if err != nil {
		return nil, fmt.Errorf("load daily logs: %w", err)
	}
	proxies, err := e.repo.ListProxyScores(userID, fromDay, toDay)
	if err != nil {
		return nil, fmt.Errorf("load proxy scores: %w", err)
	}

	set := &seriesSet{
		weight: baseline.NewSeries(nil),
		waist:  baseline.NewSeries(nil),
		hrv:    baseline.NewSeries(nil),
		rhr:    baseline.NewSeries(nil),
		sleep:  baseline.NewSeries(nil),
		proxy:  baseline.NewSeries(nil),
		logs:   make(map[string]*models.DailyLog, len(logs)),
	}
	for _, log := range logs {
		set.logs[log.Day] = log
		if log.MorningWeightLb != nil {
			set.weight.Set(log.Day, *log.MorningWeightLb)
		}
		if log.Placeholder {
			continue
		}
		if log.WaistIn != nil {
			set.waist.Set(log.Day, *log.WaistIn)
		}
		if log.HRVMs != nil {
			set.hrv.Set(log.Day, *log.HRVMs)
		}
		if log.RestingHRBpm != nil {
			set.rhr.Set(log.Day, *log.RestingHRBpm)
		}
		if d := log.SleepDurationMin(); d != nil {
			set.sleep.Set(log.Day, float64(*d))
		}
	}
	for _, p := range proxies {
		set.proxy.Set(p.Day, p.Score)
	}
	return set, nil
}

func (e *Engine) plan(userID string) (*models.PlanSettings, error) {
	plan, err := e.repo.GetPlan(userID)
	if err != nil {
		return nil, fmt.Errorf("load plan: %w", err)
	}
	return plan, nil
}
