// ABOUTME: Regimen range classification over stored series, memoized.
// ABOUTME: Each day's mark depends only on its prior 28 days of rows.
package engine

import (
	"github.com/conradlabs/coach/internal/baseline"
	"github.com/conradlabs/coach/internal/cache"
	"github.com/conradlabs/coach/internal/regimen"
	"github.com/conradlabs/coach/internal/window"
)

// RegimenRange classifies every day in [startDay, endDay].
func (e *Engine) RegimenRange(userID, startDay, endDay string) ([]regimen.DayMark, error) {
	if _, err := window.ParseDay(startDay); err != nil {
		return nil, err
	}
	if _, err := window.ParseDay(endDay); err != nil {
		return nil, err
	}

	key := cache.Key("regimen", userID, startDay, endDay)
	if e.cache != nil {
		var cached []regimen.DayMark
		if found, err := e.cache.Get(key, &cached); err == nil && found {
			return cached, nil
		}
	}

	// The first classified day still needs its 28-day lookback.
	from := window.AddDays(startDay, -baseline.LongWindowDays)
	set, err := e.loadSeries(userID, from, endDay)
	if err != nil {
		return nil, err
	}

	training := make(map[string]regimen.TrainingDay, len(set.logs))
	for day, log := range set.logs {
		if log.Placeholder {
			continue
		}
		training[day] = regimen.TrainingDay{Strain: log.SessionStrain, LiftDone: log.LiftDone}
	}

	marks := regimen.ClassifyRange(regimen.Inputs{
		Weight:   set.weight,
		Waist:    set.waist,
		HRV:      set.hrv,
		Sleep:    set.sleep,
		Proxy:    set.proxy,
		Training: training,
	}, startDay, endDay)

	if e.cache != nil {
		_ = e.cache.Set(key, marks)
	}
	return marks, nil
}
