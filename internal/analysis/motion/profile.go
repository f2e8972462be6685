package motion

import (
	"github.com/jengzang/motion-profile-go/internal/config"
	"github.com/jengzang/motion-profile-go/internal/models"
)

// DayResult carries a day's summary and the intermediate sequences behind it
type DayResult struct {
	Summary models.DaySummary
	Fixes   []models.Fix  // Filtered fixes, anchor first
	Pairs   []models.Pair // Classified pairs with idle durations
	Runs    []models.IdleRun
}

// ProfileDay runs filter, classification, idle aggregation and summary on
// one day segment. Fixes must already be projected.
func ProfileDay(seg DaySegment, th config.Thresholds) DayResult {
	filtered := Filter(seg.Fixes, th.Sigmas)
	pairs := Classify(filtered.Fixes, th)

	var runs []models.IdleRun
	if len(filtered.Fixes) > 0 {
		runs = AggregateIdleRuns(filtered.Fixes[0].Timestamp, pairs)
	}

	summary := Summarize(seg.Day, pairs, runs, th)
	summary.FixCount = len(filtered.Fixes)
	summary.DroppedDisplacement = filtered.DroppedDisplacement
	summary.DroppedDuplicate = filtered.DroppedDuplicate

	return DayResult{
		Summary: summary,
		Fixes:   filtered.Fixes,
		Pairs:   pairs,
		Runs:    runs,
	}
}
