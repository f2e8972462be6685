package motion

import (
	"time"

	"github.com/jengzang/motion-profile-go/internal/models"
)

// AggregateIdleRuns sets IdleDurationS on every pair and returns the idle runs.
//
// anchor is the timestamp of the fix before the first pair. The scan carries
// the timestamp of the last non-idle fix; an idle pair's duration is the time
// elapsed since it, so durations grow within a run and non-idle pairs carry 0.
func AggregateIdleRuns(anchor time.Time, pairs []models.Pair) []models.IdleRun {
	var runs []models.IdleRun

	lastNonIdle := anchor
	inRun := false
	for i := range pairs {
		p := &pairs[i]
		if p.Label != models.LabelIdle {
			p.IdleDurationS = 0
			lastNonIdle = p.Timestamp
			inRun = false
			continue
		}

		p.IdleDurationS = p.Timestamp.Sub(lastNonIdle).Seconds()
		if !inRun {
			runs = append(runs, models.IdleRun{StartTime: lastNonIdle})
			inRun = true
		}
		run := &runs[len(runs)-1]
		run.EndTime = p.Timestamp
		run.DurationS = p.IdleDurationS
		run.Pairs++
	}

	return runs
}
