package motion

import (
	"github.com/jengzang/motion-profile-go/internal/config"
	"github.com/jengzang/motion-profile-go/internal/models"
	"github.com/jengzang/motion-profile-go/internal/stats"
)

// Summarize reduces a classified day to its totals. Days without pairs
// produce zero totals.
func Summarize(day string, pairs []models.Pair, runs []models.IdleRun, th config.Thresholds) models.DaySummary {
	s := models.DaySummary{
		Day:       day,
		PairCount: len(pairs),
	}

	for _, p := range pairs {
		s.TotalDistanceM += p.DistanceM
		s.TotalGeodesicM += p.GeodesicM
		s.TotalActiveTimeS += p.ActiveTimeS
		s.TotalIdleTimeS += p.IdleTimeS
		s.TotalOffTimeS += p.OffTimeS
	}

	for _, r := range runs {
		if r.DurationS > th.IdleDurationThresholdS {
			s.ChargingWindows = append(s.ChargingWindows, r)
		}
	}

	s.ChargingCandidateTimeS = ChargingCandidateTime(pairs, runs, th)
	return s
}

// ChargingCandidateTime totals the idle time long enough to charge.
//
// ChargingPerRun adds the longest duration of every run above the threshold,
// once per run. ChargingDistinct adds every distinct per-pair idle duration
// above the threshold, which counts the running durations inside one run
// several times.
func ChargingCandidateTime(pairs []models.Pair, runs []models.IdleRun, th config.Thresholds) float64 {
	if th.ChargingMode == config.ChargingDistinct {
		var durations []float64
		for _, p := range pairs {
			if p.IdleDurationS > th.IdleDurationThresholdS {
				durations = append(durations, p.IdleDurationS)
			}
		}
		return stats.SumDistinct(durations)
	}

	var durations []float64
	for _, r := range runs {
		if r.DurationS > th.IdleDurationThresholdS {
			durations = append(durations, r.DurationS)
		}
	}
	return stats.Sum(durations)
}
