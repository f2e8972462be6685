package motion

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jengzang/motion-profile-go/internal/config"
	"github.com/jengzang/motion-profile-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)

func at(sec float64, x float64) models.Fix {
	return models.Fix{Timestamp: base.Add(time.Duration(sec * float64(time.Second))), X: x}
}

// fixesFromSteps places fixes 10 s apart along the x axis
func fixesFromSteps(steps ...float64) []models.Fix {
	fixes := []models.Fix{at(0, 0)}
	x := 0.0
	for i, s := range steps {
		x += s
		fixes = append(fixes, at(float64(10*(i+1)), x))
	}
	return fixes
}

func thresholds(sigmas float64) config.Thresholds {
	th := config.DefaultThresholds()
	th.Sigmas = sigmas
	return th
}

func TestPartitionDaysUsesFullDate(t *testing.T) {
	jan5 := time.Date(2024, 1, 5, 23, 0, 0, 0, time.UTC)
	feb5 := time.Date(2024, 2, 5, 1, 0, 0, 0, time.UTC)
	fixes := []models.Fix{
		{Timestamp: feb5},
		{Timestamp: jan5.Add(time.Minute)},
		{Timestamp: jan5},
		{Timestamp: jan5.Add(2 * time.Hour)}, // Jan 6
	}

	days := PartitionDays(fixes)
	require.Len(t, days, 3)

	assert.Equal(t, "2024-01-05", days[0].Day)
	assert.Equal(t, "2024-01-06", days[1].Day)
	assert.Equal(t, "2024-02-05", days[2].Day)

	require.Len(t, days[0].Fixes, 2)
	assert.True(t, days[0].Fixes[0].Timestamp.Before(days[0].Fixes[1].Timestamp))
}

func TestRejectDisplacementOutliersDropsGlitch(t *testing.T) {
	fixes := fixesFromSteps(10, 11, 12, 10, 11, 500)

	kept, outliers := RejectDisplacementOutliers(fixes, 2)

	assert.Equal(t, 1, outliers)
	require.Len(t, kept, 5)
	// The first fix is never returned
	assert.Equal(t, fixes[1].Timestamp, kept[0].Timestamp)
	assert.Equal(t, fixes[5].Timestamp, kept[4].Timestamp)
}

func TestRejectDisplacementOutliersEqualDistances(t *testing.T) {
	// std is 0, so nothing is strictly below the bound
	kept, outliers := RejectDisplacementOutliers(fixesFromSteps(5, 5, 5, 5), 3)
	assert.Empty(t, kept)
	assert.Equal(t, 4, outliers)
}

func TestRejectDisplacementOutliersShortDays(t *testing.T) {
	kept, outliers := RejectDisplacementOutliers(nil, 3)
	assert.Empty(t, kept)
	assert.Zero(t, outliers)

	kept, outliers = RejectDisplacementOutliers([]models.Fix{at(0, 0)}, 3)
	assert.Empty(t, kept)
	assert.Zero(t, outliers)
}

func TestRejectDisplacementOutliersRerunStable(t *testing.T) {
	first, outliers := RejectDisplacementOutliers(fixesFromSteps(10, 11, 12, 10, 11, 500), 2)
	require.Equal(t, 1, outliers)

	// The tighter statistics of the clean set still admit every distance
	second, outliers := RejectDisplacementOutliers(first, 2)
	assert.Zero(t, outliers)
	assert.Len(t, second, len(first)-1) // only the new leading fix
}

func TestRejectDisplacementOutliersRerunNotIdempotent(t *testing.T) {
	first, outliers := RejectDisplacementOutliers(fixesFromSteps(10, 10, 10, 10, 40, 1000), 1.5)
	require.Equal(t, 1, outliers)
	require.Len(t, first, 5)

	// Known case: std shrinks once the glitch is gone and the 40 m step
	// becomes an outlier on the second pass.
	second, outliers := RejectDisplacementOutliers(first, 1.5)
	assert.Equal(t, 1, outliers)
	assert.Len(t, second, 3)
}

func TestDropNonIncreasing(t *testing.T) {
	fixes := []models.Fix{at(0, 0), at(10, 1), at(10, 2), at(10, 3), at(20, 4), at(15, 5), at(30, 6)}

	kept, dropped := DropNonIncreasing(fixes)

	assert.Equal(t, 3, dropped)
	var xs []float64
	for _, f := range kept {
		xs = append(xs, f.X)
	}
	assert.Equal(t, []float64{0, 1, 4, 6}, xs)
}

func TestFilterCounts(t *testing.T) {
	fixes := fixesFromSteps(10, 11, 12, 10, 11, 500)
	fixes = append(fixes[:3], append([]models.Fix{{Timestamp: fixes[2].Timestamp, X: fixes[2].X + 11}}, fixes[3:]...)...)

	res := Filter(fixes, 2)

	assert.Equal(t, 1, res.DroppedLeading)
	assert.Equal(t, 1, res.DroppedDisplacement)
	assert.Equal(t, 1, res.DroppedDuplicate)
	assert.Len(t, res.Fixes, len(fixes)-3)
}

func TestClassifyLabels(t *testing.T) {
	th := config.Thresholds{IdleSpeedThreshold: 0.5, Sigmas: 3, IdleDurationThresholdS: 900, ChargingMode: config.ChargingPerRun}
	// speeds: 1.0, 0.5 (equal), 0.1, 2.0
	fixes := fixesFromSteps(10, 5, 1, 20)

	pairs := Classify(fixes, th)
	require.Len(t, pairs, 4)

	labels := make([]models.Label, len(pairs))
	for i, p := range pairs {
		labels[i] = p.Label
		assert.Equal(t, 10.0, p.DtS)
		assert.False(t, p.OffFlag)
	}
	assert.Equal(t, []models.Label{models.LabelActive, models.LabelIdle, models.LabelIdle, models.LabelActive}, labels)

	assert.InDelta(t, 1.0, pairs[0].SpeedMps, 1e-12)
	assert.Equal(t, 10.0, pairs[0].ActiveTimeS)
	assert.Zero(t, pairs[0].IdleTimeS)
	assert.Equal(t, 10.0, pairs[1].IdleTimeS)
	assert.True(t, pairs[1].SlowFlag)
	assert.False(t, pairs[1].FastFlag)
}

func TestClassifyOffTakesPrecedence(t *testing.T) {
	fixes := []models.Fix{at(0, 0)}
	for i := 1; i <= 11; i++ {
		fixes = append(fixes, at(float64(10*i), float64(100*i)))
	}
	last := fixes[len(fixes)-1]
	fixes = append(fixes, models.Fix{Timestamp: last.Timestamp.Add(980 * time.Second), X: last.X})

	pairs := Classify(fixes, thresholds(3))
	require.Len(t, pairs, 12)

	gap := pairs[11]
	assert.True(t, gap.OffFlag)
	assert.True(t, gap.SlowFlag)
	assert.Equal(t, models.LabelOff, gap.Label)
	assert.Equal(t, 980.0, gap.OffTimeS)
	assert.Zero(t, gap.IdleTimeS)
	assert.Zero(t, gap.ActiveTimeS)
}

func TestClassifyShortInput(t *testing.T) {
	assert.Empty(t, Classify(nil, thresholds(3)))
	assert.Empty(t, Classify([]models.Fix{at(0, 0)}, thresholds(3)))

	// A single pair is never off: the bound equals its own gap
	pairs := Classify([]models.Fix{at(0, 0), at(5000, 0)}, thresholds(0.1))
	require.Len(t, pairs, 1)
	assert.False(t, pairs[0].OffFlag)
}

func labeled(labels ...models.Label) []models.Pair {
	pairs := make([]models.Pair, len(labels))
	for i, l := range labels {
		pairs[i] = models.Pair{Timestamp: base.Add(time.Duration(10*i) * time.Second), Label: l}
	}
	return pairs
}

func TestAggregateIdleRunsElapsedDuration(t *testing.T) {
	pairs := labeled(models.LabelOff, models.LabelIdle, models.LabelIdle, models.LabelIdle, models.LabelActive)

	runs := AggregateIdleRuns(base.Add(-10*time.Second), pairs)

	var durations []float64
	for _, p := range pairs {
		durations = append(durations, p.IdleDurationS)
	}
	if diff := cmp.Diff([]float64{0, 10, 20, 30, 0}, durations); diff != "" {
		t.Errorf("idle durations mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, runs, 1)
	assert.Equal(t, models.IdleRun{
		StartTime: base,
		EndTime:   base.Add(30 * time.Second),
		DurationS: 30,
		Pairs:     3,
	}, runs[0])
}

func TestAggregateIdleRunsAnchorAndResets(t *testing.T) {
	anchor := base.Add(-10 * time.Second)
	pairs := labeled(models.LabelIdle, models.LabelIdle, models.LabelActive, models.LabelIdle, models.LabelOff, models.LabelIdle)

	runs := AggregateIdleRuns(anchor, pairs)

	var durations []float64
	for _, p := range pairs {
		durations = append(durations, p.IdleDurationS)
	}
	// The first run is measured from the anchor
	assert.Equal(t, []float64{10, 20, 0, 10, 0, 10}, durations)
	require.Len(t, runs, 3)
	assert.Equal(t, anchor, runs[0].StartTime)
	assert.Equal(t, 2, runs[0].Pairs)
	assert.Equal(t, 10.0, runs[2].DurationS)
}

// idleRunPairs builds one run that idles from t=0 to t=1200 in 60 s steps
func idleRunPairs() []models.Pair {
	pairs := []models.Pair{{Timestamp: base, Label: models.LabelActive}}
	for s := 60; s <= 1200; s += 60 {
		pairs = append(pairs, models.Pair{Timestamp: base.Add(time.Duration(s) * time.Second), Label: models.LabelIdle})
	}
	return pairs
}

func TestChargingCandidatePerRun(t *testing.T) {
	th := config.DefaultThresholds()
	pairs := idleRunPairs()
	runs := AggregateIdleRuns(base.Add(-time.Minute), pairs)

	require.Len(t, runs, 1)
	assert.Equal(t, 1200.0, runs[0].DurationS)
	// The run contributes once, at its longest duration
	assert.Equal(t, 1200.0, ChargingCandidateTime(pairs, runs, th))
}

func TestChargingCandidateDistinct(t *testing.T) {
	th := config.DefaultThresholds()
	th.ChargingMode = config.ChargingDistinct
	pairs := idleRunPairs()
	runs := AggregateIdleRuns(base.Add(-time.Minute), pairs)

	// 960 + 1020 + 1080 + 1140 + 1200: every running sample above 900 s
	assert.Equal(t, 5400.0, ChargingCandidateTime(pairs, runs, th))

	// Identical values inside a run are only counted once
	dup := append(pairs[:len(pairs):len(pairs)], models.Pair{Timestamp: base.Add(1200 * time.Second), Label: models.LabelIdle, IdleDurationS: 1200})
	assert.Equal(t, 5400.0, ChargingCandidateTime(dup, runs, th))
}

func TestChargingCandidateBelowThreshold(t *testing.T) {
	th := config.DefaultThresholds()
	runs := []models.IdleRun{{DurationS: 900}, {DurationS: 300}}
	assert.Zero(t, ChargingCandidateTime(nil, runs, th))

	s := Summarize("2024-03-15", nil, runs, th)
	assert.Empty(t, s.ChargingWindows)
}

func TestProfileDaySingleFix(t *testing.T) {
	res := ProfileDay(DaySegment{Day: "2024-03-15", Fixes: []models.Fix{at(0, 0)}}, thresholds(3))

	assert.Equal(t, models.DaySummary{Day: "2024-03-15"}, res.Summary)
	assert.Empty(t, res.Pairs)
}

func TestProfileDayAllFiltered(t *testing.T) {
	// Two fixes give a single distance, which can never be below its own bound
	res := ProfileDay(DaySegment{Day: "2024-03-15", Fixes: []models.Fix{at(0, 0), at(10, 50)}}, thresholds(3))

	assert.Zero(t, res.Summary.TotalDistanceM)
	assert.Zero(t, res.Summary.TotalActiveTimeS)
	assert.Equal(t, 1, res.Summary.DroppedDisplacement)
}

func TestProfileDayGapIsOff(t *testing.T) {
	// 100 m / 50 m steps every 10 s, then a 980 s gap without movement
	fixes := fixesFromSteps(100, 50, 100, 50, 100, 50, 100, 50, 100, 50, 100, 50)
	last := fixes[len(fixes)-1]
	fixes = append(fixes, models.Fix{Timestamp: last.Timestamp.Add(980 * time.Second), X: last.X})

	res := ProfileDay(DaySegment{Day: "2024-03-15", Fixes: fixes}, thresholds(3))
	s := res.Summary

	require.Len(t, res.Pairs, 12)
	gap := res.Pairs[len(res.Pairs)-1]
	assert.Equal(t, models.LabelOff, gap.Label)
	assert.Zero(t, gap.DistanceM)

	assert.InDelta(t, 800.0, s.TotalDistanceM, 1e-9)
	assert.Equal(t, 110.0, s.TotalActiveTimeS)
	assert.Zero(t, s.TotalIdleTimeS)
	assert.Equal(t, 980.0, s.TotalOffTimeS)
	assert.Equal(t, 13, s.FixCount)
	assert.Zero(t, s.DroppedDisplacement)
	assert.Zero(t, s.DroppedDuplicate)
}

func TestProfileDayShortGapCannotBeOff(t *testing.T) {
	// With three gaps the largest z-score is (n-1)/sqrt(n) ~ 1.15, so a
	// 980 s gap after two 10 s gaps is not off at sigmas=3.
	fixes := []models.Fix{at(0, 0), at(10, 100), at(20, 100), at(1000, 100)}

	res := ProfileDay(DaySegment{Day: "2024-03-15", Fixes: fixes}, thresholds(3))

	for _, p := range res.Pairs {
		assert.False(t, p.OffFlag)
	}
}

func TestProfileDayProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	th := config.Thresholds{IdleSpeedThreshold: 0.5, Sigmas: 3, IdleDurationThresholdS: 900, ChargingMode: config.ChargingPerRun}

	for trial := 0; trial < 50; trial++ {
		var fixes []models.Fix
		sec, x, y := 0.0, 0.0, 0.0
		for i := 0; i < 200; i++ {
			sec += float64(1 + rng.Intn(60))
			if rng.Float64() < 0.5 {
				x += rng.Float64() * 200
				y += rng.Float64() * 50
			}
			if rng.Float64() < 0.02 {
				x += 50000 // glitch
			}
			f := at(sec, x)
			f.Y = y
			fixes = append(fixes, f)
		}

		res := ProfileDay(DaySegment{Day: "2024-03-15", Fixes: fixes}, th)
		s := res.Summary

		var sum float64
		for _, p := range res.Pairs {
			sum += p.DistanceM
			// exactly one time bucket per pair
			assert.InDelta(t, p.DtS, p.ActiveTimeS+p.IdleTimeS+p.OffTimeS, 1e-9)
			assert.Greater(t, p.DtS, 0.0)
		}
		assert.GreaterOrEqual(t, s.TotalDistanceM, 0.0)
		assert.InDelta(t, sum, s.TotalDistanceM, 1e-6)

		if len(res.Fixes) > 1 {
			dayDuration := res.Fixes[len(res.Fixes)-1].Timestamp.Sub(res.Fixes[0].Timestamp).Seconds()
			assert.LessOrEqual(t, s.TotalActiveTimeS+s.TotalIdleTimeS+s.TotalOffTimeS, dayDuration+1e-6)
		}
		assert.LessOrEqual(t, s.ChargingCandidateTimeS, s.TotalIdleTimeS+1e-6)
	}
}
