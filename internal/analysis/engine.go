package analysis

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/jengzang/motion-profile-go/internal/analysis/motion"
	"github.com/jengzang/motion-profile-go/internal/config"
	"github.com/jengzang/motion-profile-go/internal/models"
	"golang.org/x/sync/errgroup"
)

// Progress represents the progress of a profiling run
type Progress struct {
	Processed int     // Number of days profiled
	Total     int     // Total number of days
	Percent   float64 // Progress percentage (0-100)
	Message   string  // Day that just finished
}

// Pipeline profiles a projected trajectory day by day
type Pipeline struct {
	Thresholds config.Thresholds
	Workers    int

	// OnProgress, when set, is called after each day. Calls are serialized.
	OnProgress func(Progress)
}

// Profile partitions a projected trajectory into days and profiles each
// day in order.
func Profile(fixes []models.Fix, th config.Thresholds) ([]motion.DayResult, error) {
	return ProfileConcurrent(context.Background(), fixes, th, 1)
}

// ProfileConcurrent is Profile with up to workers days processed at once.
func ProfileConcurrent(ctx context.Context, fixes []models.Fix, th config.Thresholds, workers int) ([]motion.DayResult, error) {
	p := &Pipeline{Thresholds: th, Workers: workers}
	return p.Run(ctx, fixes)
}

// Run profiles every day of fixes. Days share no state, so results only
// depend on the input; they are returned in chronological order.
func (p *Pipeline) Run(ctx context.Context, fixes []models.Fix) ([]motion.DayResult, error) {
	th := p.Thresholds
	if err := th.Validate(); err != nil {
		return nil, err
	}
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}

	days := motion.PartitionDays(fixes)
	results := make([]motion.DayResult, len(days))

	var mu sync.Mutex
	processed := 0

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, seg := range days {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = motion.ProfileDay(seg, th)

			if p.OnProgress != nil {
				mu.Lock()
				processed++
				p.OnProgress(Progress{
					Processed: processed,
					Total:     len(days),
					Percent:   float64(processed) / float64(len(days)) * 100.0,
					Message:   seg.Day,
				})
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to profile days: %w", err)
	}

	for _, r := range results {
		s := r.Summary
		log.Printf("[MotionProfile] %s: %d fixes, %d pairs, %.0f m, active %.0fs, idle %.0fs, off %.0fs, charging %.0fs",
			s.Day, s.FixCount, s.PairCount, s.TotalDistanceM, s.TotalActiveTimeS, s.TotalIdleTimeS, s.TotalOffTimeS, s.ChargingCandidateTimeS)
	}

	return results, nil
}
