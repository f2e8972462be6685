package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jengzang/motion-profile-go/internal/analysis"
	"github.com/jengzang/motion-profile-go/internal/analysis/motion"
	"github.com/jengzang/motion-profile-go/internal/config"
	"github.com/jengzang/motion-profile-go/internal/ingest"
	"github.com/jengzang/motion-profile-go/internal/models"
	"github.com/jengzang/motion-profile-go/internal/repository"
	"github.com/jengzang/motion-profile-go/internal/spatial"
	"golang.org/x/sync/errgroup"
)

// ProfileResult is the outcome of profiling one input
type ProfileResult struct {
	Run  *models.Run        `json:"run"`
	Days []motion.DayResult `json:"-"`
}

// Summaries returns the day summaries of the result in day order
func (r *ProfileResult) Summaries() []models.DaySummary {
	out := make([]models.DaySummary, len(r.Days))
	for i, d := range r.Days {
		out[i] = d.Summary
	}
	return out
}

// FileFailure records an input file that could not be profiled
type FileFailure struct {
	Path string `json:"path"`
	Err  error  `json:"-"`
}

// BatchResult is the outcome of profiling a directory
type BatchResult struct {
	Results  []*ProfileResult
	Failures []FileFailure
}

// DetailRuns is how many recent runs keep their classified pairs in memory
const DetailRuns = 32

// ProfileService handles profiling of logger files and queries over the results
type ProfileService struct {
	runs       *repository.RunRepository
	days       *repository.DaySummaryRepository
	projector  spatial.Projector
	workers    int
	sampleFile string

	mu          sync.RWMutex
	details     map[string]map[string]motion.DayResult // run ID -> day -> result
	detailOrder []string                               // oldest first
	detailLimit int
}

// NewProfileService creates a new profile service
func NewProfileService(runs *repository.RunRepository, days *repository.DaySummaryRepository, workers int, sampleFile string) *ProfileService {
	if workers < 1 {
		workers = 1
	}
	return &ProfileService{
		runs:       runs,
		days:       days,
		projector:  spatial.WebMercator,
		workers:    workers,
		sampleFile: sampleFile,
		details:     make(map[string]map[string]motion.DayResult),
		detailLimit: DetailRuns,
	}
}

// ProcessReader profiles the CSV content of r under a new run. A failure
// marks the run failed and is returned together with the run.
func (s *ProfileService) ProcessReader(ctx context.Context, source string, r io.Reader, th config.Thresholds) (*ProfileResult, error) {
	if err := th.Validate(); err != nil {
		return nil, err
	}

	params, err := json.Marshal(th)
	if err != nil {
		return nil, fmt.Errorf("failed to encode thresholds: %w", err)
	}

	run := &models.Run{
		ID:         uuid.NewString(),
		Source:     source,
		Status:     models.RunStatusRunning,
		ParamsJSON: string(params),
		StartedAt:  time.Now().UTC(),
	}
	if err := s.runs.Create(run); err != nil {
		return nil, err
	}
	result := &ProfileResult{Run: run}

	days, err := s.profile(ctx, run, r, th)
	if err != nil {
		run.Status = models.RunStatusFailed
		run.ErrorMessage = err.Error()
		if finishErr := s.runs.Finish(run); finishErr != nil {
			log.Printf("[ProfileService] Failed to mark run %s failed: %v", run.ID, finishErr)
		}
		log.Printf("[ProfileService] Run %s (%s) failed: %v", run.ID, source, err)
		return result, err
	}

	run.Status = models.RunStatusCompleted
	run.DayCount = len(days)
	if err := s.runs.Finish(run); err != nil {
		return result, err
	}
	result.Days = days

	s.keepDetail(run.ID, days)

	log.Printf("[ProfileService] Run %s (%s) completed: %d fixes, %d days", run.ID, source, run.FixCount, run.DayCount)
	return result, nil
}

func (s *ProfileService) profile(ctx context.Context, run *models.Run, r io.Reader, th config.Thresholds) ([]motion.DayResult, error) {
	fixes, stats, err := ingest.ReadCSV(r)
	run.FixCount = stats.Accepted
	run.Rejected = stats.Rejected
	run.BadSpeed = stats.BadSpeed
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", run.Source, err)
	}
	log.Printf("[ProfileService] %s: %d records, %d accepted, %d rejected, %d bad speed",
		run.Source, stats.Records, stats.Accepted, stats.Rejected, stats.BadSpeed)

	spatial.ProjectFixes(fixes, s.projector)

	pipeline := &analysis.Pipeline{
		Thresholds: th,
		Workers:    s.workers,
		OnProgress: func(p analysis.Progress) {
			log.Printf("[ProfileService] Run %s: day %s done (%d/%d, %.0f%%)", run.ID, p.Message, p.Processed, p.Total, p.Percent)
		},
	}
	days, err := pipeline.Run(ctx, fixes)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.DaySummary, len(days))
	for i := range days {
		days[i].Summary.RunID = run.ID
		days[i].Summary.Source = run.Source
		summaries[i] = days[i].Summary
	}
	if err := s.days.InsertBatch(summaries); err != nil {
		return nil, err
	}

	return days, nil
}

// ProcessFile profiles one CSV file
func (s *ProfileService) ProcessFile(ctx context.Context, path string, th config.Thresholds) (*ProfileResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return s.ProcessReader(ctx, path, f, th)
}

// ProcessDir profiles every CSV file under root. Files are independent: a
// failing file is recorded in Failures and the others still run. Results
// keep the walk order.
func (s *ProfileService) ProcessDir(ctx context.Context, root string, th config.Thresholds) (*BatchResult, error) {
	if err := th.Validate(); err != nil {
		return nil, err
	}

	files, err := ingest.Walk(root, s.sampleFile)
	if err != nil {
		return nil, err
	}
	log.Printf("[ProfileService] Found %d CSV files under %s", len(files), root)

	results := make([]*ProfileResult, len(files))
	errs := make([]error, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i], errs[i] = s.ProcessFile(ctx, path, th)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to process %s: %w", root, err)
	}

	batch := &BatchResult{}
	for i, path := range files {
		if errs[i] != nil {
			batch.Failures = append(batch.Failures, FileFailure{Path: path, Err: errs[i]})
			continue
		}
		batch.Results = append(batch.Results, results[i])
	}
	return batch, nil
}

// GetRun retrieves a run by ID
func (s *ProfileService) GetRun(id string) (*models.Run, error) {
	return s.runs.GetByID(id)
}

// ListRuns retrieves runs, newest first
func (s *ProfileService) ListRuns(filter models.RunFilter) ([]*models.Run, error) {
	return s.runs.List(filter)
}

// ListDays retrieves day summaries with filtering and pagination
func (s *ProfileService) ListDays(filter models.DayFilter) ([]models.DaySummary, int64, error) {
	return s.days.List(filter)
}

// GetDay retrieves the summary of one day of a run
func (s *ProfileService) GetDay(runID, day string) (*models.DaySummary, error) {
	return s.days.Get(runID, day)
}

// keepDetail stores the day results of a run, evicting the oldest runs
// beyond detailLimit
func (s *ProfileService) keepDetail(runID string, days []motion.DayResult) {
	byDay := make(map[string]motion.DayResult, len(days))
	for _, d := range days {
		byDay[d.Summary.Day] = d
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.details[runID] = byDay
	s.detailOrder = append(s.detailOrder, runID)
	for len(s.detailOrder) > s.detailLimit {
		delete(s.details, s.detailOrder[0])
		s.detailOrder = s.detailOrder[1:]
	}
}

// DayDetail returns the classified pairs behind a stored day summary, if
// the run is one of the last DetailRuns profiled by this process.
func (s *ProfileService) DayDetail(runID, day string) (motion.DayResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.details[runID][day]
	return d, ok
}
