package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jengzang/motion-profile-go/internal/database"
	"github.com/jengzang/motion-profile-go/internal/models"
)

// DaySummaryRepository handles database operations for day summaries
type DaySummaryRepository struct {
	db *sql.DB
}

// NewDaySummaryRepository creates a new day summary repository
func NewDaySummaryRepository(db *sql.DB) *DaySummaryRepository {
	return &DaySummaryRepository{db: db}
}

// InsertBatch stores the summaries of one run in a single transaction
func (r *DaySummaryRepository) InsertBatch(summaries []models.DaySummary) error {
	if len(summaries) == 0 {
		return nil
	}

	return database.Transaction(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO day_summaries (
				run_id, source, day, fix_count, pair_count, dropped_displacement, dropped_duplicate,
				total_distance_m, total_geodesic_m, total_active_time_s, total_idle_time_s,
				total_off_time_s, charging_candidate_time_s, charging_windows
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, s := range summaries {
			windows := s.ChargingWindows
			if windows == nil {
				windows = []models.IdleRun{}
			}
			windowsJSON, err := json.Marshal(windows)
			if err != nil {
				return fmt.Errorf("failed to encode charging windows for %s: %w", s.Day, err)
			}

			if _, err := stmt.Exec(
				s.RunID, s.Source, s.Day, s.FixCount, s.PairCount, s.DroppedDisplacement, s.DroppedDuplicate,
				s.TotalDistanceM, s.TotalGeodesicM, s.TotalActiveTimeS, s.TotalIdleTimeS,
				s.TotalOffTimeS, s.ChargingCandidateTimeS, string(windowsJSON),
			); err != nil {
				return fmt.Errorf("failed to insert summary for %s: %w", s.Day, err)
			}
		}
		return nil
	})
}

const summaryColumns = `id, run_id, source, day, fix_count, pair_count, dropped_displacement, dropped_duplicate,
	total_distance_m, total_geodesic_m, total_active_time_s, total_idle_time_s,
	total_off_time_s, charging_candidate_time_s, charging_windows`

// List retrieves day summaries with filtering and pagination
func (r *DaySummaryRepository) List(filter models.DayFilter) ([]models.DaySummary, int64, error) {
	var conditions []string
	var args []interface{}

	if filter.RunID != "" {
		conditions = append(conditions, "run_id = ?")
		args = append(args, filter.RunID)
	}
	if filter.Source != "" {
		conditions = append(conditions, "source = ?")
		args = append(args, filter.Source)
	}
	if filter.StartDay != "" {
		conditions = append(conditions, "day >= ?")
		args = append(args, filter.StartDay)
	}
	if filter.EndDay != "" {
		conditions = append(conditions, "day <= ?")
		args = append(args, filter.EndDay)
	}
	if filter.MinCharging > 0 {
		conditions = append(conditions, "charging_candidate_time_s >= ?")
		args = append(args, filter.MinCharging)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM day_summaries"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count day summaries: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	if filter.PageSize > 1000 {
		filter.PageSize = 1000
	}
	offset := (filter.Page - 1) * filter.PageSize

	query := "SELECT " + summaryColumns + " FROM day_summaries" + where + " ORDER BY day, source, id LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query day summaries: %w", err)
	}
	defer rows.Close()

	var summaries []models.DaySummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan day summary: %w", err)
		}
		summaries = append(summaries, *s)
	}

	return summaries, total, rows.Err()
}

// Get retrieves the summary of one day of a run
func (r *DaySummaryRepository) Get(runID, day string) (*models.DaySummary, error) {
	row := r.db.QueryRow("SELECT "+summaryColumns+" FROM day_summaries WHERE run_id = ? AND day = ?", runID, day)

	s, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("day %s of run %s: %w", day, runID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get day summary: %w", err)
	}
	return s, nil
}

func scanSummary(sc scanner) (*models.DaySummary, error) {
	var s models.DaySummary
	var windowsJSON string

	err := sc.Scan(
		&s.ID, &s.RunID, &s.Source, &s.Day, &s.FixCount, &s.PairCount, &s.DroppedDisplacement, &s.DroppedDuplicate,
		&s.TotalDistanceM, &s.TotalGeodesicM, &s.TotalActiveTimeS, &s.TotalIdleTimeS,
		&s.TotalOffTimeS, &s.ChargingCandidateTimeS, &windowsJSON,
	)
	if err != nil {
		return nil, err
	}

	if windowsJSON != "" && windowsJSON != "[]" {
		if err := json.Unmarshal([]byte(windowsJSON), &s.ChargingWindows); err != nil {
			return nil, fmt.Errorf("failed to decode charging windows: %w", err)
		}
	}
	return &s, nil
}
