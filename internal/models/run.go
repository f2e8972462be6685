package models

import "time"

// Run represents the processing of one input file
type Run struct {
	ID     string `json:"id" db:"id"` // UUID
	Source string `json:"source" db:"source"`

	Status   string `json:"status" db:"status"` // running, completed, failed
	FixCount int    `json:"fixCount" db:"fix_count"`
	Rejected int    `json:"rejected" db:"rejected"`
	BadSpeed int    `json:"badSpeed" db:"bad_speed"`
	DayCount int    `json:"dayCount" db:"day_count"`

	// Thresholds used for this run, as JSON
	ParamsJSON   string `json:"paramsJson,omitempty" db:"params_json"`
	ErrorMessage string `json:"errorMessage,omitempty" db:"error_message"`

	StartedAt  time.Time  `json:"startedAt" db:"started_at"`
	FinishedAt *time.Time `json:"finishedAt,omitempty" db:"finished_at"`
}

// RunStatus constants
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)
