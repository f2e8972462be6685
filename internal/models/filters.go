package models

// DayFilter represents filter parameters for querying day summaries
type DayFilter struct {
	RunID       string  `form:"runId"`
	Source      string  `form:"source"`
	StartDay    string  `form:"startDay"` // YYYY-MM-DD, inclusive
	EndDay      string  `form:"endDay"`   // YYYY-MM-DD, inclusive
	MinCharging float64 `form:"minCharging"` // Minimum charging candidate seconds
	Page        int     `form:"page"`
	PageSize    int     `form:"pageSize"`
}

// RunFilter represents filter parameters for listing runs
type RunFilter struct {
	Status string `form:"status"` // running, completed, failed
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}
