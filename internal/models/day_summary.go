package models

// DaySummary is the motion profile of one (source, day)
type DaySummary struct {
	ID     int64  `json:"id,omitempty" db:"id"`
	RunID  string `json:"runId" db:"run_id"`
	Source string `json:"source" db:"source"`
	Day    string `json:"day" db:"day"` // YYYY-MM-DD

	FixCount            int `json:"fixCount" db:"fix_count"`
	PairCount           int `json:"pairCount" db:"pair_count"`
	DroppedDisplacement int `json:"droppedDisplacement" db:"dropped_displacement"`
	DroppedDuplicate    int `json:"droppedDuplicate" db:"dropped_duplicate"`

	TotalDistanceM         float64 `json:"totalDistanceM" db:"total_distance_m"`
	TotalGeodesicM         float64 `json:"totalGeodesicM" db:"total_geodesic_m"`
	TotalActiveTimeS       float64 `json:"totalActiveTimeS" db:"total_active_time_s"`
	TotalIdleTimeS         float64 `json:"totalIdleTimeS" db:"total_idle_time_s"`
	TotalOffTimeS          float64 `json:"totalOffTimeS" db:"total_off_time_s"`
	ChargingCandidateTimeS float64 `json:"chargingCandidateTimeS" db:"charging_candidate_time_s"`

	ChargingWindows []IdleRun `json:"chargingWindows,omitempty" db:"charging_windows"`
}

// DaySummariesResponse represents a paginated response of day summaries
type DaySummariesResponse struct {
	Data       []DaySummary `json:"data"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
	TotalPages int          `json:"totalPages"`
}
