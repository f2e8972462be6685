package models

import "time"

// Fix represents one validated GPS sample from the vehicle logger
type Fix struct {
	Timestamp        time.Time `json:"timestamp"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	ReportedSpeedKmh float64   `json:"reportedSpeedKmh"` // Sensor speed, km/h, not used for classification

	// Planar position in meters (EPSG:3857), filled by the projector
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Day returns the UTC calendar date key of the fix (YYYY-MM-DD)
func (f Fix) Day() string {
	return f.Timestamp.UTC().Format(DayLayout)
}

// DayLayout is the layout of day keys
const DayLayout = "2006-01-02"
