package models

import "time"

// Label is the resolved motion state of a pair
type Label string

// Label constants
const (
	LabelActive Label = "active"
	LabelIdle   Label = "idle"
	LabelOff    Label = "off"
)

// Pair represents two temporally adjacent fixes within a day segment.
// Timestamp is the timestamp of the later fix.
type Pair struct {
	Timestamp time.Time `json:"timestamp"`
	DistanceM float64   `json:"distanceM"` // Planar distance from the previous fix
	GeodesicM float64   `json:"geodesicM"` // Great-circle distance from the previous fix
	DtS       float64   `json:"dtS"`
	SpeedMps  float64   `json:"speedMps"`

	// Raw threshold tests, evaluated independently
	FastFlag bool `json:"fast"`
	SlowFlag bool `json:"slow"`
	OffFlag  bool `json:"off"`

	Label Label `json:"label"`

	ActiveTimeS   float64 `json:"activeTimeS"`
	IdleTimeS     float64 `json:"idleTimeS"`
	OffTimeS      float64 `json:"offTimeS"`
	IdleDurationS float64 `json:"idleDurationS"` // Elapsed idle time since the fix preceding the run
}

// IdleRun is a maximal block of contiguous idle pairs
type IdleRun struct {
	StartTime time.Time `json:"startTime"` // Timestamp of the fix preceding the first idle pair
	EndTime   time.Time `json:"endTime"`   // Timestamp of the last idle pair
	DurationS float64   `json:"durationS"` // Largest idle duration in the run
	Pairs     int       `json:"pairs"`
}
