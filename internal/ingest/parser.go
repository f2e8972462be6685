package ingest

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jengzang/motion-profile-go/internal/models"
)

// TimestampLayout is the fixed DATE+TIME layout: YYMMDD followed by hhmmss.
// Dates are read year-month-day; day-month-year files are not supported.
const TimestampLayout = "060102150405"

// Column names expected in the logger CSV header
const (
	ColumnDate      = "DATE"
	ColumnTime      = "TIME"
	ColumnLatitude  = "LATITUDE N/S"
	ColumnLongitude = "LONGITUDE E/W"
	ColumnSpeed     = "SPEED"
)

var (
	// ErrMalformedCoordinate means a latitude/longitude value is not a finite
	// number within range once its hemisphere letter is removed. It fails the
	// whole file.
	ErrMalformedCoordinate = errors.New("malformed coordinate")
	// ErrMissingColumn means a required header column is absent
	ErrMissingColumn = errors.New("missing column")
)

// RawRecord is one logger row as text
type RawRecord struct {
	Date      string
	Time      string
	Latitude  string // with trailing hemisphere letter
	Longitude string // with trailing hemisphere letter
	Speed     string // km/h
}

// ParseStats counts what happened to the records of one input
type ParseStats struct {
	Records  int // Data rows read
	Accepted int
	Rejected int // Wrong-width or unparsable date/time
	BadSpeed int // Speed defaulted to 0
}

// Record is the outcome of validating one RawRecord
type Record struct {
	Fix      models.Fix
	Accepted bool // false when the record is silently dropped
	BadSpeed bool // reported speed was empty or unparsable and defaulted to 0
}

// ParseRecord validates a raw record. A record with a wrong-width or
// unparsable date/time is not accepted; err is set only for malformed
// coordinates.
func ParseRecord(r RawRecord) (Record, error) {
	date := strings.TrimSpace(r.Date)
	clock := strings.TrimSpace(r.Time)
	if len(date) != 6 || len(clock) != 6 {
		return Record{}, nil
	}

	ts, err := time.ParseInLocation(TimestampLayout, date+clock, time.UTC)
	if err != nil {
		return Record{}, nil
	}

	lat, err := parseHemisphere(r.Latitude, 'S', 90)
	if err != nil {
		return Record{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := parseHemisphere(r.Longitude, 'W', 180)
	if err != nil {
		return Record{}, fmt.Errorf("longitude: %w", err)
	}

	speed, speedOK := parseSpeed(r.Speed)

	return Record{
		Fix: models.Fix{
			Timestamp:        ts,
			Latitude:         lat,
			Longitude:        lon,
			ReportedSpeedKmh: speed,
		},
		Accepted: true,
		BadSpeed: !speedOK,
	}, nil
}

// parseHemisphere strips the trailing hemisphere letter and parses the rest.
// The negative hemisphere letter flips the sign. Values that are not finite
// or exceed limit degrees are malformed.
func parseHemisphere(s string, negative byte, limit float64) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", ErrMalformedCoordinate)
	}

	suffix := s[len(s)-1]
	v, err := strconv.ParseFloat(strings.TrimSpace(s[:len(s)-1]), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedCoordinate, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > limit {
		return 0, fmt.Errorf("%w: %q out of range", ErrMalformedCoordinate, s)
	}

	if suffix == negative || suffix == negative+('a'-'A') {
		v = -v
	}
	return v, nil
}

// parseSpeed parses the reported speed; ok is false when it had to default to 0
func parseSpeed(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
