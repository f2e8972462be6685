package motion

import (
	"sort"

	"github.com/jengzang/motion-profile-go/internal/models"
)

// DaySegment holds every fix of one UTC calendar day, ordered by timestamp
type DaySegment struct {
	Day   string // YYYY-MM-DD
	Fixes []models.Fix
}

// PartitionDays groups fixes by calendar day. Days are returned in
// chronological order and the input slice is not modified.
func PartitionDays(fixes []models.Fix) []DaySegment {
	byDay := make(map[string][]models.Fix)
	for _, f := range fixes {
		day := f.Day()
		byDay[day] = append(byDay[day], f)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	segments := make([]DaySegment, 0, len(days))
	for _, day := range days {
		dayFixes := byDay[day]
		sort.SliceStable(dayFixes, func(i, j int) bool {
			return dayFixes[i].Timestamp.Before(dayFixes[j].Timestamp)
		})
		segments = append(segments, DaySegment{Day: day, Fixes: dayFixes})
	}

	return segments
}
