// Package report renders day profiles for people: a console summary, JSON
// and PNG speed plots.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jengzang/motion-profile-go/internal/models"
)

// WriteRunHeader writes the one-line ingest summary of a run
func WriteRunHeader(w io.Writer, run *models.Run) error {
	_, err := fmt.Fprintf(w, "%s: %s fixes, %s rejected, %s bad speed values, %s days\n",
		run.Source,
		humanize.Comma(int64(run.FixCount)),
		humanize.Comma(int64(run.Rejected)),
		humanize.Comma(int64(run.BadSpeed)),
		humanize.Comma(int64(run.DayCount)),
	)
	return err
}

// WriteText writes the per-day console report. Distances are in km and
// times in minutes, both with two decimals.
func WriteText(w io.Writer, summaries []models.DaySummary) error {
	for _, s := range summaries {
		_, err := fmt.Fprintf(w,
			"%s\n"+
				"Total distance travelled (km): %.2f\n"+
				"Total active time (mins): %.2f\n"+
				"Total idle time (mins): %.2f\n"+
				"Total off time (mins): %.2f\n"+
				"Total potential charging time (mins): %.2f\n"+
				"Fixes: %s (%s outliers, %s duplicates dropped)\n",
			s.Day,
			s.TotalDistanceM/1000,
			s.TotalActiveTimeS/60,
			s.TotalIdleTimeS/60,
			s.TotalOffTimeS/60,
			s.ChargingCandidateTimeS/60,
			humanize.Comma(int64(s.FixCount)),
			humanize.Comma(int64(s.DroppedDisplacement)),
			humanize.Comma(int64(s.DroppedDuplicate)),
		)
		if err != nil {
			return err
		}

		for _, win := range s.ChargingWindows {
			if _, err := fmt.Fprintf(w, "  charging window %s - %s (%s)\n",
				win.StartTime.Format("15:04:05"),
				win.EndTime.Format("15:04:05"),
				strings.TrimSpace(humanize.RelTime(win.StartTime, win.StartTime.Add(secondsDuration(win.DurationS)), "", "")),
			); err != nil {
				return err
			}
		}
	}
	return nil
}

// Document is the JSON form of one profiled input
type Document struct {
	Run  *models.Run         `json:"run"`
	Days []models.DaySummary `json:"days"`
}

// WriteJSON writes docs as indented JSON
func WriteJSON(w io.Writer, docs []Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
