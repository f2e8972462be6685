package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jengzang/motion-profile-go/internal/analysis/motion"
	"github.com/jengzang/motion-profile-go/internal/config"
	"github.com/jengzang/motion-profile-go/internal/models"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	movingColor   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	idleColor     = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	chargingColor = color.RGBA{R: 44, G: 160, B: 44, A: 255}
)

// PlotDay draws computed speed against time of day, with idle pairs and
// charging candidate pairs highlighted. Days without pairs produce no plot.
func PlotDay(path string, d motion.DayResult, th config.Thresholds) (bool, error) {
	if len(d.Pairs) == 0 {
		return false, nil
	}

	var all, idle, charging plotter.XYs
	for _, p := range d.Pairs {
		pt := plotter.XY{X: hourOfDay(p.Timestamp), Y: p.SpeedMps}
		all = append(all, pt)
		if p.Label != models.LabelIdle {
			continue
		}
		idle = append(idle, pt)
		if p.IdleDurationS > th.IdleDurationThresholdS {
			charging = append(charging, pt)
		}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s %s", filepath.Base(d.Summary.Source), d.Summary.Day)
	p.X.Label.Text = "Hour (UTC)"
	p.Y.Label.Text = "Speed (m/s)"
	p.Add(plotter.NewGrid())

	series := []struct {
		name string
		pts  plotter.XYs
		c    color.Color
	}{
		{"all", all, movingColor},
		{"idle", idle, idleColor},
		{"charging candidate", charging, chargingColor},
	}
	for _, s := range series {
		if len(s.pts) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(s.pts)
		if err != nil {
			return false, fmt.Errorf("failed to build %s series: %w", s.name, err)
		}
		sc.GlyphStyle.Color = s.c
		sc.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(sc)
		p.Legend.Add(s.name, sc)
	}
	p.Legend.Top = true

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create plot dir: %w", err)
	}
	if err := p.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
		return false, fmt.Errorf("failed to save plot %s: %w", path, err)
	}
	return true, nil
}

// PlotDays writes one PNG per day into dir and returns the written paths
func PlotDays(dir string, days []motion.DayResult, th config.Thresholds) ([]string, error) {
	var paths []string
	for _, d := range days {
		path := filepath.Join(dir, PlotName(d.Summary.Source, d.Summary.Day))
		ok, err := PlotDay(path, d, th)
		if err != nil {
			return paths, err
		}
		if ok {
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// PlotName is the file name of a day plot, e.g. "logger_2024-03-15.png"
func PlotName(source, day string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if base == "" || base == "." {
		base = "profile"
	}
	return fmt.Sprintf("%s_%s.png", base, day)
}

func hourOfDay(t time.Time) float64 {
	t = t.UTC()
	return float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
}

func secondsDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
