package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/jengzang/motion-profile-go/internal/analysis/motion"
	"github.com/jengzang/motion-profile-go/internal/models"
	"github.com/jengzang/motion-profile-go/internal/service"
)

// ChartHandler renders HTML charts of day profiles
type ChartHandler struct {
	service *service.ProfileService
}

// NewChartHandler creates a new chart handler
func NewChartHandler(service *service.ProfileService) *ChartHandler {
	return &ChartHandler{service: service}
}

// DayChart handles GET /api/v1/runs/:id/days/:day/chart
func (h *ChartHandler) DayChart(c *gin.Context) {
	runID, day := c.Param("id"), c.Param("day")

	summary, err := h.service.GetDay(runID, day)
	if err != nil {
		notFoundOrError(c, "Day not found", "Failed to get day", err)
		return
	}

	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("Motion profile %s", day)
	page.AddCharts(timeBreakdownChart(summary))
	if detail, ok := h.service.DayDetail(runID, day); ok && len(detail.Pairs) > 0 {
		page.AddCharts(speedChart(detail))
	}

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		c.String(http.StatusInternalServerError, "render error: %v", err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func timeBreakdownChart(s *models.DaySummary) *charts.Bar {
	x := []string{"Active", "Idle", "Off", "Charging candidate"}
	y := []opts.BarData{
		{Value: minutes(s.TotalActiveTimeS)},
		{Value: minutes(s.TotalIdleTimeS)},
		{Value: minutes(s.TotalOffTimeS)},
		{Value: minutes(s.ChargingCandidateTimeS)},
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s %s", s.Source, s.Day),
			Subtitle: fmt.Sprintf("%.2f km over %d fixes", s.TotalDistanceM/1000, s.FixCount),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "minutes"}),
	)
	bar.SetXAxis(x).
		AddSeries("minutes", y,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	return bar
}

func speedChart(d motion.DayResult) *charts.Line {
	x := make([]string, len(d.Pairs))
	speed := make([]opts.LineData, len(d.Pairs))
	idle := make([]opts.LineData, len(d.Pairs))
	for i, p := range d.Pairs {
		x[i] = p.Timestamp.Format("15:04:05")
		speed[i] = opts.LineData{Value: p.SpeedMps}
		if p.Label == models.LabelIdle {
			idle[i] = opts.LineData{Value: p.IdleDurationS / 60}
		} else {
			idle[i] = opts.LineData{Value: 0}
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: "Speed and idle duration"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	line.SetXAxis(x).
		AddSeries("speed (m/s)", speed).
		AddSeries("idle duration (min)", idle)
	return line
}

func minutes(seconds float64) float64 {
	return float64(int64(seconds/60*10+0.5)) / 10
}
