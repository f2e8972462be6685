package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jengzang/motion-profile-go/internal/database"
	"github.com/jengzang/motion-profile-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := database.Open(database.Config{DSN: fmt.Sprintf("file:%s?mode=memory&cache=shared", name)})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func newRun(id, source string, started time.Time) *models.Run {
	return &models.Run{ID: id, Source: source, Status: models.RunStatusRunning, StartedAt: started}
}

func TestRunRepositoryLifecycle(t *testing.T) {
	repo := NewRunRepository(openTestDB(t))
	started := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)

	run := newRun("run-1", "logger/a.csv", started)
	require.NoError(t, repo.Create(run))

	got, err := repo.GetByID("run-1")
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusRunning, got.Status)
	assert.Equal(t, started, got.StartedAt)
	assert.Nil(t, got.FinishedAt)

	finished := started.Add(time.Minute)
	run.Status = models.RunStatusCompleted
	run.FixCount = 120
	run.Rejected = 3
	run.DayCount = 2
	run.FinishedAt = &finished
	require.NoError(t, repo.Finish(run))

	got, err = repo.GetByID("run-1")
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusCompleted, got.Status)
	assert.Equal(t, 120, got.FixCount)
	assert.Equal(t, 3, got.Rejected)
	require.NotNil(t, got.FinishedAt)
	assert.Equal(t, finished, *got.FinishedAt)
}

func TestRunRepositoryNotFound(t *testing.T) {
	repo := NewRunRepository(openTestDB(t))

	_, err := repo.GetByID("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.Finish(&models.Run{ID: "missing", Status: models.RunStatusFailed})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRunRepositoryList(t *testing.T) {
	repo := NewRunRepository(openTestDB(t))
	start := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		run := newRun(fmt.Sprintf("run-%d", i), "a.csv", start.Add(time.Duration(i)*time.Minute))
		require.NoError(t, repo.Create(run))
	}
	failed := &models.Run{ID: "run-1", Status: models.RunStatusFailed, ErrorMessage: "bad coordinate"}
	require.NoError(t, repo.Finish(failed))

	runs, err := repo.List(models.RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-2", runs[0].ID)

	runs, err = repo.List(models.RunFilter{Status: models.RunStatusFailed})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "bad coordinate", runs[0].ErrorMessage)
}

func TestDaySummaryRepository(t *testing.T) {
	db := openTestDB(t)
	runs := NewRunRepository(db)
	repo := NewDaySummaryRepository(db)

	require.NoError(t, runs.Create(newRun("run-1", "a.csv", time.Now().UTC())))

	window := models.IdleRun{
		StartTime: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 3, 15, 12, 20, 0, 0, time.UTC),
		DurationS: 1200,
		Pairs:     20,
	}
	summaries := []models.DaySummary{
		{RunID: "run-1", Source: "a.csv", Day: "2024-03-16", TotalDistanceM: 5000, PairCount: 10},
		{RunID: "run-1", Source: "a.csv", Day: "2024-03-15", TotalDistanceM: 12000, ChargingCandidateTimeS: 1200, ChargingWindows: []models.IdleRun{window}},
	}
	require.NoError(t, repo.InsertBatch(summaries))

	list, total, err := repo.List(models.DayFilter{RunID: "run-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 2)
	assert.Equal(t, "2024-03-15", list[0].Day)

	got, err := repo.Get("run-1", "2024-03-15")
	require.NoError(t, err)
	want := summaries[1]
	want.ID = got.ID
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}

	charging, total, err := repo.List(models.DayFilter{MinCharging: 900})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "2024-03-15", charging[0].Day)

	paged, total, err := repo.List(models.DayFilter{Page: 2, PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, paged, 1)
	assert.Equal(t, "2024-03-16", paged[0].Day)

	_, err = repo.Get("run-1", "2024-01-01")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDaySummaryRepositoryRequiresRun(t *testing.T) {
	repo := NewDaySummaryRepository(openTestDB(t))

	err := repo.InsertBatch([]models.DaySummary{{RunID: "ghost", Source: "a.csv", Day: "2024-03-15"}})
	assert.Error(t, err)

	list, total, err := repo.List(models.DayFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
}
