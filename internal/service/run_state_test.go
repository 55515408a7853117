package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mateuschrist/taxdeed-api/internal/models"
	"github.com/mateuschrist/taxdeed-api/internal/property"
)

func TestGetStateCreatesZeroState(t *testing.T) {
	ctx := context.Background()
	svc := &RunStateService{Repo: newSQLiteStore(t), DefaultScraper: "orange_taxdeed", Now: fixedClock(t0)}

	st, err := svc.GetState(ctx, "")
	require.NoError(t, err)
	require.Equal(t, "orange_taxdeed", st.ScraperName)
	require.Equal(t, 0, st.Offset)
	require.False(t, st.DoneForToday)
	require.Nil(t, st.LastNode)

	again, err := svc.GetState(ctx, "orange_taxdeed")
	require.NoError(t, err)
	require.True(t, again.CreatedAt.Equal(st.CreatedAt))
}

func TestSaveStateIsSparse(t *testing.T) {
	ctx := context.Background()
	svc := &RunStateService{Repo: newSQLiteStore(t), Now: fixedClock(t0)}

	resume := t0.Add(2 * time.Hour)
	_, err := svc.SaveState(ctx, "s1", StatePatch{
		Offset:        property.Of(120),
		LastNode:      property.Of("N-55"),
		LastTaxSaleID: property.Of("2026-0012"),
		ResumeAfter:   property.Of(resume),
	})
	require.NoError(t, err)

	st, err := svc.SaveState(ctx, "s1", StatePatch{
		DoneForToday: property.Of(true),
		ResumeAfter:  property.Null[time.Time](),
	})
	require.NoError(t, err)
	require.Equal(t, 120, st.Offset)
	require.Equal(t, "N-55", *st.LastNode)
	require.Equal(t, "2026-0012", *st.LastTaxSaleID)
	require.True(t, st.DoneForToday)
	require.Nil(t, st.ResumeAfter)
	require.True(t, st.UpdatedAt.After(st.CreatedAt))
}

func TestSaveStateRejectsNullOffset(t *testing.T) {
	svc := &RunStateService{Repo: newSQLiteStore(t)}
	_, err := svc.SaveState(context.Background(), "s1", StatePatch{Offset: property.Null[int]()})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err=%v want ErrInvalidInput", err)
	}
}

func TestFinishRunWithoutStartIsNotFound(t *testing.T) {
	svc := &RunStateService{Repo: newSQLiteStore(t)}
	_, err := svc.FinishRun(context.Background(), "scraperX", "run1", RunFinish{Status: "ok"})
	if !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("err=%v want ErrRunNotFound", err)
	}
}

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := &RunStateService{Repo: newSQLiteStore(t), DefaultScraper: "orange_taxdeed", Now: fixedClock(t0)}

	run, err := svc.StartRun(ctx, "", "", 40)
	require.NoError(t, err)
	require.Equal(t, models.RunStatusRunning, run.Status)
	require.Equal(t, "run_1777885200000", run.RunID)
	require.Equal(t, 40, run.FoundTotal)

	_, err = svc.StartRun(ctx, "", run.RunID, 0)
	require.ErrorIs(t, err, ErrRunExists)

	done, err := svc.FinishRun(ctx, "", run.RunID, RunFinish{
		Status:   "failed",
		Message:  property.Of("captcha wall"),
		Inserted: property.Of(5),
		Updated:  property.Of(7),
	})
	require.NoError(t, err)
	require.Equal(t, models.RunStatusFailed, done.Status)
	require.Equal(t, "captcha wall", *done.Message)
	require.Equal(t, 5, done.Inserted)
	require.Equal(t, 7, done.Updated)
	require.Equal(t, 40, done.FoundTotal)
	require.NotNil(t, done.FinishedAt)

	_, err = svc.FinishRun(ctx, "", run.RunID, RunFinish{})
	require.ErrorIs(t, err, ErrRunNotFound)

	runs, err := svc.ListRuns(ctx, ListRunsParams{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
}

func TestFinishRunRejectsUnknownStatus(t *testing.T) {
	ctx := context.Background()
	svc := &RunStateService{Repo: newSQLiteStore(t)}
	_, err := svc.StartRun(ctx, "s", "r", 0)
	require.NoError(t, err)

	_, err = svc.FinishRun(ctx, "s", "r", RunFinish{Status: "running"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestMaintenanceClosesStaleRuns(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)
	runs := &RunStateService{Repo: store, Now: func() time.Time { return t0 }}
	_, err := runs.StartRun(ctx, "s", "old", 0)
	require.NoError(t, err)

	later := t0.Add(7 * time.Hour)
	_, err = (&RunStateService{Repo: store, Now: func() time.Time { return later }}).StartRun(ctx, "s", "fresh", 0)
	require.NoError(t, err)

	m := &MaintenanceService{Repo: store, StaleAfter: 6 * time.Hour, Now: func() time.Time { return later }}
	n, err := m.CloseStaleRuns(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	old, err := store.GetScraperRun(ctx, "s", "old")
	require.NoError(t, err)
	require.Equal(t, models.RunStatusFailed, old.Status)
	require.Equal(t, StaleRunMessage, *old.Message)

	_, err = runs.FinishRun(ctx, "s", "old", RunFinish{})
	require.ErrorIs(t, err, ErrRunNotFound)
}

func TestMaintenanceResetsDailyFlags(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)
	runs := &RunStateService{Repo: store}
	_, err := runs.SaveState(ctx, "s", StatePatch{DoneForToday: property.Of(true)})
	require.NoError(t, err)

	m := &MaintenanceService{Repo: store}
	n, err := m.ResetDailyFlags(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	st, err := runs.GetState(ctx, "s")
	require.NoError(t, err)
	require.False(t, st.DoneForToday)
}
