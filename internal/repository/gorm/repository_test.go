package gormrepository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mateuschrist/taxdeed-api/internal/config"
	"github.com/mateuschrist/taxdeed-api/internal/db"
	"github.com/mateuschrist/taxdeed-api/internal/models"
	"github.com/mateuschrist/taxdeed-api/internal/repository"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := db.Open(config.DBConfig{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(conn) })
	require.NoError(t, db.AutoMigrate(conn))
	return New(conn.Gorm)
}

func strPtr(v string) *string { return &v }

func newProperty(county, state, node string, now time.Time) *models.Property {
	return &models.Property{
		County:    county,
		State:     state,
		Node:      node,
		Status:    models.StatusNew,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestUpsertPropertyCreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := newProperty("Orange", "FL", "N-1", t0)
	bid := decimal.RequireFromString("12500")
	first.OpeningBid = &bid
	first.ParcelNumber = strPtr("P-100")
	created, err := s.UpsertProperty(ctx, first)
	require.NoError(t, err)
	require.True(t, created)
	require.NotZero(t, first.ID)

	t1 := t0.Add(time.Hour)
	second := newProperty("Orange", "FL", "N-1", t1)
	second.ParcelNumber = strPtr("P-200")
	created, err = s.UpsertProperty(ctx, second)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first.ID, second.ID)

	got, err := s.GetPropertyByIdentity(ctx, "Orange", "FL", "N-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "P-200", *got.ParcelNumber)
	require.Nil(t, got.OpeningBid)
	require.True(t, got.CreatedAt.Equal(t0), "created_at=%v", got.CreatedAt)
	require.True(t, got.UpdatedAt.Equal(t1), "updated_at=%v", got.UpdatedAt)
}

func TestUpsertPropertyIdentityIsScoped(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now().UTC()

	for _, p := range []*models.Property{
		newProperty("Orange", "FL", "N-1", now),
		newProperty("Osceola", "FL", "N-1", now),
		newProperty("Orange", "GA", "N-1", now),
	} {
		created, err := s.UpsertProperty(ctx, p)
		require.NoError(t, err)
		require.True(t, created, "identity %s/%s/%s", p.County, p.State, p.Node)
	}
}

func TestListExistingNodes(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now().UTC()
	for _, n := range []string{"A", "B", "C"} {
		_, err := s.UpsertProperty(ctx, newProperty("Orange", "FL", n, now))
		require.NoError(t, err)
	}
	_, err := s.UpsertProperty(ctx, newProperty("Osceola", "FL", "D", now))
	require.NoError(t, err)

	got, err := s.ListExistingNodes(ctx, "Orange", "FL", []string{"A", "C", "D", "Z"})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"A", "C"}, got)

	got, err = s.ListExistingNodes(ctx, "Orange", "FL", nil)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestMarkRemovedTxChunksAndSkipsInactive(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now().UTC()
	var ids []uint64
	for _, n := range []string{"A", "B", "C"} {
		p := newProperty("Orange", "FL", n, now)
		_, err := s.UpsertProperty(ctx, p)
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	later := now.Add(time.Minute)
	var removed int64
	err := s.InTx(ctx, func(tx *gorm.DB) error {
		active, err := s.ListActiveNodesTx(ctx, tx, "Orange", "FL")
		require.NoError(t, err)
		require.Len(t, active, 3)
		removed, err = s.MarkRemovedTx(ctx, tx, ids[:2], later, 1)
		return err
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, removed)

	// Already removed rows are not counted again.
	err = s.InTx(ctx, func(tx *gorm.DB) error {
		removed, err = s.MarkRemovedTx(ctx, tx, ids, later, 10)
		return err
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	got, err := s.GetPropertyByID(ctx, ids[0])
	require.NoError(t, err)
	require.False(t, got.IsActive)
	require.Equal(t, models.StatusRemoved, got.Status)
	require.NotNil(t, got.RemovedAt)
}

func TestUpdatePropertyAdmin(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now().UTC()
	p := newProperty("Orange", "FL", "A", now)
	p.Notes = strPtr("call county")
	_, err := s.UpsertProperty(ctx, p)
	require.NoError(t, err)

	got, err := s.UpdatePropertyAdmin(ctx, p.ID, repository.PropertyAdminUpdate{
		Status:    strPtr(models.StatusReviewed),
		UpdatedAt: now,
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusReviewed, got.Status)
	require.Equal(t, "call county", *got.Notes)

	got, err = s.UpdatePropertyAdmin(ctx, p.ID, repository.PropertyAdminUpdate{ClearNotes: true, UpdatedAt: now})
	require.NoError(t, err)
	require.Nil(t, got.Notes)

	missing, err := s.UpdatePropertyAdmin(ctx, 9999, repository.PropertyAdminUpdate{UpdatedAt: now})
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestScraperStateSparseSave(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now().UTC()

	st, err := s.EnsureScraperState(ctx, "orange_taxdeed", now)
	require.NoError(t, err)
	require.Equal(t, 0, st.Offset)

	_, err = s.SaveScraperState(ctx, &models.ScraperState{
		ScraperName: "orange_taxdeed",
		Offset:      40,
		LastNode:    strPtr("N-9"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, []string{"cursor_offset", "last_node"})
	require.NoError(t, err)

	got, err := s.SaveScraperState(ctx, &models.ScraperState{
		ScraperName:  "orange_taxdeed",
		DoneForToday: true,
		CreatedAt:    now,
		UpdatedAt:    now.Add(time.Second),
	}, []string{"done_for_today"})
	require.NoError(t, err)
	require.Equal(t, 40, got.Offset)
	require.Equal(t, "N-9", *got.LastNode)
	require.True(t, got.DoneForToday)

	n, err := s.ResetDoneForToday(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestScraperRunLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now().UTC()

	require.NoError(t, s.InsertScraperRun(ctx, &models.ScraperRun{
		ScraperName: "orange_taxdeed",
		RunID:       "run_1",
		Status:      models.RunStatusRunning,
		FoundTotal:  12,
		StartedAt:   now,
	}))

	finished := now.Add(time.Minute)
	run, err := s.FinishScraperRun(ctx, "orange_taxdeed", "run_1", map[string]any{
		"status":      models.RunStatusOK,
		"finished_at": finished,
		"inserted":    3,
	})
	require.NoError(t, err)
	require.NotNil(t, run)
	require.Equal(t, models.RunStatusOK, run.Status)
	require.Equal(t, 3, run.Inserted)
	require.Equal(t, 12, run.FoundTotal)

	again, err := s.FinishScraperRun(ctx, "orange_taxdeed", "run_1", map[string]any{"status": models.RunStatusFailed})
	require.NoError(t, err)
	require.Nil(t, again)

	runs, err := s.ListScraperRuns(ctx, repository.ListScraperRunsParams{ScraperName: strPtr("orange_taxdeed")})
	require.NoError(t, err)
	require.Len(t, runs, 1)
}

func TestCloseStaleRuns(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now().UTC()

	require.NoError(t, s.InsertScraperRun(ctx, &models.ScraperRun{
		ScraperName: "orange_taxdeed", RunID: "old", Status: models.RunStatusRunning, StartedAt: now.Add(-10 * time.Hour),
	}))
	require.NoError(t, s.InsertScraperRun(ctx, &models.ScraperRun{
		ScraperName: "orange_taxdeed", RunID: "fresh", Status: models.RunStatusRunning, StartedAt: now.Add(-time.Minute),
	}))

	n, err := s.CloseStaleRuns(ctx, now.Add(-6*time.Hour), now, "stale")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	old, err := s.GetScraperRun(ctx, "orange_taxdeed", "old")
	require.NoError(t, err)
	require.Equal(t, models.RunStatusFailed, old.Status)
	require.Equal(t, "stale", *old.Message)

	fresh, err := s.GetScraperRun(ctx, "orange_taxdeed", "fresh")
	require.NoError(t, err)
	require.Equal(t, models.RunStatusRunning, fresh.Status)
}
