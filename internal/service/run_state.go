package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mateuschrist/taxdeed-api/internal/metrics"
	"github.com/mateuschrist/taxdeed-api/internal/models"
	"github.com/mateuschrist/taxdeed-api/internal/property"
	"github.com/mateuschrist/taxdeed-api/internal/repository"
)

// StatePatch is a sparse update of a scraper checkpoint. Absent fields keep
// their stored value; explicit null clears the nullable ones.
type StatePatch struct {
	Offset        property.Field[int]       `json:"offset"`
	LastTaxSaleID property.Field[string]    `json:"last_tax_sale_id"`
	LastNode      property.Field[string]    `json:"last_node"`
	LastRunID     property.Field[string]    `json:"last_run_id"`
	LastRunAt     property.Field[time.Time] `json:"last_run_at"`
	DoneForToday  property.Field[bool]      `json:"done_for_today"`
	ResumeAfter   property.Field[time.Time] `json:"resume_after"`
}

// RunFinish carries the terminal values of a run. Counters left absent keep
// whatever the row already holds.
type RunFinish struct {
	Status        string
	Message       property.Field[string]
	FoundTotal    property.Field[int]
	Processed     property.Field[int]
	Inserted      property.Field[int]
	Updated       property.Field[int]
	Skipped       property.Field[int]
	RemovedMarked property.Field[int]
}

type ListRunsParams struct {
	Scraper string
	Status  string
	Limit   int
	Offset  int
}

// RunStateService tracks resumable crawl checkpoints and the run log.
type RunStateService struct {
	Repo           repository.ScraperRepository
	DefaultScraper string
	Metrics        *metrics.Metrics
	Logger         *zap.Logger

	Now func() time.Time
}

func (s *RunStateService) ScraperName(name string) string {
	name = strings.TrimSpace(name)
	if name != "" {
		return name
	}
	if s != nil && strings.TrimSpace(s.DefaultScraper) != "" {
		return strings.TrimSpace(s.DefaultScraper)
	}
	return "orange_taxdeed"
}

// GetState returns the checkpoint of scraper, creating a zeroed one on first
// access.
func (s *RunStateService) GetState(ctx context.Context, scraper string) (*models.ScraperState, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("run state service not configured")
	}
	st, err := s.Repo.EnsureScraperState(ctx, s.ScraperName(scraper), s.now())
	if err != nil {
		return nil, storageErr("ensure scraper state", err)
	}
	return st, nil
}

// SaveState applies the fields present in patch in one upsert and refreshes
// updated_at. An empty patch only touches updated_at.
func (s *RunStateService) SaveState(ctx context.Context, scraper string, patch StatePatch) (*models.ScraperState, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("run state service not configured")
	}
	now := s.now()
	row := &models.ScraperState{
		ScraperName: s.ScraperName(scraper),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	var cols []string

	if patch.Offset.Set {
		if !patch.Offset.Valid {
			return nil, invalidInput("offset cannot be null")
		}
		if patch.Offset.Value < 0 {
			return nil, invalidInput("offset must be >= 0")
		}
		row.Offset = patch.Offset.Value
		cols = append(cols, "cursor_offset")
	}
	if patch.DoneForToday.Set {
		if !patch.DoneForToday.Valid {
			return nil, invalidInput("done_for_today cannot be null")
		}
		row.DoneForToday = patch.DoneForToday.Value
		cols = append(cols, "done_for_today")
	}
	if patch.LastTaxSaleID.Set {
		row.LastTaxSaleID = patch.LastTaxSaleID.Ptr()
		cols = append(cols, "last_tax_sale_id")
	}
	if patch.LastNode.Set {
		row.LastNode = patch.LastNode.Ptr()
		cols = append(cols, "last_node")
	}
	if patch.LastRunID.Set {
		row.LastRunID = patch.LastRunID.Ptr()
		cols = append(cols, "last_run_id")
	}
	if patch.LastRunAt.Set {
		row.LastRunAt = utcPtr(patch.LastRunAt.Ptr())
		cols = append(cols, "last_run_at")
	}
	if patch.ResumeAfter.Set {
		row.ResumeAfter = utcPtr(patch.ResumeAfter.Ptr())
		cols = append(cols, "resume_after")
	}

	st, err := s.Repo.SaveScraperState(ctx, row, cols)
	if err != nil {
		return nil, storageErr("save scraper state", err)
	}
	return st, nil
}

// StartRun opens a running row. An empty runID gets a time-derived one.
func (s *RunStateService) StartRun(ctx context.Context, scraper, runID string, foundTotal int) (*models.ScraperRun, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("run state service not configured")
	}
	if foundTotal < 0 {
		return nil, invalidInput("found_total must be >= 0")
	}
	now := s.now()
	name := s.ScraperName(scraper)
	runID = strings.TrimSpace(runID)
	if runID == "" {
		runID = fmt.Sprintf("run_%d", now.UnixMilli())
	}

	existing, err := s.Repo.GetScraperRun(ctx, name, runID)
	if err != nil {
		return nil, storageErr("get scraper run", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrRunExists, name, runID)
	}

	run := &models.ScraperRun{
		ScraperName: name,
		RunID:       runID,
		Status:      models.RunStatusRunning,
		FoundTotal:  foundTotal,
		StartedAt:   now,
	}
	if err := s.Repo.InsertScraperRun(ctx, run); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s/%s", ErrRunExists, name, runID)
		}
		return nil, storageErr("insert scraper run", err)
	}
	s.Metrics.RecordScraperRun(name, models.RunStatusRunning)
	if s.Logger != nil {
		s.Logger.Info("scraper run started",
			zap.String("scraper", name),
			zap.String("run_id", runID),
			zap.Int("found_total", foundTotal),
		)
	}
	return run, nil
}

// FinishRun closes the running row of (scraper, runID) exactly once. A run
// that was never started, or was already closed, is ErrRunNotFound.
func (s *RunStateService) FinishRun(ctx context.Context, scraper, runID string, fin RunFinish) (*models.ScraperRun, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("run state service not configured")
	}
	name := s.ScraperName(scraper)
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return nil, invalidInput("run_id is required to finish a run")
	}
	status := strings.ToLower(strings.TrimSpace(fin.Status))
	if status == "" {
		status = models.RunStatusOK
	}
	if status != models.RunStatusOK && status != models.RunStatusFailed {
		return nil, invalidInput("status must be ok|failed, got %q", fin.Status)
	}

	updates := map[string]any{
		"status":      status,
		"finished_at": s.now(),
	}
	if fin.Message.Set {
		updates["message"] = fin.Message.Ptr()
	}
	counters := []struct {
		col string
		f   property.Field[int]
	}{
		{"found_total", fin.FoundTotal},
		{"processed", fin.Processed},
		{"inserted", fin.Inserted},
		{"updated", fin.Updated},
		{"skipped", fin.Skipped},
		{"removed_marked", fin.RemovedMarked},
	}
	for _, c := range counters {
		if !c.f.Valid {
			continue
		}
		if c.f.Value < 0 {
			return nil, invalidInput("%s must be >= 0", c.col)
		}
		updates[c.col] = c.f.Value
	}

	run, err := s.Repo.FinishScraperRun(ctx, name, runID, updates)
	if err != nil {
		return nil, storageErr("finish scraper run", err)
	}
	if run == nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrRunNotFound, name, runID)
	}
	s.Metrics.RecordScraperRun(name, status)
	if s.Logger != nil {
		s.Logger.Info("scraper run finished",
			zap.String("scraper", name),
			zap.String("run_id", runID),
			zap.String("status", status),
			zap.Int("inserted", run.Inserted),
			zap.Int("updated", run.Updated),
			zap.Int("removed_marked", run.RemovedMarked),
		)
	}
	return run, nil
}

// ListRuns returns run history, newest first.
func (s *RunStateService) ListRuns(ctx context.Context, params ListRunsParams) ([]models.ScraperRun, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("run state service not configured")
	}
	name := s.ScraperName(params.Scraper)
	q := repository.ListScraperRunsParams{
		Limit:       params.Limit,
		Offset:      params.Offset,
		ScraperName: &name,
		OrderBy:     "started_at",
		Asc:         boolPtr(false),
	}
	if st := strings.TrimSpace(params.Status); st != "" {
		q.Status = &st
	}
	items, err := s.Repo.ListScraperRuns(ctx, q)
	if err != nil {
		return nil, storageErr("list scraper runs", err)
	}
	return items, nil
}

func (s *RunStateService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}
