package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mateuschrist/taxdeed-api/internal/models"
	"github.com/mateuschrist/taxdeed-api/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// --- properties ---------------------------------------------------------------

var identityColumns = []clause.Column{{Name: "county"}, {Name: "state"}, {Name: "node"}}

// propertyUpdateColumns are rewritten on every ingestion of an existing
// identity. created_at and the identity itself are never touched.
var propertyUpdateColumns = []string{
	"tax_sale_id",
	"parcel_number",
	"sale_date",
	"opening_bid",
	"deed_status",
	"applicant_name",
	"pdf_url",
	"address",
	"city",
	"state_address",
	"zip",
	"address_source_marker",
	"auction_location",
	"auction_start_time",
	"auction_platform",
	"auction_source_url",
	"status",
	"notes",
	"is_active",
	"removed_at",
	"raw_json",
	"updated_at",
}

func (s *Store) GetPropertyByIdentity(ctx context.Context, county, state, node string) (*models.Property, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Property
	err := s.db.WithContext(ctx).
		Where("county = ? AND state = ? AND node = ?", county, state, node).
		Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetPropertyByID(ctx context.Context, id uint64) (*models.Property, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Property
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) UpsertProperty(ctx context.Context, item *models.Property) (bool, error) {
	if s == nil || s.db == nil || item == nil {
		return false, nil
	}
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := *item
		row.ID = 0
		res := tx.Clauses(clause.OnConflict{
			Columns:   identityColumns,
			DoNothing: true,
		}).Create(&row)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			created = true
		} else {
			upd := tx.Model(&models.Property{}).
				Where("county = ? AND state = ? AND node = ?", item.County, item.State, item.Node).
				Select(propertyUpdateColumns).
				Updates(&row)
			if upd.Error != nil {
				return upd.Error
			}
		}
		return tx.Where("county = ? AND state = ? AND node = ?", item.County, item.State, item.Node).
			Take(item).Error
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (s *Store) UpdatePropertyAdmin(ctx context.Context, id uint64, update repository.PropertyAdminUpdate) (*models.Property, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	updates := map[string]any{"updated_at": update.UpdatedAt}
	if update.Status != nil {
		updates["status"] = *update.Status
	}
	switch {
	case update.ClearNotes:
		updates["notes"] = gorm.Expr("NULL")
	case update.Notes != nil:
		updates["notes"] = *update.Notes
	}
	res := s.db.WithContext(ctx).Model(&models.Property{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.GetPropertyByID(ctx, id)
}

func (s *Store) ListExistingNodes(ctx context.Context, county, state string, nodes []string) ([]string, error) {
	if s == nil || s.db == nil || len(nodes) == 0 {
		return nil, nil
	}
	var out []string
	if err := s.db.WithContext(ctx).
		Model(&models.Property{}).
		Where("county = ? AND state = ?", county, state).
		Where("node IN ?", nodes).
		Pluck("node", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) ListActiveNodesTx(ctx context.Context, tx *gorm.DB, county, state string) ([]repository.ActiveNode, error) {
	if tx == nil {
		return nil, errors.New("nil transaction")
	}
	query := tx.WithContext(ctx).
		Model(&models.Property{}).
		Select("id", "node").
		Where("county = ? AND state = ?", county, state).
		Where("is_active = ?", true)
	if tx.Dialector.Name() == "postgres" {
		// Holds the snapshot rows until the removal write commits, so an
		// ingestion of the same identity waits for us instead of interleaving.
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var items []repository.ActiveNode
	if err := query.Order("id asc").Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) MarkRemovedTx(ctx context.Context, tx *gorm.DB, ids []uint64, now time.Time, batchSize int) (int64, error) {
	if tx == nil {
		return 0, errors.New("nil transaction")
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	var total int64
	for i := 0; i < len(ids); i += batchSize {
		end := i + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		res := tx.WithContext(ctx).
			Model(&models.Property{}).
			Where("id IN ?", ids[i:end]).
			Where("is_active = ?", true).
			Updates(map[string]any{
				"is_active":  false,
				"removed_at": now,
				"status":     models.StatusRemoved,
				"updated_at": now,
			})
		if res.Error != nil {
			return total, res.Error
		}
		total += res.RowsAffected
	}
	return total, nil
}

// --- scraper state & runs -----------------------------------------------------

func (s *Store) EnsureScraperState(ctx context.Context, name string, now time.Time) (*models.ScraperState, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	seed := &models.ScraperState{ScraperName: name, CreatedAt: now, UpdatedAt: now}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scraper_name"}},
		DoNothing: true,
	}).Create(seed).Error; err != nil {
		return nil, err
	}
	var state models.ScraperState
	if err := s.db.WithContext(ctx).First(&state, "scraper_name = ?", name).Error; err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *Store) SaveScraperState(ctx context.Context, state *models.ScraperState, columns []string) (*models.ScraperState, error) {
	if s == nil || s.db == nil || state == nil {
		return nil, nil
	}
	cols := append([]string{}, columns...)
	cols = append(cols, "updated_at")
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scraper_name"}},
		DoUpdates: clause.AssignmentColumns(cleanStrings(cols)),
	}).Create(state).Error; err != nil {
		return nil, err
	}
	var out models.ScraperState
	if err := s.db.WithContext(ctx).First(&out, "scraper_name = ?", state.ScraperName).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) ResetDoneForToday(ctx context.Context, now time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.ScraperState{}).
		Where("done_for_today = ?", true).
		Updates(map[string]any{"done_for_today": false, "updated_at": now})
	return res.RowsAffected, res.Error
}

func (s *Store) GetScraperRun(ctx context.Context, scraperName, runID string) (*models.ScraperRun, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var run models.ScraperRun
	err := s.db.WithContext(ctx).
		Where("scraper_name = ? AND run_id = ?", scraperName, runID).
		Take(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (s *Store) InsertScraperRun(ctx context.Context, item *models.ScraperRun) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) FinishScraperRun(ctx context.Context, scraperName, runID string, updates map[string]any) (*models.ScraperRun, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.ScraperRun{}).
		Where("scraper_name = ? AND run_id = ?", scraperName, runID).
		Where("status = ?", models.RunStatusRunning).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.GetScraperRun(ctx, scraperName, runID)
}

func (s *Store) ListScraperRuns(ctx context.Context, params repository.ListScraperRunsParams) ([]models.ScraperRun, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.ScraperRun{})
	if params.ScraperName != nil && strings.TrimSpace(*params.ScraperName) != "" {
		query = query.Where("scraper_name = ?", strings.TrimSpace(*params.ScraperName))
	}
	if params.Status != nil && strings.TrimSpace(*params.Status) != "" {
		query = query.Where("status = ?", strings.TrimSpace(*params.Status))
	}
	query = applyOrder(query, params.OrderBy, params.Asc, "started_at")
	limit := normalizeLimit(params.Limit, 50)
	offset := normalizeOffset(params.Offset)
	var items []models.ScraperRun
	if err := query.Order("id desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CloseStaleRuns(ctx context.Context, startedBefore, now time.Time, message string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.ScraperRun{}).
		Where("status = ?", models.RunStatusRunning).
		Where("started_at < ?", startedBefore).
		Updates(map[string]any{
			"status":      models.RunStatusFailed,
			"finished_at": now,
			"message":     message,
		})
	return res.RowsAffected, res.Error
}

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	if column == "" {
		column = fallback
	}
	direction := "desc"
	if asc != nil && *asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	seen := map[string]struct{}{}
	for _, raw := range items {
		val := strings.TrimSpace(raw)
		if val == "" {
			continue
		}
		if _, ok := seen[val]; ok {
			continue
		}
		seen[val] = struct{}{}
		out = append(out, val)
	}
	return out
}

var _ repository.Repository = (*Store)(nil)
