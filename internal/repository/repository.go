package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mateuschrist/taxdeed-api/internal/models"
)

type PropertyRepository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error
	GetPropertyByIdentity(ctx context.Context, county, state, node string) (*models.Property, error)
	GetPropertyByID(ctx context.Context, id uint64) (*models.Property, error)
	// UpsertProperty inserts item or, when a row with the same identity
	// exists, overwrites its mutable columns. created is true only for the
	// caller whose insert won. item is reloaded from the store.
	UpsertProperty(ctx context.Context, item *models.Property) (created bool, err error)
	UpdatePropertyAdmin(ctx context.Context, id uint64, update PropertyAdminUpdate) (*models.Property, error)
	ListExistingNodes(ctx context.Context, county, state string, nodes []string) ([]string, error)
	ListActiveNodesTx(ctx context.Context, tx *gorm.DB, county, state string) ([]ActiveNode, error)
	MarkRemovedTx(ctx context.Context, tx *gorm.DB, ids []uint64, now time.Time, batchSize int) (int64, error)
}

type ScraperRepository interface {
	EnsureScraperState(ctx context.Context, name string, now time.Time) (*models.ScraperState, error)
	// SaveScraperState upserts state, touching only columns on an existing row.
	SaveScraperState(ctx context.Context, state *models.ScraperState, columns []string) (*models.ScraperState, error)
	ResetDoneForToday(ctx context.Context, now time.Time) (int64, error)

	GetScraperRun(ctx context.Context, scraperName, runID string) (*models.ScraperRun, error)
	InsertScraperRun(ctx context.Context, item *models.ScraperRun) error
	// FinishScraperRun closes the running row; it returns nil, nil when no
	// running row matches.
	FinishScraperRun(ctx context.Context, scraperName, runID string, updates map[string]any) (*models.ScraperRun, error)
	ListScraperRuns(ctx context.Context, params ListScraperRunsParams) ([]models.ScraperRun, error)
	CloseStaleRuns(ctx context.Context, startedBefore, now time.Time, message string) (int64, error)
}

type Repository interface {
	PropertyRepository
	ScraperRepository
}

type ActiveNode struct {
	ID   uint64
	Node string
}

// PropertyAdminUpdate carries the admin-owned fields; nil leaves a column
// alone, ClearNotes sets notes to NULL.
type PropertyAdminUpdate struct {
	Status     *string
	Notes      *string
	ClearNotes bool
	UpdatedAt  time.Time
}

type ListScraperRunsParams struct {
	Limit       int
	Offset      int
	ScraperName *string
	Status      *string
	OrderBy     string
	Asc         *bool
}
