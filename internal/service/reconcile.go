package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mateuschrist/taxdeed-api/internal/metrics"
	"github.com/mateuschrist/taxdeed-api/internal/property"
	"github.com/mateuschrist/taxdeed-api/internal/repository"
)

const skippedEmptyNote = "current_nodes empty -> skipped"

type ReconcileOptions struct {
	// DryRun computes the removal set without writing it.
	DryRun bool
}

type ReconcileResult struct {
	County        string   `json:"county"`
	State         string   `json:"state"`
	RemovedMarked int64    `json:"removed_marked"`
	Skipped       bool     `json:"skipped,omitempty"`
	Note          string   `json:"note,omitempty"`
	DryRun        bool     `json:"dry_run,omitempty"`
	RemovedNodes  []string `json:"removed_nodes,omitempty"`
}

// ReconcileService soft-removes listings of a jurisdiction that the latest
// complete crawl no longer observed.
type ReconcileService struct {
	Repo      repository.PropertyRepository
	Resolver  *property.Resolver
	ChunkSize int
	Metrics   *metrics.Metrics
	Logger    *zap.Logger

	Now func() time.Time
}

// Reconcile marks every active row of (county, state) whose node is absent
// from currentNodes as removed. An empty observed set is treated as a failed
// crawl and never touches the store. Rows of other jurisdictions and rows
// already removed are left alone, so repeating a call changes nothing.
func (s *ReconcileService) Reconcile(ctx context.Context, county, state string, currentNodes []string, opts ReconcileOptions) (ReconcileResult, error) {
	if s == nil || s.Repo == nil {
		return ReconcileResult{}, errors.New("reconcile service not configured")
	}
	c, st := s.Resolver.Jurisdiction(county, state)
	res := ReconcileResult{County: c, State: st, DryRun: opts.DryRun}

	observed := uniqueNodes(currentNodes)
	if len(observed) == 0 {
		res.Skipped = true
		res.Note = skippedEmptyNote
		s.Metrics.RecordReconcile(c, st, "skipped", 0)
		if s.Logger != nil {
			s.Logger.Warn("reconcile skipped: empty observed set",
				zap.String("county", c),
				zap.String("state", st),
			)
		}
		return res, nil
	}
	if c == "" || st == "" {
		return res, invalidInput("county and state are required")
	}

	seen := make(map[string]struct{}, len(observed))
	for _, n := range observed {
		seen[n] = struct{}{}
	}

	now := s.now()
	err := s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		active, err := s.Repo.ListActiveNodesTx(ctx, tx, c, st)
		if err != nil {
			return storageErr("list active nodes", err)
		}
		ids := make([]uint64, 0)
		nodes := make([]string, 0)
		for _, row := range active {
			if _, ok := seen[row.Node]; ok {
				continue
			}
			ids = append(ids, row.ID)
			nodes = append(nodes, row.Node)
		}
		res.RemovedNodes = nodes
		if opts.DryRun {
			res.RemovedMarked = int64(len(ids))
			return nil
		}
		if len(ids) == 0 {
			return nil
		}
		n, err := s.Repo.MarkRemovedTx(ctx, tx, ids, now, s.ChunkSize)
		if err != nil {
			return storageErr("mark removed", err)
		}
		res.RemovedMarked = n
		return nil
	})
	if err != nil {
		s.Metrics.RecordReconcile(c, st, "error", 0)
		if s.Logger != nil {
			s.Logger.Error("reconcile failed",
				zap.String("county", c),
				zap.String("state", st),
				zap.Error(err),
			)
		}
		res.RemovedMarked = 0
		res.RemovedNodes = nil
		return res, storageErr("reconcile", err)
	}

	outcome := "applied"
	removed := res.RemovedMarked
	if opts.DryRun {
		outcome = "dry_run"
		removed = 0
	}
	s.Metrics.RecordReconcile(c, st, outcome, removed)
	if s.Logger != nil {
		s.Logger.Info("reconcile done",
			zap.String("county", c),
			zap.String("state", st),
			zap.Int("observed", len(observed)),
			zap.Int64("removed_marked", res.RemovedMarked),
			zap.Bool("dry_run", opts.DryRun),
		)
	}
	return res, nil
}

func (s *ReconcileService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
