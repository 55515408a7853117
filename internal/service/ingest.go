package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mateuschrist/taxdeed-api/internal/metrics"
	"github.com/mateuschrist/taxdeed-api/internal/property"
	"github.com/mateuschrist/taxdeed-api/internal/repository"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionError   = "error"
)

type IngestResult struct {
	Identity property.Identity `json:"identity"`
	Action   string            `json:"action"`
	ID       uint64            `json:"id"`
}

type BatchItemResult struct {
	Index    int               `json:"index"`
	Identity property.Identity `json:"identity"`
	Action   string            `json:"action"`
	ID       uint64            `json:"id,omitempty"`
	Error    string            `json:"error,omitempty"`
}

type BatchResult struct {
	Total   int               `json:"total"`
	Created int               `json:"created"`
	Updated int               `json:"updated"`
	Failed  int               `json:"failed"`
	Items   []BatchItemResult `json:"items"`
}

// IngestService applies scraper records to the property store.
type IngestService struct {
	Repo     repository.PropertyRepository
	Resolver *property.Resolver
	Policy   *property.Policy
	Metrics  *metrics.Metrics
	Logger   *zap.Logger

	// Now is overridable in tests.
	Now func() time.Time
}

// Ingest resolves the identity of in, merges it with the stored row and
// writes the result. Calling it twice with the same payload leaves the same
// row; only the call whose insert won reports created.
func (s *IngestService) Ingest(ctx context.Context, in property.Payload) (IngestResult, error) {
	if s == nil || s.Repo == nil {
		return IngestResult{}, errors.New("ingest service not configured")
	}
	id, err := s.Resolver.ResolveField(in.County, in.State, in.Node)
	if err != nil {
		if !errors.Is(err, property.ErrInvalidIdentity) {
			err = invalidInput("%v", err)
		}
		return IngestResult{}, err
	}

	existing, err := s.Repo.GetPropertyByIdentity(ctx, id.County, id.State, id.Node)
	if err != nil {
		s.Metrics.RecordIngest(id.County, id.State, ActionError)
		return IngestResult{Identity: id}, storageErr("get property", err)
	}

	row, err := s.Policy.Merge(existing, id, in, s.now())
	if err != nil {
		if errors.Is(err, property.ErrInvalidStatus) {
			err = invalidInput("%v", err)
		}
		return IngestResult{Identity: id}, err
	}

	created, err := s.Repo.UpsertProperty(ctx, &row)
	if err != nil {
		s.Metrics.RecordIngest(id.County, id.State, ActionError)
		s.logWarn("ingest upsert failed", id, err)
		return IngestResult{Identity: id}, storageErr("upsert property", err)
	}

	action := ActionUpdated
	if created {
		action = ActionCreated
	}
	s.Metrics.RecordIngest(id.County, id.State, action)
	if s.Logger != nil {
		s.Logger.Debug("property ingested",
			zap.String("identity", id.String()),
			zap.String("action", action),
			zap.Uint64("id", row.ID),
		)
	}
	return IngestResult{Identity: id, Action: action, ID: row.ID}, nil
}

// IngestBatch ingests every item independently. A failing item is reported
// in its slot and does not stop the others; storage failures are reported the
// same way so the scraper can retry just those records.
func (s *IngestService) IngestBatch(ctx context.Context, items []property.Payload) (BatchResult, error) {
	out := BatchResult{Total: len(items), Items: make([]BatchItemResult, 0, len(items))}
	for i, in := range items {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		res, err := s.Ingest(ctx, in)
		item := BatchItemResult{Index: i, Identity: res.Identity, Action: res.Action, ID: res.ID}
		switch {
		case err != nil:
			item.Action = ActionError
			item.Error = err.Error()
			out.Failed++
		case res.Action == ActionCreated:
			out.Created++
		default:
			out.Updated++
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func (s *IngestService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *IngestService) logWarn(msg string, id property.Identity, err error) {
	if s.Logger == nil {
		return
	}
	s.Logger.Warn(msg, zap.String("identity", id.String()), zap.Error(err))
}
