package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mateuschrist/taxdeed-api/internal/metrics"
	"github.com/mateuschrist/taxdeed-api/internal/property"
	"github.com/mateuschrist/taxdeed-api/internal/repository"
)

const (
	defaultExistenceChunk = 200
	maxExistenceChunk     = 1000
)

// ExistenceService answers which candidate nodes are already stored, so a
// scraper can skip detail fetches for known listings.
type ExistenceService struct {
	Repo        repository.PropertyRepository
	Resolver    *property.Resolver
	ChunkSize   int
	Parallelism int
	Metrics     *metrics.Metrics
	Logger      *zap.Logger
}

// CheckExisting returns the subset of nodes stored for the jurisdiction,
// sorted. Removed rows count as existing.
func (s *ExistenceService) CheckExisting(ctx context.Context, county, state string, nodes []string) ([]string, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("existence service not configured")
	}
	candidates := uniqueNodes(nodes)
	if len(candidates) == 0 {
		return []string{}, nil
	}
	c, st := s.Resolver.Jurisdiction(county, state)
	if c == "" || st == "" {
		return nil, invalidInput("county and state are required")
	}

	chunks := chunkStrings(candidates, s.chunkSize())
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism())

	var mu sync.Mutex
	found := make([]string, 0, len(candidates))
	for _, chunk := range chunks {
		chunk := chunk
		g.Go(func() error {
			rows, err := s.Repo.ListExistingNodes(gctx, c, st, chunk)
			if err != nil {
				return err
			}
			mu.Lock()
			found = append(found, rows...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if s.Logger != nil {
			s.Logger.Warn("existence check failed",
				zap.String("county", c),
				zap.String("state", st),
				zap.Int("nodes", len(candidates)),
				zap.Error(err),
			)
		}
		return nil, storageErr("list existing nodes", err)
	}

	sort.Strings(found)
	s.Metrics.RecordExistence(len(candidates), len(found))
	return found, nil
}

func (s *ExistenceService) chunkSize() int {
	n := s.ChunkSize
	if n <= 0 {
		return defaultExistenceChunk
	}
	if n > maxExistenceChunk {
		return maxExistenceChunk
	}
	return n
}

func (s *ExistenceService) parallelism() int {
	if s.Parallelism <= 0 {
		return 1
	}
	return s.Parallelism
}

// uniqueNodes trims every node, drops blanks and keeps the first occurrence
// of each value.
func uniqueNodes(nodes []string) []string {
	out := make([]string, 0, len(nodes))
	seen := make(map[string]struct{}, len(nodes))
	for _, raw := range nodes {
		n := strings.TrimSpace(raw)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func chunkStrings(items []string, size int) [][]string {
	if size <= 0 {
		size = len(items)
	}
	out := make([][]string, 0, (len(items)+size-1)/size)
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[i:end])
	}
	return out
}
