package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mateuschrist/taxdeed-api/internal/config"
	"github.com/mateuschrist/taxdeed-api/internal/db"
	"github.com/mateuschrist/taxdeed-api/internal/models"
	"github.com/mateuschrist/taxdeed-api/internal/property"
	"github.com/mateuschrist/taxdeed-api/internal/repository"
	gormrepository "github.com/mateuschrist/taxdeed-api/internal/repository/gorm"
)

func newSQLiteStore(t *testing.T) *gormrepository.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := db.Open(config.DBConfig{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(conn) })
	require.NoError(t, db.AutoMigrate(conn))
	return gormrepository.New(conn.Gorm)
}

// fixedClock returns successive times one second apart starting at start.
func fixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	cur := start.Add(-time.Second)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		cur = cur.Add(time.Second)
		return cur
	}
}

func orangeDefaults() property.AuctionDefaults {
	return property.NewAuctionDefaults([]property.AuctionDefault{{
		County:    "Orange",
		State:     "FL",
		Location:  "109 E Church St, Orlando, FL 32801",
		StartTime: "10:00 AM",
		Platform:  "In-Person",
	}})
}

func newIngestService(repo repository.PropertyRepository, now func() time.Time) *IngestService {
	return &IngestService{
		Repo:     repo,
		Resolver: property.NewResolver("Orange", "FL"),
		Policy:   &property.Policy{Defaults: orangeDefaults()},
		Now:      now,
	}
}

func payload(node string, fields map[string]string) property.Payload {
	p := property.Payload{Node: property.Of(node)}
	for k, v := range fields {
		f := property.Of(v)
		switch k {
		case "county":
			p.County = f
		case "state":
			p.State = f
		case "parcel_number":
			p.ParcelNumber = f
		case "address":
			p.Address = f
		case "status":
			p.Status = f
		case "notes":
			p.Notes = f
		case "opening_bid":
			p.OpeningBid = []byte(fmt.Sprintf("%q", v))
		}
	}
	return p
}

// stubPropertyRepo is an in-memory PropertyRepository. It counts calls so
// tests can assert that an operation never reached the store.
type stubPropertyRepo struct {
	mu    sync.Mutex
	calls int
	// existing maps county|state to stored nodes.
	existing map[string][]string
	active   []repository.ActiveNode
	chunks   [][]string
	failWith error
}

func (s *stubPropertyRepo) hit() {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
}

func (s *stubPropertyRepo) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubPropertyRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	s.hit()
	return fn(nil)
}

func (s *stubPropertyRepo) GetPropertyByIdentity(ctx context.Context, county, state, node string) (*models.Property, error) {
	s.hit()
	return nil, s.failWith
}

func (s *stubPropertyRepo) GetPropertyByID(ctx context.Context, id uint64) (*models.Property, error) {
	s.hit()
	return nil, s.failWith
}

func (s *stubPropertyRepo) UpsertProperty(ctx context.Context, item *models.Property) (bool, error) {
	s.hit()
	if s.failWith != nil {
		return false, s.failWith
	}
	item.ID = 1
	return true, nil
}

func (s *stubPropertyRepo) UpdatePropertyAdmin(ctx context.Context, id uint64, update repository.PropertyAdminUpdate) (*models.Property, error) {
	s.hit()
	return nil, s.failWith
}

func (s *stubPropertyRepo) ListExistingNodes(ctx context.Context, county, state string, nodes []string) ([]string, error) {
	s.hit()
	if s.failWith != nil {
		return nil, s.failWith
	}
	s.mu.Lock()
	s.chunks = append(s.chunks, append([]string(nil), nodes...))
	stored := s.existing[county+"|"+state]
	s.mu.Unlock()

	want := map[string]struct{}{}
	for _, n := range nodes {
		want[n] = struct{}{}
	}
	var out []string
	for _, n := range stored {
		if _, ok := want[n]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *stubPropertyRepo) ListActiveNodesTx(ctx context.Context, tx *gorm.DB, county, state string) ([]repository.ActiveNode, error) {
	s.hit()
	return s.active, s.failWith
}

func (s *stubPropertyRepo) MarkRemovedTx(ctx context.Context, tx *gorm.DB, ids []uint64, now time.Time, batchSize int) (int64, error) {
	s.hit()
	if s.failWith != nil {
		return 0, s.failWith
	}
	return int64(len(ids)), nil
}

var errStoreDown = errors.New("connection refused")
