package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/mateuschrist/taxdeed-api/internal/property"
)

func TestCheckExistingChunksAndUnions(t *testing.T) {
	var stored, query []string
	for i := 0; i < 450; i++ {
		n := fmt.Sprintf("N-%04d", i)
		query = append(query, n)
		if i%3 == 0 {
			stored = append(stored, n)
		}
	}
	repo := &stubPropertyRepo{existing: map[string][]string{"Orange|FL": stored}}
	svc := &ExistenceService{
		Repo:        repo,
		Resolver:    property.NewResolver("Orange", "FL"),
		ChunkSize:   200,
		Parallelism: 3,
	}

	got, err := svc.CheckExisting(context.Background(), "", "", query)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if !reflect.DeepEqual(got, stored) {
		t.Fatalf("got %d nodes want %d", len(got), len(stored))
	}
	if len(repo.chunks) != 3 {
		t.Fatalf("chunks=%d want 3", len(repo.chunks))
	}
	for _, c := range repo.chunks {
		if len(c) > 200 {
			t.Fatalf("chunk size=%d exceeds 200", len(c))
		}
	}
}

func TestCheckExistingTrimsAndDedupes(t *testing.T) {
	repo := &stubPropertyRepo{existing: map[string][]string{"Orange|FL": {"A"}}}
	svc := &ExistenceService{Repo: repo, Resolver: property.NewResolver("Orange", "FL")}

	got, err := svc.CheckExisting(context.Background(), "orange", "fl", []string{" A ", "A", "", "B"})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if !reflect.DeepEqual(got, []string{"A"}) {
		t.Fatalf("got=%v want [A]", got)
	}
	if len(repo.chunks) != 1 || !reflect.DeepEqual(repo.chunks[0], []string{"A", "B"}) {
		t.Fatalf("chunks=%v want [[A B]]", repo.chunks)
	}
}

func TestCheckExistingEmptyInputSkipsStore(t *testing.T) {
	repo := &stubPropertyRepo{}
	svc := &ExistenceService{Repo: repo, Resolver: property.NewResolver("Orange", "FL")}

	got, err := svc.CheckExisting(context.Background(), "", "", []string{" ", ""})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got=%v want empty", got)
	}
	if repo.Calls() != 0 {
		t.Fatalf("calls=%d want 0", repo.Calls())
	}
}

func TestCheckExistingStorageError(t *testing.T) {
	repo := &stubPropertyRepo{failWith: errStoreDown}
	svc := &ExistenceService{Repo: repo, Resolver: property.NewResolver("Orange", "FL"), ChunkSize: 1, Parallelism: 2}

	_, err := svc.CheckExisting(context.Background(), "", "", []string{"A", "B", "C"})
	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("err=%v want *StorageError", err)
	}
}

func TestCheckExistingCanceled(t *testing.T) {
	repo := &stubPropertyRepo{failWith: context.Canceled}
	svc := &ExistenceService{Repo: repo, Resolver: property.NewResolver("Orange", "FL")}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := svc.CheckExisting(ctx, "", "", []string{"A"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v want context.Canceled", err)
	}
	if got != nil {
		t.Fatalf("got=%v want nil", got)
	}
}

func TestExistenceChunkSizeBounds(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, 200},
		{-5, 200},
		{50, 50},
		{5000, 1000},
	}
	for _, tc := range cases {
		s := &ExistenceService{ChunkSize: tc.in}
		if got := s.chunkSize(); got != tc.want {
			t.Fatalf("chunkSize(%d)=%d want %d", tc.in, got, tc.want)
		}
	}
}
