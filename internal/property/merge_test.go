package property

import (
	"errors"
	"testing"
	"time"

	"github.com/mateuschrist/taxdeed-api/internal/models"
)

var mergeNow = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func orangeID(node string) Identity {
	return Identity{County: "Orange", State: "FL", Node: node}
}

func strPtr(s string) *string { return &s }

func TestMergeNewRow(t *testing.T) {
	p := &Policy{Defaults: NewAuctionDefaults([]AuctionDefault{{County: "orange", State: "fl", Platform: "In-Person"}})}
	out, err := p.Merge(nil, orangeID("A"), Payload{
		Address:         Of("  1 Main St "),
		City:            Of(""),
		AuctionPlatform: Null[string](),
	}, mergeNow)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if out.Status != models.StatusNew || !out.IsActive || out.RemovedAt != nil {
		t.Fatalf("status=%s active=%v", out.Status, out.IsActive)
	}
	if out.Address == nil || *out.Address != "1 Main St" {
		t.Fatalf("address=%v", out.Address)
	}
	if out.City != nil {
		t.Fatalf("blank city should be nil")
	}
	if out.AuctionPlatform == nil || *out.AuctionPlatform != "In-Person" {
		t.Fatalf("platform=%v want default", out.AuctionPlatform)
	}
	if !out.CreatedAt.Equal(mergeNow) {
		t.Fatalf("created_at=%v", out.CreatedAt)
	}
	if len(out.RawJSON) == 0 {
		t.Fatalf("raw json missing")
	}
}

func TestMergeKeepsAdminFields(t *testing.T) {
	created := mergeNow.Add(-48 * time.Hour)
	existing := &models.Property{
		ID:        9,
		Status:    models.StatusReviewed,
		Notes:     strPtr("call owner"),
		Address:   strPtr("old"),
		CreatedAt: created,
	}
	out, err := (&Policy{}).Merge(existing, orangeID("A"), Payload{}, mergeNow)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if out.Status != models.StatusReviewed {
		t.Fatalf("status=%s want reviewed", out.Status)
	}
	if out.Notes == nil || *out.Notes != "call owner" {
		t.Fatalf("notes=%v", out.Notes)
	}
	// Authoritative fields follow the payload, even when absent.
	if out.Address != nil {
		t.Fatalf("address=%v want nil", *out.Address)
	}
	if out.ID != 9 || !out.CreatedAt.Equal(created) || !out.UpdatedAt.Equal(mergeNow) {
		t.Fatalf("id=%d created=%v updated=%v", out.ID, out.CreatedAt, out.UpdatedAt)
	}
}

func TestMergeNotes(t *testing.T) {
	existing := &models.Property{Status: models.StatusNew, Notes: strPtr("keep")}
	out, _ := (&Policy{}).Merge(existing, orangeID("A"), Payload{Notes: Null[string]()}, mergeNow)
	if out.Notes != nil {
		t.Fatalf("explicit null should clear notes")
	}
	out, _ = (&Policy{}).Merge(existing, orangeID("A"), Payload{Notes: Of("new")}, mergeNow)
	if out.Notes == nil || *out.Notes != "new" {
		t.Fatalf("notes=%v want new", out.Notes)
	}
}

func TestMergeStatus(t *testing.T) {
	cases := []struct {
		name     string
		existing *models.Property
		incoming Field[string]
		want     string
		err      bool
	}{
		{"new row default", nil, Field[string]{}, models.StatusNew, false},
		{"explicit", nil, Of(" Exported "), models.StatusExported, false},
		{"blank keeps existing", &models.Property{Status: models.StatusSkipped}, Of(""), models.StatusSkipped, false},
		{"null keeps existing", &models.Property{Status: models.StatusSkipped}, Null[string](), models.StatusSkipped, false},
		{"resurrected", &models.Property{Status: models.StatusRemoved}, Field[string]{}, models.StatusNew, false},
		{"removed rejected", nil, Of("removed"), "", true},
		{"unknown rejected", nil, Of("sold"), "", true},
	}
	for _, tc := range cases {
		out, err := (&Policy{}).Merge(tc.existing, orangeID("A"), Payload{Status: tc.incoming}, mergeNow)
		if tc.err {
			if !errors.Is(err, ErrInvalidStatus) {
				t.Fatalf("%s: err=%v want ErrInvalidStatus", tc.name, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: err=%v", tc.name, err)
		}
		if out.Status != tc.want {
			t.Fatalf("%s: status=%s want=%s", tc.name, out.Status, tc.want)
		}
	}
}

func TestAuctionDefaultsDoNotOverrideScraper(t *testing.T) {
	d := NewAuctionDefaults([]AuctionDefault{{County: "Orange", State: "FL", Location: "courthouse"}, {County: "", State: "FL"}})
	if len(d) != 1 {
		t.Fatalf("len=%d want 1", len(d))
	}
	p := &models.Property{County: "Orange", State: "FL", AuctionLocation: strPtr("online")}
	d.Apply(p)
	if *p.AuctionLocation != "online" {
		t.Fatalf("location=%s", *p.AuctionLocation)
	}
	other := &models.Property{County: "Osceola", State: "FL"}
	d.Apply(other)
	if other.AuctionLocation != nil {
		t.Fatalf("defaults leaked to another county")
	}
}
