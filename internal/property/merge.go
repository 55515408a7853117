package property

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/mateuschrist/taxdeed-api/internal/models"
)

var ErrInvalidStatus = errors.New("invalid status")

// AuctionDefault is the auction metadata a jurisdiction uses when the
// scraper does not report it per listing.
type AuctionDefault struct {
	County    string
	State     string
	Location  string
	StartTime string
	Platform  string
	SourceURL string
}

// AuctionDefaults is keyed by normalized (county, state).
type AuctionDefaults map[[2]string]AuctionDefault

func NewAuctionDefaults(entries []AuctionDefault) AuctionDefaults {
	out := make(AuctionDefaults, len(entries))
	for _, e := range entries {
		c, s := NormalizeCounty(e.County), NormalizeState(e.State)
		if c == "" || s == "" {
			continue
		}
		e.County, e.State = c, s
		out[[2]string{c, s}] = e
	}
	return out
}

func (d AuctionDefaults) Lookup(county, state string) (AuctionDefault, bool) {
	if d == nil {
		return AuctionDefault{}, false
	}
	v, ok := d[[2]string{NormalizeCounty(county), NormalizeState(state)}]
	return v, ok
}

// Apply fills auction fields that are still empty on p. It is used both when
// merging and when rendering a stored row that predates a table entry.
func (d AuctionDefaults) Apply(p *models.Property) {
	def, ok := d.Lookup(p.County, p.State)
	if !ok {
		return
	}
	p.AuctionLocation = orDefault(p.AuctionLocation, def.Location)
	p.AuctionStartTime = orDefault(p.AuctionStartTime, def.StartTime)
	p.AuctionPlatform = orDefault(p.AuctionPlatform, def.Platform)
	p.AuctionSourceURL = orDefault(p.AuctionSourceURL, def.SourceURL)
}

// Policy decides the persisted field set for an ingestion.
type Policy struct {
	Defaults AuctionDefaults
}

// Merge builds the row to persist for id from the incoming payload and the
// stored row, if any. Authoritative fields come only from the payload;
// status and notes are preserved unless the payload carries them. The result
// is always active.
func (p *Policy) Merge(existing *models.Property, id Identity, in Payload, now time.Time) (models.Property, error) {
	status, err := mergeStatus(existing, in.Status)
	if err != nil {
		return models.Property{}, err
	}

	out := models.Property{
		County: id.County,
		State:  id.State,
		Node:   id.Node,

		TaxSaleID:           text(in.TaxSaleID),
		ParcelNumber:        text(in.ParcelNumber),
		SaleDate:            text(in.SaleDate),
		OpeningBid:          NormalizeBid(in.OpeningBid),
		DeedStatus:          text(in.DeedStatus),
		ApplicantName:       text(in.ApplicantName),
		PDFURL:              text(in.PDFURL),
		Address:             text(in.Address),
		City:                text(in.City),
		StateAddress:        text(in.StateAddress),
		Zip:                 text(in.Zip),
		AddressSourceMarker: text(in.AddressSourceMarker),
		AuctionLocation:     text(in.AuctionLocation),
		AuctionStartTime:    text(in.AuctionStartTime),
		AuctionPlatform:     text(in.AuctionPlatform),
		AuctionSourceURL:    text(in.AuctionSourceURL),

		Status: status,

		IsActive:  true,
		RemovedAt: nil,
		CreatedAt: now,
		UpdatedAt: now,
	}

	switch {
	case in.Notes.Set:
		out.Notes = in.Notes.Ptr()
	case existing != nil:
		out.Notes = existing.Notes
	}

	if existing != nil {
		out.ID = existing.ID
		out.CreatedAt = existing.CreatedAt
	}

	if p != nil {
		p.Defaults.Apply(&out)
	}

	if raw, err := json.Marshal(in); err == nil {
		out.RawJSON = datatypes.JSON(raw)
	}
	return out, nil
}

func mergeStatus(existing *models.Property, incoming Field[string]) (string, error) {
	if incoming.Valid {
		s := strings.ToLower(strings.TrimSpace(incoming.Value))
		if s != "" {
			if !models.ValidStatus(s) || s == models.StatusRemoved {
				return "", fmt.Errorf("%w: %q", ErrInvalidStatus, incoming.Value)
			}
			return s, nil
		}
	}
	// A removed row that is ingested again is live; its pre-removal status
	// was overwritten by the removal and is not restored.
	if existing != nil && existing.Status != "" && existing.Status != models.StatusRemoved {
		return existing.Status, nil
	}
	return models.StatusNew, nil
}

func text(f Field[string]) *string {
	if !f.Valid {
		return nil
	}
	v := strings.TrimSpace(f.Value)
	if v == "" {
		return nil
	}
	return &v
}

func orDefault(cur *string, def string) *string {
	if cur != nil && *cur != "" {
		return cur
	}
	if def == "" {
		return cur
	}
	v := def
	return &v
}
