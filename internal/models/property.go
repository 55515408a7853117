package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	StatusNew      = "new"
	StatusReviewed = "reviewed"
	StatusSkipped  = "skipped"
	StatusExported = "exported"
	StatusRemoved  = "removed"
)

// Property is one tax-deed auction listing. (County, State, Node) is the
// identity; it never changes after the row is created.
type Property struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	County string `gorm:"type:varchar(120);not null;uniqueIndex:ux_properties_identity,priority:1;index:ix_properties_active,priority:1" json:"county"`
	State  string `gorm:"type:varchar(8);not null;uniqueIndex:ux_properties_identity,priority:2;index:ix_properties_active,priority:2" json:"state"`
	Node   string `gorm:"type:text;not null;uniqueIndex:ux_properties_identity,priority:3" json:"node"`

	// Scraper-authoritative.
	TaxSaleID           *string          `gorm:"type:text" json:"tax_sale_id"`
	ParcelNumber        *string          `gorm:"type:text;index" json:"parcel_number"`
	SaleDate            *string          `gorm:"type:text" json:"sale_date"`
	OpeningBid          *decimal.Decimal `gorm:"type:numeric(14,2)" json:"opening_bid"`
	DeedStatus          *string          `gorm:"type:text" json:"deed_status"`
	ApplicantName       *string          `gorm:"type:text" json:"applicant_name"`
	PDFURL              *string          `gorm:"column:pdf_url;type:text" json:"pdf_url"`
	Address             *string          `gorm:"type:text" json:"address"`
	City                *string          `gorm:"type:text" json:"city"`
	StateAddress        *string          `gorm:"type:text" json:"state_address"`
	Zip                 *string          `gorm:"type:text" json:"zip"`
	AddressSourceMarker *string          `gorm:"type:text" json:"address_source_marker"`
	AuctionLocation     *string          `gorm:"type:text" json:"auction_location"`
	AuctionStartTime    *string          `gorm:"type:text" json:"auction_start_time"`
	AuctionPlatform     *string          `gorm:"type:text" json:"auction_platform"`
	AuctionSourceURL    *string          `gorm:"column:auction_source_url;type:text" json:"auction_source_url"`

	// Admin-owned.
	Status string  `gorm:"type:varchar(20);not null;index" json:"status"`
	Notes  *string `gorm:"type:text" json:"notes"`

	IsActive  bool       `gorm:"not null;default:true;index:ix_properties_active,priority:3" json:"is_active"`
	RemovedAt *time.Time `json:"removed_at"`

	RawJSON   datatypes.JSON `json:"-"`
	CreatedAt time.Time      `gorm:"autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:false;index" json:"updated_at"`
}

func (Property) TableName() string {
	return "properties"
}

// ValidStatus reports whether s is one of the known admin statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusReviewed, StatusSkipped, StatusExported, StatusRemoved:
		return true
	}
	return false
}
