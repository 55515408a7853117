package property

import "encoding/json"

// Payload is one record as submitted by a scraper. Every field keeps its
// absent/null/value distinction; the merge policy decides what each state
// means.
type Payload struct {
	County Field[string] `json:"county"`
	State  Field[string] `json:"state"`
	Node   Field[string] `json:"node"`

	TaxSaleID           Field[string]   `json:"tax_sale_id"`
	ParcelNumber        Field[string]   `json:"parcel_number"`
	SaleDate            Field[string]   `json:"sale_date"`
	OpeningBid          json.RawMessage `json:"opening_bid,omitempty"`
	DeedStatus          Field[string]   `json:"deed_status"`
	ApplicantName       Field[string]   `json:"applicant_name"`
	PDFURL              Field[string]   `json:"pdf_url"`
	Address             Field[string]   `json:"address"`
	City                Field[string]   `json:"city"`
	StateAddress        Field[string]   `json:"state_address"`
	Zip                 Field[string]   `json:"zip"`
	AddressSourceMarker Field[string]   `json:"address_source_marker"`
	AuctionLocation     Field[string]   `json:"auction_location"`
	AuctionStartTime    Field[string]   `json:"auction_start_time"`
	AuctionPlatform     Field[string]   `json:"auction_platform"`
	AuctionSourceURL    Field[string]   `json:"auction_source_url"`

	Status Field[string] `json:"status"`
	Notes  Field[string] `json:"notes"`
}
