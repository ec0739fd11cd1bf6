package scraper

// Candidate is a parsed, not yet persisted listing.
// Postal code and coordinates are never exposed by the listing cards; the
// zoning fields exist so a source that publishes zoning can fill them.
type Candidate struct {
	Street        string   `json:"street"`
	City          string   `json:"city"`
	State         string   `json:"state"`
	PostalCode    *string  `json:"postal_code"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	UnitCost      *float64 `json:"unit_cost"`
	ZoneName      *string  `json:"zone_name"`
	PermittedUses *string  `json:"permitted_uses"`
	MaxHeight     *float64 `json:"max_height"`
}

// listingCard holds the raw text read from one listing card
type listingCard struct {
	Location string
	Price    string
	Area     string
}
