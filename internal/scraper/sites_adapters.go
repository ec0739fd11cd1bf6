package scraper

import (
	"context"

	"github.com/dujoseaugusto/land-data-scraper/internal/parser"
)

// MagicBricks reads magicbricks.com search results. Prices carry "Cr" or
// "Lac" suffixes; the address ends in "..., city, state" so the city is the
// second-to-last segment, and a one-segment address has no city.
type MagicBricks struct {
	site siteScraper
}

func NewMagicBricks(fetcher PageFetcher, config SiteConfig) *MagicBricks {
	return &MagicBricks{site: newSiteScraper(SourceMagicBricks, fetcher, config)}
}

func (m *MagicBricks) Source() Source { return SourceMagicBricks }

func (m *MagicBricks) ListingURL(region string) string {
	return m.site.config.listingURL(region)
}

func (m *MagicBricks) FetchListings(ctx context.Context, region string) []Candidate {
	return m.site.scrape(ctx, region, func(card listingCard, region string) Candidate {
		return buildCandidate(card, region, parser.CitySecondToLast, parser.FormatCroreLakh)
	})
}

// NinetyNineAcres reads 99acres.com project tuples. Prices are "₹ x L"
// ranges; the city is the second-to-last address segment, else the region.
type NinetyNineAcres struct {
	site siteScraper
}

func NewNinetyNineAcres(fetcher PageFetcher, config SiteConfig) *NinetyNineAcres {
	return &NinetyNineAcres{site: newSiteScraper(SourceNinetyNineAcres, fetcher, config)}
}

func (n *NinetyNineAcres) Source() Source { return SourceNinetyNineAcres }

func (n *NinetyNineAcres) ListingURL(region string) string {
	return n.site.config.listingURL(region)
}

func (n *NinetyNineAcres) FetchListings(ctx context.Context, region string) []Candidate {
	return n.site.scrape(ctx, region, func(card listingCard, region string) Candidate {
		return buildCandidate(card, region, parser.CitySecondToLastOrRegion, parser.FormatRupeeLakh)
	})
}

// Housing reads housing.com search cards. Prices are "₹x L"; the address
// ends with the city, so the city is the last segment, else the region.
type Housing struct {
	site siteScraper
}

func NewHousing(fetcher PageFetcher, config SiteConfig) *Housing {
	return &Housing{site: newSiteScraper(SourceHousing, fetcher, config)}
}

func (h *Housing) Source() Source { return SourceHousing }

func (h *Housing) ListingURL(region string) string {
	return h.site.config.listingURL(region)
}

func (h *Housing) FetchListings(ctx context.Context, region string) []Candidate {
	return h.site.scrape(ctx, region, func(card listingCard, region string) Candidate {
		return buildCandidate(card, region, parser.CityLastOrRegion, parser.FormatRupeeLakh)
	})
}
