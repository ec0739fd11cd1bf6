package scraper

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/dujoseaugusto/land-data-scraper/internal/logger"
	"github.com/dujoseaugusto/land-data-scraper/internal/parser"
	"github.com/dujoseaugusto/land-data-scraper/internal/utils"
)

// MaxListingsPerFetch caps how many cards a single FetchListings call reads
const MaxListingsPerFetch = 10

// Adapter scrapes one listing site into candidates.
// FetchListings never fails: fetch or parse problems yield an empty slice.
type Adapter interface {
	Source() Source
	ListingURL(region string) string
	FetchListings(ctx context.Context, region string) []Candidate
}

// siteScraper is the card-reading machinery shared by the adapters
type siteScraper struct {
	source  Source
	fetcher PageFetcher
	config  SiteConfig
	logger  *logger.Logger
}

func newSiteScraper(source Source, fetcher PageFetcher, config SiteConfig) siteScraper {
	return siteScraper{
		source:  source,
		fetcher: fetcher,
		config:  config,
		logger:  logger.NewLogger("scraper").WithField("source", string(source)),
	}
}

func (s siteScraper) scrape(ctx context.Context, region string, build func(listingCard, string) Candidate) []Candidate {
	pageURL := s.config.listingURL(region)
	log := s.logger.WithFields(map[string]interface{}{"region": region, "url": pageURL})

	doc, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		log.Error("Listing page unavailable, returning no listings", err)
		return []Candidate{}
	}

	cards := s.readCards(doc.Selection, log)
	candidates := make([]Candidate, 0, len(cards))
	for _, card := range cards {
		candidates = append(candidates, build(card, region))
	}

	log.WithField("candidates", len(candidates)).Info("Listings extracted")
	return candidates
}

// readCards returns the text of at most MaxListingsPerFetch cards.
func (s siteScraper) readCards(root *goquery.Selection, log *logger.Logger) []listingCard {
	var cards []listingCard
	root.Find(s.config.CardSelector).EachWithBreak(func(i int, card *goquery.Selection) bool {
		if i >= MaxListingsPerFetch {
			return false
		}
		cards = append(cards, s.readCard(i, card, log))
		return true
	})
	return cards
}

func (s siteScraper) readCard(index int, card *goquery.Selection, log *logger.Logger) (lc listingCard) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("card", index).Error("Card extraction aborted", fmt.Errorf("%v", r))
		}
	}()

	lc.Location = childText(card, s.config.LocationSelector)
	lc.Price = childText(card, s.config.PriceSelector)
	lc.Area = childText(card, s.config.AreaSelector)

	missing := []string{}
	if lc.Location == "" {
		missing = append(missing, "location")
	}
	if lc.Price == "" {
		missing = append(missing, "price")
	}
	if lc.Area == "" {
		missing = append(missing, "area")
	}
	if len(missing) > 0 {
		log.WithFields(map[string]interface{}{"card": index, "missing": missing}).Debug("Card fields missing")
	}
	return lc
}

// childText returns the normalized text of the first element matching selector
func childText(card *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return utils.CleanText(card.Find(selector).First().Text())
}

// buildCandidate assembles a candidate using the source's city policy and price format.
func buildCandidate(card listingCard, region string, policy parser.CityPolicy, format parser.PriceFormat) Candidate {
	loc := parser.ParseLocation(card.Location, region, policy)
	c := Candidate{
		Street: loc.Street,
		City:   loc.City,
		State:  region,
	}
	if cost, ok := parser.ParseUnitCost(card.Price, card.Area, format); ok {
		c.UnitCost = &cost
	}
	return c
}

// NewAdapters builds one adapter per source using the given site configs
func NewAdapters(fetcher PageFetcher, configs map[Source]SiteConfig) map[Source]Adapter {
	defaults := DefaultSiteConfigs()
	configFor := func(s Source) SiteConfig {
		if c, ok := configs[s]; ok {
			return c
		}
		return defaults[s]
	}
	return map[Source]Adapter{
		SourceMagicBricks:     NewMagicBricks(fetcher, configFor(SourceMagicBricks)),
		SourceNinetyNineAcres: NewNinetyNineAcres(fetcher, configFor(SourceNinetyNineAcres)),
		SourceHousing:         NewHousing(fetcher, configFor(SourceHousing)),
	}
}
