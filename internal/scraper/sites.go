package scraper

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SiteConfig holds the URL template and card selectors of one source.
// The template may use {region}, escaped as a query component, and
// {region_lower}, escaped as a path segment.
type SiteConfig struct {
	URLTemplate      string `yaml:"url_template"`
	CardSelector     string `yaml:"card_selector"`
	LocationSelector string `yaml:"location_selector"`
	PriceSelector    string `yaml:"price_selector"`
	AreaSelector     string `yaml:"area_selector"`
}

// DefaultSiteConfigs returns the selectors matching each site's current markup
func DefaultSiteConfigs() map[Source]SiteConfig {
	return map[Source]SiteConfig{
		SourceMagicBricks: {
			URLTemplate:      "https://www.magicbricks.com/property-for-sale/residential-real-estate?bedroom=&proptype=Multistorey-Apartment,Builder-Floor-Apartment,Penthouse,Studio-Apartment,Residential-House,Villa&cityName={region}",
			CardSelector:     ".mb-srp__card",
			LocationSelector: ".mb-srp__card--address",
			PriceSelector:    ".mb-srp__card__price--amount",
			AreaSelector:     ".mb-srp__card__summary--value",
		},
		SourceNinetyNineAcres: {
			URLTemplate:      "https://www.99acres.com/search/property/buy/{region_lower}?city={region}&preference=S&area_unit=1&res_com=R",
			CardSelector:     ".projectTuple",
			LocationSelector: ".tuple_address",
			PriceSelector:    ".configurationCards__configurationCardsPrice",
			AreaSelector:     ".configurationCards__configurationCardsAreaValue",
		},
		SourceHousing: {
			URLTemplate:      "https://housing.com/in/buy/searches/{region_lower}",
			CardSelector:     ".css-18rodr0",
			LocationSelector: ".css-17oe3me",
			PriceSelector:    ".css-10b0w9d",
			AreaSelector:     ".css-1hj65fu",
		},
	}
}

type sitesFile struct {
	Sources map[string]SiteConfig `yaml:"sources"`
}

// LoadSiteConfigs returns the defaults overlaid with any non-empty values from
// the YAML file at path. An empty path returns the defaults.
func LoadSiteConfigs(path string) (map[Source]SiteConfig, error) {
	configs := DefaultSiteConfigs()
	if path == "" {
		return configs, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	var file sitesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse sources file %s: %w", path, err)
	}

	for name, override := range file.Sources {
		source, err := ParseSource(name)
		if err != nil {
			return nil, fmt.Errorf("sources file %s: %w", path, err)
		}
		configs[source] = mergeSiteConfig(configs[source], override)
	}
	return configs, nil
}

func mergeSiteConfig(base, override SiteConfig) SiteConfig {
	if override.URLTemplate != "" {
		base.URLTemplate = override.URLTemplate
	}
	if override.CardSelector != "" {
		base.CardSelector = override.CardSelector
	}
	if override.LocationSelector != "" {
		base.LocationSelector = override.LocationSelector
	}
	if override.PriceSelector != "" {
		base.PriceSelector = override.PriceSelector
	}
	if override.AreaSelector != "" {
		base.AreaSelector = override.AreaSelector
	}
	return base
}

// listingURL expands the template for a region
func (c SiteConfig) listingURL(region string) string {
	return strings.NewReplacer(
		"{region_lower}", url.PathEscape(strings.ToLower(region)),
		"{region}", queryComponent(region),
	).Replace(c.URLTemplate)
}

// queryComponent escapes s for a query value, spaces as %20
func queryComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
