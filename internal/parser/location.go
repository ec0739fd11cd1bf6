package parser

import "strings"

// CityPolicy selects which comma-separated segment of a listing address is the city.
// Sources disagree on what the trailing segment holds, so the policies stay distinct.
type CityPolicy int

const (
	// CitySecondToLast takes the second-to-last segment; with fewer than two
	// segments the city is left empty.
	CitySecondToLast CityPolicy = iota
	// CitySecondToLastOrRegion takes the second-to-last segment; with fewer
	// than two segments it falls back to the region.
	CitySecondToLastOrRegion
	// CityLastOrRegion takes the last segment; with fewer than two segments it
	// falls back to the region.
	CityLastOrRegion
)

func (p CityPolicy) String() string {
	switch p {
	case CitySecondToLast:
		return "second_to_last"
	case CitySecondToLastOrRegion:
		return "second_to_last_or_region"
	case CityLastOrRegion:
		return "last_or_region"
	default:
		return "unknown"
	}
}

type Location struct {
	Street string `json:"street"`
	City   string `json:"city"`
}

// SplitSegments splits on commas and trims each segment. Empty segments are kept
// so positions match what the source rendered; an empty text has no segments.
func SplitSegments(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	parts := strings.Split(text, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}

// ParseLocation splits a listing address into street and city. It never fails;
// fields degrade to empty strings or the fallback region.
func ParseLocation(text, fallbackRegion string, policy CityPolicy) Location {
	segments := SplitSegments(text)

	var loc Location
	if len(segments) > 0 {
		loc.Street = segments[0]
	}

	switch policy {
	case CitySecondToLast:
		if len(segments) > 1 {
			loc.City = segments[len(segments)-2]
		}
	case CitySecondToLastOrRegion:
		if len(segments) > 1 {
			loc.City = segments[len(segments)-2]
		} else {
			loc.City = fallbackRegion
		}
	case CityLastOrRegion:
		if len(segments) > 1 {
			loc.City = segments[len(segments)-1]
		} else {
			loc.City = fallbackRegion
		}
	}
	return loc
}
