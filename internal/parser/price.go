package parser

import (
	"math"
	"regexp"
	"strconv"
)

// PriceFormat identifies how a source writes listing prices
type PriceFormat int

const (
	// FormatCroreLakh reads a leading amount with a "Cr" or "Lac"/"L" suffix,
	// e.g. "₹1.5 Cr" or "85 Lac".
	FormatCroreLakh PriceFormat = iota
	// FormatRupeeLakh reads only a rupee amount in lakhs, e.g. "₹ 45.5 L - ₹ 60 L".
	// Crore prices are not recognized in this format and read as 0.
	FormatRupeeLakh
)

func (f PriceFormat) String() string {
	switch f {
	case FormatCroreLakh:
		return "crore_lakh"
	case FormatRupeeLakh:
		return "rupee_lakh"
	default:
		return "unknown"
	}
}

const (
	Crore = 10_000_000
	Lakh  = 100_000
)

var (
	numberRegex      = regexp.MustCompile(`\d+(?:\.\d+)?`)
	digitGroupRegex  = regexp.MustCompile(`(\d),(\d)`)
	croreSuffixRegex = regexp.MustCompile(`(?i)\d\s*(?:cr|crs|crore|crores)\b`)
	lakhSuffixRegex  = regexp.MustCompile(`(?i)\d\s*(?:l|lac|lacs|lakh|lakhs)\b`)
	rupeeLakhRegex   = regexp.MustCompile(`₹\s*(\d+(?:\.\d+)?)\s*L`)
)

// firstNumber returns the first decimal number in text, ignoring digit-group commas.
func firstNumber(text string) (float64, bool) {
	match := numberRegex.FindString(digitGroupRegex.ReplaceAllString(text, "$1$2"))
	if match == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// ParsePrice converts a listing price into rupees. A missing or unrecognized
// magnitude suffix yields 0.
func ParsePrice(text string, format PriceFormat) float64 {
	switch format {
	case FormatCroreLakh:
		var multiplier float64
		switch {
		case croreSuffixRegex.MatchString(text):
			multiplier = Crore
		case lakhSuffixRegex.MatchString(text):
			multiplier = Lakh
		default:
			return 0
		}
		value, ok := firstNumber(text)
		if !ok {
			return 0
		}
		return value * multiplier
	case FormatRupeeLakh:
		m := rupeeLakhRegex.FindStringSubmatch(digitGroupRegex.ReplaceAllString(text, "$1$2"))
		if m == nil {
			return 0
		}
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0
		}
		return value * Lakh
	default:
		return 0
	}
}

// ParseArea returns the first number in text, taken as square feet.
func ParseArea(text string) float64 {
	value, _ := firstNumber(text)
	return value
}

// ParseUnitCost returns price per square foot rounded to the nearest integer.
// ok is false when either text is empty or the area does not parse to a
// positive number.
func ParseUnitCost(priceText, areaText string, format PriceFormat) (cost float64, ok bool) {
	if priceText == "" || areaText == "" {
		return 0, false
	}
	area := ParseArea(areaText)
	if area <= 0 {
		return 0, false
	}
	return math.Round(ParsePrice(priceText, format) / area), true
}
