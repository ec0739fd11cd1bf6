package parser

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		format   PriceFormat
		expected float64
	}{
		{"Crore with rupee sign", "₹1.5 Cr", FormatCroreLakh, 15_000_000},
		{"Crore without space", "2Cr", FormatCroreLakh, 20_000_000},
		{"Lac suffix", "85 Lac", FormatCroreLakh, 8_500_000},
		{"Short lakh suffix", "₹ 92.5 L", FormatCroreLakh, 9_250_000},
		{"No suffix reads as zero", "₹ 45,00,000", FormatCroreLakh, 0},
		{"Price on request", "Price on Request", FormatCroreLakh, 0},
		{"Rupee lakh range takes first", "₹ 45.5 L - ₹ 60 L", FormatRupeeLakh, 4_550_000},
		{"Rupee lakh tight", "₹72L", FormatRupeeLakh, 7_200_000},
		{"Rupee lakh ignores crore", "₹1.2 Cr", FormatRupeeLakh, 0},
		{"Rupee lakh needs rupee sign", "45 L", FormatRupeeLakh, 0},
		{"Empty", "", FormatRupeeLakh, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ParsePrice(tt.text, tt.format), 0.001)
		})
	}
}

func TestParseArea(t *testing.T) {
	tests := []struct {
		text     string
		expected float64
	}{
		{"1500 sq.ft.", 1500},
		{"1,250 sqft", 1250},
		{"Super area 980.5 sqft", 980.5},
		{"sqft", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseArea(tt.text), tt.text)
	}
}

func TestParseUnitCost_RecognizedSuffix(t *testing.T) {
	cost, ok := ParseUnitCost("₹1.5 Cr", "1500 sq.ft.", FormatCroreLakh)
	assert.True(t, ok)
	assert.Equal(t, float64(10_000), cost)

	cost, ok = ParseUnitCost("₹ 45 L", "1100 sqft", FormatRupeeLakh)
	assert.True(t, ok)
	assert.Equal(t, math.Round(4_500_000.0/1100.0), cost)
}

func TestParseUnitCost_RoundsToNearestInteger(t *testing.T) {
	prices := []string{"1 Cr", "1.25 Cr", "33 Lac", "7.77 Lac"}
	areas := []float64{3, 7, 999, 1234.5}

	for _, p := range prices {
		for _, a := range areas {
			areaText := formatArea(a)
			cost, ok := ParseUnitCost(p, areaText, FormatCroreLakh)
			assert.True(t, ok)
			assert.Equal(t, math.Round(ParsePrice(p, FormatCroreLakh)/a), cost, "%s / %s", p, areaText)
		}
	}
}

func TestParseUnitCost_NoCostData(t *testing.T) {
	tests := []struct {
		name  string
		price string
		area  string
	}{
		{"Missing price", "", "1200 sqft"},
		{"Missing area", "₹1 Cr", ""},
		{"Zero area", "₹1 Cr", "0 sqft"},
		{"Area without number", "₹1 Cr", "Plot area on request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, ok := ParseUnitCost(tt.price, tt.area, FormatCroreLakh)
			assert.False(t, ok)
			assert.Zero(t, cost)
		})
	}
}

func TestParseUnitCost_UnrecognizedSuffixIsZeroCost(t *testing.T) {
	cost, ok := ParseUnitCost("₹ 45,00,000", "900 sqft", FormatCroreLakh)
	assert.True(t, ok)
	assert.Zero(t, cost)
}

func formatArea(a float64) string {
	if a == math.Trunc(a) {
		return fmt.Sprintf("%.0f sqft", a)
	}
	return fmt.Sprintf("%.1f sqft", a)
}
