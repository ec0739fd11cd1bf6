package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLocation_Policies(t *testing.T) {
	const text = "Flat 4B, Sector 62, Noida, Uttar Pradesh"

	tests := []struct {
		policy   CityPolicy
		expected Location
	}{
		{CitySecondToLast, Location{Street: "Flat 4B", City: "Noida"}},
		{CitySecondToLastOrRegion, Location{Street: "Flat 4B", City: "Noida"}},
		{CityLastOrRegion, Location{Street: "Flat 4B", City: "Uttar Pradesh"}},
	}

	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLocation(text, "Delhi", tt.policy))
		})
	}
}

func TestParseLocation_TwoSegments(t *testing.T) {
	assert.Equal(t, Location{Street: "Dwarka", City: "Dwarka"},
		ParseLocation("Dwarka, New Delhi", "Delhi", CitySecondToLastOrRegion))
	assert.Equal(t, Location{Street: "Dwarka", City: "New Delhi"},
		ParseLocation(" Dwarka ,  New Delhi ", "Delhi", CityLastOrRegion))
}

func TestParseLocation_SingleSegment(t *testing.T) {
	assert.Equal(t, Location{Street: "Whitefield", City: ""},
		ParseLocation("Whitefield", "Karnataka", CitySecondToLast))
	assert.Equal(t, Location{Street: "Whitefield", City: "Karnataka"},
		ParseLocation("Whitefield", "Karnataka", CitySecondToLastOrRegion))
	assert.Equal(t, Location{Street: "Whitefield", City: "Karnataka"},
		ParseLocation("Whitefield", "Karnataka", CityLastOrRegion))
}

func TestParseLocation_Empty(t *testing.T) {
	assert.Equal(t, Location{Street: "", City: "Delhi"}, ParseLocation("", "Delhi", CitySecondToLastOrRegion))
	assert.Equal(t, Location{Street: "", City: "Delhi"}, ParseLocation("   ", "Delhi", CityLastOrRegion))
	assert.Equal(t, Location{}, ParseLocation("", "Delhi", CitySecondToLast))
}

func TestParseLocation_KeepsEmptySegmentPositions(t *testing.T) {
	loc := ParseLocation("Plot 7, , Gurgaon,", "Haryana", CityLastOrRegion)
	assert.Equal(t, "Plot 7", loc.Street)
	assert.Equal(t, "", loc.City)

	loc = ParseLocation("Plot 7, , Gurgaon,", "Haryana", CitySecondToLastOrRegion)
	assert.Equal(t, "Gurgaon", loc.City)
}

func TestSplitSegments(t *testing.T) {
	assert.Nil(t, SplitSegments(""))
	assert.Equal(t, []string{"a", "b", "c"}, SplitSegments(" a, b ,c "))
}
