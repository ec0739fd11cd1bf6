package repository

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a referenced address does not exist
var ErrNotFound = errors.New("record not found")

// DateLayout is the layout of every date column
const DateLayout = "2006-01-02"

// Today returns the current date formatted for date columns
func Today() string {
	return time.Now().Format(DateLayout)
}

// Address is the aggregate root; every other record hangs off an address_id.
type Address struct {
	ID         int64    `json:"address_id"`
	Street     string   `json:"street"`
	City       string   `json:"city"`
	State      string   `json:"state"`
	PostalCode *string  `json:"postal_code"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	ZoningID   *int64   `json:"zoning_id"`
}

type ZoningInfo struct {
	ID                int64    `json:"zoning_id"`
	ZoneName          string   `json:"zone_name"`
	MaxBuildingHeight *float64 `json:"max_building_height"`
	DensityLimit      *float64 `json:"density_limit"`
	MinFrontSetback   *float64 `json:"min_front_setback"`
	MinRearSetback    *float64 `json:"min_rear_setback"`
	MinSideSetback    *float64 `json:"min_side_setback"`
	PermittedLandUses *string  `json:"permitted_land_uses"`
	EffectiveDate     *string  `json:"effective_date"`
}

type BuildingRestriction struct {
	ID               int64   `json:"restriction_id"`
	AddressID        int64   `json:"address_id"`
	RestrictionType  string  `json:"restriction_type"`
	RestrictionValue string  `json:"restriction_value"`
	Notes            *string `json:"notes"`
}

type LandCost struct {
	ID                   int64   `json:"cost_id"`
	AddressID            int64   `json:"address_id"`
	EstimatedCostPerSqft float64 `json:"estimated_cost_per_sqft"`
	DateOfEstimation     string  `json:"date_of_estimation"`
	DataSource           string  `json:"data_source"`
}

type FuturePriceProjection struct {
	ID                          int64   `json:"projection_id"`
	AddressID                   int64   `json:"address_id"`
	ProjectedIncreasePercentage float64 `json:"projected_increase_percentage"`
	ProjectionDate              string  `json:"projection_date"`
	AnalysisDetails             *string `json:"analysis_details"`
}

// PropertyRecord is an address joined with all of its dependents
type PropertyRecord struct {
	Address
	Zoning       *ZoningInfo             `json:"zoning_info"`
	Restrictions []BuildingRestriction   `json:"building_restrictions"`
	LandCosts    []LandCost              `json:"land_costs"`
	Projections  []FuturePriceProjection `json:"future_price_projections"`
}

// PaginationParams selects one page of search results
type PaginationParams struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Normalize applies the default page (1) and page size (10, capped at 100).
func (p PaginationParams) Normalize() PaginationParams {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = 10
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	return p
}

type PropertySearchResult struct {
	Properties  []PropertyRecord `json:"properties"`
	TotalItems  int64            `json:"total_items"`
	TotalPages  int              `json:"total_pages"`
	CurrentPage int              `json:"current_page"`
	PageSize    int              `json:"page_size"`
}
