package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dujoseaugusto/land-data-scraper/internal/logger"
	"github.com/dujoseaugusto/land-data-scraper/internal/repository"
	"github.com/dujoseaugusto/land-data-scraper/internal/zoning"
	"github.com/gin-gonic/gin/binding"
)

// DefaultContributionSource labels land costs submitted without a data_source
const DefaultContributionSource = "User Contribution"

// ZoneResolver finds the zone containing a coordinate
type ZoneResolver interface {
	Lookup(lat, lon float64) (zoning.Zone, bool)
}

// ProjectionAnalyst drafts the analysis text of a price projection
type ProjectionAnalyst interface {
	DraftProjectionAnalysis(ctx context.Context, property repository.PropertyRecord, increasePercentage float64) (string, error)
}

// Contribution is a user-submitted property record
type Contribution struct {
	Street               string   `json:"street" binding:"required,min=3"`
	City                 string   `json:"city" binding:"required,min=2"`
	State                string   `json:"state" binding:"required,min=2"`
	PostalCode           string   `json:"postal_code" binding:"required,min=5"`
	Latitude             *float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude            *float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	ZoneName             string   `json:"zone_name"`
	MaxBuildingHeight    *float64 `json:"max_building_height"`
	EstimatedCostPerSqft *float64 `json:"estimated_cost_per_sqft" binding:"omitempty,gte=1"`
	RestrictionType      string   `json:"restriction_type"`
	RestrictionValue     string   `json:"restriction_value"`
	Notes                string   `json:"notes"`
	DataSource           string   `json:"data_source"`
}

// Validate checks the binding rules for callers outside gin, plus the
// coordinate pairing that tags cannot express.
func (c Contribution) Validate() error {
	if err := binding.Validator.ValidateStruct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidContribution, err)
	}
	if (c.Latitude == nil) != (c.Longitude == nil) {
		return fmt.Errorf("%w: latitude and longitude must be sent together", ErrInvalidContribution)
	}
	return nil
}

// ProjectionRequest adds a future price projection to an address
type ProjectionRequest struct {
	ProjectedIncreasePercentage float64 `json:"projected_increase_percentage"`
	ProjectionDate              string  `json:"projection_date"`
	AnalysisDetails             string  `json:"analysis_details"`
}

type PropertyService struct {
	repo    repository.PropertyRepository
	zones   ZoneResolver
	analyst ProjectionAnalyst
	logger  *logger.Logger
	now     func() time.Time
}

// NewPropertyService builds the contribution and read path. zones and analyst
// are optional.
func NewPropertyService(repo repository.PropertyRepository, zones ZoneResolver, analyst ProjectionAnalyst) *PropertyService {
	return &PropertyService{
		repo:    repo,
		zones:   zones,
		analyst: analyst,
		logger:  logger.NewLogger("property_service"),
		now:     time.Now,
	}
}

// Contribute stores a user contribution. Only the address insert is fatal;
// dependent rows are best effort and their failures are logged.
func (s *PropertyService) Contribute(ctx context.Context, c Contribution) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}

	postal := strings.TrimSpace(c.PostalCode)
	addressID, err := s.repo.InsertAddress(ctx, repository.Address{
		Street:     strings.TrimSpace(c.Street),
		City:       strings.TrimSpace(c.City),
		State:      strings.TrimSpace(c.State),
		PostalCode: &postal,
		Latitude:   c.Latitude,
		Longitude:  c.Longitude,
	})
	if err != nil {
		return 0, fmt.Errorf("insert address: %w", err)
	}

	log := s.logger.WithField("address_id", addressID)

	if zone, ok := s.contributionZone(c); ok {
		zoningID, err := s.repo.InsertZoning(ctx, zone)
		if err != nil {
			log.Error("Failed to insert zoning info", err)
		} else if err := s.repo.LinkZoning(ctx, addressID, zoningID); err != nil {
			log.WithField("zoning_id", zoningID).Error("Failed to link zoning info", err)
		}
	}

	if c.RestrictionType != "" && c.RestrictionValue != "" {
		var notes *string
		if c.Notes != "" {
			notes = &c.Notes
		}
		_, err := s.repo.InsertRestriction(ctx, repository.BuildingRestriction{
			AddressID:        addressID,
			RestrictionType:  c.RestrictionType,
			RestrictionValue: c.RestrictionValue,
			Notes:            notes,
		})
		if err != nil {
			log.Error("Failed to insert building restriction", err)
		}
	}

	if c.EstimatedCostPerSqft != nil {
		dataSource := c.DataSource
		if dataSource == "" {
			dataSource = DefaultContributionSource
		}
		_, err := s.repo.InsertLandCost(ctx, repository.LandCost{
			AddressID:            addressID,
			EstimatedCostPerSqft: *c.EstimatedCostPerSqft,
			DateOfEstimation:     s.now().Format(repository.DateLayout),
			DataSource:           dataSource,
		})
		if err != nil {
			log.Error("Failed to insert land cost", err)
		}
	}

	log.Info("Contribution stored")
	return addressID, nil
}

// contributionZone prefers the submitted zone name, then the zone polygon
// containing the submitted coordinates.
func (s *PropertyService) contributionZone(c Contribution) (repository.ZoningInfo, bool) {
	if name := strings.TrimSpace(c.ZoneName); name != "" {
		return repository.ZoningInfo{ZoneName: name, MaxBuildingHeight: c.MaxBuildingHeight}, true
	}
	if s.zones == nil || c.Latitude == nil || c.Longitude == nil {
		return repository.ZoningInfo{}, false
	}

	zone, ok := s.zones.Lookup(*c.Latitude, *c.Longitude)
	if !ok || zone.Name == "" {
		return repository.ZoningInfo{}, false
	}
	height := zone.MaxHeight
	if c.MaxBuildingHeight != nil {
		height = c.MaxBuildingHeight
	}
	return repository.ZoningInfo{
		ZoneName:          zone.Name,
		MaxBuildingHeight: height,
		PermittedLandUses: zone.PermittedUses,
	}, true
}

func (s *PropertyService) Search(ctx context.Context, query string, pagination repository.PaginationParams) (*repository.PropertySearchResult, error) {
	result, err := s.repo.Search(ctx, query, pagination.Normalize())
	if err != nil {
		return nil, fmt.Errorf("search properties: %w", err)
	}
	return result, nil
}

func (s *PropertyService) GetByID(ctx context.Context, addressID int64) (*repository.PropertyRecord, error) {
	record, err := s.repo.FindByID(ctx, addressID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrPropertyNotFound, addressID)
	}
	if err != nil {
		return nil, fmt.Errorf("find property %d: %w", addressID, err)
	}
	return record, nil
}

// AddProjection stores a projection for an existing address. Empty analysis
// is drafted by the analyst when one is configured; analyst errors leave it empty.
func (s *PropertyService) AddProjection(ctx context.Context, addressID int64, req ProjectionRequest) (*repository.FuturePriceProjection, error) {
	date := strings.TrimSpace(req.ProjectionDate)
	if date == "" {
		date = s.now().Format(repository.DateLayout)
	} else if _, err := time.Parse(repository.DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: projection_date must be YYYY-MM-DD", ErrInvalidContribution)
	}

	record, err := s.GetByID(ctx, addressID)
	if err != nil {
		return nil, err
	}

	analysis := strings.TrimSpace(req.AnalysisDetails)
	if analysis == "" && s.analyst != nil {
		drafted, err := s.analyst.DraftProjectionAnalysis(ctx, *record, req.ProjectedIncreasePercentage)
		if err != nil {
			s.logger.WithField("address_id", addressID).Warn("Projection analysis unavailable: " + err.Error())
		} else {
			analysis = drafted
		}
	}

	projection := repository.FuturePriceProjection{
		AddressID:                   addressID,
		ProjectedIncreasePercentage: req.ProjectedIncreasePercentage,
		ProjectionDate:              date,
	}
	if analysis != "" {
		projection.AnalysisDetails = &analysis
	}

	id, err := s.repo.InsertProjection(ctx, projection)
	if err != nil {
		return nil, fmt.Errorf("insert projection: %w", err)
	}
	projection.ID = id
	return &projection, nil
}
