package mocks

import (
	"context"

	"github.com/dujoseaugusto/land-data-scraper/internal/repository"
	"github.com/dujoseaugusto/land-data-scraper/internal/scraper"
	"github.com/dujoseaugusto/land-data-scraper/internal/zoning"
	"github.com/stretchr/testify/mock"
)

// MockPropertyRepository is a mock implementation of repository.PropertyRepository
type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) InsertAddress(ctx context.Context, address repository.Address) (int64, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPropertyRepository) InsertLandCost(ctx context.Context, cost repository.LandCost) (int64, error) {
	args := m.Called(ctx, cost)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPropertyRepository) InsertZoning(ctx context.Context, info repository.ZoningInfo) (int64, error) {
	args := m.Called(ctx, info)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPropertyRepository) LinkZoning(ctx context.Context, addressID, zoningID int64) error {
	args := m.Called(ctx, addressID, zoningID)
	return args.Error(0)
}

func (m *MockPropertyRepository) InsertRestriction(ctx context.Context, restriction repository.BuildingRestriction) (int64, error) {
	args := m.Called(ctx, restriction)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPropertyRepository) InsertProjection(ctx context.Context, projection repository.FuturePriceProjection) (int64, error) {
	args := m.Called(ctx, projection)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPropertyRepository) FindByID(ctx context.Context, addressID int64) (*repository.PropertyRecord, error) {
	args := m.Called(ctx, addressID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PropertyRecord), args.Error(1)
}

func (m *MockPropertyRepository) Search(ctx context.Context, query string, pagination repository.PaginationParams) (*repository.PropertySearchResult, error) {
	args := m.Called(ctx, query, pagination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PropertySearchResult), args.Error(1)
}

func (m *MockPropertyRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockRunRepository is a mock implementation of repository.RunRepository
type MockRunRepository struct {
	mock.Mock
}

func (m *MockRunRepository) SaveRun(ctx context.Context, run repository.IngestionRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockRunRepository) RecentRuns(ctx context.Context, limit int) ([]repository.IngestionRun, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.IngestionRun), args.Error(1)
}

func (m *MockRunRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockAdapter is a mock implementation of scraper.Adapter
type MockAdapter struct {
	mock.Mock
	Src scraper.Source
}

func (m *MockAdapter) Source() scraper.Source {
	return m.Src
}

func (m *MockAdapter) ListingURL(region string) string {
	return "https://listings.test/" + string(m.Src) + "/" + region
}

func (m *MockAdapter) FetchListings(ctx context.Context, region string) []scraper.Candidate {
	args := m.Called(ctx, region)
	if args.Get(0) == nil {
		return []scraper.Candidate{}
	}
	return args.Get(0).([]scraper.Candidate)
}

// MockZoneResolver resolves coordinates to zones
type MockZoneResolver struct {
	mock.Mock
}

func (m *MockZoneResolver) Lookup(lat, lon float64) (zoning.Zone, bool) {
	args := m.Called(lat, lon)
	return args.Get(0).(zoning.Zone), args.Bool(1)
}

// MockProjectionAnalyst drafts projection analyses
type MockProjectionAnalyst struct {
	mock.Mock
}

func (m *MockProjectionAnalyst) DraftProjectionAnalysis(ctx context.Context, property repository.PropertyRecord, increasePercentage float64) (string, error) {
	args := m.Called(ctx, property, increasePercentage)
	return args.String(0), args.Error(1)
}
