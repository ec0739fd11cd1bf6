package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dujoseaugusto/land-data-scraper/internal/mocks"
	"github.com/dujoseaugusto/land-data-scraper/internal/repository"
	"github.com/dujoseaugusto/land-data-scraper/internal/zoning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupPropertyService(zones ZoneResolver, analyst ProjectionAnalyst) (*PropertyService, *mocks.MockPropertyRepository) {
	repo := &mocks.MockPropertyRepository{}
	svc := NewPropertyService(repo, zones, analyst)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }
	return svc, repo
}

func validContribution() Contribution {
	return Contribution{
		Street:     "14 Residency Road",
		City:       "Bengaluru",
		State:      "Karnataka",
		PostalCode: "560025",
	}
}

func TestContribution_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Contribution)
		valid  bool
	}{
		{"Valid", func(c *Contribution) {}, true},
		{"Short street", func(c *Contribution) { c.Street = "ab" }, false},
		{"Short city", func(c *Contribution) { c.City = "B" }, false},
		{"Short state", func(c *Contribution) { c.State = "K" }, false},
		{"Missing street", func(c *Contribution) { c.Street = "" }, false},
		{"Short postal code", func(c *Contribution) { c.PostalCode = "5600" }, false},
		{"Cost below one", func(c *Contribution) { c.EstimatedCostPerSqft = floatPtr(0.5) }, false},
		{"Cost of one", func(c *Contribution) { c.EstimatedCostPerSqft = floatPtr(1) }, true},
		{"Latitude without longitude", func(c *Contribution) { c.Latitude = floatPtr(12.9) }, false},
		{"Latitude out of range", func(c *Contribution) { c.Latitude, c.Longitude = floatPtr(91), floatPtr(77.6) }, false},
		{"Longitude out of range", func(c *Contribution) { c.Latitude, c.Longitude = floatPtr(12.9), floatPtr(-181) }, false},
		{"Coordinates together", func(c *Contribution) { c.Latitude, c.Longitude = floatPtr(12.9), floatPtr(77.6) }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validContribution()
			tt.modify(&c)
			err := c.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrInvalidContribution))
			}
		})
	}
}

func TestContribute_AddressOnly(t *testing.T) {
	svc, repo := setupPropertyService(nil, nil)
	ctx := context.Background()

	postal := "560025"
	repo.On("InsertAddress", ctx, repository.Address{
		Street: "14 Residency Road", City: "Bengaluru", State: "Karnataka", PostalCode: &postal,
	}).Return(int64(11), nil)

	id, err := svc.Contribute(ctx, validContribution())

	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "InsertZoning", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "InsertRestriction", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "InsertLandCost", mock.Anything, mock.Anything)
}

func TestContribute_AllDependents(t *testing.T) {
	svc, repo := setupPropertyService(nil, nil)
	ctx := context.Background()

	c := validContribution()
	c.ZoneName = "C-2"
	c.MaxBuildingHeight = floatPtr(24)
	c.RestrictionType = "FSI"
	c.RestrictionValue = "2.5"
	c.Notes = "Metro corridor"
	c.EstimatedCostPerSqft = floatPtr(14500)

	repo.On("InsertAddress", ctx, mock.Anything).Return(int64(12), nil)
	repo.On("InsertZoning", ctx, repository.ZoningInfo{ZoneName: "C-2", MaxBuildingHeight: floatPtr(24)}).Return(int64(4), nil)
	repo.On("LinkZoning", ctx, int64(12), int64(4)).Return(nil)
	repo.On("InsertRestriction", ctx, repository.BuildingRestriction{
		AddressID: 12, RestrictionType: "FSI", RestrictionValue: "2.5", Notes: strPtr("Metro corridor"),
	}).Return(int64(1), nil)
	repo.On("InsertLandCost", ctx, repository.LandCost{
		AddressID: 12, EstimatedCostPerSqft: 14500, DateOfEstimation: "2024-05-01", DataSource: DefaultContributionSource,
	}).Return(int64(1), nil)

	id, err := svc.Contribute(ctx, c)

	require.NoError(t, err)
	assert.Equal(t, int64(12), id)
	repo.AssertExpectations(t)
}

func TestContribute_RestrictionNeedsTypeAndValue(t *testing.T) {
	svc, repo := setupPropertyService(nil, nil)
	ctx := context.Background()

	c := validContribution()
	c.RestrictionType = "Height"
	repo.On("InsertAddress", ctx, mock.Anything).Return(int64(13), nil)

	_, err := svc.Contribute(ctx, c)

	require.NoError(t, err)
	repo.AssertNotCalled(t, "InsertRestriction", mock.Anything, mock.Anything)
}

func TestContribute_DependentFailuresAreNotFatal(t *testing.T) {
	svc, repo := setupPropertyService(nil, nil)
	ctx := context.Background()

	c := validContribution()
	c.ZoneName = "R-1"
	c.EstimatedCostPerSqft = floatPtr(9000)
	c.DataSource = "Survey 2024"

	repo.On("InsertAddress", ctx, mock.Anything).Return(int64(14), nil)
	repo.On("InsertZoning", ctx, mock.Anything).Return(int64(0), errors.New("zoning down"))
	repo.On("InsertLandCost", ctx, mock.MatchedBy(func(lc repository.LandCost) bool {
		return lc.DataSource == "Survey 2024"
	})).Return(int64(0), errors.New("cost down"))

	id, err := svc.Contribute(ctx, c)

	require.NoError(t, err)
	assert.Equal(t, int64(14), id)
	repo.AssertNotCalled(t, "LinkZoning", mock.Anything, mock.Anything, mock.Anything)
}

func TestContribute_AddressFailure(t *testing.T) {
	svc, repo := setupPropertyService(nil, nil)
	ctx := context.Background()
	repo.On("InsertAddress", ctx, mock.Anything).Return(int64(0), errors.New("db offline"))

	_, err := svc.Contribute(ctx, validContribution())

	assert.ErrorContains(t, err, "db offline")
}

func TestContribute_InvalidDoesNotWrite(t *testing.T) {
	svc, repo := setupPropertyService(nil, nil)

	c := validContribution()
	c.PostalCode = "12"
	_, err := svc.Contribute(context.Background(), c)

	assert.True(t, errors.Is(err, ErrInvalidContribution))
	repo.AssertNotCalled(t, "InsertAddress", mock.Anything, mock.Anything)
}

func TestContribute_ZoneResolvedFromCoordinates(t *testing.T) {
	zones := &mocks.MockZoneResolver{}
	svc, repo := setupPropertyService(zones, nil)
	ctx := context.Background()

	c := validContribution()
	c.Latitude = floatPtr(12.97)
	c.Longitude = floatPtr(77.60)

	zones.On("Lookup", 12.97, 77.60).Return(zoning.Zone{
		Name: "Mixed Use", MaxHeight: floatPtr(30), PermittedUses: strPtr("residential,retail"),
	}, true)
	repo.On("InsertAddress", ctx, mock.Anything).Return(int64(15), nil)
	repo.On("InsertZoning", ctx, repository.ZoningInfo{
		ZoneName: "Mixed Use", MaxBuildingHeight: floatPtr(30), PermittedLandUses: strPtr("residential,retail"),
	}).Return(int64(6), nil)
	repo.On("LinkZoning", ctx, int64(15), int64(6)).Return(nil)

	_, err := svc.Contribute(ctx, c)

	require.NoError(t, err)
	repo.AssertExpectations(t)
	zones.AssertExpectations(t)
}

func TestContribute_SubmittedZoneWinsOverResolver(t *testing.T) {
	zones := &mocks.MockZoneResolver{}
	svc, repo := setupPropertyService(zones, nil)
	ctx := context.Background()

	c := validContribution()
	c.ZoneName = "R-3"
	c.Latitude = floatPtr(12.97)
	c.Longitude = floatPtr(77.60)

	repo.On("InsertAddress", ctx, mock.Anything).Return(int64(16), nil)
	repo.On("InsertZoning", ctx, repository.ZoningInfo{ZoneName: "R-3"}).Return(int64(7), nil)
	repo.On("LinkZoning", ctx, int64(16), int64(7)).Return(nil)

	_, err := svc.Contribute(ctx, c)

	require.NoError(t, err)
	zones.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
}

func TestContribute_NoZoneForCoordinates(t *testing.T) {
	zones := &mocks.MockZoneResolver{}
	svc, repo := setupPropertyService(zones, nil)
	ctx := context.Background()

	c := validContribution()
	c.Latitude = floatPtr(1)
	c.Longitude = floatPtr(2)

	zones.On("Lookup", 1.0, 2.0).Return(zoning.Zone{}, false)
	repo.On("InsertAddress", ctx, mock.Anything).Return(int64(17), nil)

	_, err := svc.Contribute(ctx, c)

	require.NoError(t, err)
	repo.AssertNotCalled(t, "InsertZoning", mock.Anything, mock.Anything)
}

func TestSearch_NormalizesPagination(t *testing.T) {
	svc, repo := setupPropertyService(nil, nil)
	ctx := context.Background()

	expected := &repository.PropertySearchResult{CurrentPage: 1, PageSize: 10}
	repo.On("Search", ctx, "pune", repository.PaginationParams{Page: 1, PageSize: 10}).Return(expected, nil)

	result, err := svc.Search(ctx, "pune", repository.PaginationParams{})

	require.NoError(t, err)
	assert.Equal(t, expected, result)
}

func TestGetByID(t *testing.T) {
	svc, repo := setupPropertyService(nil, nil)
	ctx := context.Background()

	record := &repository.PropertyRecord{Address: repository.Address{ID: 3, Street: "Civil Lines"}}
	repo.On("FindByID", ctx, int64(3)).Return(record, nil)
	repo.On("FindByID", ctx, int64(4)).Return(nil, repository.ErrNotFound)
	repo.On("FindByID", ctx, int64(5)).Return(nil, errors.New("broken pipe"))

	got, err := svc.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, record, got)

	_, err = svc.GetByID(ctx, 4)
	assert.True(t, errors.Is(err, ErrPropertyNotFound))

	_, err = svc.GetByID(ctx, 5)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrPropertyNotFound))
}

func TestAddProjection_DraftsAnalysis(t *testing.T) {
	analyst := &mocks.MockProjectionAnalyst{}
	svc, repo := setupPropertyService(nil, analyst)
	ctx := context.Background()

	record := &repository.PropertyRecord{Address: repository.Address{ID: 8, Street: "Baner", City: "Pune"}}
	repo.On("FindByID", ctx, int64(8)).Return(record, nil)
	analyst.On("DraftProjectionAnalysis", ctx, *record, 7.5).Return("IT corridor demand.", nil)
	repo.On("InsertProjection", ctx, repository.FuturePriceProjection{
		AddressID:                   8,
		ProjectedIncreasePercentage: 7.5,
		ProjectionDate:              "2024-05-01",
		AnalysisDetails:             strPtr("IT corridor demand."),
	}).Return(int64(2), nil)

	projection, err := svc.AddProjection(ctx, 8, ProjectionRequest{ProjectedIncreasePercentage: 7.5})

	require.NoError(t, err)
	assert.Equal(t, int64(2), projection.ID)
	require.NotNil(t, projection.AnalysisDetails)
	assert.Equal(t, "IT corridor demand.", *projection.AnalysisDetails)
}

func TestAddProjection_AnalystFailureLeavesAnalysisEmpty(t *testing.T) {
	analyst := &mocks.MockProjectionAnalyst{}
	svc, repo := setupPropertyService(nil, analyst)
	ctx := context.Background()

	record := &repository.PropertyRecord{Address: repository.Address{ID: 8}}
	repo.On("FindByID", ctx, int64(8)).Return(record, nil)
	analyst.On("DraftProjectionAnalysis", ctx, *record, 3.0).Return("", errors.New("quota exceeded"))
	repo.On("InsertProjection", ctx, mock.MatchedBy(func(p repository.FuturePriceProjection) bool {
		return p.AnalysisDetails == nil && p.ProjectionDate == "2025-01-01"
	})).Return(int64(3), nil)

	projection, err := svc.AddProjection(ctx, 8, ProjectionRequest{ProjectedIncreasePercentage: 3, ProjectionDate: "2025-01-01"})

	require.NoError(t, err)
	assert.Nil(t, projection.AnalysisDetails)
}

func TestAddProjection_ProvidedAnalysisSkipsAnalyst(t *testing.T) {
	analyst := &mocks.MockProjectionAnalyst{}
	svc, repo := setupPropertyService(nil, analyst)
	ctx := context.Background()

	repo.On("FindByID", ctx, int64(8)).Return(&repository.PropertyRecord{}, nil)
	repo.On("InsertProjection", ctx, mock.Anything).Return(int64(4), nil)

	_, err := svc.AddProjection(ctx, 8, ProjectionRequest{ProjectedIncreasePercentage: 4, AnalysisDetails: "Manual note"})

	require.NoError(t, err)
	analyst.AssertNotCalled(t, "DraftProjectionAnalysis", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddProjection_Errors(t *testing.T) {
	svc, repo := setupPropertyService(nil, nil)
	ctx := context.Background()

	_, err := svc.AddProjection(ctx, 1, ProjectionRequest{ProjectionDate: "01/02/2025"})
	assert.True(t, errors.Is(err, ErrInvalidContribution))

	repo.On("FindByID", ctx, int64(99)).Return(nil, repository.ErrNotFound)
	_, err = svc.AddProjection(ctx, 99, ProjectionRequest{ProjectedIncreasePercentage: 1})
	assert.True(t, errors.Is(err, ErrPropertyNotFound))
	repo.AssertNotCalled(t, "InsertProjection", mock.Anything, mock.Anything)
}
