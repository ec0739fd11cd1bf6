package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dujoseaugusto/land-data-scraper/internal/logger"
	"github.com/dujoseaugusto/land-data-scraper/internal/repository"
	"github.com/dujoseaugusto/land-data-scraper/internal/scraper"
)

// PropertySummary identifies one address created by an ingest
type PropertySummary struct {
	AddressID int64  `json:"address_id"`
	Street    string `json:"street"`
	City      string `json:"city"`
}

type IngestResult struct {
	Source        string            `json:"source"`
	Region        string            `json:"region"`
	InsertedCount int               `json:"inserted_count"`
	Properties    []PropertySummary `json:"properties"`
}

// IngestionService scrapes one source for a region and persists what it finds.
// Candidates are persisted strictly in order; each dependent write uses the
// address id returned by the write before it.
type IngestionService struct {
	adapters   map[scraper.Source]scraper.Adapter
	properties repository.PropertyRepository
	runs       repository.RunRepository
	logger     *logger.Logger
	now        func() time.Time
}

func NewIngestionService(adapters map[scraper.Source]scraper.Adapter, properties repository.PropertyRepository, runs repository.RunRepository) *IngestionService {
	if runs == nil {
		runs = repository.NopRunRepository{}
	}
	return &IngestionService{
		adapters:   adapters,
		properties: properties,
		runs:       runs,
		logger:     logger.NewLogger("ingestion_service"),
		now:        time.Now,
	}
}

// Ingest validates the request before any fetch or write happens. Failures
// after validation never abort the batch; they are logged per candidate.
func (s *IngestionService) Ingest(ctx context.Context, sourceName, region string) (*IngestResult, error) {
	sourceName = strings.TrimSpace(sourceName)
	region = strings.TrimSpace(region)

	if sourceName == "" {
		return nil, ErrMissingSource
	}
	if region == "" {
		return nil, ErrMissingRegion
	}

	source, err := scraper.ParseSource(sourceName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, sourceName)
	}
	adapter, ok := s.adapters[source]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, sourceName)
	}

	log := s.logger.WithFields(map[string]interface{}{
		"source": source.String(),
		"region": region,
	})

	run := repository.IngestionRun{
		Source:    source.String(),
		Region:    region,
		StartedAt: s.now().UTC(),
	}

	log.Info("Starting ingestion")
	candidates := adapter.FetchListings(ctx, region)
	run.Fetched = len(candidates)

	result := &IngestResult{
		Source:     source.String(),
		Region:     region,
		Properties: []PropertySummary{},
	}

	for i, candidate := range candidates {
		outcome, summary := s.persistCandidate(ctx, source, candidate)
		outcome.Index = i
		run.Outcomes = append(run.Outcomes, outcome)
		s.logOutcome(log, outcome)

		if summary != nil {
			result.Properties = append(result.Properties, *summary)
		}
	}

	result.InsertedCount = len(result.Properties)
	run.Inserted = result.InsertedCount
	run.FinishedAt = s.now().UTC()

	if err := s.runs.SaveRun(ctx, run); err != nil {
		log.Error("Failed to record ingestion run", err)
	}

	log.WithFields(map[string]interface{}{
		"fetched":     run.Fetched,
		"inserted":    result.InsertedCount,
		"duration_ms": run.FinishedAt.Sub(run.StartedAt).Milliseconds(),
	}).Info("Ingestion finished")

	return result, nil
}

// persistCandidate runs the ordered write steps for one candidate. A failed
// address insert skips the candidate; later failures only mark the outcome.
func (s *IngestionService) persistCandidate(ctx context.Context, source scraper.Source, c scraper.Candidate) (repository.CandidateOutcome, *PropertySummary) {
	outcome := repository.CandidateOutcome{
		Status:   repository.OutcomeInserted,
		Street:   c.Street,
		City:     c.City,
		UnitCost: c.UnitCost,
	}

	addressID, err := s.properties.InsertAddress(ctx, repository.Address{
		Street:     c.Street,
		City:       c.City,
		State:      c.State,
		PostalCode: c.PostalCode,
		Latitude:   c.Latitude,
		Longitude:  c.Longitude,
	})
	if err != nil {
		outcome.Status = repository.OutcomeSkipped
		outcome.Error = err.Error()
		return outcome, nil
	}
	outcome.AddressID = addressID

	var stepErrs []error

	// A zero unit cost means the price had no recognizable magnitude.
	if c.UnitCost != nil && *c.UnitCost > 0 {
		_, err := s.properties.InsertLandCost(ctx, repository.LandCost{
			AddressID:            addressID,
			EstimatedCostPerSqft: *c.UnitCost,
			DateOfEstimation:     s.now().Format(repository.DateLayout),
			DataSource:           source.String(),
		})
		if err != nil {
			outcome.Status = repository.OutcomeCostFailed
			stepErrs = append(stepErrs, fmt.Errorf("land cost: %w", err))
		}
	}

	if c.ZoneName != nil && *c.ZoneName != "" {
		if status, err := s.attachZoning(ctx, addressID, c); err != nil {
			outcome.Status = status
			stepErrs = append(stepErrs, err)
		}
	}

	if len(stepErrs) > 0 {
		outcome.Error = errors.Join(stepErrs...).Error()
	}

	return outcome, &PropertySummary{AddressID: addressID, Street: c.Street, City: c.City}
}

// attachZoning inserts the zoning row and then links it. A failed link leaves
// the zoning row behind unreferenced.
func (s *IngestionService) attachZoning(ctx context.Context, addressID int64, c scraper.Candidate) (string, error) {
	zoningID, err := s.properties.InsertZoning(ctx, repository.ZoningInfo{
		ZoneName:          *c.ZoneName,
		MaxBuildingHeight: c.MaxHeight,
		PermittedLandUses: c.PermittedUses,
	})
	if err != nil {
		return repository.OutcomeZoningFailed, fmt.Errorf("zoning: %w", err)
	}
	if err := s.properties.LinkZoning(ctx, addressID, zoningID); err != nil {
		return repository.OutcomeZoningLinkFailed, fmt.Errorf("zoning link %d: %w", zoningID, err)
	}
	return "", nil
}

func (s *IngestionService) logOutcome(log *logger.Logger, outcome repository.CandidateOutcome) {
	entry := log.WithFields(map[string]interface{}{
		"candidate":  outcome.Index,
		"status":     outcome.Status,
		"address_id": outcome.AddressID,
		"street":     outcome.Street,
		"city":       outcome.City,
	})
	if outcome.UnitCost != nil {
		entry = entry.WithField("unit_cost", *outcome.UnitCost)
	} else {
		entry = entry.WithField("unit_cost", nil)
	}

	switch outcome.Status {
	case repository.OutcomeInserted:
		entry.Info("Candidate persisted")
	case repository.OutcomeSkipped:
		entry.Warnf("Candidate skipped: %s", outcome.Error)
	default:
		entry.Warnf("Candidate persisted with errors: %s", outcome.Error)
	}
}

// RecentRuns lists the latest ingestion runs, newest first. limit defaults
// to 20 and is capped at 100.
func (s *IngestionService) RecentRuns(ctx context.Context, limit int) ([]repository.IngestionRun, error) {
	switch {
	case limit <= 0:
		limit = 20
	case limit > 100:
		limit = 100
	}
	runs, err := s.runs.RecentRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list ingestion runs: %w", err)
	}
	if runs == nil {
		runs = []repository.IngestionRun{}
	}
	return runs, nil
}
