package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/dujoseaugusto/land-data-scraper/internal/ai"
	"github.com/dujoseaugusto/land-data-scraper/internal/config"
	"github.com/dujoseaugusto/land-data-scraper/internal/logger"
	"github.com/dujoseaugusto/land-data-scraper/internal/repository"
	"github.com/dujoseaugusto/land-data-scraper/internal/scraper"
	"github.com/dujoseaugusto/land-data-scraper/internal/service"
	"github.com/dujoseaugusto/land-data-scraper/internal/zoning"
)

// App holds the wired services shared by the API server and the CLI
type App struct {
	Ingestion  *service.IngestionService
	Properties *service.PropertyService

	closers []func() error
	logger  *logger.Logger
}

// New opens the stores and builds the services described by cfg. Optional
// collaborators (run log, zoning, analyst) are skipped when unconfigured.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger.SetDefaultLevel(logger.ParseLevel(cfg.LogLevel))
	a := &App{logger: logger.NewLogger("app")}

	repo, err := repository.NewSQLRepository(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open property store: %w", err)
	}
	a.closers = append(a.closers, repo.Close)

	var runs repository.RunRepository = repository.NopRunRepository{}
	if cfg.MongoURI != "" {
		mongoRuns, err := repository.NewMongoRunRepository(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open run log: %w", err)
		}
		runs = mongoRuns
		a.closers = append(a.closers, mongoRuns.Close)
	} else {
		a.logger.Info("MONGO_URI not set, ingestion runs will not be recorded")
	}

	siteConfigs, err := scraper.LoadSiteConfigs(cfg.SourcesFile)
	if err != nil {
		a.Close()
		return nil, err
	}
	fetcher := scraper.NewCollyFetcher(cfg.UserAgent, cfg.FetchTimeout)
	a.Ingestion = service.NewIngestionService(scraper.NewAdapters(fetcher, siteConfigs), repo, runs)

	var zones service.ZoneResolver
	if cfg.ZoningShapefile != "" {
		resolver, err := zoning.Load(zoning.Fields{
			Name:   cfg.ZoningNameField,
			Height: cfg.ZoningHeightField,
			Uses:   cfg.ZoningUsesField,
		}, strings.Split(cfg.ZoningShapefile, ",")...)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.logger.WithField("polygons", resolver.Len()).Info("Zoning layers loaded")
		zones = resolver
	}

	var analyst service.ProjectionAnalyst
	if cfg.GeminiAPIKey != "" {
		gemini, err := ai.NewGeminiAnalyst(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			a.logger.Error("Gemini analyst disabled", err)
		} else {
			analyst = gemini
			a.closers = append(a.closers, gemini.Close)
		}
	}

	a.Properties = service.NewPropertyService(repo, zones, analyst)
	return a, nil
}

// Close releases every opened resource in reverse order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Error("Failed to close resource", err)
		}
	}
	a.closers = nil
}
