package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dujoseaugusto/land-data-scraper/internal/logger"
	"github.com/dujoseaugusto/land-data-scraper/internal/repository"
	"github.com/dujoseaugusto/land-data-scraper/internal/service"
	"github.com/gin-gonic/gin"
)

// Ingester runs scrape-and-store requests
type Ingester interface {
	Ingest(ctx context.Context, source, region string) (*service.IngestResult, error)
	RecentRuns(ctx context.Context, limit int) ([]repository.IngestionRun, error)
}

// ScrapeRequest accepts the region under either "region" or "state".
type ScrapeRequest struct {
	Source string `json:"source"`
	Region string `json:"region"`
	State  string `json:"state"`
}

type ScrapeResponse struct {
	Success       bool                      `json:"success"`
	Message       string                    `json:"message"`
	InsertedCount int                       `json:"inserted_count"`
	Properties    []service.PropertySummary `json:"properties"`
}

type ScraperHandler struct {
	Service Ingester
	logger  *logger.Logger
}

func NewScraperHandler(svc Ingester) *ScraperHandler {
	return &ScraperHandler{
		Service: svc,
		logger:  logger.NewLogger("scraper_handler"),
	}
}

// Scrape handles POST /scraper
func (h *ScraperHandler) Scrape(c *gin.Context) {
	var req ScrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	region := req.Region
	if region == "" {
		region = req.State
	}

	result, err := h.Service.Ingest(c.Request.Context(), req.Source, region)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"source": req.Source,
			"region": region,
		}).Error("Scrape request failed", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ScrapeResponse{
		Success:       true,
		Message:       fmt.Sprintf("Scraped and stored %d properties", result.InsertedCount),
		InsertedCount: result.InsertedCount,
		Properties:    result.Properties,
	})
}

// ListRuns handles GET /scraper/runs
func (h *ScraperHandler) ListRuns(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if val, err := strconv.Atoi(raw); err == nil && val > 0 {
			limit = val
		}
	}

	runs, err := h.Service.RecentRuns(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}
