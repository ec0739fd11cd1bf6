package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dujoseaugusto/land-data-scraper/internal/logger"
	"github.com/dujoseaugusto/land-data-scraper/internal/repository"
	"github.com/dujoseaugusto/land-data-scraper/internal/service"
	"github.com/gin-gonic/gin"
)

// PropertyStore is the contribution and read path used by PropertyHandler
type PropertyStore interface {
	Contribute(ctx context.Context, c service.Contribution) (int64, error)
	Search(ctx context.Context, query string, pagination repository.PaginationParams) (*repository.PropertySearchResult, error)
	GetByID(ctx context.Context, addressID int64) (*repository.PropertyRecord, error)
	AddProjection(ctx context.Context, addressID int64, req service.ProjectionRequest) (*repository.FuturePriceProjection, error)
}

type PropertyHandler struct {
	Service PropertyStore
	logger  *logger.Logger
}

func NewPropertyHandler(svc PropertyStore) *PropertyHandler {
	return &PropertyHandler{
		Service: svc,
		logger:  logger.NewLogger("property_handler"),
	}
}

// Contribute handles POST /properties
func (h *PropertyHandler) Contribute(c *gin.Context) {
	var req service.Contribution
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	id, err := h.Service.Contribute(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("Contribution failed", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Contribution submitted successfully",
		"address_id": id,
	})
}

// SearchProperties handles GET /properties/search
func (h *PropertyHandler) SearchProperties(c *gin.Context) {
	pagination := repository.PaginationParams{Page: 1, PageSize: 10}

	if page := c.Query("page"); page != "" {
		if val, err := strconv.Atoi(page); err == nil && val > 0 {
			pagination.Page = val
		}
	}

	if pageSize := c.Query("page_size"); pageSize != "" {
		if val, err := strconv.Atoi(pageSize); err == nil && val > 0 {
			pagination.PageSize = val
		}
	}

	result, err := h.Service.Search(c.Request.Context(), c.Query("q"), pagination)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetProperty handles GET /properties/:id
func (h *PropertyHandler) GetProperty(c *gin.Context) {
	id, ok := addressIDParam(c)
	if !ok {
		return
	}

	record, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// AddProjection handles POST /properties/:id/projections
func (h *PropertyHandler) AddProjection(c *gin.Context) {
	id, ok := addressIDParam(c)
	if !ok {
		return
	}

	var req service.ProjectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	projection, err := h.Service.AddProjection(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, projection)
}

func addressIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid property id"})
		return 0, false
	}
	return id, true
}
