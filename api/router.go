package api

import (
	"net/http"

	"github.com/dujoseaugusto/land-data-scraper/api/handler"
	"github.com/dujoseaugusto/land-data-scraper/api/middleware"
	"github.com/gin-gonic/gin"
)

const (
	serviceName    = "land-data-scraper"
	serviceVersion = "1.0.0"
)

func SetupRouter(ingester handler.Ingester, properties handler.PropertyStore) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORSMiddleware())

	scraperHandler := handler.NewScraperHandler(ingester)
	propertyHandler := handler.NewPropertyHandler(properties)

	scraperGroup := r.Group("/scraper")
	{
		scraperGroup.POST("", scraperHandler.Scrape)
		scraperGroup.GET("/runs", scraperHandler.ListRuns)
	}

	propertyGroup := r.Group("/properties")
	{
		propertyGroup.POST("", propertyHandler.Contribute)
		propertyGroup.GET("/search", propertyHandler.SearchProperties)
		propertyGroup.GET("/:id", propertyHandler.GetProperty)
		propertyGroup.POST("/:id/projections", propertyHandler.AddProjection)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": serviceName,
			"version": serviceVersion,
		})
	})

	return r
}
