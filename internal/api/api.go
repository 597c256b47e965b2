// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/allservice/backend-go/internal/api/handlers"
	"github.com/andresuchdata/allservice/backend-go/internal/api/middleware"
	"github.com/andresuchdata/allservice/backend-go/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	DashboardService *service.DashboardService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:4200", "http://127.0.0.1:4200"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	if services == nil || services.DashboardService == nil {
		router.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		return router
	}

	dashboardHandler := handlers.NewDashboardHandler(services.DashboardService)
	router.GET("/health", dashboardHandler.Health)

	apiGroup := router.Group("/api/v1")

	dashboardGroup := apiGroup.Group("/dashboard")
	{
		dashboardGroup.GET("/summary", dashboardHandler.GetSummary)
		dashboardGroup.GET("/options", dashboardHandler.GetFilterOptions)
		dashboardGroup.POST("/refresh", dashboardHandler.Refresh)
	}

	reportGroup := apiGroup.Group("/reports/services")
	{
		reportGroup.GET("/kpis", dashboardHandler.GetReportKPIs)
		reportGroup.GET("/groups", dashboardHandler.GetReportGroups)
		reportGroup.GET("/timeline", dashboardHandler.GetReportTimeline)
		reportGroup.GET("/taxes", dashboardHandler.GetReportTaxes)
		reportGroup.POST("/tax-preview", dashboardHandler.PreviewTaxRate)
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
