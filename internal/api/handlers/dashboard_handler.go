package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/andresuchdata/allservice/backend-go/internal/analytics"
	"github.com/andresuchdata/allservice/backend-go/internal/domain"
	"github.com/andresuchdata/allservice/backend-go/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type DashboardHandler struct {
	service *service.DashboardService
}

func NewDashboardHandler(service *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) Health(c *gin.Context) {
	state := h.service.State()
	status := "ok"
	if err := h.service.Ready(); err != nil {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "records": state})
}

func (h *DashboardHandler) GetSummary(c *gin.Context) {
	filter, err := parseDashboardFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter", "details": err.Error()})
		return
	}

	summary, err := h.service.GetSummary(c.Request.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to build dashboard summary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build dashboard summary", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":    summary,
		"load_error": h.service.State().Error,
	})
}

func (h *DashboardHandler) GetFilterOptions(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.GetFilterOptions(c.Request.Context()))
}

func (h *DashboardHandler) Refresh(c *gin.Context) {
	state, err := h.service.Refresh(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": state.Error, "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *DashboardHandler) GetReportKPIs(c *gin.Context) {
	filter, ok := h.reportFilter(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.service.GetReportKPIs(c.Request.Context(), filter))
}

func (h *DashboardHandler) GetReportGroups(c *gin.Context) {
	filter, ok := h.reportFilter(c)
	if !ok {
		return
	}

	key, valid := domain.ParseGroupKey(c.DefaultQuery("by", string(domain.GroupByStatus)))
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid group key",
			"details": "by must be one of status, payment_type, company, tax_type",
		})
		return
	}

	c.JSON(http.StatusOK, h.service.GetReportGroups(c.Request.Context(), filter, key))
}

func (h *DashboardHandler) GetReportTimeline(c *gin.Context) {
	filter, ok := h.reportFilter(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.service.GetReportTimeline(c.Request.Context(), filter))
}

func (h *DashboardHandler) GetReportTaxes(c *gin.Context) {
	filter, ok := h.reportFilter(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.service.GetReportTaxes(c.Request.Context(), filter))
}

type taxPreviewRequest struct {
	TaxType string  `json:"tax_type" binding:"required"`
	Rate    float64 `json:"rate"`
	Period  string  `json:"period" binding:"required"`
	Start   string  `json:"start"`
	End     string  `json:"end"`
}

func (h *DashboardHandler) PreviewTaxRate(c *gin.Context) {
	var req taxPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	taxType, ok := domain.ParseTaxType(req.TaxType)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tax_type", "details": req.TaxType})
		return
	}

	result, err := h.service.PreviewTaxRate(c.Request.Context(), domain.TaxRecalculation{
		TaxType: taxType,
		RatePct: req.Rate,
		Window:  domain.TaxWindow(strings.ToUpper(strings.TrimSpace(req.Period))),
		Start:   req.Start,
		End:     req.End,
	})
	if err != nil {
		if errors.Is(err, analytics.ErrInvalidTaxRate) || errors.Is(err, analytics.ErrInvalidTaxWindow) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tax recalculation", "details": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to preview tax rate", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *DashboardHandler) reportFilter(c *gin.Context) (domain.FilterDescriptor, bool) {
	filter, err := parseReportFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter", "details": err.Error()})
		return filter, false
	}
	return filter, true
}
