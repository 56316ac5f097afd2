package report

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tacmedikal/fieldtrack-api/internal/handler"
	"github.com/tacmedikal/fieldtrack-api/internal/middleware"
	reportService "github.com/tacmedikal/fieldtrack-api/internal/service/report"
)

type Handler struct {
	service *reportService.Service
}

func NewHandler(service *reportService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	reports := r.Group("/reports")
	{
		reports.GET("/dashboard", h.Dashboard)
	}
}

// RegisterAdminRoutes mounts the organization-wide reporting endpoints.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	reports := r.Group("/reports")
	{
		reports.GET("/overview", h.AdminOverview)
		reports.GET("/users", h.AdminUserStats)
		reports.GET("/timeframes", h.Timeframes)
	}
}

func (h *Handler) Dashboard(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	stats, err := h.service.Dashboard(c.Request.Context(), sess.UserID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}

func (h *Handler) AdminOverview(c *gin.Context) {
	overview, err := h.service.AdminOverview(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(overview))
}

func (h *Handler) AdminUserStats(c *gin.Context) {
	stats, err := h.service.AdminUserStats(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}

func (h *Handler) Timeframes(c *gin.Context) {
	period := c.DefaultQuery("period", "month")
	if period != "week" && period != "month" && period != "quarter" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("period must be week, month or quarter"))
		return
	}

	stats, err := h.service.Timeframes(c.Request.Context(), period)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}
