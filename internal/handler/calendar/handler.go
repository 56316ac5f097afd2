package calendar

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tacmedikal/fieldtrack-api/internal/handler"
	"github.com/tacmedikal/fieldtrack-api/internal/middleware"
	"github.com/tacmedikal/fieldtrack-api/internal/model"
	"github.com/tacmedikal/fieldtrack-api/internal/service/calendarsync"
)

type Handler struct {
	service *calendarsync.Service
}

func NewHandler(service *calendarsync.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	settings := r.Group("/settings/calendar")
	{
		settings.GET("", h.GetSettings)
		settings.PUT("", h.UpdateSettings)
	}
}

func (h *Handler) GetSettings(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	settings, err := h.service.Settings(c.Request.Context(), sess)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(settings))
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var req model.UpdateCalendarSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	sess := middleware.SessionFromContext(c)

	var (
		settings *model.CalendarSettings
		err      error
	)
	if *req.SyncEnabled {
		settings, err = h.service.Enable(c.Request.Context(), sess)
	} else {
		settings, err = h.service.Disable(c.Request.Context(), sess)
	}
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(settings))
}
