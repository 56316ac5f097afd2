package customer

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tacmedikal/fieldtrack-api/internal/handler"
	"github.com/tacmedikal/fieldtrack-api/internal/middleware"
	"github.com/tacmedikal/fieldtrack-api/internal/model"
	customerService "github.com/tacmedikal/fieldtrack-api/internal/service/customer"
	doctorService "github.com/tacmedikal/fieldtrack-api/internal/service/doctor"
)

type Handler struct {
	service *customerService.Service
	doctors *doctorService.Service
}

func NewHandler(service *customerService.Service, doctors *doctorService.Service) *Handler {
	return &Handler{service: service, doctors: doctors}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	customers := r.Group("/customers")
	{
		customers.POST("", h.CreateCustomer)
		customers.GET("", h.ListCustomers)
		customers.GET("/:id", h.GetCustomer)
		customers.PUT("/:id", h.UpdateCustomer)
		customers.DELETE("/:id", h.DeleteCustomer)
		customers.GET("/:id/doctors", h.ListCustomerDoctors)
	}
}

func (h *Handler) CreateCustomer(c *gin.Context) {
	var req model.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	sess := middleware.SessionFromContext(c)
	customer, err := h.service.Create(c.Request.Context(), sess, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(customer))
}

func (h *Handler) ListCustomers(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	customers, err := h.service.List(c.Request.Context(), sess)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(customers))
}

func (h *Handler) GetCustomer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid customer ID"))
		return
	}

	sess := middleware.SessionFromContext(c)
	customer, err := h.service.Get(c.Request.Context(), sess, id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(customer))
}

func (h *Handler) UpdateCustomer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid customer ID"))
		return
	}

	var req model.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	sess := middleware.SessionFromContext(c)
	customer, err := h.service.Update(c.Request.Context(), sess, id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(customer))
}

func (h *Handler) DeleteCustomer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid customer ID"))
		return
	}

	sess := middleware.SessionFromContext(c)
	if err := h.service.Delete(c.Request.Context(), sess, id); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deleted": id}))
}

func (h *Handler) ListCustomerDoctors(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid customer ID"))
		return
	}

	sess := middleware.SessionFromContext(c)
	doctors, err := h.doctors.ListByCustomer(c.Request.Context(), sess, id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}
