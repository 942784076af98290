package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mvargascr/fondo-server/internal/ledger"
	"github.com/mvargascr/fondo-server/internal/models"
	"github.com/mvargascr/fondo-server/internal/service"
)

// Handler holds the API handlers
type Handler struct {
	svc service.Service
}

// NewHandler creates a new API handler
func NewHandler(svc service.Service) *Handler {
	return &Handler{svc: svc}
}

// SetupRoutes registers all API routes on the router
func (h *Handler) SetupRoutes(router *gin.Engine) {
	auth := router.Group("/api/auth")
	{
		auth.POST("/signup", h.SignUp)
		auth.POST("/login", h.Login)
	}

	company := router.Group("/api/companies/:company", AuthMiddleware())
	{
		company.GET("/funds/:account", h.GetFund)
		company.POST("/funds/:account/movements", h.CreateMovement)
		company.PUT("/funds/:account/movements/:id", h.EditMovement)
		company.DELETE("/funds/:account/movements/:id", RequireRole(models.RoleAdmin), h.DeleteMovement)
		company.PUT("/funds/:account/opening-balance", h.SetOpeningBalance)

		company.GET("/providers", h.ListProviders)
		company.PUT("/providers", h.UpsertProvider)
		company.GET("/employees", h.ListEmployees)
		company.POST("/employees", RequireRole(models.RoleAdmin), h.AddEmployee)

		company.POST("/orders", h.CreateOrder)
		company.GET("/orders", h.ListOrders)
		company.PUT("/orders/:id/status", h.UpdateOrderStatus)
	}
}

// Authentication handlers
func (h *Handler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.svc.SignUp(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Fund handlers
func (h *Handler) GetFund(c *gin.Context) {
	resp, err := h.svc.GetFund(c.Request.Context(), c.Param("company"), c.Param("account"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) CreateMovement(c *gin.Context) {
	var req models.CreateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.svc.CreateMovement(c.Request.Context(), c.Param("company"), c.Param("account"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) EditMovement(c *gin.Context) {
	var req models.EditMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.svc.EditMovement(c.Request.Context(), c.Param("company"), c.Param("account"), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) DeleteMovement(c *gin.Context) {
	err := h.svc.DeleteMovement(c.Request.Context(), c.Param("company"), c.Param("account"), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) SetOpeningBalance(c *gin.Context) {
	var req models.SetOpeningBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.svc.SetOpeningBalance(c.Request.Context(), c.Param("company"), c.Param("account"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Provider and employee handlers
func (h *Handler) ListProviders(c *gin.Context) {
	resp, err := h.svc.ListProviders(c.Request.Context(), c.Param("company"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) UpsertProvider(c *gin.Context) {
	var req models.UpsertProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.svc.UpsertProvider(c.Request.Context(), c.Param("company"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) ListEmployees(c *gin.Context) {
	resp, err := h.svc.ListEmployees(c.Request.Context(), c.Param("company"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) AddEmployee(c *gin.Context) {
	var req models.AddEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.svc.AddEmployee(c.Request.Context(), c.Param("company"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Purchase order handlers
func (h *Handler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.svc.CreateOrder(c.Request.Context(), c.Param("company"), c.GetString("userId"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) ListOrders(c *gin.Context) {
	resp, err := h.svc.ListOrders(c.Request.Context(), c.Param("company"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.svc.UpdateOrderStatus(c.Request.Context(), c.Param("company"), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Error mapping
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Status:  "error",
		Code:    "BAD_REQUEST",
		Message: err.Error(),
	})
}

func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Status: "error", Code: "NOT_FOUND", Message: err.Error(),
		})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status: "error", Code: "VALIDATION", Message: err.Error(),
		})
	case errors.Is(err, service.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Status: "error", Code: "DUPLICATE_EMAIL", Message: err.Error(),
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Status: "error", Code: "UNAUTHORIZED", Message: err.Error(),
		})
	case errors.Is(err, ledger.ErrCurrencyImmutable):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Status: "error", Code: "CURRENCY_IMMUTABLE", Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Status: "error", Code: "INTERNAL", Message: err.Error(),
		})
	}
}
