package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sellora/pos-service/internal/apperrors"
	"github.com/sellora/pos-service/internal/customer"
	"github.com/sellora/pos-service/internal/customer/dto"
	"github.com/sellora/pos-service/internal/model"
	"github.com/sellora/pos-service/pkg/logger"
	"github.com/sellora/pos-service/pkg/response"
)

type CustomerHandler struct {
	uc     customer.UseCase
	logger logger.ZapLogger
}

func NewCustomerHandler(uc customer.UseCase, log logger.ZapLogger) *CustomerHandler {
	return &CustomerHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CustomerHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/customers")
	{
		api.POST("", h.Create)
		api.GET("", h.List)
		api.GET("/:id", h.Get)
		api.PUT("/:id", h.Update)
		api.DELETE("/:id", h.Delete)
	}
}

type customerRequest struct {
	Name    string  `json:"name" binding:"required"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" binding:"omitempty,email"`
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	cust, err := h.uc.CreateCustomer(c.Request.Context(), &dto.CreateCustomerInput{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	})
	if err != nil {
		h.logger.Error("failed to create customer", zap.Error(err))
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Created(c, cust)
}

func (h *CustomerHandler) Get(c *gin.Context) {
	cust, err := h.uc.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "customer not found")
			return
		}
		h.logger.Error("failed to get customer", zap.Error(err))
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, cust)
}

func (h *CustomerHandler) List(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid page")
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid page_size")
		return
	}

	customers, total, err := h.uc.ListCustomers(c.Request.Context(), &dto.CustomerFilters{
		SearchQuery: c.Query("q"),
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		h.logger.Error("failed to list customers", zap.Error(err))
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	if customers == nil {
		customers = []model.Customer{}
	}

	response.Success(c, gin.H{"items": customers, "total": total})
}

func (h *CustomerHandler) Update(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	cust, err := h.uc.UpdateCustomer(c.Request.Context(), &dto.UpdateCustomerInput{
		ID:      c.Param("id"),
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "customer not found")
			return
		}
		h.logger.Error("failed to update customer", zap.Error(err))
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(c, cust)
}

func (h *CustomerHandler) Delete(c *gin.Context) {
	if err := h.uc.DeleteCustomer(c.Request.Context(), c.Param("id")); err != nil {
		h.logger.Error("failed to delete customer", zap.Error(err))
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, nil)
}
