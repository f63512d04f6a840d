package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sellora/pos-service/internal/apperrors"
	"github.com/sellora/pos-service/internal/model"
	"github.com/sellora/pos-service/internal/product"
	"github.com/sellora/pos-service/internal/product/dto"
	"github.com/sellora/pos-service/pkg/logger"
	"github.com/sellora/pos-service/pkg/response"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/products")
	{
		api.POST("", h.Create)
		api.GET("", h.List)
		api.GET("/:id", h.Get)
		api.PUT("/:id", h.Update)
		api.DELETE("/:id", h.Delete)
	}
}

type productRequest struct {
	CategoryID     string          `json:"category_id" binding:"omitempty,uuid"`
	Name           string          `json:"name" binding:"required"`
	Price          decimal.Decimal `json:"price" binding:"required"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Price.IsNegative() || req.CommissionRate.IsNegative() {
		response.ErrorWithStatus(c, http.StatusBadRequest, "price and commission_rate must be non-negative")
		return
	}

	p, err := h.uc.CreateProduct(c.Request.Context(), &dto.CreateProductInput{
		CategoryID:     req.CategoryID,
		Name:           req.Name,
		Price:          req.Price,
		CommissionRate: req.CommissionRate,
	})
	if err != nil {
		h.logger.Error("failed to create product", zap.Error(err))
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Created(c, p)
}

func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.uc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("failed to get product", zap.Error(err))
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, p)
}

func (h *ProductHandler) List(c *gin.Context) {
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

	filters := &dto.ProductFilters{
		CategoryID:  c.Query("category_id"),
		SearchQuery: c.Query("q"),
		Page:        page,
		PageSize:    pageSize,
	}

	products, total, err := h.uc.ListProducts(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list products", zap.Error(err))
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	if products == nil {
		products = []model.Product{}
	}

	response.Success(c, gin.H{"items": products, "total": total})
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Price.IsNegative() || req.CommissionRate.IsNegative() {
		response.ErrorWithStatus(c, http.StatusBadRequest, "price and commission_rate must be non-negative")
		return
	}

	p, err := h.uc.UpdateProduct(c.Request.Context(), &dto.UpdateProductInput{
		ID:             c.Param("id"),
		CategoryID:     req.CategoryID,
		Name:           req.Name,
		Price:          req.Price,
		CommissionRate: req.CommissionRate,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("failed to update product", zap.Error(err))
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(c, p)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.uc.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.logger.Error("failed to delete product", zap.Error(err))
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, nil)
}
