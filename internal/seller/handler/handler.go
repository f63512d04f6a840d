package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sellora/pos-service/internal/apperrors"
	"github.com/sellora/pos-service/internal/auth"
	"github.com/sellora/pos-service/internal/model"
	"github.com/sellora/pos-service/internal/seller"
	"github.com/sellora/pos-service/internal/seller/dto"
	"github.com/sellora/pos-service/pkg/logger"
	"github.com/sellora/pos-service/pkg/response"
)

type SellerHandler struct {
	uc     seller.UseCase
	logger logger.ZapLogger
}

func NewSellerHandler(uc seller.UseCase, log logger.ZapLogger) *SellerHandler {
	return &SellerHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *SellerHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/sellers")
	{
		api.POST("", h.Create)
		api.GET("", h.List)
		api.GET("/:id", h.Get)
		api.PUT("/:id", h.Update)
		api.DELETE("/:id", h.Delete)
	}
}

type sellerRequest struct {
	Name     string  `json:"name" binding:"required"`
	Username string  `json:"username" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Phone    *string `json:"phone"`
	Role     string  `json:"role" binding:"required,oneof=ADMIN SELLER"`
}

func (h *SellerHandler) Create(c *gin.Context) {
	if !auth.GetActor(c).IsAdmin() {
		response.ErrorWithStatus(c, http.StatusForbidden, "managing sellers requires admin role")
		return
	}

	var req sellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	s, err := h.uc.CreateSeller(c.Request.Context(), &dto.CreateSellerInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     model.Role(req.Role),
	})
	if err != nil {
		h.respondError(c, err, "failed to create seller")
		return
	}

	response.Created(c, s)
}

func (h *SellerHandler) Get(c *gin.Context) {
	s, err := h.uc.GetSeller(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to get seller")
		return
	}
	response.Success(c, s)
}

func (h *SellerHandler) List(c *gin.Context) {
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

	sellers, total, err := h.uc.ListSellers(c.Request.Context(), &dto.SellerFilters{
		Role:        model.Role(c.Query("role")),
		SearchQuery: c.Query("q"),
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		h.respondError(c, err, "failed to list sellers")
		return
	}
	if sellers == nil {
		sellers = []model.Seller{}
	}

	response.Success(c, gin.H{"items": sellers, "total": total})
}

func (h *SellerHandler) Update(c *gin.Context) {
	if !auth.GetActor(c).IsAdmin() {
		response.ErrorWithStatus(c, http.StatusForbidden, "managing sellers requires admin role")
		return
	}

	var req sellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	s, err := h.uc.UpdateSeller(c.Request.Context(), &dto.UpdateSellerInput{
		ID:       c.Param("id"),
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     model.Role(req.Role),
	})
	if err != nil {
		h.respondError(c, err, "failed to update seller")
		return
	}

	response.Success(c, s)
}

func (h *SellerHandler) Delete(c *gin.Context) {
	if !auth.GetActor(c).IsAdmin() {
		response.ErrorWithStatus(c, http.StatusForbidden, "managing sellers requires admin role")
		return
	}

	if err := h.uc.DeleteSeller(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, "failed to delete seller")
		return
	}
	response.Success(c, nil)
}

func (h *SellerHandler) respondError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, "seller not found")
	case errors.Is(err, apperrors.ErrConflict):
		response.ErrorWithStatus(c, http.StatusConflict, err.Error())
	default:
		h.logger.Error(msg, zap.Error(err))
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
	}
}
