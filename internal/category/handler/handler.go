package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sellora/pos-service/internal/apperrors"
	"github.com/sellora/pos-service/internal/category"
	"github.com/sellora/pos-service/internal/category/dto"
	"github.com/sellora/pos-service/internal/model"
	"github.com/sellora/pos-service/pkg/logger"
	"github.com/sellora/pos-service/pkg/response"
)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/categories")
	{
		api.POST("", h.Create)
		api.GET("", h.List)
		api.GET("/:id", h.Get)
		api.PUT("/:id", h.Update)
		api.DELETE("/:id", h.Delete)
	}
}

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	cat, err := h.uc.CreateCategory(c.Request.Context(), &dto.CreateCategoryInput{Name: req.Name})
	if err != nil {
		h.logger.Error("failed to create category", zap.Error(err))
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Created(c, cat)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	cat, err := h.uc.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "category not found")
			return
		}
		h.logger.Error("failed to get category", zap.Error(err))
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, cat)
}

func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.uc.ListCategories(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list categories", zap.Error(err))
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	response.Success(c, categories)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	cat, err := h.uc.UpdateCategory(c.Request.Context(), &dto.UpdateCategoryInput{
		ID:   c.Param("id"),
		Name: req.Name,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "category not found")
			return
		}
		h.logger.Error("failed to update category", zap.Error(err))
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(c, cat)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.uc.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		h.logger.Error("failed to delete category", zap.Error(err))
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, nil)
}
