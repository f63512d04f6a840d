package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sellora/pos-service/internal/apperrors"
	"github.com/sellora/pos-service/internal/model"
	"github.com/sellora/pos-service/internal/pos"
	"github.com/sellora/pos-service/internal/pos/dto"
	"github.com/sellora/pos-service/pkg/logger"
	"github.com/sellora/pos-service/pkg/response"
)

type PosHandler struct {
	uc     pos.UseCase
	logger logger.ZapLogger
}

func NewPosHandler(uc pos.UseCase, log logger.ZapLogger) *PosHandler {
	return &PosHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *PosHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/pos")
	{
		api.POST("", h.Create)
		api.GET("", h.List)
		api.GET("/:id", h.Get)
		api.PUT("/:id", h.Update)
		api.DELETE("/:id", h.Delete)
	}
}

type posRequest struct {
	Name        string `json:"name" binding:"required"`
	Address     string `json:"address" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"required,oneof=OPEN CLOSE RENOVATION"`
}

func (h *PosHandler) Create(c *gin.Context) {
	var req posRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.uc.CreatePointOfSale(c.Request.Context(), &dto.CreatePointOfSaleInput{
		Name:        req.Name,
		Address:     req.Address,
		Phone:       req.Phone,
		Description: req.Description,
		Status:      model.PosStatus(req.Status),
	})
	if err != nil {
		h.logger.Error("failed to create point of sale", zap.Error(err))
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Created(c, p)
}

func (h *PosHandler) Get(c *gin.Context) {
	p, err := h.uc.GetPointOfSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "point of sale not found")
			return
		}
		h.logger.Error("failed to get point of sale", zap.Error(err))
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, p)
}

func (h *PosHandler) List(c *gin.Context) {
	items, err := h.uc.ListPointsOfSale(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list points of sale", zap.Error(err))
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []model.PointOfSale{}
	}
	response.Success(c, items)
}

func (h *PosHandler) Update(c *gin.Context) {
	var req posRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.uc.UpdatePointOfSale(c.Request.Context(), &dto.UpdatePointOfSaleInput{
		ID:          c.Param("id"),
		Name:        req.Name,
		Address:     req.Address,
		Phone:       req.Phone,
		Description: req.Description,
		Status:      model.PosStatus(req.Status),
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "point of sale not found")
			return
		}
		h.logger.Error("failed to update point of sale", zap.Error(err))
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(c, p)
}

func (h *PosHandler) Delete(c *gin.Context) {
	if err := h.uc.DeletePointOfSale(c.Request.Context(), c.Param("id")); err != nil {
		h.logger.Error("failed to delete point of sale", zap.Error(err))
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, nil)
}
