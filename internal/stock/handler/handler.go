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
	"github.com/sellora/pos-service/internal/stock"
	"github.com/sellora/pos-service/internal/stock/dto"
	"github.com/sellora/pos-service/pkg/logger"
	"github.com/sellora/pos-service/pkg/response"
)

type StockHandler struct {
	uc     stock.UseCase
	logger logger.ZapLogger
}

func NewStockHandler(uc stock.UseCase, log logger.ZapLogger) *StockHandler {
	return &StockHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *StockHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	{
		api.POST("/stocks/replenish", h.Replenish)
		api.GET("/stocks/seller/:sellerId", h.GetStocksOfSeller)
		api.GET("/stocks/product/:productId", h.GetStockByProduct)
		api.GET("/stock-histories", h.ListHistories)
	}
}

type replenishRequest struct {
	SellerID  string `json:"seller_id" binding:"required,uuid"`
	ProductID string `json:"product_id" binding:"required,uuid"`
	PosID     string `json:"pos_id" binding:"required,uuid"`
	Action    string `json:"action" binding:"required,oneof=ADD REMOVE"`
	Quantity  int64  `json:"quantity" binding:"required,gt=0"`
}

func (h *StockHandler) Replenish(c *gin.Context) {
	actor := auth.GetActor(c)
	if actor.UserID == "" {
		response.ErrorWithStatus(c, http.StatusUnauthorized, "missing identity")
		return
	}
	if !actor.IsAdmin() {
		response.ErrorWithStatus(c, http.StatusForbidden, "replenishment requires admin role")
		return
	}

	var req replenishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	input := &dto.ReplenishInput{
		AdminID:   actor.UserID,
		SellerID:  req.SellerID,
		ProductID: req.ProductID,
		PosID:     req.PosID,
		Action:    model.StockAction(req.Action),
		Quantity:  req.Quantity,
	}

	st, err := h.uc.Replenish(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInsufficientStock):
			response.ErrorWithStatus(c, http.StatusUnprocessableEntity, "insufficient stock")
		case errors.Is(err, apperrors.ErrNegativeQuantity):
			response.ErrorWithStatus(c, http.StatusUnprocessableEntity, "resulting quantity would be negative")
		default:
			h.logger.Error("failed to replenish stock",
				zap.String("product_id", req.ProductID),
				zap.String("seller_id", req.SellerID),
				zap.Error(err),
			)
			response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	response.Success(c, st)
}

func (h *StockHandler) GetStocksOfSeller(c *gin.Context) {
	sellerID := c.Param("sellerId")
	if sellerID == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "sellerId is required")
		return
	}

	stocks, err := h.uc.GetStocksOfSeller(c.Request.Context(), sellerID)
	if err != nil {
		h.logger.Error("failed to list seller stocks", zap.String("seller_id", sellerID), zap.Error(err))
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	if stocks == nil {
		stocks = []model.Stock{}
	}

	response.Success(c, stocks)
}

func (h *StockHandler) GetStockByProduct(c *gin.Context) {
	productID := c.Param("productId")
	actor := auth.GetActor(c)
	sellerID := c.DefaultQuery("seller_id", actor.UserID)
	if sellerID == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "seller_id is required")
		return
	}

	st, err := h.uc.GetStockByProduct(c.Request.Context(), productID, sellerID)
	if err != nil {
		h.logger.Error("failed to get stock", zap.String("product_id", productID), zap.Error(err))
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	if st == nil {
		response.ErrorWithStatus(c, http.StatusNotFound, "stock not found")
		return
	}

	response.Success(c, st)
}

func (h *StockHandler) ListHistories(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid page")
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid page_size")
		return
	}

	filters := &dto.HistoryFilters{
		SellerID:  c.Query("seller_id"),
		ProductID: c.Query("product_id"),
		Action:    c.Query("action"),
		Page:      page,
		PageSize:  pageSize,
	}

	histories, total, err := h.uc.ListHistories(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list stock histories", zap.Error(err))
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	if histories == nil {
		histories = []model.StockHistory{}
	}

	response.Success(c, gin.H{"items": histories, "total": total})
}
