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
	"github.com/sellora/pos-service/internal/order"
	"github.com/sellora/pos-service/internal/order/dto"
	"github.com/sellora/pos-service/pkg/logger"
	"github.com/sellora/pos-service/pkg/response"
)

type OrderHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *OrderHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/orders")
	{
		api.POST("", h.PlaceOrder)
		api.GET("", h.ListOrders)
		api.GET("/:id", h.GetOrder)
		api.PUT("/:id", h.UpdateOrder)
		api.DELETE("/:id", h.DeleteOrder)
	}
}

type orderLineRequest struct {
	ProductID   string `json:"product_id" binding:"required,uuid"`
	ProductName string `json:"product_name" binding:"required"`
	Quantity    int64  `json:"quantity" binding:"required,gt=0"`
}

type customerRequest struct {
	Name    string  `json:"name" binding:"required"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" binding:"omitempty,email"`
}

type placeOrderRequest struct {
	CustomerID *string            `json:"customer_id" binding:"omitempty,uuid"`
	Customer   *customerRequest   `json:"customer"`
	Details    []orderLineRequest `json:"details" binding:"required,min=1,dive"`
}

type updateOrderRequest struct {
	CustomerID *string            `json:"customer_id" binding:"omitempty,uuid"`
	Status     string             `json:"status" binding:"omitempty,oneof=PENDING COMPLETED CANCELLED"`
	Details    []orderLineRequest `json:"details" binding:"required,min=1,dive"`
}

// duplicateLines rejects two lines referencing the same product before any
// business logic runs.
func duplicateLines(details []orderLineRequest) []apperrors.LineError {
	var lineErrs []apperrors.LineError
	seen := map[string]bool{}
	for i, d := range details {
		if seen[d.ProductID] {
			lineErrs = append(lineErrs, apperrors.LineError{
				Index: i, Field: "product_id",
				Message: "Duplicate product in order: " + d.ProductName,
			})
		}
		seen[d.ProductID] = true
	}
	return lineErrs
}

func toLineInputs(details []orderLineRequest) []dto.OrderLineInput {
	lines := make([]dto.OrderLineInput, len(details))
	for i, d := range details {
		lines[i] = dto.OrderLineInput{
			ProductID:   d.ProductID,
			ProductName: d.ProductName,
			Quantity:    d.Quantity,
		}
	}
	return lines
}

func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	actor := auth.GetActor(c)
	if actor.UserID == "" {
		response.ErrorWithStatus(c, http.StatusUnauthorized, "missing identity")
		return
	}

	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	if lineErrs := duplicateLines(req.Details); len(lineErrs) > 0 {
		response.ErrorWithDetails(c, http.StatusBadRequest, "validation failed", lineErrs)
		return
	}

	input := &dto.PlaceOrderInput{
		SellerID:   actor.UserID,
		CustomerID: req.CustomerID,
		Details:    toLineInputs(req.Details),
	}
	if req.Customer != nil {
		input.Customer = &dto.CustomerInput{
			Name:    req.Customer.Name,
			Address: req.Customer.Address,
			Phone:   req.Customer.Phone,
			Email:   req.Customer.Email,
		}
	}

	o, err := h.uc.PlaceOrder(c.Request.Context(), input)
	if err != nil {
		h.respondOrderError(c, err, "failed to place order")
		return
	}

	response.Created(c, o)
}

func (h *OrderHandler) respondOrderError(c *gin.Context, err error, logMsg string) {
	var vErr *apperrors.ValidationError
	switch {
	case errors.As(err, &vErr):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "validation failed", vErr.Lines)
	case errors.Is(err, apperrors.ErrInsufficientStock):
		response.ErrorWithStatus(c, http.StatusUnprocessableEntity, "insufficient stock")
	case errors.Is(err, apperrors.ErrNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, "order not found")
	default:
		h.logger.Error(logMsg, zap.Error(err))
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
	}
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, err := h.uc.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondOrderError(c, err, "failed to get order")
		return
	}
	response.Success(c, o)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
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

	actor := auth.GetActor(c)
	sellerID := c.Query("seller_id")
	// Sellers only see their own orders; admins may filter freely.
	if !actor.IsAdmin() {
		sellerID = actor.UserID
	}

	filters := &dto.OrderFilters{
		SellerID: sellerID,
		Status:   c.Query("status"),
		Page:     page,
		PageSize: pageSize,
	}

	orders, total, err := h.uc.ListOrders(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list orders", zap.Error(err))
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}

	response.Success(c, gin.H{"items": orders, "total": total})
}

func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	actor := auth.GetActor(c)
	if actor.UserID == "" {
		response.ErrorWithStatus(c, http.StatusUnauthorized, "missing identity")
		return
	}

	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	if lineErrs := duplicateLines(req.Details); len(lineErrs) > 0 {
		response.ErrorWithDetails(c, http.StatusBadRequest, "validation failed", lineErrs)
		return
	}

	input := &dto.UpdateOrderInput{
		ID:         c.Param("id"),
		ActorID:    actor.UserID,
		CustomerID: req.CustomerID,
		Status:     model.OrderStatus(req.Status),
		Details:    toLineInputs(req.Details),
	}

	o, err := h.uc.UpdateOrder(c.Request.Context(), input)
	if err != nil {
		h.respondOrderError(c, err, "failed to update order")
		return
	}

	response.Success(c, o)
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	actor := auth.GetActor(c)
	if actor.UserID == "" {
		response.ErrorWithStatus(c, http.StatusUnauthorized, "missing identity")
		return
	}
	if !actor.IsAdmin() {
		response.ErrorWithStatus(c, http.StatusForbidden, "order deletion requires admin role")
		return
	}

	if err := h.uc.DeleteOrder(c.Request.Context(), c.Param("id"), actor.UserID); err != nil {
		h.respondOrderError(c, err, "failed to delete order")
		return
	}

	response.Success(c, nil)
}
