package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellora/pos-service/internal/auth"
	"github.com/sellora/pos-service/internal/model"
	"github.com/sellora/pos-service/internal/order/dto"
	"github.com/sellora/pos-service/pkg/logger"
	"github.com/sellora/pos-service/pkg/response"
)

func setupRouter(t *testing.T) (*gin.Engine, *mockOrderUseCase) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	uc := &mockOrderUseCase{}
	log := logger.NewZapLogger(&logger.ZapLoggerConfig{IsDevelopment: true, Encoding: "console", Level: "error"})
	router := gin.New()
	NewOrderHandler(uc, log).RegisterRoutes(router)
	return router, uc
}

func postOrder(router *gin.Engine, sellerID string, body interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.HeaderUserID, sellerID)
	req.Header.Set(auth.HeaderRole, string(model.RoleSeller))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPlaceOrderDuplicateLines(t *testing.T) {
	router, uc := setupRouter(t)

	productID := uuid.New().String()
	body := gin.H{
		"details": []gin.H{
			{"product_id": productID, "product_name": "Americano", "quantity": 2},
			{"product_id": productID, "product_name": "Americano", "quantity": 1},
		},
	}

	w := postOrder(router, uuid.New().String(), body)

	// Rejected wholesale before any business logic runs.
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, uc.placeCalls)

	var resp response.Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	details, err := json.Marshal(resp.Errors)
	require.NoError(t, err)
	assert.Contains(t, string(details), "Duplicate product in order: Americano")
	assert.Contains(t, string(details), `"index":1`)
}

func TestPlaceOrderDistinctLines(t *testing.T) {
	router, uc := setupRouter(t)

	body := gin.H{
		"details": []gin.H{
			{"product_id": uuid.New().String(), "product_name": "Americano", "quantity": 2},
			{"product_id": uuid.New().String(), "product_name": "Croissant", "quantity": 1},
		},
	}

	w := postOrder(router, uuid.New().String(), body)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, uc.placeCalls)
}

func TestDuplicateLinesHelper(t *testing.T) {
	lines := []orderLineRequest{
		{ProductID: "p1", ProductName: "Americano", Quantity: 1},
		{ProductID: "p2", ProductName: "Croissant", Quantity: 1},
		{ProductID: "p1", ProductName: "Americano", Quantity: 3},
		{ProductID: "p1", ProductName: "Americano", Quantity: 2},
	}

	errs := duplicateLines(lines)

	require.Len(t, errs, 2)
	assert.Equal(t, 2, errs[0].Index)
	assert.Equal(t, 3, errs[1].Index)
	assert.Equal(t, "product_id", errs[0].Field)

	assert.Empty(t, duplicateLines(lines[:2]))
}

type mockOrderUseCase struct {
	placeCalls int
}

func (m *mockOrderUseCase) PlaceOrder(_ context.Context, input *dto.PlaceOrderInput) (*model.Order, error) {
	m.placeCalls++
	return &model.Order{
		BaseModel: model.BaseModel{ID: fmt.Sprintf("order-%d", m.placeCalls)},
		SellerID:  input.SellerID,
		Status:    model.OrderStatusCompleted,
	}, nil
}

func (m *mockOrderUseCase) GetOrder(_ context.Context, id string) (*model.Order, error) {
	return &model.Order{BaseModel: model.BaseModel{ID: id}}, nil
}

func (m *mockOrderUseCase) ListOrders(_ context.Context, _ *dto.OrderFilters) ([]model.Order, int, error) {
	return nil, 0, nil
}

func (m *mockOrderUseCase) UpdateOrder(_ context.Context, input *dto.UpdateOrderInput) (*model.Order, error) {
	return &model.Order{BaseModel: model.BaseModel{ID: input.ID}}, nil
}

func (m *mockOrderUseCase) DeleteOrder(_ context.Context, _, _ string) error {
	return nil
}
