package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellora/pos-service/internal/apperrors"
	custdto "github.com/sellora/pos-service/internal/customer/dto"
	"github.com/sellora/pos-service/internal/model"
	"github.com/sellora/pos-service/internal/order"
	"github.com/sellora/pos-service/internal/order/dto"
	proddto "github.com/sellora/pos-service/internal/product/dto"
	stockdto "github.com/sellora/pos-service/internal/stock/dto"
	"github.com/sellora/pos-service/pkg/logger"
)

type fixture struct {
	uc        order.UseCase
	orders    *mockOrderRepository
	stocks    *mockStockRepository
	products  *mockProductRepository
	customers *mockCustomerRepository
	publisher *mockPublisher
}

func setup(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		orders:    &mockOrderRepository{orders: map[string]*model.Order{}, details: map[string][]model.OrderDetail{}},
		stocks:    &mockStockRepository{stocks: map[string]*model.Stock{}},
		products:  &mockProductRepository{products: map[string]model.Product{}},
		customers: &mockCustomerRepository{customers: map[string]*model.Customer{}},
		publisher: &mockPublisher{published: make(chan []byte, 8)},
	}
	log := logger.NewZapLogger(&logger.ZapLoggerConfig{IsDevelopment: true, Encoding: "console", Level: "error"})
	f.uc = NewOrderUseCase(f.orders, f.stocks, f.products, f.customers, f.publisher, log)
	return f
}

func (f *fixture) seedProduct(id, name string, price float64) {
	f.products.products[id] = model.Product{
		BaseModel:      model.BaseModel{ID: id},
		Name:           name,
		Price:          decimal.NewFromFloat(price),
		CommissionRate: decimal.NewFromFloat(0.1),
	}
}

func (f *fixture) seedCustomer(id, name string) {
	f.customers.customers[id] = &model.Customer{
		BaseModel: model.BaseModel{ID: id},
		Name:      name,
	}
}

func (f *fixture) seedStock(productID, sellerID string, qty int64) {
	f.stocks.stocks[productID+"/"+sellerID] = &model.Stock{
		BaseModel: model.BaseModel{ID: "stock-" + productID},
		ProductID: productID,
		SellerID:  sellerID,
		Quantity:  qty,
	}
}

func TestPlaceOrder(t *testing.T) {
	customerID := "cust-1"

	t.Run("Success with two lines", func(t *testing.T) {
		f := setup(t)
		f.seedCustomer(customerID, "Regular")
		f.seedProduct("p1", "Americano", 3.50)
		f.seedProduct("p2", "Croissant", 2.00)
		f.seedStock("p1", "s1", 10)
		f.seedStock("p2", "s1", 5)

		o, err := f.uc.PlaceOrder(context.Background(), &dto.PlaceOrderInput{
			SellerID:   "s1",
			CustomerID: &customerID,
			Details: []dto.OrderLineInput{
				{ProductID: "p1", ProductName: "Americano", Quantity: 2},
				{ProductID: "p2", ProductName: "Croissant", Quantity: 3},
			},
		})

		require.NoError(t, err)
		require.NotNil(t, o)
		assert.Equal(t, model.OrderStatusCompleted, o.Status)
		assert.True(t, o.TotalAmount.Equal(decimal.NewFromFloat(13.00)), "total was %s", o.TotalAmount)
		assert.True(t, o.SalesCommission.Equal(decimal.NewFromFloat(1.30)), "commission was %s", o.SalesCommission)
		require.Len(t, o.Details, 2)

		// One REMOVE audit record per line, frozen unit prices.
		saved := f.orders.orders[o.ID]
		require.NotNil(t, saved)
		require.Len(t, f.orders.histories, 2)
		assert.Equal(t, int64(-2), f.orders.histories[0].Delta)
		assert.Equal(t, model.StockActionRemove, f.orders.histories[0].Action)
		assert.Equal(t, "s1", f.orders.histories[0].AdminID)
		assert.True(t, o.Details[0].UnitPrice.Equal(decimal.NewFromFloat(3.50)))

		select {
		case data := <-f.publisher.published:
			var event map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &event))
			assert.Equal(t, "OrderCreated", event["event_type"])
		case <-time.After(time.Second):
			t.Fatal("expected OrderCreated event")
		}
	})

	t.Run("Collects every line error before writing", func(t *testing.T) {
		f := setup(t)
		f.seedCustomer(customerID, "Regular")
		f.seedProduct("p1", "Americano", 3.50)
		f.seedProduct("p2", "Croissant", 2.00)
		f.seedStock("p1", "s1", 1)
		// p2 has no stock row, p3 does not exist at all.

		_, err := f.uc.PlaceOrder(context.Background(), &dto.PlaceOrderInput{
			SellerID:   "s1",
			CustomerID: &customerID,
			Details: []dto.OrderLineInput{
				{ProductID: "p1", ProductName: "Americano", Quantity: 5},
				{ProductID: "p2", ProductName: "Croissant", Quantity: 1},
				{ProductID: "p3", ProductName: "Bagel", Quantity: 1},
			},
		})

		require.Error(t, err)
		var vErr *apperrors.ValidationError
		require.True(t, errors.As(err, &vErr))
		require.Len(t, vErr.Lines, 3)
		assert.Equal(t, 0, vErr.Lines[0].Index)
		assert.Contains(t, vErr.Lines[0].Message, "Insufficient stock for product: Americano")
		assert.Contains(t, vErr.Lines[1].Message, "Stock not found for product: Croissant")
		assert.Contains(t, vErr.Lines[2].Message, "Product not found: Bagel")

		// Nothing written.
		assert.Empty(t, f.orders.orders)
		assert.Empty(t, f.orders.histories)
	})

	t.Run("Only the short line fails validation", func(t *testing.T) {
		f := setup(t)
		f.seedCustomer(customerID, "Regular")
		f.seedProduct("p1", "Americano", 3.50)
		f.seedProduct("p2", "Croissant", 2.00)
		f.seedStock("p1", "s1", 10)
		f.seedStock("p2", "s1", 1)

		_, err := f.uc.PlaceOrder(context.Background(), &dto.PlaceOrderInput{
			SellerID:   "s1",
			CustomerID: &customerID,
			Details: []dto.OrderLineInput{
				{ProductID: "p1", ProductName: "Americano", Quantity: 2},
				{ProductID: "p2", ProductName: "Croissant", Quantity: 4},
			},
		})

		var vErr *apperrors.ValidationError
		require.True(t, errors.As(err, &vErr))
		require.Len(t, vErr.Lines, 1)
		assert.Equal(t, 1, vErr.Lines[0].Index)
		assert.Empty(t, f.orders.orders)
	})

	t.Run("Creates ad hoc customer inside the order write", func(t *testing.T) {
		f := setup(t)
		f.seedProduct("p1", "Americano", 3.50)
		f.seedStock("p1", "s1", 10)

		o, err := f.uc.PlaceOrder(context.Background(), &dto.PlaceOrderInput{
			SellerID: "s1",
			Customer: &dto.CustomerInput{Name: "Walk-in"},
			Details: []dto.OrderLineInput{
				{ProductID: "p1", ProductName: "Americano", Quantity: 1},
			},
		})

		require.NoError(t, err)
		require.NotNil(t, o.CustomerID)
		require.Len(t, f.orders.createdCustomers, 1)
		assert.Equal(t, "Walk-in", f.orders.createdCustomers[0].Name)
		assert.Equal(t, *o.CustomerID, f.orders.createdCustomers[0].ID)
	})

	t.Run("Rejects unknown customer id", func(t *testing.T) {
		f := setup(t)
		f.seedProduct("p1", "Americano", 3.50)
		f.seedStock("p1", "s1", 10)

		unknown := "cust-missing"
		_, err := f.uc.PlaceOrder(context.Background(), &dto.PlaceOrderInput{
			SellerID:   "s1",
			CustomerID: &unknown,
			Details: []dto.OrderLineInput{
				{ProductID: "p1", ProductName: "Americano", Quantity: 1},
			},
		})

		var vErr *apperrors.ValidationError
		require.True(t, errors.As(err, &vErr))
		require.Len(t, vErr.Lines, 1)
		assert.Equal(t, "customer_id", vErr.Lines[0].Field)
		assert.Empty(t, f.orders.orders)
	})

	t.Run("Failed write leaves no customer behind", func(t *testing.T) {
		f := setup(t)
		f.seedProduct("p1", "Americano", 3.50)
		f.seedStock("p1", "s1", 10)
		f.orders.createErr = errors.Wrap(apperrors.ErrInsufficientStock, "product p1")

		_, err := f.uc.PlaceOrder(context.Background(), &dto.PlaceOrderInput{
			SellerID: "s1",
			Customer: &dto.CustomerInput{Name: "Walk-in"},
			Details: []dto.OrderLineInput{
				{ProductID: "p1", ProductName: "Americano", Quantity: 1},
			},
		})

		assert.True(t, errors.Is(err, apperrors.ErrInsufficientStock))
		assert.Empty(t, f.orders.createdCustomers)
		assert.Empty(t, f.customers.customers)
	})
}

func TestUpdateOrder(t *testing.T) {
	t.Run("Validates against availability after restore", func(t *testing.T) {
		f := setup(t)
		f.seedProduct("p1", "Americano", 3.50)
		f.seedStock("p1", "s1", 0) // everything on hand is already in the order

		existing := &model.Order{
			BaseModel: model.BaseModel{ID: "o1"},
			SellerID:  "s1",
			Status:    model.OrderStatusCompleted,
		}
		f.orders.orders["o1"] = existing
		f.orders.details["o1"] = []model.OrderDetail{
			{ID: "d1", OrderID: "o1", ProductID: "p1", Quantity: 3, UnitPrice: decimal.NewFromFloat(3.50)},
		}

		// 0 available + 3 restored covers the new quantity of 2.
		o, err := f.uc.UpdateOrder(context.Background(), &dto.UpdateOrderInput{
			ID:      "o1",
			ActorID: "s1",
			Details: []dto.OrderLineInput{
				{ProductID: "p1", ProductName: "Americano", Quantity: 2},
			},
		})

		require.NoError(t, err)
		require.Len(t, o.Details, 1)
		assert.Equal(t, int64(2), o.Details[0].Quantity)

		// One ADD restore entry followed by one REMOVE for the new line.
		require.Len(t, f.orders.histories, 2)
		assert.Equal(t, model.StockActionAdd, f.orders.histories[0].Action)
		assert.Equal(t, int64(3), f.orders.histories[0].Delta)
		assert.Equal(t, model.StockActionRemove, f.orders.histories[1].Action)
		assert.Equal(t, int64(-2), f.orders.histories[1].Delta)
	})

	t.Run("Rejects new quantity beyond restored availability", func(t *testing.T) {
		f := setup(t)
		f.seedProduct("p1", "Americano", 3.50)
		f.seedStock("p1", "s1", 1)

		f.orders.orders["o1"] = &model.Order{
			BaseModel: model.BaseModel{ID: "o1"},
			SellerID:  "s1",
			Status:    model.OrderStatusCompleted,
		}
		f.orders.details["o1"] = []model.OrderDetail{
			{ID: "d1", OrderID: "o1", ProductID: "p1", Quantity: 2, UnitPrice: decimal.NewFromFloat(3.50)},
		}

		// 1 available + 2 restored = 3 < 5.
		_, err := f.uc.UpdateOrder(context.Background(), &dto.UpdateOrderInput{
			ID:      "o1",
			ActorID: "s1",
			Details: []dto.OrderLineInput{
				{ProductID: "p1", ProductName: "Americano", Quantity: 5},
			},
		})

		var vErr *apperrors.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Empty(t, f.orders.histories)
	})

	t.Run("Unknown order", func(t *testing.T) {
		f := setup(t)
		_, err := f.uc.UpdateOrder(context.Background(), &dto.UpdateOrderInput{ID: "missing", ActorID: "s1"})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestDeleteOrder(t *testing.T) {
	f := setup(t)
	f.seedProduct("p1", "Americano", 3.50)
	f.seedStock("p1", "s1", 0)

	f.orders.orders["o1"] = &model.Order{
		BaseModel: model.BaseModel{ID: "o1"},
		SellerID:  "s1",
		Status:    model.OrderStatusCompleted,
	}
	f.orders.details["o1"] = []model.OrderDetail{
		{ID: "d1", OrderID: "o1", ProductID: "p1", Quantity: 4, UnitPrice: decimal.NewFromFloat(3.50)},
	}

	err := f.uc.DeleteOrder(context.Background(), "o1", "admin-1")

	require.NoError(t, err)
	assert.NotContains(t, f.orders.orders, "o1")
	require.Len(t, f.orders.histories, 1)
	assert.Equal(t, model.StockActionAdd, f.orders.histories[0].Action)
	assert.Equal(t, int64(4), f.orders.histories[0].Delta)
	assert.Equal(t, "admin-1", f.orders.histories[0].AdminID)
}

type mockOrderRepository struct {
	mu               sync.Mutex
	orders           map[string]*model.Order
	details          map[string][]model.OrderDetail
	histories        []model.StockHistory
	createdCustomers []*model.Customer
	createErr        error
}

func (m *mockOrderRepository) CreateWithDetails(_ context.Context, o *model.Order, cust *model.Customer, details []model.OrderDetail, histories []model.StockHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if cust != nil {
		clone := *cust
		m.createdCustomers = append(m.createdCustomers, &clone)
	}
	clone := *o
	m.orders[o.ID] = &clone
	m.details[o.ID] = details
	m.histories = append(m.histories, histories...)
	return nil
}

func (m *mockOrderRepository) FindByID(_ context.Context, id string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.orders[id]; ok {
		clone := *o
		return &clone, nil
	}
	return nil, nil
}

func (m *mockOrderRepository) FindDetails(_ context.Context, orderID string) ([]model.OrderDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.details[orderID], nil
}

func (m *mockOrderRepository) FindAll(_ context.Context, _ *dto.OrderFilters) ([]model.Order, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Order
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (m *mockOrderRepository) UpdateWithDetails(_ context.Context, o *model.Order, _, details []model.OrderDetail, histories []model.StockHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *o
	m.orders[o.ID] = &clone
	m.details[o.ID] = details
	m.histories = append(m.histories, histories...)
	return nil
}

func (m *mockOrderRepository) DeleteWithRestore(_ context.Context, o *model.Order, _ []model.OrderDetail, histories []model.StockHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.orders, o.ID)
	delete(m.details, o.ID)
	m.histories = append(m.histories, histories...)
	return nil
}

type mockStockRepository struct {
	stocks map[string]*model.Stock
}

func (m *mockStockRepository) GetByProduct(_ context.Context, productID, sellerID string) (*model.Stock, error) {
	if st, ok := m.stocks[productID+"/"+sellerID]; ok {
		clone := *st
		return &clone, nil
	}
	return nil, nil
}

func (m *mockStockRepository) BatchGetByProducts(_ context.Context, sellerID string, productIDs []string) ([]model.Stock, error) {
	var out []model.Stock
	seen := map[string]bool{}
	for _, pid := range productIDs {
		if seen[pid] {
			continue
		}
		seen[pid] = true
		if st, ok := m.stocks[pid+"/"+sellerID]; ok {
			out = append(out, *st)
		}
	}
	return out, nil
}

func (m *mockStockRepository) GetBySeller(_ context.Context, sellerID string) ([]model.Stock, error) {
	var out []model.Stock
	for _, st := range m.stocks {
		if st.SellerID == sellerID {
			out = append(out, *st)
		}
	}
	return out, nil
}

func (m *mockStockRepository) SaveWithHistory(_ context.Context, st *model.Stock, _ *model.StockHistory) error {
	clone := *st
	m.stocks[st.ProductID+"/"+st.SellerID] = &clone
	return nil
}

func (m *mockStockRepository) ListHistories(_ context.Context, _ *stockdto.HistoryFilters) ([]model.StockHistory, int, error) {
	return nil, 0, nil
}

type mockProductRepository struct {
	products map[string]model.Product
}

func (m *mockProductRepository) Create(_ context.Context, p *model.Product) error {
	m.products[p.ID] = *p
	return nil
}

func (m *mockProductRepository) FindByID(_ context.Context, id string) (*model.Product, error) {
	if p, ok := m.products[id]; ok {
		clone := p
		return &clone, nil
	}
	return nil, nil
}

func (m *mockProductRepository) FindByIDs(_ context.Context, ids []string) ([]model.Product, error) {
	var out []model.Product
	seen := map[string]bool{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := m.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProductRepository) FindAll(_ context.Context, _ *proddto.ProductFilters) ([]model.Product, int, error) {
	return nil, 0, nil
}

func (m *mockProductRepository) Update(_ context.Context, p *model.Product) error {
	m.products[p.ID] = *p
	return nil
}

func (m *mockProductRepository) Delete(_ context.Context, id string) error {
	delete(m.products, id)
	return nil
}

type mockCustomerRepository struct {
	customers map[string]*model.Customer
}

func (m *mockCustomerRepository) Create(_ context.Context, c *model.Customer) error {
	clone := *c
	m.customers[c.ID] = &clone
	return nil
}

func (m *mockCustomerRepository) FindByID(_ context.Context, id string) (*model.Customer, error) {
	if c, ok := m.customers[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, nil
}

func (m *mockCustomerRepository) FindAll(_ context.Context, _ *custdto.CustomerFilters) ([]model.Customer, int, error) {
	return nil, 0, nil
}

func (m *mockCustomerRepository) Update(_ context.Context, c *model.Customer) error {
	clone := *c
	m.customers[c.ID] = &clone
	return nil
}

func (m *mockCustomerRepository) Delete(_ context.Context, id string) error {
	delete(m.customers, id)
	return nil
}

type mockPublisher struct {
	published chan []byte
}

func (m *mockPublisher) Publish(_ context.Context, _, value []byte) error {
	m.published <- value
	return nil
}
