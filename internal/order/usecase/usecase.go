package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sellora/pos-service/internal/apperrors"
	"github.com/sellora/pos-service/internal/customer"
	"github.com/sellora/pos-service/internal/model"
	"github.com/sellora/pos-service/internal/order"
	"github.com/sellora/pos-service/internal/order/dto"
	"github.com/sellora/pos-service/internal/product"
	"github.com/sellora/pos-service/internal/stock"
	"github.com/sellora/pos-service/pkg/logger"
)

type orderUseCase struct {
	repo         order.Repository
	stockRepo    stock.Repository
	productRepo  product.Repository
	customerRepo customer.Repository
	publisher    order.EventPublisher
	logger       logger.ZapLogger
}

func NewOrderUseCase(
	repo order.Repository,
	stockRepo stock.Repository,
	productRepo product.Repository,
	customerRepo customer.Repository,
	publisher order.EventPublisher,
	log logger.ZapLogger,
) order.UseCase {
	return &orderUseCase{
		repo:         repo,
		stockRepo:    stockRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		publisher:    publisher,
		logger:       log,
	}
}

func (uc *orderUseCase) PlaceOrder(ctx context.Context, input *dto.PlaceOrderInput) (*model.Order, error) {
	productIDs := make([]string, len(input.Details))
	for i, d := range input.Details {
		productIDs[i] = d.ProductID
	}

	productMap, stockMap, err := uc.loadProductsAndStocks(ctx, input.SellerID, productIDs)
	if err != nil {
		return nil, err
	}

	// Every line is checked before any write, so the caller gets the complete
	// list of problems in one round trip.
	var lineErrs []apperrors.LineError
	for i, d := range input.Details {
		if _, ok := productMap[d.ProductID]; !ok {
			lineErrs = append(lineErrs, apperrors.LineError{
				Index: i, Field: "product_id",
				Message: "Product not found: " + d.ProductName,
			})
			continue
		}
		st, ok := stockMap[d.ProductID]
		if !ok {
			lineErrs = append(lineErrs, apperrors.LineError{
				Index: i, Field: "quantity",
				Message: "Stock not found for product: " + d.ProductName,
			})
			continue
		}
		if st.Quantity < d.Quantity {
			lineErrs = append(lineErrs, apperrors.LineError{
				Index: i, Field: "quantity",
				Message: "Insufficient stock for product: " + d.ProductName,
			})
		}
	}
	if input.CustomerID != nil {
		cust, err := uc.customerRepo.FindByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, errors.Wrap(err, "load customer")
		}
		if cust == nil {
			lineErrs = append(lineErrs, apperrors.LineError{
				Index: -1, Field: "customer_id",
				Message: "Customer not found",
			})
		}
	}

	if len(lineErrs) > 0 {
		return nil, &apperrors.ValidationError{Lines: lineErrs}
	}

	now := time.Now()

	customerID := input.CustomerID
	// Ad hoc customers are written by the order transaction itself, so a
	// rejected order leaves no customer row behind.
	var newCustomer *model.Customer
	if customerID == nil && input.Customer != nil {
		newCustomer = &model.Customer{
			BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
			Name:      input.Customer.Name,
			Address:   input.Customer.Address,
			Phone:     input.Customer.Phone,
			Email:     input.Customer.Email,
		}
		customerID = &newCustomer.ID
	}

	o := &model.Order{
		BaseModel:  model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		CustomerID: customerID,
		SellerID:   input.SellerID,
		Status:     model.OrderStatusCompleted,
	}

	details, histories := uc.buildLines(o, input.SellerID, input.Details, productMap, stockMap, now)

	if err := uc.repo.CreateWithDetails(ctx, o, newCustomer, details, histories); err != nil {
		return nil, err
	}
	o.Details = details

	go uc.publishOrderCreated(context.Background(), o)

	return o, nil
}

// buildLines freezes unit prices, computes totals and commission, and
// prepares the audit records for each line's deduction. Mutates o's
// TotalAmount and SalesCommission.
func (uc *orderUseCase) buildLines(
	o *model.Order,
	sellerID string,
	lines []dto.OrderLineInput,
	productMap map[string]model.Product,
	stockMap map[string]model.Stock,
	now time.Time,
) ([]model.OrderDetail, []model.StockHistory) {
	total := decimal.Zero
	commission := decimal.Zero
	details := make([]model.OrderDetail, len(lines))
	histories := make([]model.StockHistory, len(lines))

	for i, d := range lines {
		p := productMap[d.ProductID]
		lineAmount := p.Price.Mul(decimal.NewFromInt(d.Quantity))
		total = total.Add(lineAmount)
		commission = commission.Add(lineAmount.Mul(p.CommissionRate))

		details[i] = model.OrderDetail{
			ID:        uuid.New().String(),
			OrderID:   o.ID,
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			UnitPrice: p.Price,
		}

		st := stockMap[d.ProductID]
		histories[i] = model.StockHistory{
			ID:        uuid.New().String(),
			StockID:   st.ID,
			Delta:     -d.Quantity,
			Action:    model.StockActionRemove,
			SellerID:  sellerID,
			AdminID:   sellerID, // the acting seller
			CreatedAt: now,
		}
	}

	o.TotalAmount = total
	o.SalesCommission = commission
	return details, histories
}

func (uc *orderUseCase) loadProductsAndStocks(ctx context.Context, sellerID string, productIDs []string) (map[string]model.Product, map[string]model.Stock, error) {
	products, err := uc.productRepo.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, nil, errors.Wrap(err, "load products")
	}
	productMap := make(map[string]model.Product, len(products))
	for _, p := range products {
		productMap[p.ID] = p
	}

	stocks, err := uc.stockRepo.BatchGetByProducts(ctx, sellerID, productIDs)
	if err != nil {
		return nil, nil, errors.Wrap(err, "load stocks")
	}
	stockMap := make(map[string]model.Stock, len(stocks))
	for _, st := range stocks {
		stockMap[st.ProductID] = st
	}

	return productMap, stockMap, nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperrors.ErrNotFound
	}

	details, err := uc.repo.FindDetails(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Details = details
	return o, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *orderUseCase) UpdateOrder(ctx context.Context, input *dto.UpdateOrderInput) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperrors.ErrNotFound
	}

	oldDetails, err := uc.repo.FindDetails(ctx, o.ID)
	if err != nil {
		return nil, err
	}

	oldQty := make(map[string]int64, len(oldDetails))
	for _, d := range oldDetails {
		oldQty[d.ProductID] += d.Quantity
	}

	productIDs := make([]string, 0, len(input.Details)+len(oldDetails))
	for _, d := range input.Details {
		productIDs = append(productIDs, d.ProductID)
	}
	for _, d := range oldDetails {
		productIDs = append(productIDs, d.ProductID)
	}

	productMap, stockMap, err := uc.loadProductsAndStocks(ctx, o.SellerID, productIDs)
	if err != nil {
		return nil, err
	}

	// Re-validate against what would be available once the previous lines are
	// returned to stock.
	var lineErrs []apperrors.LineError
	for i, d := range input.Details {
		if _, ok := productMap[d.ProductID]; !ok {
			lineErrs = append(lineErrs, apperrors.LineError{
				Index: i, Field: "product_id",
				Message: "Product not found: " + d.ProductName,
			})
			continue
		}
		st, ok := stockMap[d.ProductID]
		if !ok {
			lineErrs = append(lineErrs, apperrors.LineError{
				Index: i, Field: "quantity",
				Message: "Stock not found for product: " + d.ProductName,
			})
			continue
		}
		if st.Quantity+oldQty[d.ProductID] < d.Quantity {
			lineErrs = append(lineErrs, apperrors.LineError{
				Index: i, Field: "quantity",
				Message: "Insufficient stock for product: " + d.ProductName,
			})
		}
	}
	if len(lineErrs) > 0 {
		return nil, &apperrors.ValidationError{Lines: lineErrs}
	}

	now := time.Now()
	o.UpdatedAt = now
	if input.CustomerID != nil {
		o.CustomerID = input.CustomerID
	}
	if input.Status != "" {
		o.Status = input.Status
	}

	details, histories := uc.buildLines(o, o.SellerID, input.Details, productMap, stockMap, now)
	restoreHistories := uc.restoreHistories(oldDetails, stockMap, o.SellerID, input.ActorID, now)
	histories = append(restoreHistories, histories...)

	if err := uc.repo.UpdateWithDetails(ctx, o, oldDetails, details, histories); err != nil {
		return nil, err
	}
	o.Details = details
	return o, nil
}

func (uc *orderUseCase) DeleteOrder(ctx context.Context, id, actorID string) error {
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if o == nil {
		return apperrors.ErrNotFound
	}

	details, err := uc.repo.FindDetails(ctx, o.ID)
	if err != nil {
		return err
	}

	productIDs := make([]string, len(details))
	for i, d := range details {
		productIDs[i] = d.ProductID
	}
	stocks, err := uc.stockRepo.BatchGetByProducts(ctx, o.SellerID, productIDs)
	if err != nil {
		return errors.Wrap(err, "load stocks")
	}
	stockMap := make(map[string]model.Stock, len(stocks))
	for _, st := range stocks {
		stockMap[st.ProductID] = st
	}

	now := time.Now()
	histories := uc.restoreHistories(details, stockMap, o.SellerID, actorID, now)

	return uc.repo.DeleteWithRestore(ctx, o, details, histories)
}

// restoreHistories records the return of previously deducted quantities as
// ADD entries, so reversals are auditable like any other mutation.
func (uc *orderUseCase) restoreHistories(details []model.OrderDetail, stockMap map[string]model.Stock, sellerID, actorID string, now time.Time) []model.StockHistory {
	histories := make([]model.StockHistory, 0, len(details))
	for _, d := range details {
		st, ok := stockMap[d.ProductID]
		if !ok {
			// Stock rows are never deleted; a deducted line always has one.
			continue
		}
		histories = append(histories, model.StockHistory{
			ID:        uuid.New().String(),
			StockID:   st.ID,
			Delta:     d.Quantity,
			Action:    model.StockActionAdd,
			SellerID:  sellerID,
			AdminID:   actorID,
			CreatedAt: now,
		})
	}
	return histories
}

type orderCreatedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   orderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type orderPayload struct {
	ID          string             `json:"id"`
	SellerID    string             `json:"seller_id"`
	CustomerID  *string            `json:"customer_id"`
	TotalAmount string             `json:"total_amount"`
	Items       []orderItemPayload `json:"items"`
}

type orderItemPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

func (uc *orderUseCase) publishOrderCreated(ctx context.Context, o *model.Order) {
	items := make([]orderItemPayload, len(o.Details))
	for i, d := range o.Details {
		items[i] = orderItemPayload{
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice.String(),
		}
	}

	event := orderCreatedEvent{
		EventID:   uuid.New().String(),
		EventType: "OrderCreated",
		Payload: orderPayload{
			ID:          o.ID,
			SellerID:    o.SellerID,
			CustomerID:  o.CustomerID,
			TotalAmount: o.TotalAmount.String(),
			Items:       items,
		},
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		uc.logger.Error("failed to marshal OrderCreated event", zap.Error(err))
		return
	}

	if err := uc.publisher.Publish(ctx, []byte(o.ID), data); err != nil {
		uc.logger.Error("failed to publish OrderCreated event",
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
	}
}
