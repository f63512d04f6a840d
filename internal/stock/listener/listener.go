// Package listener applies stock deductions for sales recorded by external
// channels (online storefront, marketplace sync). Dashboard orders deduct
// stock synchronously in the order usecase and never pass through here.
package listener

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/sellora/pos-service/internal/model"
	"github.com/sellora/pos-service/internal/stock"
	"github.com/sellora/pos-service/internal/stock/dto"
	"github.com/sellora/pos-service/pkg/broker"
	"github.com/sellora/pos-service/pkg/logger"
)

type StockListener struct {
	consumer *broker.KafkaConsumer
	uc       stock.UseCase
	logger   logger.ZapLogger
}

func NewStockListener(consumer *broker.KafkaConsumer, uc stock.UseCase, logger logger.ZapLogger) *StockListener {
	return &StockListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *StockListener) Start(ctx context.Context) {
	l.logger.Info("Starting stock Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping stock Kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				// Don't log context canceled error as error
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type SaleRecordedEvent struct {
	EventID   string      `json:"event_id"`
	EventType string      `json:"event_type"`
	Payload   SalePayload `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

type SalePayload struct {
	SaleID     string            `json:"sale_id"`
	SellerID   string            `json:"seller_id"`
	PosID      string            `json:"pos_id"`
	RecordedBy string            `json:"recorded_by"`
	Items      []SaleItemPayload `json:"items"`
}

type SaleItemPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

func (l *StockListener) processMessage(ctx context.Context, value []byte) {
	var event SaleRecordedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "SaleRecorded" {
		return
	}

	l.logger.Info("Processing SaleRecorded event", zap.String("sale_id", event.Payload.SaleID))

	for _, item := range event.Payload.Items {
		input := &dto.ReplenishInput{
			AdminID:   event.Payload.RecordedBy,
			SellerID:  event.Payload.SellerID,
			ProductID: item.ProductID,
			PosID:     event.Payload.PosID,
			Action:    model.StockActionRemove,
			Quantity:  item.Quantity,
		}

		_, err := l.uc.Replenish(ctx, input)
		if err != nil {
			l.logger.Error("Failed to deduct stock for sale item",
				zap.String("sale_id", event.Payload.SaleID),
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
			// TODO: park failed deductions in a dead-letter topic
		}
	}
}
