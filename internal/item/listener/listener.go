package listener

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/washlane/inventory-service/internal/item"
	"github.com/washlane/inventory-service/internal/item/dto"
	"github.com/washlane/inventory-service/internal/model"
	"github.com/washlane/inventory-service/pkg/broker"
	"github.com/washlane/inventory-service/pkg/logger"
)

// ConsumptionListener turns order-fulfillment events into "out" transactions
// so the usage-rate estimator sees real consumption history.
type ConsumptionListener struct {
	consumer *broker.KafkaConsumer
	uc       item.UseCase
	logger   logger.ZapLogger
}

func NewConsumptionListener(consumer *broker.KafkaConsumer, uc item.UseCase, logger logger.ZapLogger) *ConsumptionListener {
	return &ConsumptionListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *ConsumptionListener) Start(ctx context.Context) {
	l.logger.Info("Starting consumption Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping consumption Kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
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

type OrderCompletedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID       string           `json:"id"`
	TenantID string           `json:"tenant_id"`
	Supplies []SupplyConsumed `json:"supplies"`
}

type SupplyConsumed struct {
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

func (l *ConsumptionListener) processMessage(ctx context.Context, value []byte) {
	var event OrderCompletedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "OrderCompleted" {
		return
	}
	if event.Payload.TenantID == "" {
		l.logger.Warn("Dropping order event without tenant id", zap.String("order_id", event.Payload.ID))
		return
	}

	l.logger.Info("Processing OrderCompleted event", zap.String("order_id", event.Payload.ID))

	for _, supply := range event.Payload.Supplies {
		input := &dto.AdjustStockInput{
			TenantID:        event.Payload.TenantID,
			ItemID:          supply.ItemID,
			TransactionType: model.TxTypeOut,
			Quantity:        supply.Quantity,
			Notes:           "Order fulfillment",
			ReferenceType:   "order",
			ReferenceID:     event.Payload.ID,
			CreatedBy:       "system",
		}

		_, err := l.uc.AdjustStock(ctx, input)
		if err != nil {
			// A missing or depleted item must not poison the rest of the
			// event; record and move on.
			if errors.Is(err, item.ErrNotFound) || errors.Is(err, item.ErrInsufficientStock) {
				l.logger.Warn("Skipping consumption for order item",
					zap.String("order_id", event.Payload.ID),
					zap.String("item_id", supply.ItemID),
					zap.Error(err),
				)
				continue
			}
			l.logger.Error("Failed to record consumption for order item",
				zap.String("order_id", event.Payload.ID),
				zap.String("item_id", supply.ItemID),
				zap.Error(err),
			)
		}
	}
}
