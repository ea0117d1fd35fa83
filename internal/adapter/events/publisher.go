package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/simaogato/tradesim-backend/internal/domain"
)

// TradeEvent is the message published for every executed trade.
// Amounts are decimal strings with two places.
type TradeEvent struct {
	TransactionID string    `json:"transaction_id"`
	AccountID     string    `json:"account_id"`
	Symbol        string    `json:"symbol"`
	AssetName     string    `json:"asset_name,omitempty"`
	Side          string    `json:"side"`
	Quantity      int64     `json:"quantity"`
	PricePerUnit  string    `json:"price_per_unit"`
	TotalAmount   string    `json:"total_amount"`
	ExecutedAt    time.Time `json:"executed_at"`
}

// NewTradeEvent builds the event for an executed transaction
func NewTradeEvent(tx *domain.Transaction) TradeEvent {
	return TradeEvent{
		TransactionID: tx.ID.String(),
		AccountID:     tx.AccountID.String(),
		Symbol:        tx.Symbol,
		AssetName:     tx.AssetName,
		Side:          string(tx.Side),
		Quantity:      tx.Quantity,
		PricePerUnit:  tx.PricePerUnit.StringFixed(domain.MoneyPlaces),
		TotalAmount:   tx.TotalAmount().StringFixed(domain.MoneyPlaces),
		ExecutedAt:    tx.Timestamp,
	}
}

// messageWriter is the part of *kafka.Writer the publisher uses
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes trade events keyed by account, so one account's
// trades stay ordered within a partition
type KafkaPublisher struct {
	w messageWriter
}

// NewKafkaPublisher constructs a publisher over a kafka-go writer
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}

	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      brokers,
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		Dialer:       dialer,
		BatchTimeout: 200 * time.Millisecond,
		RequiredAcks: int(kafka.RequireOne),
	})

	return &KafkaPublisher{w: w}
}

// PublishTrade implements domain.TradePublisher
func (p *KafkaPublisher) PublishTrade(ctx context.Context, tx *domain.Transaction) error {
	payload, err := json.Marshal(NewTradeEvent(tx))
	if err != nil {
		return fmt.Errorf("failed to encode trade event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(tx.AccountID.String()),
		Value: payload,
		Time:  tx.Timestamp,
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish trade event: %w", err)
	}
	return nil
}

// Close flushes pending messages and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// NopPublisher discards events; it is used when no brokers are configured
type NopPublisher struct{}

// PublishTrade implements domain.TradePublisher
func (NopPublisher) PublishTrade(context.Context, *domain.Transaction) error { return nil }

// Close implements io.Closer
func (NopPublisher) Close() error { return nil }
