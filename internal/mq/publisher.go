package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"restopos/internal/logger"

	"go.uber.org/zap"
)

// Publisher delivers domain events to the message broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close() error
}

// Event is the envelope written for every published message.
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

func encode(routingKey string, payload any) ([]byte, error) {
	body, err := json.Marshal(Event{
		Type:       routingKey,
		OccurredAt: time.Now().UTC(),
		Data:       payload,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", routingKey, err)
	}
	return body, nil
}

// NopPublisher drops events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	logger.FromCtx(ctx).Debug("event publishing disabled, dropping event",
		zap.String("routing_key", routingKey),
	)
	return nil
}

func (NopPublisher) Close() error { return nil }
