package mq

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restopos/internal/logger"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// confirmation is the broker verdict on one published message.
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

// channel is the subset of *amqp.Channel used by Client.
type channel interface {
	publish(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error)
	Close() error
}

type amqpChannel struct {
	*amqp.Channel
}

func (c amqpChannel) publish(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error) {
	dc, err := c.PublishWithDeferredConfirmWithContext(ctx, exchange, key, false, false, msg)
	if err != nil || dc == nil {
		return nil, err
	}
	return dc, nil
}

// Client publishes persistent JSON messages to a topic exchange and waits for
// the broker confirm of each one. Confirms are tracked per message.
type Client struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
}

func Dial(url, exchange string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("enable publisher confirms: %w", err)
	}

	return &Client{conn: conn, ch: amqpChannel{ch}, exchange: exchange}, nil
}

func (c *Client) Ping() error {
	if c.conn == nil || c.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

func (c *Client) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := encode(routingKey, payload)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	msg := amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    time.Now().UTC(),
		Body:         body,
		MessageId:    uuid.NewString(),
		Headers: amqp.Table{
			"x-source":   "restopos",
			"request_id": logger.RequestIDFrom(ctx),
		},
	}

	conf, err := c.ch.publish(ctx, c.exchange, routingKey, msg)
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	if conf == nil {
		return nil
	}

	ack, err := conf.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("publish %s: wait for confirm: %w", routingKey, err)
	}
	if !ack {
		return fmt.Errorf("publish %s: broker nack", routingKey)
	}

	logger.FromCtx(ctx).Debug("event published",
		zap.String("exchange", c.exchange),
		zap.String("routing_key", routingKey),
		zap.String("message_id", msg.MessageId),
	)
	return nil
}

func (c *Client) Close() error {
	var errs []error
	if c.ch != nil {
		errs = append(errs, c.ch.Close())
	}
	if c.conn != nil {
		errs = append(errs, c.conn.Close())
	}
	return errors.Join(errs...)
}
