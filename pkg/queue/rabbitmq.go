package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stackvault/pkg/config"
	"stackvault/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange     = "marketplace_events"
	StatsQueueName     = "marketplace_stats"
	DeadLetterExchange = "marketplace_events.dlx"
	DeadLetterQueue    = "marketplace_stats.dead"
	statsBindingKey    = "#"

	retryHeader = "x-retry-count"
)

// RetryPolicy bounds redelivery of events whose handler failed. A failed
// event is republished after Delay(attempt) and dead-lettered once
// MaxAttempts deliveries have failed.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 5,
	BaseDelay:   time.Second,
	MaxDelay:    30 * time.Second,
}

// Delay doubles BaseDelay for every attempt after the first, capped at MaxDelay.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	delay := p.BaseDelay
	for i := 1; i < attempt && delay < p.MaxDelay; i++ {
		delay *= 2
	}
	if delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	return delay
}

type amqpPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Message is the envelope published for every domain event.
type Message struct {
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurredAt"`
}

type Client struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	publisher amqpPublisher
	retry     RetryPolicy
	logger    *logger.Logger
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.RabbitMQURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		EventsExchange, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	if err := declareDeadLetter(channel); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	_, err = channel.QueueDeclare(
		StatsQueueName, // name
		true,           // durable
		false,          // delete when unused
		false,          // exclusive
		false,          // no-wait
		amqp.Table{"x-dead-letter-exchange": DeadLetterExchange},
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := channel.QueueBind(StatsQueueName, statsBindingKey, EventsExchange, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	return &Client{
		conn:      conn,
		channel:   channel,
		publisher: channel,
		retry:     DefaultRetryPolicy,
		logger:    log,
	}, nil
}

// declareDeadLetter sets up the exchange and queue that receive events
// dropped after exhausting their retries.
func declareDeadLetter(channel *amqp.Channel) error {
	if err := channel.ExchangeDeclare(DeadLetterExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare dead-letter exchange: %w", err)
	}
	if _, err := channel.QueueDeclare(DeadLetterQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare dead-letter queue: %w", err)
	}
	if err := channel.QueueBind(DeadLetterQueue, "", DeadLetterExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind dead-letter queue: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// PublishEvent wraps payload in a Message and routes it by event type.
func (c *Client) PublishEvent(ctx context.Context, eventType string, payload interface{}) error {
	body, err := encodeMessage(eventType, payload, time.Now())
	if err != nil {
		return err
	}

	err = c.publisher.PublishWithContext(ctx,
		EventsExchange, // exchange
		eventType,      // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish event=%s: %v", eventType, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

// ConsumeEvents delivers stats-queue messages to handler until ctx is done.
// Malformed messages are dead-lettered. Handler failures are retried with
// backoff per the client's RetryPolicy.
func (c *Client) ConsumeEvents(ctx context.Context, handler func(ctx context.Context, msg Message) error) error {
	msgs, err := c.channel.Consume(
		StatsQueueName, // queue
		"",             // consumer
		false,          // auto-ack
		false,          // exclusive
		false,          // no-local
		false,          // no-wait
		nil,            // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from queue: %s", StatsQueueName)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}

			var msg Message
			if err := json.Unmarshal(delivery.Body, &msg); err != nil {
				c.logger.Error("[RABBITMQ] Failed to unmarshal event: %v, body=%s", err, string(delivery.Body))
				delivery.Nack(false, false)
				continue
			}

			if err := handler(ctx, msg); err != nil {
				c.redeliver(ctx, delivery, msg.Type, err)
				continue
			}

			delivery.Ack(false)
		}
	}
}

// redeliver republishes a failed delivery to the stats queue after a backoff
// with its attempt count in the retry header, then acks the original. The last
// allowed attempt is nacked without requeue so the broker dead-letters it.
func (c *Client) redeliver(ctx context.Context, delivery amqp.Delivery, eventType string, cause error) {
	attempt := retryCount(delivery.Headers) + 1
	if attempt >= c.retry.MaxAttempts {
		c.logger.Error("[RABBITMQ] Dead-lettering event=%s after %d attempts: %v", eventType, attempt, cause)
		delivery.Nack(false, false)
		return
	}

	delay := c.retry.Delay(attempt)
	c.logger.Warn("[RABBITMQ] Handler failed for event=%s (attempt %d), retrying in %s: %v", eventType, attempt, delay, cause)

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		delivery.Nack(false, true)
		return
	case <-timer.C:
	}

	headers := amqp.Table{}
	for k, v := range delivery.Headers {
		headers[k] = v
	}
	headers[retryHeader] = int32(attempt)

	err := c.publisher.PublishWithContext(ctx, "", StatsQueueName, false, false, amqp.Publishing{
		ContentType:  delivery.ContentType,
		Body:         delivery.Body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    delivery.Timestamp,
		Headers:      headers,
	})
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to republish event=%s: %v", eventType, err)
		delivery.Nack(false, true)
		return
	}
	delivery.Ack(false)
}

func retryCount(headers amqp.Table) int {
	switch v := headers[retryHeader].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func encodeMessage(eventType string, payload interface{}, at time.Time) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	body, err := json.Marshal(Message{Type: eventType, Payload: raw, OccurredAt: at})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}
	return body, nil
}
