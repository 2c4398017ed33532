package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"homeward_notifications/internal/config"
	"homeward_notifications/internal/domain"
	"homeward_notifications/internal/metrics"
	"homeward_notifications/internal/queue"
	"homeward_notifications/internal/service/notify"
)

type noopConsumer struct{}

func (n *noopConsumer) Start(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

// Consumer feeds marketplace domain events to the notification
// factory. Malformed events are acked away so a poison message never
// wedges the queue; only a total store outage requeues.
type Consumer struct {
	url     string
	factory *notify.Factory
	logger  *zap.Logger
	metrics *metrics.Metrics

	exchange    string
	queue       string
	routingKey  string
	consumerTag string
}

func NewConsumer(cfg *config.Config, factory *notify.Factory, m *metrics.Metrics, logger *zap.Logger) queue.Consumer {
	if cfg.RabbitMQURL == "" {
		return &noopConsumer{}
	}
	return &Consumer{
		url:         cfg.RabbitMQURL,
		factory:     factory,
		logger:      logger,
		metrics:     m,
		exchange:    cfg.RabbitExchange,
		queue:       cfg.RabbitQueue,
		routingKey:  cfg.RabbitRoutingKey,
		consumerTag: cfg.RabbitConsumerTag,
	}
}

func (r *Consumer) Start(ctx context.Context) error {
	ctx, span := otel.Tracer("rabbitmq").Start(ctx, "rabbitmq.consume_loop")
	span.SetAttributes(
		attribute.String("messaging.system", "rabbitmq"),
		attribute.String("messaging.destination", r.exchange),
		attribute.String("messaging.destination_kind", "exchange"),
		attribute.String("messaging.rabbitmq.routing_key", r.routingKey),
	)
	defer span.End()

	conn, err := amqp.Dial(r.url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dial failed")
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "channel failed")
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "qos failed")
		return fmt.Errorf("rabbitmq qos: %w", err)
	}

	if err := ch.ExchangeDeclare(
		r.exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "exchange declare failed")
		return fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	queueInfo, err := ch.QueueDeclare(
		r.queue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "queue declare failed")
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	if err := ch.QueueBind(
		queueInfo.Name,
		r.routingKey,
		r.exchange,
		false,
		nil,
	); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "queue bind failed")
		return fmt.Errorf("rabbitmq queue bind: %w", err)
	}

	deliveries, err := ch.Consume(
		queueInfo.Name,
		r.consumerTag,
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "consume failed")
		return fmt.Errorf("rabbitmq consume: %w", err)
	}

	r.logger.Info("RabbitMQ consumer started",
		zap.String("exchange", r.exchange),
		zap.String("queue", queueInfo.Name),
		zap.String("routing_key", r.routingKey),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-deliveries:
			if !ok {
				span.SetStatus(codes.Error, "deliveries closed")
				return errors.New("rabbitmq deliveries closed")
			}
			if err := r.handleMessage(ctx, msg); err != nil {
				span.RecordError(err)
				return err
			}
		}
	}
}

type eventPayload struct {
	EventID  string   `json:"event_id"`
	Entity   string   `json:"entity"`
	EntityID string   `json:"entity_id"`
	Action   string   `json:"action"`
	UserIDs  []string `json:"user_ids"`
}

func (r *Consumer) handleMessage(ctx context.Context, msg amqp.Delivery) error {
	ctx = otel.GetTextMapPropagator().Extract(ctx, amqpHeaderCarrier(msg.Headers))
	ctx, span := otel.Tracer("rabbitmq").Start(ctx, "rabbitmq.handle_message")
	span.SetAttributes(
		attribute.String("messaging.system", "rabbitmq"),
		attribute.String("messaging.destination", r.exchange),
		attribute.String("messaging.destination_kind", "exchange"),
		attribute.String("messaging.rabbitmq.routing_key", msg.RoutingKey),
	)
	defer span.End()

	var event eventPayload
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid json")
		r.logger.Error("rabbitmq invalid json", zap.Error(err))
		r.metrics.EventsConsumed.WithLabelValues("invalid").Inc()
		return msg.Ack(false)
	}
	if event.EntityID == "" || event.Action == "" || len(event.UserIDs) == 0 {
		span.SetStatus(codes.Error, "missing required fields")
		r.logger.Warn("rabbitmq event missing required fields",
			zap.String("entity", event.Entity),
			zap.String("entity_id", event.EntityID),
			zap.String("action", event.Action),
		)
		r.metrics.EventsConsumed.WithLabelValues("invalid").Inc()
		return msg.Ack(false)
	}
	if !domain.IsValidEntityKind(event.Entity) {
		span.SetStatus(codes.Error, "unknown entity kind")
		r.logger.Warn("rabbitmq unknown entity kind", zap.String("entity", event.Entity))
		r.metrics.EventsConsumed.WithLabelValues("invalid").Inc()
		return msg.Ack(false)
	}

	notifyCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	results := r.factory.Notify(notifyCtx, event.Entity, event.EntityID, event.Action, event.UserIDs)

	// Partial failure is tolerated; a requeue would duplicate the rows
	// that did land. Only when every recipient failed is the event
	// worth another attempt.
	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
		}
	}
	if len(results) > 0 && failed == len(results) {
		span.SetStatus(codes.Error, "all recipients failed")
		r.logger.Error("rabbitmq event fan-out failed for every recipient",
			zap.String("entity", event.Entity),
			zap.String("entity_id", event.EntityID),
			zap.String("action", event.Action),
			zap.Int("recipients", len(results)),
		)
		r.metrics.EventsConsumed.WithLabelValues("failed").Inc()
		if nackErr := msg.Nack(false, true); nackErr != nil {
			r.logger.Error("rabbitmq nack failed", zap.Error(nackErr))
		}
		return nil
	}

	r.metrics.EventsConsumed.WithLabelValues("processed").Inc()
	return msg.Ack(false)
}
