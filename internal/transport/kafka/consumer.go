package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/IBM/sarama"
	validatorv10 "github.com/go-playground/validator/v10"

	"service-courier-dispatch/internal/apperr"
	"service-courier-dispatch/internal/logx"
	"service-courier-dispatch/internal/service/dispatch"
	"service-courier-dispatch/internal/validation"
)

// HandleFunc processes a single delivery request from Kafka.
type HandleFunc func(context.Context, dispatch.NewDelivery) error

var newConsumerGroup = sarama.NewConsumerGroup

// Consumer wraps a Sarama consumer group and feeds delivery requests to a handler.
type Consumer struct {
	group    sarama.ConsumerGroup
	topic    string
	handler  HandleFunc
	validate *validatorv10.Validate
	logger   logx.Logger
	backoff  time.Duration
}

// NewConsumer creates a new Kafka consumer. It returns (nil, nil) when Kafka
// is not configured.
func NewConsumer(logger logx.Logger, brokers []string, groupID, topic string, h HandleFunc) (*Consumer, error) {
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" || strings.TrimSpace(groupID) == "" {
		return nil, nil
	}
	if logger == nil {
		logger = logx.Nop()
	}

	cfg := sarama.NewConfig()
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	group, err := newConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		group:    group,
		topic:    topic,
		handler:  h,
		validate: validation.New(),
		logger:   logger.With(logx.String("component", "kafka_consumer"), logx.String("topic", topic)),
		backoff:  time.Second,
	}, nil
}

// Run consumes until ctx is done.
func (c *Consumer) Run(ctx context.Context) error {
	if c == nil {
		return nil
	}

	h := &groupHandler{c: c}

	for {
		if err := c.group.Consume(ctx, []string{c.topic}, h); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("kafka consume error", logx.Event("kafka_consume_error"), logx.Err(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff):
			}
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Close leaves the consumer group.
func (c *Consumer) Close() error {
	if c == nil {
		return nil
	}
	return c.group.Close()
}

type groupHandler struct{ c *Consumer }

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim marks poison messages and moves on. A failing handler stops
// the claim without marking, so the message is redelivered.
func (h *groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log := h.c.logger
	for msg := range claim.Messages() {
		var dto DeliveryEventDTO
		if err := json.Unmarshal(msg.Value, &dto); err != nil {
			log.Warn("kafka bad json", logx.Event("kafka_bad_json"), logx.Int64("offset", msg.Offset), logx.Err(err))
			sess.MarkMessage(msg, "")
			continue
		}
		if err := h.c.validate.Struct(dto); err != nil {
			log.Warn("kafka invalid delivery event",
				logx.Event("kafka_invalid_event"),
				logx.String("delivery_id", dto.DeliveryID),
				logx.Any("fields", validation.Fields(err)),
			)
			sess.MarkMessage(msg, "")
			continue
		}

		err := h.c.handler(sess.Context(), ToDomain(dto))
		switch {
		case err == nil:
		case IsPermanent(err):
			log.Warn("kafka handle failed, skipping message",
				logx.Event("kafka_event_skipped"),
				logx.String("delivery_id", dto.DeliveryID),
				logx.Err(err),
			)
		default:
			log.Error("kafka handle failed, will retry",
				logx.Event("kafka_event_retry"),
				logx.String("delivery_id", dto.DeliveryID),
				logx.Err(err),
			)
			return err
		}

		sess.MarkMessage(msg, "")
	}
	return nil
}

// IsPermanent reports whether retrying err cannot help: the handler said
// so explicitly, or the input itself was rejected.
func IsPermanent(err error) bool {
	var pe PermanentError
	return errors.As(err, &pe) || errors.Is(err, apperr.ErrInvalid)
}

// PermanentError marks a delivery event that redelivery cannot fix.
type PermanentError struct {
	Err error
}

func (e PermanentError) Error() string {
	if e.Err == nil {
		return "kafka: permanent failure"
	}
	return "kafka: permanent failure: " + e.Err.Error()
}

func (e PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so the consumer marks the message instead of retrying.
func Permanent(err error) error {
	return PermanentError{Err: err}
}
