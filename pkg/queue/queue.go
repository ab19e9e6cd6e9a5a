package queue

import (
	"context"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"wispgate/pkg/config"
	"wispgate/pkg/logger"
)

var Module = fx.Provide(New)

// ErrDrop marks a message as permanently unprocessable: it is rejected
// without requeue. Any other handler error is treated as transient and the
// message is requeued for redelivery.
var ErrDrop = errors.New("queue: message permanently unprocessable")

const reconnectDelay = 5 * time.Second

type Handler func(ctx context.Context, body []byte) error

type Consumer interface {
	// Run consumes the configured queue until ctx is cancelled, reconnecting
	// after reconnectDelay on every connection or channel loss.
	Run(ctx context.Context, handle Handler)
}

type Params struct {
	fx.In

	Config config.IConfig
	Logger logger.Logger
}

type consumer struct {
	url    string
	queue  string
	logger logger.Logger
}

func New(p Params) Consumer {
	return &consumer{
		url:    p.Config.GetString("queue.url"),
		queue:  p.Config.GetString("queue.name"),
		logger: p.Logger,
	}
}

func (c *consumer) Run(ctx context.Context, handle Handler) {
	for {
		if err := c.consume(ctx, handle); err != nil {
			c.logger.Warn(ctx, "queue: connection lost, reconnecting",
				zap.Error(err), zap.Duration("delay", reconnectDelay))
		}

		select {
		case <-ctx.Done():
			c.logger.Info(ctx, "queue: consumer stopped")
			return
		case <-time.After(reconnectDelay):
		}
	}
}

// consume holds one connection from dial to loss. The queue is declared
// durable and prefetch is one: a single in-flight message at a time.
func (c *consumer) consume(ctx context.Context, handle Handler) error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return err
	}

	if err := ch.Qos(1, 0, false); err != nil {
		return err
	}

	deliveries, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	c.logger.Info(ctx, "queue: consuming", zap.String("queue", c.queue))

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	for {
		select {
		case <-ctx.Done():
			return nil
		case amqpErr := <-closed:
			if amqpErr == nil {
				return errors.New("connection closed")
			}
			return amqpErr
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.settle(ctx, d, handle(ctx, d.Body))
		}
	}
}

func (c *consumer) settle(ctx context.Context, d amqp.Delivery, err error) {
	switch Resolve(err) {
	case Ack:
		if err := d.Ack(false); err != nil {
			c.logger.Error(ctx, "queue: ack failed", zap.Error(err))
		}
	case Reject:
		c.logger.Error(ctx, "queue: rejecting message", zap.Error(err))
		if err := d.Nack(false, false); err != nil {
			c.logger.Error(ctx, "queue: reject failed", zap.Error(err))
		}
	case Requeue:
		c.logger.Error(ctx, "queue: requeueing message", zap.Error(err))
		if err := d.Nack(false, true); err != nil {
			c.logger.Error(ctx, "queue: requeue failed", zap.Error(err))
		}
	}
}

// Resolution is the per-message settlement decision.
type Resolution int

const (
	Ack Resolution = iota
	Requeue
	Reject
)

// Resolve maps a handler outcome onto the settlement decision: success
// acks, ErrDrop rejects permanently, anything else requeues.
func Resolve(err error) Resolution {
	switch {
	case err == nil:
		return Ack
	case errors.Is(err, ErrDrop):
		return Reject
	default:
		return Requeue
	}
}
