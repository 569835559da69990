package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/filmorate/internal/metrics"
)

// ErrBufferFull is returned by Publish when the outgoing buffer has no room.
// The event is dropped.
var ErrBufferFull = errors.New("activity event buffer full")

const (
	dialTimeout    = 5 * time.Second
	publishTimeout = 5 * time.Second
	redialBackoff  = 5 * time.Second
	drainTimeout   = 2 * time.Second
)

// Publisher queues activity events in memory and sends them to RabbitMQ from
// the Run goroutine over one long-lived connection. Publish never touches the
// network, so a slow or unreachable broker cannot stall a like or friendship
// change. A broken connection is dropped and redialled on the next event, at
// most once per redialBackoff.
type Publisher struct {
	URL   string
	Queue string
	Log   *zap.Logger

	buf  chan ActivityEvent
	send func(context.Context, ActivityEvent) error

	conn     *amqp.Connection
	ch       *amqp.Channel
	nextDial time.Time
}

// NewPublisher returns a Publisher holding up to size pending events.
func NewPublisher(url, queue string, size int, log *zap.Logger) *Publisher {
	if size <= 0 {
		size = 1024
	}
	if log == nil {
		log = zap.NewNop()
	}
	p := &Publisher{URL: url, Queue: queue, Log: log, buf: make(chan ActivityEvent, size)}
	p.send = p.publish
	return p
}

// Publish enqueues ev for delivery. It returns ErrBufferFull instead of
// blocking when the buffer is full.
func (p *Publisher) Publish(_ context.Context, ev ActivityEvent) error {
	select {
	case p.buf <- ev:
		return nil
	default:
		return ErrBufferFull
	}
}

// Run delivers queued events until ctx is cancelled, then makes a short
// best-effort attempt to flush what is left and closes the connection.
func (p *Publisher) Run(ctx context.Context) error {
	defer p.reset()
	for {
		select {
		case <-ctx.Done():
			p.drain(context.WithoutCancel(ctx))
			return nil
		case ev := <-p.buf:
			p.deliver(ctx, ev)
		}
	}
}

func (p *Publisher) drain(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, drainTimeout)
	defer cancel()
	for {
		select {
		case ev := <-p.buf:
			p.deliver(ctx, ev)
		default:
			return
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func (p *Publisher) deliver(ctx context.Context, ev ActivityEvent) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := p.send(ctx, ev); err != nil {
		metrics.EventPublishErrors.Inc()
		p.Log.Warn("activity event dropped",
			zap.String("event_id", ev.EventID),
			zap.String("event_type", string(ev.EventType)),
			zap.Error(err))
	}
}

// publish sends ev as a persistent JSON message, reconnecting first when the
// channel is gone. Any failure drops the connection so the next event
// starts from a fresh one.
func (p *Publisher) publish(ctx context.Context, ev ActivityEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	ch, err := p.channel()
	if err != nil {
		return err
	}
	err = ch.PublishWithContext(ctx,
		"",      // default exchange
		p.Queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.EventID,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		p.reset()
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()
	if time.Now().Before(p.nextDial) {
		return nil, errors.New("rabbitmq unavailable, waiting to redial")
	}
	p.nextDial = time.Now().Add(redialBackoff)

	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(dialTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if err := declareQueue(ch, p.Queue); err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.conn, p.ch = conn, ch
	p.nextDial = time.Time{}
	p.Log.Info("activity publisher connected", zap.String("queue", p.Queue))
	return ch, nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func declareQueue(ch *amqp.Channel, name string) error {
	if _, err := ch.QueueDeclare(
		name,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	return nil
}

// NopPublisher drops every event. It is used when events are disabled.
type NopPublisher struct{}

// Publish implements the publisher contract and does nothing.
func (NopPublisher) Publish(context.Context, ActivityEvent) error { return nil }
