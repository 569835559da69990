package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ActivityLogFile is the file, inside the consumer's log directory, that
// receives one line per consumed event.
const ActivityLogFile = "activity.log"

// Consumer reads activity events from RabbitMQ and appends them to
// <LogDir>/activity.log.
type Consumer struct {
	URL    string
	Queue  string
	LogDir string
	Log    *zap.Logger
}

// Run connects to the broker and consumes until ctx is cancelled. Dial
// failures are retried with exponential backoff capped at 30s; a closed
// delivery channel triggers a reconnect.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			c.Log.Warn("activity consumer: dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return nil
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if err != nil {
			c.Log.Warn("activity consumer: consume loop ended, reconnecting", zap.Error(err))
			if !sleep(ctx, 2*time.Second) {
				return nil
			}
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.Log.Warn("activity consumer: set QoS failed", zap.Error(err))
	}
	if err := declareQueue(ch, c.Queue); err != nil {
		return err
	}

	msgs, err := ch.Consume(c.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.HandleMessage(d.Body); err != nil {
				c.Log.Error("activity consumer: handle message failed", zap.Error(err))
				_ = d.Nack(false, false) // do not requeue poison messages
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// HandleMessage decodes one event and appends it to the activity log.
func (c *Consumer) HandleMessage(body []byte) error {
	var ev ActivityEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll(c.LogDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", c.LogDir, err)
	}
	f, err := os.OpenFile(filepath.Join(c.LogDir, ActivityLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatEvent(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatEvent renders ev as a single log line terminated by a newline.
func FormatEvent(ev ActivityEvent) string {
	return fmt.Sprintf("[%s] %s %s | event_id=%s | user_id=%d | entity_id=%d\n",
		ev.Timestamp.UTC().Format(time.RFC3339), ev.EventType, ev.Operation, ev.EventID, ev.UserID, ev.EntityID)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
