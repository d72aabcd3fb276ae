package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/adsaga-console/internal/session"
)

// ErrBufferFull is returned by Publish when the event could not be queued.
var ErrBufferFull = errors.New("rabbitmq: event buffer full")

// Publisher sends session events to RabbitMQ.  Publish only queues the
// event; Run delivers queued events over one long-lived connection.  A
// slow or unreachable broker therefore never holds up the request that
// produced the event.  Events that do not fit in the buffer are dropped
// and logged.
type Publisher struct {
	URL         string
	Queue       string
	DialTimeout time.Duration
	Log         *slog.Logger

	events chan session.Event
	dial   func(url string, timeout time.Duration) (*amqp.Connection, error)
}

var _ session.Publisher = (*Publisher)(nil)

// NewPublisher creates a publisher holding up to buffer undelivered events.
func NewPublisher(url string, buffer int, log *slog.Logger) *Publisher {
	if log == nil {
		log = slog.Default()
	}
	if buffer < 1 {
		buffer = 1
	}
	return &Publisher{
		URL:         url,
		Queue:       SessionQueue,
		DialTimeout: 5 * time.Second,
		Log:         log,
		events:      make(chan session.Event, buffer),
		dial:        dial,
	}
}

// Publish queues ev for delivery without waiting for the broker.
func (p *Publisher) Publish(_ context.Context, ev session.Event) error {
	select {
	case p.events <- ev:
		return nil
	default:
		p.Log.Warn("rabbitmq: event buffer full, dropping event", "type", ev.Type, "client", ev.ClientID)
		return ErrBufferFull
	}
}

// Run delivers queued events until ctx is cancelled, reconnecting with
// exponential backoff whenever the connection drops.
func (p *Publisher) Run(ctx context.Context) {
	backoff := time.Second
	for {
		conn, err := p.dial(p.URL, p.timeout())
		if err != nil {
			p.Log.Warn("rabbitmq: dial failed", "err", err, "retry_in", backoff)
			if !sleep(ctx, backoff) {
				return
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = p.deliver(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return
		}
		p.Log.Warn("rabbitmq: publisher connection lost, reconnecting", "err", err)
	}
}

func (p *Publisher) deliver(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// durable so events survive broker restarts
	if _, err := ch.QueueDeclare(p.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	closed := conn.NotifyClose(make(chan *amqp.Error, 1))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case aerr := <-closed:
			if aerr == nil {
				return errors.New("connection closed")
			}
			return aerr
		case ev := <-p.events:
			if err := p.send(ctx, ch, ev); err != nil {
				p.Log.Warn("rabbitmq: publish failed, event dropped", "type", ev.Type, "client", ev.ClientID, "err", err)
				return err
			}
		}
	}
}

func (p *Publisher) send(ctx context.Context, ch *amqp.Channel, ev session.Event) error {
	body, err := encode(ev)
	if err != nil {
		p.Log.Error("rabbitmq: marshal event failed", "type", ev.Type, "err", err)
		return nil
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         string(ev.Type),
		Body:         body,
	}
	sendCtx, cancel := context.WithTimeout(ctx, p.timeout())
	defer cancel()
	return ch.PublishWithContext(sendCtx, "", p.Queue, false, false, msg)
}

func (p *Publisher) timeout() time.Duration {
	if p.DialTimeout > 0 {
		return p.DialTimeout
	}
	return 5 * time.Second
}

// dial opens a connection whose TCP connect and AMQP handshake together
// are bounded by timeout.
func dial(url string, timeout time.Duration) (*amqp.Connection, error) {
	return amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
}
