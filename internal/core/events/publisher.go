package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	UserRegistered      = "user.registered"
	UserStatusChanged   = "user.status_changed"
	ArtworkCreated      = "artwork.created"
	ArtworkUpdated      = "artwork.updated"
	ArtworkDeleted      = "artwork.deleted"
	ContactMessageSent  = "contact.sent"
	PasswordResetIssued = "auth.reset_requested"
)

type Event struct {
	Type       string    `json:"type"`
	SubjectID  string    `json:"subject_id"`
	ActorID    string    `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data,omitempty"`
}

func New(typ, subjectID, actorID string, data any) Event {
	return Event{Type: typ, SubjectID: subjectID, ActorID: actorID, OccurredAt: time.Now().UTC(), Data: data}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// AMQPPublisher publishes persistent JSON events to one durable queue.
// The channel is reopened lazily after a broker hiccup.
type AMQPPublisher struct {
	url   string
	queue string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAMQP(url, queue string) (*AMQPPublisher, error) {
	p := &AMQPPublisher{url: url, queue: queue}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.connectLocked(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *AMQPPublisher) connectLocked() error {
	if p.conn == nil || p.conn.IsClosed() {
		conn, err := amqp.Dial(p.url)
		if err != nil {
			return fmt.Errorf("amqp dial: %w", err)
		}
		p.conn = conn
		p.ch = nil
	}
	if p.ch == nil || p.ch.IsClosed() {
		ch, err := p.conn.Channel()
		if err != nil {
			return fmt.Errorf("amqp channel: %w", err)
		}
		if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			return fmt.Errorf("amqp queue declare: %w", err)
		}
		p.ch = ch
	}
	return nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.connectLocked(); err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    e.OccurredAt,
		Type:         e.Type,
		Body:         body,
	})
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// BestEffort wraps a publisher so failures are logged, never returned.
// Domain writes have already committed when events go out.
type BestEffort struct {
	P Publisher
	L *zap.Logger
}

func (b BestEffort) Publish(ctx context.Context, e Event) error {
	if b.P == nil {
		return nil
	}
	if err := b.P.Publish(ctx, e); err != nil {
		b.L.Warn("event publish failed", zap.String("type", e.Type), zap.String("subject", e.SubjectID), zap.Error(err))
	}
	return nil
}
