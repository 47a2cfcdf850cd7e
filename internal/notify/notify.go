package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/sirupsen/logrus"
)

// Event types published on the notification topic.
const (
	EventInvoiceQueued  = "invoice.queued"
	EventInvoiceRetried = "invoice.retry_completed"
	EventOrderInvoiced  = "order.invoiced"
)

// Event is the envelope published for downstream consumers.
type Event struct {
	Type   string            `json:"type"`
	Detail map[string]string `json:"detail,omitempty"`
	At     time.Time         `json:"at"`
}

// Notifier publishes events. Implementations must be safe for concurrent use.
type Notifier interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Noop is used when no topic is configured.
type Noop struct{}

func (Noop) Publish(ctx context.Context, event Event) error { return nil }
func (Noop) Close() error                                   { return nil }

// PubSub publishes events on a Google Cloud Pub/Sub topic.
type PubSub struct {
	client *pubsub.Client
	topic  *pubsub.Topic
	log    *logrus.Logger
}

func NewPubSub(ctx context.Context, projectID, topicName string, log *logrus.Logger) (*PubSub, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("pubsub client: %w", err)
	}
	return &PubSub{client: client, topic: client.Topic(topicName), log: log}, nil
}

func (p *PubSub) Publish(ctx context.Context, event Event) error {
	if event.At.IsZero() {
		event.At = time.Now()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	result := p.topic.Publish(ctx, &pubsub.Message{Data: payload})
	id, err := result.Get(ctx)
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	p.log.WithFields(logrus.Fields{"type": event.Type, "message_id": id}).Debug("event published")
	return nil
}

func (p *PubSub) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
