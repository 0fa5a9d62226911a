package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

// Publisher provides typed methods for publishing events to NATS JetStream.
type Publisher struct {
	js jetstream.JetStream
}

// NewPublisher creates a new Publisher.
func NewPublisher(js jetstream.JetStream) *Publisher {
	return &Publisher{js: js}
}

// PublishRecommendation publishes the outcome of one chat turn.
func (p *Publisher) PublishRecommendation(ctx context.Context, event RecommendationEvent) error {
	return p.publish(ctx, SubjectRecommendation, event)
}

// PublishSessionCleared publishes a session reset.
func (p *Publisher) PublishSessionCleared(ctx context.Context, event SessionEvent) error {
	return p.publish(ctx, SubjectSessionCleared, event)
}

func (p *Publisher) publish(ctx context.Context, subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling event for %s: %w", subject, err)
	}
	_, err = p.js.Publish(ctx, subject, payload)
	if err != nil {
		return fmt.Errorf("publishing to %s: %w", subject, err)
	}
	return nil
}
