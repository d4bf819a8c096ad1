package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"

	"github.com/ignatzorin/gigmarket-backend/internal/domain/event"
)

// Publisher публикует сообщение в топик и возвращает его идентификатор.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte, attrs map[string]string) (string, error)
}

// PubSubPublisher - реализация Publisher поверх Google Pub/Sub.
type PubSubPublisher struct {
	client *pubsub.Client
}

func NewPubSubPublisher(ctx context.Context, projectID string) (*PubSubPublisher, error) {
	if projectID == "" {
		return nil, fmt.Errorf("notify: не задан проект Pub/Sub")
	}
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("notify: не удалось создать клиент Pub/Sub: %w", err)
	}
	return &PubSubPublisher{client: client}, nil
}

func (p *PubSubPublisher) Publish(ctx context.Context, topic string, payload []byte, attrs map[string]string) (string, error) {
	result := p.client.Topic(topic).Publish(ctx, &pubsub.Message{Data: payload, Attributes: attrs})
	id, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("notify: не удалось опубликовать сообщение в %s: %w", topic, err)
	}
	return id, nil
}

func (p *PubSubPublisher) Close() error {
	return p.client.Close()
}

// PubSubSink передаёт события внешним обработчикам email и push-уведомлений.
type PubSubSink struct {
	publisher Publisher
	topic     string
}

func NewPubSubSink(publisher Publisher, topic string) *PubSubSink {
	return &PubSubSink{publisher: publisher, topic: topic}
}

func (s *PubSubSink) Name() string { return "pubsub" }

func (s *PubSubSink) Deliver(ctx context.Context, evt event.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("notify: не удалось сериализовать событие: %w", err)
	}
	_, err = s.publisher.Publish(ctx, s.topic, payload, map[string]string{
		"event":   string(evt.Name),
		"user_id": evt.Payload.UserID.String(),
	})
	return err
}
