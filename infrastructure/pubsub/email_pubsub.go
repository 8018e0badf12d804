package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"scriptgo/domain/model"
	"scriptgo/infrastructure/logger"

	"cloud.google.com/go/pubsub"
)

var ErrNoClient = errors.New("pubsub client not configured")

// DeliverFunc hands a decoded email to the mailer.
type DeliverFunc func(ctx context.Context, msg model.EmailMessage) error

func NewPubSub(ctx context.Context, projectID string) (*pubsub.Client, error) {
	if projectID == "" {
		return nil, errors.New("pubsub project id is empty")
	}
	return pubsub.NewClient(ctx, projectID)
}

// EmailPubSub queues notification emails on a Google Pub/Sub topic.
type EmailPubSub struct {
	client         *pubsub.Client
	topicID        string
	subscriptionID string
}

func NewEmailPubSub(client *pubsub.Client, topicID, subscriptionID string) *EmailPubSub {
	return &EmailPubSub{client: client, topicID: topicID, subscriptionID: subscriptionID}
}

func (p *EmailPubSub) Enqueue(ctx context.Context, msg model.EmailMessage) error {
	if p.client == nil {
		return ErrNoClient
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}
	topic, err := p.topic(ctx)
	if err != nil {
		return err
	}
	serverID, err := topic.Publish(ctx, &pubsub.Message{
		Data:       payload,
		Attributes: map[string]string{"scriptId": msg.ScriptID},
	}).Get(ctx)
	if err != nil {
		return fmt.Errorf("publish email: %w", err)
	}
	logger.GetLogger().WithField("server ID", serverID).Info("Message published")
	return nil
}

// topic returns the email topic, creating it on first use.
func (p *EmailPubSub) topic(ctx context.Context) (*pubsub.Topic, error) {
	topic := p.client.Topic(p.topicID)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check topic %s: %w", p.topicID, err)
	}
	if !exists {
		logger.GetLogger().WithField("topic", p.topicID).Info("Topic doesn't exist - creating it")
		if topic, err = p.client.CreateTopic(ctx, p.topicID); err != nil {
			return nil, fmt.Errorf("create topic %s: %w", p.topicID, err)
		}
	}
	return topic, nil
}

// Consume receives queued emails until ctx is done.
func (p *EmailPubSub) Consume(ctx context.Context, deliver DeliverFunc) error {
	if p.client == nil {
		return ErrNoClient
	}
	sub := p.client.Subscription(p.subscriptionID)
	exists, err := sub.Exists(ctx)
	if err != nil {
		return fmt.Errorf("check subscription %s: %w", p.subscriptionID, err)
	}
	if !exists {
		topic, err := p.topic(ctx)
		if err != nil {
			return err
		}
		sub, err = p.client.CreateSubscription(ctx, p.subscriptionID, pubsub.SubscriptionConfig{
			Topic:       topic,
			AckDeadline: 60 * time.Second,
		})
		if err != nil {
			return fmt.Errorf("create subscription %s: %w", p.subscriptionID, err)
		}
	}
	logger.GetLogger().WithField("subID", p.subscriptionID).Info("PubSub starting...")

	return sub.Receive(ctx, func(ctx context.Context, m *pubsub.Message) {
		if Handle(ctx, m.Data, deliver) {
			m.Ack()
			return
		}
		m.Nack()
	})
}

// Handle decodes one payload and delivers it. It reports whether the message should be acked;
// undecodable payloads are acked so they are not redelivered forever.
func Handle(ctx context.Context, data []byte, deliver DeliverFunc) bool {
	var msg model.EmailMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		logger.GetLogger().WithError(err).Error("Dropping malformed email message")
		return true
	}
	return deliver(ctx, msg) == nil
}
