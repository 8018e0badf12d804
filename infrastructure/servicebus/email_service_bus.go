package servicebus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"scriptgo/domain/model"
	"scriptgo/infrastructure/logger"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
)

var ErrNoClient = errors.New("service bus client not configured")

const receiveBatch = 10

type DeliverFunc func(ctx context.Context, msg model.EmailMessage) error

// NewServiceBus connects to a namespace such as "scriptgo.servicebus.windows.net"
// with the default Azure credential chain.
func NewServiceBus(_ context.Context, namespace string) (*azservicebus.Client, error) {
	if namespace == "" {
		return nil, errors.New("service bus namespace is empty")
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}
	return azservicebus.NewClient(namespace, cred, nil)
}

// EmailServiceBus queues notification emails on an Azure Service Bus queue.
type EmailServiceBus struct {
	client *azservicebus.Client
	queue  string
}

func NewEmailServiceBus(client *azservicebus.Client, queue string) *EmailServiceBus {
	return &EmailServiceBus{client: client, queue: queue}
}

func (s *EmailServiceBus) Enqueue(ctx context.Context, msg model.EmailMessage) error {
	if s.client == nil {
		return ErrNoClient
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}
	sender, err := s.client.NewSender(s.queue, nil)
	if err != nil {
		logger.GetLogger().
			WithField("error", err).
			Error("Error while making new sender service bus.")
		return err
	}
	defer func() {
		if err := sender.Close(context.Background()); err != nil {
			logger.GetLogger().
				WithField("error", err).
				Error("Error while closing sender.")
		}
	}()

	contentType := "application/json"
	err = sender.SendMessage(ctx, &azservicebus.Message{
		Body:                  payload,
		ContentType:           &contentType,
		ApplicationProperties: map[string]interface{}{"scriptId": msg.ScriptID},
	}, nil)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while sending message.")
		return err
	}
	return nil
}

// Consume polls the queue until ctx is done. Delivered messages are completed,
// failed ones abandoned for redelivery.
func (s *EmailServiceBus) Consume(ctx context.Context, deliver DeliverFunc) error {
	if s.client == nil {
		return ErrNoClient
	}
	receiver, err := s.client.NewReceiverForQueue(s.queue, nil)
	if err != nil {
		return fmt.Errorf("new receiver: %w", err)
	}
	defer func() {
		if err := receiver.Close(context.Background()); err != nil {
			logger.GetLogger().
				WithField("error", err).
				Error("Error while closing receiver.")
		}
	}()
	logger.GetLogger().WithField("queue", s.queue).Info("Service Bus consumer starting...")

	for {
		messages, err := receiver.ReceiveMessages(ctx, receiveBatch, nil)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.GetLogger().WithError(err).Warn("Service Bus receive failed, retrying")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(5 * time.Second):
			}
			continue
		}
		for _, m := range messages {
			if Handle(ctx, m.Body, deliver) {
				err = receiver.CompleteMessage(ctx, m, nil)
			} else {
				err = receiver.AbandonMessage(ctx, m, nil)
			}
			if err != nil {
				logger.GetLogger().WithError(err).WithField("messageId", m.MessageID).Warn("Failed to settle message")
			}
		}
	}
}

// Handle decodes one body and delivers it, reporting whether the message is settled.
func Handle(ctx context.Context, body []byte, deliver DeliverFunc) bool {
	var msg model.EmailMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		logger.GetLogger().WithError(err).Error("Dropping malformed email message")
		return true
	}
	return deliver(ctx, msg) == nil
}
