package usecase

import (
	"context"

	"scriptgo/domain/model"
	"scriptgo/infrastructure/clients/llm"
	"scriptgo/infrastructure/logger"
)

// IGenerator produces text from an ordered provider chain.
type IGenerator interface {
	Generate(ctx context.Context, req llm.Completion) (*llm.Result, error)
}

// IBroadcaster pushes script events to a user's live sessions.
type IBroadcaster interface {
	Broadcast(userID string, ev model.ScriptEvent)
}

// IEmailComposer renders notification emails.
type IEmailComposer interface {
	ScriptEmail(to string, script *model.Script) (model.EmailMessage, error)
	CampaignEmail(to string, scripts []*model.Script) (model.EmailMessage, error)
}

// IEmailQueue hands a rendered email to a delivery backend.
type IEmailQueue interface {
	Enqueue(ctx context.Context, msg model.EmailMessage) error
}

// INotifier delivers emails best-effort. It never reports failures to the caller.
type INotifier interface {
	Notify(ctx context.Context, msg model.EmailMessage)
}

type notifier struct {
	queue IEmailQueue
}

func NewNotifier(queue IEmailQueue) INotifier {
	return &notifier{queue: queue}
}

func (n *notifier) Notify(ctx context.Context, msg model.EmailMessage) {
	lg := logger.GetLogger().WithField("to", msg.To).WithField("subject", msg.Subject)
	if n.queue == nil {
		lg.Warn("No email queue configured, dropping message")
		return
	}
	if msg.To == "" {
		lg.Warn("Email without recipient, dropping message")
		return
	}
	if err := n.queue.Enqueue(ctx, msg); err != nil {
		lg.WithError(err).Error("Failed to queue email")
		return
	}
	lg.Info("Email queued")
}
