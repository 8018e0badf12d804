package mailer

import (
	"context"
	"errors"
	"sync"
	"time"

	"scriptgo/domain/model"
	"scriptgo/infrastructure/logger"
)

const sendTimeout = 30 * time.Second

// ErrQueueClosed is returned by Enqueue once Wait has been called.
var ErrQueueClosed = errors.New("email queue closed")

// InlineQueue delivers each message on its own goroutine, detached from the request.
type InlineQueue struct {
	mailer IMailer

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewInlineQueue(m IMailer) *InlineQueue {
	return &InlineQueue{mailer: m}
}

func (q *InlineQueue) Enqueue(ctx context.Context, msg model.EmailMessage) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.wg.Add(1)
	q.mu.Unlock()

	go func() {
		defer q.wg.Done()
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
		defer cancel()
		Deliver(sendCtx, q.mailer, msg)
	}()
	return nil
}

// Wait stops accepting messages and blocks until every queued message has been attempted.
func (q *InlineQueue) Wait() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.wg.Wait()
}

// Deliver sends one message and logs the outcome. Queue consumers share it.
func Deliver(ctx context.Context, m IMailer, msg model.EmailMessage) error {
	lg := logger.GetLogger().WithField("to", msg.To).WithField("subject", msg.Subject)
	if err := m.Send(ctx, msg); err != nil {
		lg.WithError(err).Error("Email delivery failed")
		return err
	}
	lg.Info("Email sent")
	return nil
}
