package pubsub_test

import (
	"context"
	"errors"
	"testing"

	"scriptgo/domain/model"
	"scriptgo/infrastructure/pubsub"

	"github.com/stretchr/testify/assert"
)

func TestEmailPubSub_NilClient(t *testing.T) {
	q := pubsub.NewEmailPubSub(nil, "scriptgo-email", "scriptgo-email-worker")
	assert.NotNil(t, q)
	assert.ErrorIs(t, q.Enqueue(context.Background(), model.EmailMessage{To: "a@b.c"}), pubsub.ErrNoClient)
	assert.ErrorIs(t, q.Consume(context.Background(), nil), pubsub.ErrNoClient)
}

func TestNewPubSub_RequiresProject(t *testing.T) {
	client, err := pubsub.NewPubSub(context.Background(), "")
	assert.Nil(t, client)
	assert.Error(t, err)
}

func TestHandle(t *testing.T) {
	var got model.EmailMessage
	ok := pubsub.Handle(context.Background(), []byte(`{"to":"a@b.c","subject":"Your Script: x","html":"<p/>"}`),
		func(_ context.Context, msg model.EmailMessage) error {
			got = msg
			return nil
		})
	assert.True(t, ok)
	assert.Equal(t, "a@b.c", got.To)
	assert.Equal(t, "Your Script: x", got.Subject)

	ok = pubsub.Handle(context.Background(), []byte(`{"to":"a@b.c"}`), func(context.Context, model.EmailMessage) error {
		return errors.New("smtp down")
	})
	assert.False(t, ok, "delivery failures are redelivered")

	called := false
	ok = pubsub.Handle(context.Background(), []byte(`not json`), func(context.Context, model.EmailMessage) error {
		called = true
		return nil
	})
	assert.True(t, ok, "poison messages are acked")
	assert.False(t, called)
}
