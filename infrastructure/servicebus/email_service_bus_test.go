package servicebus_test

import (
	"context"
	"errors"
	"testing"

	"scriptgo/domain/model"
	"scriptgo/infrastructure/servicebus"

	"github.com/stretchr/testify/assert"
)

func TestEmailServiceBus_NilClient(t *testing.T) {
	q := servicebus.NewEmailServiceBus(nil, "scriptgo-email")
	assert.NotNil(t, q)
	assert.ErrorIs(t, q.Enqueue(context.Background(), model.EmailMessage{To: "a@b.c"}), servicebus.ErrNoClient)
	assert.ErrorIs(t, q.Consume(context.Background(), nil), servicebus.ErrNoClient)
}

func TestNewServiceBus_RequiresNamespace(t *testing.T) {
	client, err := servicebus.NewServiceBus(context.Background(), "")
	assert.Nil(t, client)
	assert.Error(t, err)
}

func TestHandle(t *testing.T) {
	delivered := 0
	ok := servicebus.Handle(context.Background(), []byte(`{"to":"a@b.c","subject":"s"}`), func(_ context.Context, msg model.EmailMessage) error {
		delivered++
		assert.Equal(t, "a@b.c", msg.To)
		return nil
	})
	assert.True(t, ok)
	assert.Equal(t, 1, delivered)

	ok = servicebus.Handle(context.Background(), []byte(`{"to":"a@b.c"}`), func(context.Context, model.EmailMessage) error {
		return errors.New("resend 500")
	})
	assert.False(t, ok)

	assert.True(t, servicebus.Handle(context.Background(), []byte(`{`), nil))
}
