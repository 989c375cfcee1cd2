package dispatch

import (
	"context"
	"crew-route-service/internal/domain"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	declared   []string
	published  []sent
	publishErr error
	closed     bool
}

func (c *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	c.declared = append(c.declared, name+":"+kind)
	return nil
}

func (c *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.published = append(c.published, sent{exchange: exchange, key: key, msg: msg})
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func TestPublishResultSendsSummaryAndRoutes(t *testing.T) {
	ch := &fakeChannel{}
	p, err := newPublisher(ch)
	require.NoError(t, err)
	assert.Equal(t, []string{"routes_topic:topic"}, ch.declared)

	result := &domain.OptimizationResult{
		RunID:    "run-1",
		TenantID: "acme",
		Date:     "2026-03-02",
		Routes: []domain.OptimizedRoute{
			{TeamID: "t1", LeadName: "Dana", NotificationChannelID: "+1555"},
			{TeamID: "t2", LeadName: "Lee", NotificationChannelID: "+1666"},
		},
	}
	require.NoError(t, p.PublishResult(context.Background(), result))

	require.Len(t, ch.published, 3)
	assert.Equal(t, "routes.result.acme", ch.published[0].key)
	assert.Equal(t, "routes.team.t1", ch.published[1].key)
	assert.Equal(t, "routes.team.t2", ch.published[2].key)
	assert.Equal(t, amqp.Persistent, ch.published[1].msg.DeliveryMode)

	var msg RouteMessage
	require.NoError(t, json.Unmarshal(ch.published[1].msg.Body, &msg))
	assert.Equal(t, "run-1", msg.RunID)
	assert.Equal(t, "+1555", msg.NotificationChannelID)

	p.Close()
	assert.True(t, ch.closed)
}

func TestPublishResultErrors(t *testing.T) {
	ch := &fakeChannel{publishErr: errors.New("channel closed")}
	p, err := newPublisher(ch)
	require.NoError(t, err)

	assert.Error(t, p.PublishResult(context.Background(), nil))
	assert.ErrorContains(t, p.PublishResult(context.Background(), &domain.OptimizationResult{TenantID: "acme"}), "channel closed")
}
