package dispatch

import (
	"context"
	"crew-route-service/internal/domain"
	"crew-route-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange receives finished optimization results.
const Exchange = "routes_topic"

// Routing keys: one summary message per run and one message per team route.
const (
	resultKeyFormat = "routes.result.%s"
	routeKeyFormat  = "routes.team.%s"
)

// channel is the subset of *amqp.Channel the publisher needs.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RouteMessage is what a crew lead's notifier consumes.
type RouteMessage struct {
	RunID                 string                `json:"run_id"`
	TenantID              string                `json:"tenant_id"`
	Date                  string                `json:"date"`
	TeamID                string                `json:"team_id"`
	LeadName              string                `json:"lead_name"`
	NotificationChannelID string                `json:"notification_channel_id"`
	Route                 domain.OptimizedRoute `json:"route"`
}

// AMQPPublisher hands optimization results to RabbitMQ.
type AMQPPublisher struct {
	conn *amqp.Connection
	ch   channel
}

// Dial connects and declares the exchange.
func Dial(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dispatch: connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("dispatch: open channel: %w", err)
	}

	p, err := newPublisher(ch)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	log.Println("Connected to RabbitMQ")
	return p, nil
}

func newPublisher(ch channel) (*AMQPPublisher, error) {
	err := ch.ExchangeDeclare(
		Exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("dispatch: declare exchange %s: %w", Exchange, err)
	}
	return &AMQPPublisher{ch: ch}, nil
}

// PublishResult sends the run summary, then one message per route.
func (p *AMQPPublisher) PublishResult(ctx context.Context, result *domain.OptimizationResult) (err error) {
	defer obs.Time(ctx, "dispatch.PublishResult")(&err)

	if result == nil {
		return errors.New("dispatch: nil result")
	}

	if err := p.publish(ctx, fmt.Sprintf(resultKeyFormat, result.TenantID), result); err != nil {
		return err
	}

	for _, r := range result.Routes {
		msg := RouteMessage{
			RunID:                 result.RunID,
			TenantID:              result.TenantID,
			Date:                  result.Date,
			TeamID:                r.TeamID,
			LeadName:              r.LeadName,
			NotificationChannelID: r.NotificationChannelID,
			Route:                 r,
		}
		if err := p.publish(ctx, fmt.Sprintf(routeKeyFormat, r.TeamID), msg); err != nil {
			return err
		}
	}
	return nil
}

func (p *AMQPPublisher) publish(ctx context.Context, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("dispatch: encode %s: %w", key, err)
	}
	err = p.ch.PublishWithContext(ctx, Exchange, key, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		ContentType:  "application/json",
		MessageId:    obs.RequestID(ctx),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("dispatch: publish %s: %w", key, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
