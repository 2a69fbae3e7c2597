package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/accessroute/internal/core/domain"
)

// ConsumerName is the durable queue consumer shared by API instances.
const ConsumerName = "cache-invalidator"

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := Connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeChanges delivers every community change event to handler.
// Malformed messages are terminated; handler errors are redelivered up to
// three times.
func (s *Subscriber) SubscribeChanges(ctx context.Context, handler func(ctx context.Context, e domain.ChangeEvent) error) error {
	sub, err := s.js.QueueSubscribe(SubjectPrefix+">", ConsumerName, func(msg *nats.Msg) {
		var e domain.ChangeEvent
		if err := json.Unmarshal(msg.Data, &e); err != nil {
			slog.WarnContext(ctx, "dropping malformed change event", "subject", msg.Subject, "error", err)
			_ = msg.Term()
			return
		}
		if err := handler(ctx, e); err != nil {
			slog.WarnContext(ctx, "change event handler failed", "subject", msg.Subject, "id", e.ID, "error", err)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable(ConsumerName),
		nats.ManualAck(),
		nats.MaxDeliver(3),
		nats.DeliverNew(),
	)
	if err != nil {
		return fmt.Errorf("subscribe changes: %w", err)
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
