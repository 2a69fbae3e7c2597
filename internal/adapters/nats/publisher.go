package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/accessroute/internal/core/domain"
)

// StreamName is the JetStream stream carrying community change events.
const StreamName = "COMMUNITY_CHANGES"

// SubjectPrefix prefixes every change-event subject.
const SubjectPrefix = "community."

// Subject returns the subject for an event, e.g. "community.hazards.created".
func Subject(e domain.ChangeEvent) (string, error) {
	var table string
	switch e.Table {
	case domain.TableHazardReports:
		table = "hazards"
	case domain.TableForumPosts:
		table = "forum"
	default:
		return "", fmt.Errorf("unknown table %q", e.Table)
	}
	if e.Action != domain.ChangeCreated && e.Action != domain.ChangeUpdated {
		return "", fmt.Errorf("unknown action %q", e.Action)
	}
	return SubjectPrefix + table + "." + string(e.Action), nil
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// Connect opens a NATS connection that keeps reconnecting in the background.
func Connect(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}

// NewPublisher connects to NATS and ensures the change stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := Connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := nats.StreamConfig{
		Name:       StreamName,
		Subjects:   []string{SubjectPrefix + ">"},
		Retention:  nats.LimitsPolicy,
		MaxAge:     24 * time.Hour,
		Storage:    nats.FileStorage,
		Duplicates: 2 * time.Minute,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist
		if _, err := js.UpdateStream(&cfg); err != nil {
			conn.Close()
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishChange publishes e and waits for the stream acknowledgement.
func (p *Publisher) PublishChange(ctx context.Context, e domain.ChangeEvent) error {
	subject, err := Subject(e)
	if err != nil {
		return err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	msgID := e.Table + ":" + e.ID + ":" + string(e.Action) + ":" + strconv.FormatInt(e.At.UnixNano(), 10)
	if _, err := p.js.Publish(subject, data, nats.Context(ctx), nats.MsgId(msgID)); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Connected reports whether the underlying connection is up.
func (p *Publisher) Connected() bool {
	return p.conn.IsConnected()
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}
