package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Publisher emits domain events. Delivery is fire-and-forget.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload interface{}) error
	Close()
}

// NATSPublisher publishes JSON payloads on "<prefix>.<subject>".
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

func NewNATSPublisher(url, prefix string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("poultry-market-backend"))
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &NATSPublisher{conn: conn, prefix: strings.TrimSuffix(prefix, ".")}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, subject string, payload interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", subject, err)
	}

	if p.prefix != "" {
		subject = p.prefix + "." + subject
	}
	return p.conn.Publish(subject, data)
}

func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		log.Warn().Err(err).Msg("nats drain failed")
		p.conn.Close()
	}
}

// NoopPublisher is used when NATS is not configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, subject string, payload interface{}) error {
	log.Debug().Str("subject", subject).Msg("event publishing disabled")
	return nil
}

func (NoopPublisher) Close() {}
