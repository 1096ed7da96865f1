package natsbus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pura-pata/internal/domain/dogs"
	"pura-pata/internal/platform/logger"

	"github.com/nats-io/nats.go"
)

// SubjectStatusChanged recibe un mensaje JSON por cada cambio de estado confirmado.
const SubjectStatusChanged = "dogs.status.changed"

type Config struct {
	URL            string
	ConnectionName string
	MaxReconnects  int
	ReconnectWait  time.Duration
}

// conn es el subconjunto de *nats.Conn que usamos (permite fakes en tests).
type conn interface {
	PublishMsg(m *nats.Msg) error
	Close()
}

// Publisher implementa dogs.EventPublisher sobre NATS core.
type Publisher struct {
	nc      conn
	subject string
}

func NewPublisher(cfg Config, log logger.Logger) (*Publisher, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("nats url required")
	}
	if log == nil {
		log = logger.Nop()
	}
	if cfg.ConnectionName == "" {
		cfg.ConnectionName = "pura-pata-api"
	}
	if cfg.ReconnectWait <= 0 {
		cfg.ReconnectWait = 2 * time.Second
	}

	nc, err := nats.Connect(cfg.URL,
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("disconnected from NATS", map[string]any{"error": err})
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("reconnected to NATS", map[string]any{"url": nc.ConnectedUrl()})
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			log.Info("NATS connection closed", nil)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	return newPublisher(nc), nil
}

func newPublisher(nc conn) *Publisher {
	return &Publisher{nc: nc, subject: SubjectStatusChanged}
}

func (p *Publisher) PublishStatusChanged(ctx context.Context, ev dogs.StatusChange) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal status change: %w", err)
	}

	msg := nats.NewMsg(p.subject)
	msg.Data = data
	msg.Header.Set("Content-Type", "application/json")
	msg.Header.Set("Dog-Id", ev.DogID)

	if err := p.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}
	return nil
}

func (p *Publisher) Close() {
	if p.nc == nil {
		return
	}
	p.nc.Close()
}
