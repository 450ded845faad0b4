// internal/service/space/events.go

package space

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// eventPublisher publishes replica change events. Publication is fire
// and forget: a publish failure is logged and never fails the local
// mutation that triggered it. A nil connection disables publication.
type eventPublisher struct {
	conn  *nats.Conn
	topic string
	log   zerolog.Logger
}

func newEventPublisher(conn *nats.Conn, topic string, log zerolog.Logger) *eventPublisher {
	return &eventPublisher{conn: conn, topic: topic, log: log}
}

func (p *eventPublisher) publish(event string, payload any) {
	if p == nil || p.conn == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		p.log.Error().Err(err).Str("event", event).Msg("marshal event payload")
		return
	}

	subject := fmt.Sprintf("%s.%s", p.topic, event)
	if err := p.conn.Publish(subject, data); err != nil {
		p.log.Error().Err(err).Str("subject", subject).Msg("publish event")
	}
}

type spaceEvent struct {
	SpaceID string `json:"spaceId"`
	Title   string `json:"title,omitempty"`
	UserID  string `json:"userId,omitempty"`
}

type refreshEvent struct {
	Spaces int    `json:"spaces"`
	Source string `json:"source"`
}
