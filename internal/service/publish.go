package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"medicart/internal/events"
)

const publishTimeout = 2 * time.Second

// publish sends an event after the change was committed. Failures are only logged.
func publish(ctx context.Context, p events.Publisher, log zerolog.Logger, topic string, e events.Event) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.Publish(ctx, topic, e); err != nil {
		log.Warn().Err(err).Str("topic", topic).Str("type", e.Type).Uint("id", e.ID).Msg("publish event")
	}
}
