// Package dispatch delivers domain events to their sinks after the state
// change that produced them has been committed.
package dispatch

import (
	"context"

	"go.uber.org/zap"

	"github.com/vietanh2810/gametables-api/internal/domain"
)

// Sink receives one event. A failing sink never affects the caller.
type Sink interface {
	Publish(ctx context.Context, event domain.Event) error
}

type Dispatcher struct {
	sinks []Sink
}

func New(sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks}
}

func (d *Dispatcher) Dispatch(ctx context.Context, events ...domain.Event) {
	for _, event := range events {
		for _, sink := range d.sinks {
			if err := sink.Publish(ctx, event); err != nil {
				zap.L().Warn("event dispatch failed",
					zap.String("event", event.EventName()),
					zap.Error(err),
				)
			}
		}
	}
}

// LogSink writes every event to the global logger.
type LogSink struct{}

func (LogSink) Publish(_ context.Context, event domain.Event) error {
	zap.L().Info("domain event",
		zap.String("event", event.EventName()),
		zap.Time("occurred_at", event.OccurredAt()),
		zap.Any("payload", event),
	)
	return nil
}
