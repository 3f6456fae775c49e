package port

import (
	"context"
	"io"

	"github.com/rs/zerolog/log"
)

// Sink receives the frames of a Listener, one at a time and in arrival
// order. A non-nil error ends the stream.
type Sink interface {
	Handle(ctx context.Context, event Event) error
}

type SinkFunc func(ctx context.Context, event Event) error

func (f SinkFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

type LogSink struct{}

func (LogSink) Handle(_ context.Context, event Event) error {
	entry := log.Info().Time("received_at", event.ReceivedAt)
	if event.Binary {
		entry = entry.Hex("payload", event.Payload)
	} else {
		entry = entry.Bytes("payload", event.Payload)
	}
	entry.Msg("listener: event received")
	return nil
}

// WriterSink writes each payload followed by a newline.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Handle(_ context.Context, event Event) error {
	if _, err := s.W.Write(event.Payload); err != nil {
		return err
	}
	_, err := io.WriteString(s.W, "\n")
	return err
}

// ChannelSink queues events on a channel, blocking until the consumer takes
// them or ctx is done.
type ChannelSink chan<- Event

func (s ChannelSink) Handle(ctx context.Context, event Event) error {
	select {
	case s <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type MultiSink []Sink

func (m MultiSink) Handle(ctx context.Context, event Event) error {
	for _, sink := range m {
		if err := sink.Handle(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
