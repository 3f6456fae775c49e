package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mirzahilmi/stacy/internal/common/config"
	iot "github.com/mirzahilmi/stacy/internal/iot/port"
	"github.com/rs/zerolog/log"
)

const (
	SINK_LOG    = "log"
	SINK_STDOUT = "stdout"
	SINK_MQTT   = "mqtt"

	SHUTDOWN_GRACE = 2 * time.Second
)

// session runs one blocking job and lets another goroutine cancel it and
// wait for it to unwind.
type session struct {
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func newSession() *session {
	ctx, cancel := context.WithCancel(context.Background())
	return &session{ctx, cancel, make(chan struct{})}
}

func (s *session) run(fn func(ctx context.Context) error) error {
	defer close(s.done)
	return fn(s.ctx)
}

// stop cancels the job and reports whether it returned within grace.
func (s *session) stop(grace time.Duration) bool {
	s.cancel()
	select {
	case <-s.done:
		return true
	case <-time.After(grace):
		return false
	}
}

func buildSink(cfg config.Config, names []string) (iot.Sink, func(), error) {
	sinks := iot.MultiSink{}
	closers := []func(){}
	closeAll := func() {
		for _, closeFn := range closers {
			closeFn()
		}
	}

	for _, name := range names {
		switch name {
		case SINK_LOG:
			sinks = append(sinks, iot.LogSink{})
		case SINK_STDOUT:
			sinks = append(sinks, iot.WriterSink{W: os.Stdout})
		case SINK_MQTT:
			mqttSink, err := iot.NewMQTTSink(cfg.Mqtt)
			if err != nil {
				closeAll()
				return nil, nil, err
			}
			sinks = append(sinks, mqttSink)
			closers = append(closers, mqttSink.Close)
		default:
			closeAll()
			return nil, nil, fmt.Errorf("listener: unknown sink %q", name)
		}
	}
	if len(sinks) == 0 {
		sinks = append(sinks, iot.LogSink{})
	}
	return sinks, closeAll, nil
}

// listen runs the push listener until the server closes the stream or ctx
// is cancelled. Failed streams are retried listener.reconnect times.
func listen(ctx context.Context, cfg config.Config, sinkNames []string) error {
	sink, closeSink, err := buildSink(cfg, sinkNames)
	if err != nil {
		return err
	}
	defer closeSink()

	delay := time.Duration(cfg.Listener.ReconnectDelay) * time.Second
	for attempt := 0; ; attempt++ {
		listener, err := iot.NewListener(cfg)
		if err != nil {
			return err
		}

		err = listener.Run(ctx, sink)
		if err == nil || ctx.Err() != nil || attempt >= cfg.Listener.Reconnect {
			return err
		}

		log.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Int("max", cfg.Listener.Reconnect).
			Dur("delay", delay).
			Msg("listener: reconnecting")
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
