package port

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mirzahilmi/stacy/internal/common/config"
	"github.com/mirzahilmi/stacy/internal/common/constant"
	_errors "github.com/mirzahilmi/stacy/internal/common/errors"
	"github.com/rs/zerolog/log"
)

type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateIdentified
	StateStreaming
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateIdentified:
		return "identified"
	case StateStreaming:
		return "streaming"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

var errListenerUsed = errors.New("listener already started")

// Listener holds one subscription to the server push channel. A Listener
// runs once; reconnecting means building a new one.
type Listener struct {
	url         string
	header      http.Header
	identityKey string
	identity    string
	dialer      *websocket.Dialer
	readTimeout time.Duration
	state       atomic.Int32
	metrics     *instruments
}

func NewListener(cfg config.Config) (*Listener, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	metrics, err := newInstruments()
	if err != nil {
		return nil, err
	}

	l := &Listener{
		url:         cfg.WebsocketUrl(),
		header:      http.Header{},
		identityKey: cfg.Listener.Identity,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: time.Duration(cfg.Listener.HandshakeTimeout) * time.Second,
		},
		readTimeout: time.Duration(cfg.Listener.ReadTimeout) * time.Second,
		metrics:     metrics,
	}
	if cfg.Token != "" {
		l.header.Set(constant.HEADER_AUTHORIZATION, "Bearer "+cfg.Token)
	}

	switch cfg.Listener.Identity {
	case constant.IDENTITY_UID:
		if cfg.Uid == "" {
			return nil, _errors.NewValidationError(map[string]string{
				"uid": "required when listener.identity is uid",
			})
		}
		l.identity = cfg.Uid
	case constant.IDENTITY_CLIENT_ID:
		l.identity = cfg.Listener.ClientId
		if l.identity == "" {
			l.identity = uuid.NewString()
		}
	}
	return l, nil
}

func (l *Listener) State() State {
	return State(l.state.Load())
}

func (l *Listener) setState(s State) {
	log.Debug().Stringer("state", s).Msg("listener: state changed")
	l.state.Store(int32(s))
}

// Run connects, identifies and hands every inbound frame to sink in arrival
// order. It returns nil when the server sends a close frame and ctx.Err() when
// the caller cancels. Other failures are reported as *errors.ListenerError.
// sink is never invoked after Run returns.
func (l *Listener) Run(ctx context.Context, sink Sink) error {
	if !l.state.CompareAndSwap(int32(StateDisconnected), int32(StateConnecting)) {
		return _errors.NewListenerError(l.State().String(), errListenerUsed)
	}
	defer l.setState(StateClosed)

	log.Info().Str("url", l.url).Msg("listener: connecting")
	conn, _, err := l.dialer.DialContext(ctx, l.url, l.header)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return _errors.NewListenerError(StateConnecting.String(), err)
	}
	defer conn.Close()

	frame, err := json.Marshal(map[string]string{l.identityKey: l.identity})
	if err != nil {
		return _errors.NewListenerError(StateConnecting.String(), err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return _errors.NewListenerError(StateConnecting.String(), err)
	}
	l.setState(StateIdentified)
	log.Info().Str(l.identityKey, l.identity).Msg("listener: identified")

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			deadline := time.Now().Add(time.Second)
			message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			if err := conn.WriteControl(websocket.CloseMessage, message, deadline); err != nil {
				log.Debug().Err(err).Msg("listener: failed to send close frame")
			}
			conn.Close()
		case <-stop:
		}
	}()

	l.setState(StateStreaming)
	for {
		if l.readTimeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(l.readTimeout)); err != nil {
				return _errors.NewListenerError(StateStreaming.String(), err)
			}
		}

		messageType, payload, err := conn.ReadMessage()
		if ctx.Err() != nil {
			log.Info().Msg("listener: stopped")
			return ctx.Err()
		}
		if err != nil {
			// 1006 is synthesised locally when the peer drops the
			// connection without a close frame.
			errClose := new(websocket.CloseError)
			if errors.As(err, &errClose) && errClose.Code != websocket.CloseAbnormalClosure {
				log.Info().
					Int("code", errClose.Code).
					Str("reason", errClose.Text).
					Msg("listener: closed by server")
				return nil
			}
			return _errors.NewListenerError(StateStreaming.String(), err)
		}

		event := Event{
			Binary:     messageType == websocket.BinaryMessage,
			Payload:    payload,
			ReceivedAt: time.Now(),
		}
		l.metrics.event(ctx)
		if err := sink.Handle(ctx, event); err != nil {
			return _errors.NewListenerError(StateStreaming.String(), fmt.Errorf("sink: %w", err))
		}
	}
}
