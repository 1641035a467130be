package hostchannel

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	mdt "github.com/goliatone/go-mdt/components/mdt"
	"github.com/goliatone/go-mdt/pkg/clock"
)

const (
	DefaultMinBackoff = 500 * time.Millisecond
	DefaultMaxBackoff = 30 * time.Second
)

// MessageHandler receives every envelope read from the channel.
type MessageHandler interface {
	HandleMessage(ctx context.Context, env mdt.Envelope) error
}

// Options configures a Channel.
type Options struct {
	URL        string
	Header     http.Header
	Handler    MessageHandler
	Dialer     *websocket.Dialer
	Clock      clock.Clock
	Logger     *zap.SugaredLogger
	MinBackoff time.Duration
	MaxBackoff time.Duration
}

// Channel is the inbound host message stream. It dials the host runtime,
// decodes envelopes and reconnects with exponential backoff.
type Channel struct {
	url        string
	header     http.Header
	handler    MessageHandler
	dialer     *websocket.Dialer
	clock      clock.Clock
	log        *zap.SugaredLogger
	minBackoff time.Duration
	maxBackoff time.Duration
}

// New builds a channel.
func New(opts Options) (*Channel, error) {
	if opts.URL == "" {
		return nil, errors.New("hostchannel: url is required")
	}
	if opts.Handler == nil {
		return nil, errors.New("hostchannel: handler is required")
	}
	ch := &Channel{
		url:        opts.URL,
		header:     opts.Header,
		handler:    opts.Handler,
		dialer:     opts.Dialer,
		clock:      opts.Clock,
		log:        opts.Logger,
		minBackoff: opts.MinBackoff,
		maxBackoff: opts.MaxBackoff,
	}
	if ch.dialer == nil {
		ch.dialer = websocket.DefaultDialer
	}
	if ch.clock == nil {
		ch.clock = clock.Real()
	}
	if ch.log == nil {
		ch.log = zap.NewNop().Sugar()
	}
	if ch.minBackoff <= 0 {
		ch.minBackoff = DefaultMinBackoff
	}
	if ch.maxBackoff < ch.minBackoff {
		ch.maxBackoff = max(DefaultMaxBackoff, ch.minBackoff)
	}
	return ch, nil
}

// Run reads envelopes until ctx is cancelled or the controller stops.
func (c *Channel) Run(ctx context.Context) error {
	backoff := c.minBackoff
	for {
		conn, _, err := c.dialer.DialContext(ctx, c.url, c.header)
		if err == nil {
			c.log.Infow("host channel connected", "url", c.url)
			backoff = c.minBackoff
			err = c.read(ctx, conn)
			if errors.Is(err, mdt.ErrLoopStopped) {
				return err
			}
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warnw("host channel disconnected", "url", c.url, "error", err, "retry_in", backoff)
		if err := c.wait(ctx, backoff); err != nil {
			return err
		}
		backoff = min(backoff*2, c.maxBackoff)
	}
}

func (c *Channel) read(ctx context.Context, conn *websocket.Conn) error {
	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	})
	defer stop()
	defer conn.Close()

	for {
		var env mdt.Envelope
		if err := conn.ReadJSON(&env); err != nil {
			return fmt.Errorf("hostchannel: read: %w", err)
		}
		err := c.handler.HandleMessage(ctx, env)
		var dispatch *mdt.MessageDispatchError
		switch {
		case err == nil:
		case errors.As(err, &dispatch):
			c.log.Warnw("host message rejected", "type", env.Type, "error", err)
		default:
			return err
		}
	}
}

func (c *Channel) wait(ctx context.Context, d time.Duration) error {
	fired := make(chan struct{})
	timer := c.clock.AfterFunc(d, func() { close(fired) })
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-fired:
		return nil
	}
}
