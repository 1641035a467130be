package mdt

import (
	"context"
	"errors"
)

// HandleMessage applies a host envelope. Unknown types are logged and
// ignored; malformed payloads are logged and returned as
// *MessageDispatchError without touching state.
func (c *Controller) HandleMessage(ctx context.Context, env Envelope) error {
	var dispatchErr error
	if err := c.call(ctx, func() { dispatchErr = c.dispatch(env) }); err != nil {
		return err
	}
	return dispatchErr
}

func (c *Controller) dispatch(env Envelope) error {
	msg, err := DecodeEnvelope(env)
	if err != nil {
		c.log.Warnw("malformed host message", "type", env.Type, "error", err)
		c.telemetry.Record(c.runCtx, "mdt.message.malformed", map[string]any{"type": string(env.Type)})
		return err
	}
	c.telemetry.Record(c.runCtx, "mdt.message", map[string]any{"type": string(msg.MessageType())})

	switch m := msg.(type) {
	case OpenMessage:
		c.open(m.Player)
	case CloseMessage:
		c.hide()
	case PlayerDataMessage:
		c.session = m.Session
		c.renderUser()
	case UpdateDataMessage:
		c.log.Debugw("update data received", "bytes", len(m.Payload))
		if c.onUpdate != nil {
			c.onUpdate(c.runCtx, m.Payload)
		}
	case NotificationMessage:
		c.notify(m.Message, m.Kind)
	case UnknownMessage:
		c.log.Infow("ignoring unknown host message", "type", m.Type)
	default:
		err := &MessageDispatchError{Type: msg.MessageType(), Err: errors.New("unhandled message")}
		c.log.Warnw("unhandled host message", "error", err)
	}
	return nil
}
