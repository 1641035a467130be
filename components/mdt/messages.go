package mdt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// MessageType tags an inbound host envelope.
type MessageType string

const (
	MessageOpen         MessageType = "open"
	MessageClose        MessageType = "close"
	MessagePlayerData   MessageType = "playerData"
	MessageUpdateData   MessageType = "updateData"
	MessageNotification MessageType = "notification"
)

// Envelope is the raw message pushed by the host.
type Envelope struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// HostMessage is a decoded envelope.
type HostMessage interface {
	MessageType() MessageType
}

// OpenMessage shows the dashboard, optionally replacing the session.
type OpenMessage struct {
	Player *Session
}

// CloseMessage hides the dashboard.
type CloseMessage struct{}

// PlayerDataMessage replaces the session.
type PlayerDataMessage struct {
	Session Session
}

// UpdateDataMessage carries a host push that has no UI effect yet.
type UpdateDataMessage struct {
	Payload json.RawMessage
}

// NotificationMessage enqueues a notification.
type NotificationMessage struct {
	Message string
	Kind    NotificationKind
}

// UnknownMessage is any envelope with an unrecognized type.
type UnknownMessage struct {
	Type MessageType
}

func (OpenMessage) MessageType() MessageType         { return MessageOpen }
func (CloseMessage) MessageType() MessageType        { return MessageClose }
func (PlayerDataMessage) MessageType() MessageType   { return MessagePlayerData }
func (UpdateDataMessage) MessageType() MessageType   { return MessageUpdateData }
func (NotificationMessage) MessageType() MessageType { return MessageNotification }
func (m UnknownMessage) MessageType() MessageType    { return m.Type }

var errMissingData = errors.New("missing data")

// DecodeEnvelope converts an envelope into its typed message. Unknown types
// decode to UnknownMessage without error.
func DecodeEnvelope(env Envelope) (HostMessage, error) {
	switch env.Type {
	case MessageOpen:
		var payload struct {
			Player *Session `json:"player"`
		}
		if err := decodeData(env.Data, &payload); err != nil && !errors.Is(err, errMissingData) {
			return nil, &MessageDispatchError{Type: env.Type, Err: err}
		}
		return OpenMessage{Player: payload.Player}, nil
	case MessageClose:
		return CloseMessage{}, nil
	case MessagePlayerData:
		var session Session
		if err := decodeData(env.Data, &session); err != nil && !errors.Is(err, errMissingData) {
			return nil, &MessageDispatchError{Type: env.Type, Err: err}
		}
		return PlayerDataMessage{Session: session}, nil
	case MessageUpdateData:
		return UpdateDataMessage{Payload: env.Data}, nil
	case MessageNotification:
		var payload struct {
			Message *string          `json:"message"`
			Type    NotificationKind `json:"type"`
		}
		if err := decodeData(env.Data, &payload); err != nil {
			return nil, &MessageDispatchError{Type: env.Type, Err: err}
		}
		if payload.Message == nil {
			return nil, &MessageDispatchError{Type: env.Type, Err: errors.New("missing message")}
		}
		return NotificationMessage{Message: *payload.Message, Kind: payload.Type.Normalize()}, nil
	default:
		return UnknownMessage{Type: env.Type}, nil
	}
}

// ParseEnvelope decodes a raw JSON envelope.
func ParseEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, &MessageDispatchError{Err: fmt.Errorf("decode envelope: %w", err)}
	}
	return env, nil
}

func decodeData(data json.RawMessage, target any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return errMissingData
	}
	if err := json.Unmarshal(trimmed, target); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
