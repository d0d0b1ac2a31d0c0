// Package socket owns the single shared connection to the game authority and
// the named-event envelope spoken over it. Both the client transport and the
// stub server speak the same wire format: one JSON envelope per websocket
// text message.
package socket

import (
	"encoding/json"
	"errors"
)

// Lifecycle signals, synthesized locally; they carry no payload.
const (
	EventConnect    = "connect"
	EventDisconnect = "disconnect"
)

var ErrNotConnected = errors.New("socket: not connected")

// Handler receives the raw data portion of an envelope. An alias, not a
// defined type, so *Manager satisfies consumer interfaces declared against
// the plain func signature.
type Handler = func(data json.RawMessage)

// Envelope is the wire framing for every named event in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// EncodeEnvelope frames a named event for the wire.
func EncodeEnvelope(event string, payload any) ([]byte, error) {
	var data json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		data = b
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}
