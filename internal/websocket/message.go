package websocket

import "encoding/json"

const (
	MessageTypePing  = "ping"
	MessageTypePong  = "pong"
	MessageTypeError = "error"
)

// Message is the envelope for everything sent over a connection, both
// client commands and server-pushed events.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func NewMessage(msgType string, payload any) (*Message, error) {
	if payload == nil {
		return &Message{Type: msgType}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: msgType, Payload: data}, nil
}
