package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	// client -> server
	MessageTypeSelect    MessageType = "select"
	MessageTypeMove      MessageType = "move"
	MessageTypePromote   MessageType = "promote"
	MessageTypeRestart   MessageType = "restart"
	MessageTypeDrawOffer MessageType = "drawOffer"

	// server -> client
	MessageTypeGameState MessageType = "gameState"
	MessageTypeError     MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// SelectPayload carries a clicked square in algebraic form, e.g. "e2".
type SelectPayload struct {
	Square string `json:"square"`
}

type MovePayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type PromotePayload struct {
	Square string `json:"square"`
	Piece  string `json:"piece"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// NewMessage marshals payload into a Message of the given type.
func NewMessage(t MessageType, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: data}, nil
}
