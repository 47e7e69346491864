package websocket

import "encoding/json"

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload,omitempty"`
}

// Outbound actions.
const (
	ActionEvent = "event"
	ActionPong  = "pong"
	ActionError = "error"
)

// NewMessage encodes a message; encoding a Message never fails for JSON-safe payloads.
func NewMessage(action string, payload interface{}) []byte {
	b, err := json.Marshal(Message{Action: action, Payload: payload})
	if err != nil {
		b, _ = json.Marshal(Message{Action: ActionError, Payload: map[string]string{"error": err.Error()}})
	}
	return b
}

// NewErrorMessage encodes an error notification.
func NewErrorMessage(msg string) []byte {
	return NewMessage(ActionError, map[string]string{"error": msg})
}
