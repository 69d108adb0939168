package ws

import (
	"encoding/json"
	"testing"
)

func TestNewMessageEmbedsPayload(t *testing.T) {
	msg, err := NewMessage(MessageTypeError, ErrorPayload{Error: `bad "square"`})
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if got, want := string(data), `{"type":"error","payload":{"error":"bad \"square\""}}`; got != want {
		t.Fatalf("wire form = %s, want %s", got, want)
	}

	var in Message
	if err := json.Unmarshal([]byte(`{"type":"move","payload":{"from":"e2","to":"e4"}}`), &in); err != nil {
		t.Fatal(err)
	}
	var move MovePayload
	if err := json.Unmarshal(in.Payload, &move); err != nil || move.From != "e2" || move.To != "e4" {
		t.Fatalf("move payload = %+v, %v", move, err)
	}
}
