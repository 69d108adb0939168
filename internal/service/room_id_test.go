package service

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestNewRoomID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		id, err := NewRoomID()
		if err != nil || !ValidRoomID(id) {
			t.Fatalf("generated invalid id %q: %v", id, err)
		}
		seen[id] = true
	}
	if len(seen) < 190 {
		t.Fatalf("only %d distinct ids in 200", len(seen))
	}
}

func TestValidRoomID(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"ABC123", true},
		{"ZZZZZZ", true},
		{"abc123", false},
		{"ABC12", false},
		{"ABC1234", false},
		{"ABC-12", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidRoomID(tt.in); got != tt.want {
			t.Fatalf("ValidRoomID(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := NormalizeRoomID("  abc123 "); got != "ABC123" {
		t.Fatalf("NormalizeRoomID = %q", got)
	}
}

func TestNewRoomIDDiscardsBiasedBytes(t *testing.T) {
	// 252..255 would wrap onto A..D; they must be skipped, not folded in.
	src := bytes.NewReader([]byte{255, 252, 0, 1, 253, 25, 26, 35, 254, 36, 0, 0})
	id, err := newRoomID(src)
	if err != nil {
		t.Fatalf("newRoomID: %v", err)
	}
	if id != "ABZ09A" {
		t.Fatalf("id = %q, want ABZ09A", id)
	}
}

func TestNewRoomIDReadError(t *testing.T) {
	if _, err := newRoomID(bytes.NewReader([]byte{1, 2})); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("short source err = %v, want io.ErrUnexpectedEOF", err)
	}
	if _, err := newRoomID(bytes.NewReader(nil)); !errors.Is(err, io.EOF) {
		t.Fatalf("empty source err = %v, want io.EOF", err)
	}
}
