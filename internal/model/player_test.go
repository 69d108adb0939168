package model

import "testing"

func TestPlayersColorOf(t *testing.T) {
	p := Players{White: "w", Black: "b"}
	tests := []struct {
		id    string
		color Color
		ok    bool
	}{
		{"w", White, true},
		{"b", Black, true},
		{"x", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		color, ok := p.ColorOf(tt.id)
		if color != tt.color || ok != tt.ok {
			t.Fatalf("ColorOf(%q) = %s, %v", tt.id, color, ok)
		}
	}

	if _, ok := (Players{}).ColorOf(""); ok {
		t.Fatal("empty id matched an empty seat")
	}
}

func TestPlayerIDs(t *testing.T) {
	a, b := NewPlayerID(), NewPlayerID()
	if a == b {
		t.Fatal("player ids collide")
	}
	if !ValidPlayerID(a) {
		t.Fatalf("%q rejected", a)
	}
	for _, bad := range []string{"", "player-1", "1234"} {
		if ValidPlayerID(bad) {
			t.Fatalf("%q accepted", bad)
		}
	}
}
