package model

import "testing"

// sq parses an algebraic square or fails the test.
func sq(t testing.TB, s string) Position {
	t.Helper()
	p, ok := ParseAlgebraic(s)
	if !ok {
		t.Fatalf("bad square %q", s)
	}
	return p
}

func TestParseAlgebraic(t *testing.T) {
	tests := []struct {
		in   string
		want Position
		ok   bool
	}{
		{"a8", Position{X: 0, Y: 0}, true},
		{"h1", Position{X: 7, Y: 7}, true},
		{"e4", Position{X: 4, Y: 4}, true},
		{"E2", Position{X: 4, Y: 6}, true},
		{"i1", Position{}, false},
		{"a9", Position{}, false},
		{"a0", Position{}, false},
		{"e", Position{}, false},
		{"", Position{}, false},
		{"e44", Position{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseAlgebraic(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("ParseAlgebraic(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestAlgebraicRoundTrip(t *testing.T) {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			p := Position{X: x, Y: y}
			got, ok := ParseAlgebraic(p.Algebraic())
			if !ok || got != p {
				t.Fatalf("round trip %v via %q gave %v", p, p.Algebraic(), got)
			}
		}
	}
}

func TestNewStandardBoard(t *testing.T) {
	b := NewStandardBoard()

	count := map[Color]int{}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if pc := b[y][x]; pc != nil {
				count[pc.Color]++
				if pc.HasMoved {
					t.Fatalf("piece on %s starts moved", Position{X: x, Y: y}.Algebraic())
				}
			}
		}
	}
	if count[White] != 16 || count[Black] != 16 {
		t.Fatalf("piece count = %v, want 16 each", count)
	}

	if k, ok := b.FindKing(White); !ok || k != sq(t, "e1") {
		t.Fatalf("white king at %v, want e1", k)
	}
	if k, ok := b.FindKing(Black); !ok || k != sq(t, "e8") {
		t.Fatalf("black king at %v, want e8", k)
	}
	if pc := b.At(sq(t, "d1")); pc == nil || pc.Type != Queen || pc.Color != White {
		t.Fatalf("d1 = %+v, want white queen", pc)
	}
	if pc := b.At(Position{X: 8, Y: 0}); pc != nil {
		t.Fatalf("off-board At returned %+v", pc)
	}
}

func TestBoardCloneIsDeep(t *testing.T) {
	b := NewStandardBoard()
	c := b.Clone()
	if !b.Equal(c) {
		t.Fatal("clone differs from original")
	}

	c.At(sq(t, "e2")).HasMoved = true
	c.Set(sq(t, "e4"), &Piece{Type: Queen, Color: Black})

	if b.At(sq(t, "e2")).HasMoved {
		t.Fatal("mutating clone changed original piece")
	}
	if b.At(sq(t, "e4")) != nil {
		t.Fatal("mutating clone changed original square")
	}
	if b.Equal(c) {
		t.Fatal("Equal ignored differences")
	}
}
