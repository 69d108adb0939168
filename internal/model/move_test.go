package model

import "testing"

func TestMoveAlgebraic(t *testing.T) {
	pos := func(s string) Position {
		p, _ := ParseAlgebraic(s)
		return p
	}
	blackPawn := &Piece{Type: Pawn, Color: Black}

	tests := []struct {
		name      string
		move      Move
		check     bool
		checkmate bool
		want      string
	}{
		{"pawn push", Move{From: pos("e2"), To: pos("e4"), Piece: Piece{Type: Pawn, Color: White}}, false, false, "e4"},
		{"knight", Move{From: pos("g1"), To: pos("f3"), Piece: Piece{Type: Knight, Color: White}}, false, false, "Nf3"},
		{"pawn capture", Move{From: pos("e4"), To: pos("d5"), Piece: Piece{Type: Pawn, Color: White}, CapturedPiece: blackPawn}, false, false, "exd5"},
		{"piece capture with check", Move{From: pos("c4"), To: pos("f7"), Piece: Piece{Type: Bishop, Color: White}, CapturedPiece: blackPawn}, true, false, "Bxf7+"},
		{"mate", Move{From: pos("d8"), To: pos("h4"), Piece: Piece{Type: Queen, Color: Black}}, true, true, "Qh4#"},
		{"promotion", Move{From: pos("a7"), To: pos("a8"), Piece: Piece{Type: Pawn, Color: White}, IsPromotion: true, PromotionPiece: Rook}, false, false, "a8=R"},
		{"promotion capture", Move{From: pos("b2"), To: pos("a1"), Piece: Piece{Type: Pawn, Color: Black}, CapturedPiece: &Piece{Type: Rook, Color: White}, IsPromotion: true, PromotionPiece: Queen}, true, false, "bxa1=Q+"},
		{"pending promotion", Move{From: pos("a7"), To: pos("a8"), Piece: Piece{Type: Pawn, Color: White}, IsPromotion: true}, false, false, "a8"},
		{"short castle", Move{From: pos("e1"), To: pos("g1"), Piece: Piece{Type: King, Color: White}, IsCastling: true}, false, false, "O-O"},
		{"long castle", Move{From: pos("e8"), To: pos("c8"), Piece: Piece{Type: King, Color: Black}, IsCastling: true}, false, false, "O-O-O"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.move.Algebraic(tt.check, tt.checkmate); got != tt.want {
				t.Fatalf("Algebraic = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatMoveList(t *testing.T) {
	white := Piece{Type: Pawn, Color: White}
	black := Piece{Type: Pawn, Color: Black}

	tests := []struct {
		name    string
		history []Move
		want    string
	}{
		{"empty", nil, ""},
		{"white first", []Move{
			{Piece: white, Notation: "e4"},
			{Piece: black, Notation: "e5"},
			{Piece: Piece{Type: Knight, Color: White}, Notation: "Nf3"},
		}, "1. e4 e5 2. Nf3"},
		{"black first", []Move{
			{Piece: black, Notation: "e5"},
			{Piece: white, Notation: "d4"},
			{Piece: black, Notation: "exd4"},
		}, "1... e5 2. d4 exd4"},
		{"notation missing", []Move{
			{From: Position{X: 4, Y: 6}, To: Position{X: 4, Y: 4}, Piece: white},
		}, "1. e4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatMoveList(tt.history); got != tt.want {
				t.Fatalf("FormatMoveList = %q, want %q", got, tt.want)
			}
		})
	}
}
