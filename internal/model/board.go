package model

import "fmt"

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

func (p PieceType) Valid() bool {
	switch p {
	case King, Queen, Rook, Bishop, Knight, Pawn:
		return true
	}
	return false
}

// IsPromotionChoice reports whether a pawn may be promoted to p.
func (p PieceType) IsPromotionChoice() bool {
	switch p {
	case Queen, Rook, Bishop, Knight:
		return true
	}
	return false
}

func (p PieceType) getPieceNotation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	}
	return ""
}

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Valid() bool {
	return c == White || c == Black
}

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

type Piece struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	HasMoved bool      `json:"hasMoved"`
}

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) InBounds() bool {
	return p.X >= 0 && p.X < 8 && p.Y >= 0 && p.Y < 8
}

// Algebraic returns the square name, e.g. "e4". Row 0 is rank 8.
func (p Position) Algebraic() string {
	return fmt.Sprintf("%c%d", p.X+'a', 8-p.Y)
}

func (p Position) getFileNotation() string {
	return fmt.Sprintf("%c", p.X+'a')
}

func (p Position) add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// ParseAlgebraic converts "a1".."h8" into a Position.
func ParseAlgebraic(s string) (Position, bool) {
	if len(s) != 2 {
		return Position{}, false
	}
	file, rank := s[0], s[1]
	if file >= 'A' && file <= 'H' {
		file += 'a' - 'A'
	}
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return Position{}, false
	}
	return Position{X: int(file - 'a'), Y: 8 - int(rank-'0')}, true
}

// Board is indexed [y][x]; row 0 is black's back rank.
type Board [8][8]*Piece

func NewEmptyBoard() *Board {
	return &Board{}
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

func NewStandardBoard() *Board {
	b := NewEmptyBoard()
	for x, t := range backRank {
		b[0][x] = &Piece{Type: t, Color: Black}
		b[1][x] = &Piece{Type: Pawn, Color: Black}
		b[6][x] = &Piece{Type: Pawn, Color: White}
		b[7][x] = &Piece{Type: t, Color: White}
	}
	return b
}

// At returns the piece on p, or nil for an empty or off-board square.
func (b *Board) At(p Position) *Piece {
	if !p.InBounds() {
		return nil
	}
	return b[p.Y][p.X]
}

func (b *Board) Set(p Position, piece *Piece) {
	if !p.InBounds() {
		return
	}
	b[p.Y][p.X] = piece
}

// Clone returns a deep copy; no *Piece is shared with the receiver.
func (b *Board) Clone() *Board {
	out := &Board{}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if pc := b[y][x]; pc != nil {
				cp := *pc
				out[y][x] = &cp
			}
		}
	}
	return out
}

func (b *Board) FindKing(color Color) (Position, bool) {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if pc := b[y][x]; pc != nil && pc.Type == King && pc.Color == color {
				return Position{X: x, Y: y}, true
			}
		}
	}
	return Position{}, false
}

// Equal compares piece placement and hasMoved flags.
func (b *Board) Equal(other *Board) bool {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			l, r := b[y][x], other[y][x]
			if (l == nil) != (r == nil) {
				return false
			}
			if l != nil && *l != *r {
				return false
			}
		}
	}
	return true
}

// pieces calls fn for every piece of the given color in row-major order.
func (b *Board) pieces(color Color, fn func(Position, *Piece) bool) {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if pc := b[y][x]; pc != nil && pc.Color == color {
				if !fn(Position{X: x, Y: y}, pc) {
					return
				}
			}
		}
	}
}
