package model

import (
	"fmt"

	"github.com/notnil/chess"
)

var toChessType = map[PieceType]chess.PieceType{
	King:   chess.King,
	Queen:  chess.Queen,
	Rook:   chess.Rook,
	Bishop: chess.Bishop,
	Knight: chess.Knight,
	Pawn:   chess.Pawn,
}

var fromChessType = map[chess.PieceType]PieceType{
	chess.King:   King,
	chess.Queen:  Queen,
	chess.Rook:   Rook,
	chess.Bishop: Bishop,
	chess.Knight: Knight,
	chess.Pawn:   Pawn,
}

var chessPieces = map[chess.Color]map[chess.PieceType]chess.Piece{
	chess.White: {
		chess.King: chess.WhiteKing, chess.Queen: chess.WhiteQueen, chess.Rook: chess.WhiteRook,
		chess.Bishop: chess.WhiteBishop, chess.Knight: chess.WhiteKnight, chess.Pawn: chess.WhitePawn,
	},
	chess.Black: {
		chess.King: chess.BlackKing, chess.Queen: chess.BlackQueen, chess.Rook: chess.BlackRook,
		chess.Bishop: chess.BlackBishop, chess.Knight: chess.BlackKnight, chess.Pawn: chess.BlackPawn,
	},
}

// ToSquare maps a Position onto notnil/chess square numbering (a1 = 0).
func (p Position) ToSquare() chess.Square {
	return chess.NewSquare(chess.File(p.X), chess.Rank(7-p.Y))
}

// PositionFromSquare is the inverse of ToSquare.
func PositionFromSquare(sq chess.Square) Position {
	return Position{X: int(sq.File()), Y: 7 - int(sq.Rank())}
}

func toChessColor(c Color) chess.Color {
	if c == White {
		return chess.White
	}
	return chess.Black
}

// ParseFEN reads piece placement and side to move from a FEN string.
// Castling and en passant fields are accepted but ignored. Pawns off their
// home row, and every other piece off its starting square, are marked moved.
func ParseFEN(fen string) (*Board, Color, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, "", fmt.Errorf("parse fen: %w", err)
	}
	pos := chess.NewGame(opt).Position()

	start := NewStandardBoard()
	b := NewEmptyBoard()
	for sq, pc := range pos.Board().SquareMap() {
		t, ok := fromChessType[pc.Type()]
		if !ok {
			continue
		}
		color := White
		if pc.Color() == chess.Black {
			color = Black
		}
		at := PositionFromSquare(sq)
		piece := &Piece{Type: t, Color: color}
		if home := start.At(at); home == nil || home.Type != t || home.Color != color {
			piece.HasMoved = true
		}
		b.Set(at, piece)
	}

	toMove := White
	if pos.Turn() == chess.Black {
		toMove = Black
	}
	return b, toMove, nil
}

// BoardFEN returns the piece placement field of FEN for b.
func BoardFEN(b *Board) string {
	squares := make(map[chess.Square]chess.Piece)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			pc := b[y][x]
			if pc == nil {
				continue
			}
			squares[Position{X: x, Y: y}.ToSquare()] = chessPieces[toChessColor(pc.Color)][toChessType[pc.Type]]
		}
	}
	return chess.NewBoard(squares).String()
}

// FEN renders the game as a full FEN record. Castling and en passant are
// always "-" because neither rule is generated.
func (s *GameState) FEN() string {
	side := "w"
	if s.CurrentPlayer == Black {
		side = "b"
	}
	fullMove := 1
	halfMove := 0
	for _, m := range s.History {
		if m.Piece.Color == Black {
			fullMove++
		}
		if m.Piece.Type == Pawn || m.CapturedPiece != nil {
			halfMove = 0
		} else {
			halfMove++
		}
	}
	return fmt.Sprintf("%s %s - - %d %d", BoardFEN(s.Board), side, halfMove, fullMove)
}
