package model

import (
	"fmt"
	"strings"
)

// Move is one history entry. Piece is the mover as it was before the move.
type Move struct {
	From           Position  `json:"from"`
	To             Position  `json:"to"`
	Piece          Piece     `json:"piece"`
	CapturedPiece  *Piece    `json:"capturedPiece,omitempty"`
	IsPromotion    bool      `json:"isPromotion,omitempty"`
	PromotionPiece PieceType `json:"promotionPiece,omitempty"`
	// Reserved: the generator never produces castling or en passant.
	IsCastling  bool   `json:"isCastling,omitempty"`
	IsEnPassant bool   `json:"isEnPassant,omitempty"`
	Notation    string `json:"notation,omitempty"`
}

// Algebraic renders the move as e.g. "Nf3", "exd5", "e8=Q+", "Qh4#".
func (m Move) Algebraic(isCheck, isCheckmate bool) string {
	if m.IsCastling {
		if m.To.X > m.From.X {
			return "O-O"
		}
		return "O-O-O"
	}

	var sb strings.Builder
	sb.WriteString(m.Piece.Type.getPieceNotation())
	if m.CapturedPiece != nil {
		if m.Piece.Type == Pawn {
			sb.WriteString(m.From.getFileNotation())
		}
		sb.WriteString("x")
	}
	sb.WriteString(m.To.Algebraic())
	if m.IsPromotion && m.PromotionPiece != "" {
		sb.WriteString("=")
		sb.WriteString(m.PromotionPiece.getPieceNotation())
	}

	switch {
	case isCheckmate:
		sb.WriteString("#")
	case isCheck:
		sb.WriteString("+")
	}
	return sb.String()
}

// FormatMoveList renders history as numbered move text: "1. e4 e5 2. Nf3".
func FormatMoveList(history []Move) string {
	parts := make([]string, 0, len(history)+len(history)/2+1)
	offset := 0
	if len(history) > 0 && history[0].Piece.Color == Black {
		offset = 1
	}
	for i, m := range history {
		text := m.Notation
		if text == "" {
			text = m.Algebraic(false, false)
		}
		if m.Piece.Color == White {
			parts = append(parts, fmt.Sprintf("%d.", (i+offset)/2+1))
		} else if i == 0 {
			parts = append(parts, "1...")
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}
