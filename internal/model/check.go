package model

import "github.com/rs/zerolog/log"

// IsInCheck reports whether color's king is attacked by any opposing piece's
// pseudo-legal moves. A board without that king is treated as not in check.
func IsInCheck(b *Board, color Color) bool {
	king, ok := b.FindKing(color)
	if !ok {
		log.Warn().Str("color", string(color)).Msg("king not found on board")
		return false
	}
	return isSquareAttacked(b, color.Opposite(), king)
}

func isSquareAttacked(b *Board, attacker Color, target Position) bool {
	attacked := false
	b.pieces(attacker, func(from Position, _ *Piece) bool {
		if containsPosition(PseudoLegalMoves(b, from), target) {
			attacked = true
			return false
		}
		return true
	})
	return attacked
}

// HasLegalMove reports whether any piece of color has at least one legal move.
func HasLegalMove(b *Board, color Color) bool {
	found := false
	b.pieces(color, func(from Position, _ *Piece) bool {
		if len(LegalMoves(b, from)) > 0 {
			found = true
			return false
		}
		return true
	})
	return found
}

// AllLegalMoves maps every origin square of color to its legal destinations.
// Pieces without moves are omitted.
func AllLegalMoves(b *Board, color Color) map[Position][]Position {
	out := make(map[Position][]Position)
	b.pieces(color, func(from Position, _ *Piece) bool {
		if moves := LegalMoves(b, from); len(moves) > 0 {
			out[from] = moves
		}
		return true
	})
	return out
}

func IsCheckmate(b *Board, color Color) bool {
	return IsInCheck(b, color) && !HasLegalMove(b, color)
}

func IsStalemate(b *Board, color Color) bool {
	return !IsInCheck(b, color) && !HasLegalMove(b, color)
}

// EvaluateStatus derives the status for the side to move.
func EvaluateStatus(b *Board, toMove Color) (GameStatus, CheckInfo) {
	inCheck := IsInCheck(b, toMove)
	info := CheckInfo{InCheck: inCheck}
	if king, ok := b.FindKing(toMove); ok {
		info.KingPosition = &king
	}

	hasMove := HasLegalMove(b, toMove)
	switch {
	case inCheck && !hasMove:
		return StatusCheckmate, info
	case inCheck:
		return StatusCheck, info
	case !hasMove:
		return StatusStalemate, info
	default:
		return StatusPlaying, info
	}
}
