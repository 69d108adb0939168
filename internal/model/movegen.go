package model

var (
	rookDirs   = []Position{{X: 0, Y: 1}, {X: 0, Y: -1}, {X: 1, Y: 0}, {X: -1, Y: 0}}
	bishopDirs = []Position{{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
	queenDirs  = append(append([]Position{}, rookDirs...), bishopDirs...)
	knightDirs = []Position{{X: 1, Y: 2}, {X: 2, Y: 1}, {X: 2, Y: -1}, {X: 1, Y: -2}, {X: -1, Y: -2}, {X: -2, Y: -1}, {X: -2, Y: 1}, {X: -1, Y: 2}}
	kingDirs   = []Position{{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1}, {X: -1, Y: 0}, {X: 1, Y: 0}, {X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1}}
)

// LegalMoves returns the destinations the piece on from may move to without
// leaving its own king in check. This is the list to show players.
func LegalMoves(b *Board, from Position) []Position {
	return ValidMoves(b, from, true)
}

// PseudoLegalMoves returns the destinations reachable under piece movement
// rules alone. Check detection is built on this tier so that it never
// recurses into the legality filter.
func PseudoLegalMoves(b *Board, from Position) []Position {
	return ValidMoves(b, from, false)
}

// ValidMoves generates moves for the piece on from. With checkForCheck set,
// moves exposing the mover's king are dropped. Empty or off-board origins
// yield no moves.
func ValidMoves(b *Board, from Position, checkForCheck bool) []Position {
	piece := b.At(from)
	if piece == nil {
		return []Position{}
	}

	var moves []Position
	switch piece.Type {
	case Pawn:
		moves = getPseudoPawnMoves(b, from, piece)
	case Knight:
		moves = getStepMoves(b, from, piece, knightDirs)
	case Bishop:
		moves = getSlidingMoves(b, from, piece, bishopDirs)
	case Rook:
		moves = getSlidingMoves(b, from, piece, rookDirs)
	case Queen:
		moves = getSlidingMoves(b, from, piece, queenDirs)
	case King:
		moves = getStepMoves(b, from, piece, kingDirs)
	default:
		return []Position{}
	}

	if !checkForCheck {
		return moves
	}
	return filterLegalMoves(b, from, piece.Color, moves)
}

func filterLegalMoves(b *Board, from Position, color Color, moves []Position) []Position {
	legal := make([]Position, 0, len(moves))
	for _, to := range moves {
		if !moveResultsInCheck(b, from, to, color) {
			legal = append(legal, to)
		}
	}
	return legal
}

// moveResultsInCheck plays from->to on a clone and reports whether color's
// king is attacked afterwards.
func moveResultsInCheck(b *Board, from, to Position, color Color) bool {
	next := b.Clone()
	next.Set(to, next.At(from))
	next.Set(from, nil)
	return IsInCheck(next, color)
}

func pawnDirection(color Color) int {
	if color == White {
		return -1
	}
	return 1
}

func pawnHomeRow(color Color) int {
	if color == White {
		return 6
	}
	return 1
}

// promotionRow is the opponent's back rank for a pawn of color.
func promotionRow(color Color) int {
	if color == White {
		return 0
	}
	return 7
}

func getPseudoPawnMoves(b *Board, from Position, piece *Piece) []Position {
	moves := []Position{}
	dir := pawnDirection(piece.Color)

	// Forward one, then two from the home row. No en passant.
	forward := Position{X: from.X, Y: from.Y + dir}
	if forward.InBounds() && b.At(forward) == nil {
		moves = append(moves, forward)
		twoForward := Position{X: from.X, Y: from.Y + 2*dir}
		if from.Y == pawnHomeRow(piece.Color) && twoForward.InBounds() && b.At(twoForward) == nil {
			moves = append(moves, twoForward)
		}
	}

	for _, dx := range []int{-1, 1} {
		diag := Position{X: from.X + dx, Y: from.Y + dir}
		if target := b.At(diag); target != nil && target.Color != piece.Color {
			moves = append(moves, diag)
		}
	}
	return moves
}

// getStepMoves covers knight and king: single steps onto empty or enemy
// squares. No castling.
func getStepMoves(b *Board, from Position, piece *Piece, dirs []Position) []Position {
	moves := []Position{}
	for _, dir := range dirs {
		target := from.add(dir)
		if !target.InBounds() {
			continue
		}
		if occupant := b.At(target); occupant == nil || occupant.Color != piece.Color {
			moves = append(moves, target)
		}
	}
	return moves
}

func getSlidingMoves(b *Board, from Position, piece *Piece, dirs []Position) []Position {
	moves := []Position{}
	for _, dir := range dirs {
		target := from.add(dir)
		for target.InBounds() {
			occupant := b.At(target)
			if occupant == nil {
				moves = append(moves, target)
			} else {
				if occupant.Color != piece.Color {
					moves = append(moves, target)
				}
				break
			}
			target = target.add(dir)
		}
	}
	return moves
}

func containsPosition(list []Position, p Position) bool {
	for _, q := range list {
		if q == p {
			return true
		}
	}
	return false
}
