package model

type GameStatus string

const (
	StatusPlaying   GameStatus = "playing"
	StatusCheck     GameStatus = "check"
	StatusCheckmate GameStatus = "checkmate"
	StatusStalemate GameStatus = "stalemate"
	// StatusDraw is only reached through DeclareDraw.
	StatusDraw GameStatus = "draw"
)

func (s GameStatus) Valid() bool {
	switch s {
	case StatusPlaying, StatusCheck, StatusCheckmate, StatusStalemate, StatusDraw:
		return true
	}
	return false
}

// IsOver reports whether the game accepts no further moves.
func (s GameStatus) IsOver() bool {
	return s != StatusPlaying && s != StatusCheck
}

// Event tells the caller what a transition did, so it can pick feedback
// (sounds, toasts) without diffing states.
type Event string

const (
	EventNone       Event = ""
	EventSelected   Event = "selected"
	EventDeselected Event = "deselected"
	EventIllegal    Event = "illegal"
	EventMove       Event = "move"
	EventCapture    Event = "capture"
	EventCheck      Event = "check"
	EventCheckmate  Event = "checkmate"
	EventStalemate  Event = "stalemate"
	EventPromotion  Event = "promotion"
	EventPromoted   Event = "promoted"
	EventDraw       Event = "draw"
	EventRestart    Event = "restart"
)

type CheckInfo struct {
	InCheck      bool      `json:"inCheck"`
	KingPosition *Position `json:"kingPosition"`
}

// Session holds identity fields that survive a restart.
type Session struct {
	RoomID      string `json:"roomId,omitempty"`
	Online      bool   `json:"isOnline"`
	PlayerColor Color  `json:"playerColor,omitempty"`
}

// GameState is the aggregate root of a single game. It is not safe for
// concurrent use; callers serialize mutations per game.
type GameState struct {
	Board            *Board     `json:"board"`
	CurrentPlayer    Color      `json:"currentPlayer"`
	SelectedPiece    *Position  `json:"selectedPiece"`
	ValidMoves       []Position `json:"validMoves"`
	Status           GameStatus `json:"gameStatus"`
	History          []Move     `json:"history"`
	Check            CheckInfo  `json:"check"`
	PendingPromotion *Position  `json:"pendingPromotion"`
	Session
}

func NewGameState(session Session) *GameState {
	return &GameState{
		Board:         NewStandardBoard(),
		CurrentPlayer: White,
		ValidMoves:    []Position{},
		Status:        StatusPlaying,
		History:       []Move{},
		Session:       session,
	}
}

// NewGameStateFromBoard starts a game from an arbitrary position with toMove
// on turn; status and check info are derived from the board.
func NewGameStateFromBoard(b *Board, toMove Color, session Session) *GameState {
	s := &GameState{
		Board:         b,
		CurrentPlayer: toMove,
		ValidMoves:    []Position{},
		History:       []Move{},
		Session:       session,
	}
	s.Status, s.Check = EvaluateStatus(b, toMove)
	return s
}

// SelectSquare is the click handler of the state machine. Rejected input
// leaves the state untouched.
func (s *GameState) SelectSquare(pos Position) Event {
	if s.Status.IsOver() || s.PendingPromotion != nil || !pos.InBounds() {
		return EventNone
	}

	piece := s.Board.At(pos)
	ownPiece := piece != nil && piece.Color == s.CurrentPlayer

	if s.SelectedPiece == nil {
		if !ownPiece {
			return EventNone
		}
		s.selectPiece(pos)
		return EventSelected
	}

	switch {
	case *s.SelectedPiece == pos:
		s.clearSelection()
		return EventDeselected
	case containsPosition(s.ValidMoves, pos):
		return s.applyMove(*s.SelectedPiece, pos)
	case ownPiece:
		s.selectPiece(pos)
		return EventSelected
	default:
		s.clearSelection()
		return EventIllegal
	}
}

// AttemptMove plays from->to directly if it is a legal move for the side to
// move, regardless of the current selection.
func (s *GameState) AttemptMove(from, to Position) Event {
	if s.Status.IsOver() || s.PendingPromotion != nil {
		return EventNone
	}
	piece := s.Board.At(from)
	if piece == nil || piece.Color != s.CurrentPlayer {
		return EventIllegal
	}
	if !containsPosition(LegalMoves(s.Board, from), to) {
		return EventIllegal
	}
	return s.applyMove(from, to)
}

func (s *GameState) selectPiece(pos Position) {
	p := pos
	s.SelectedPiece = &p
	s.ValidMoves = LegalMoves(s.Board, pos)
}

func (s *GameState) clearSelection() {
	s.SelectedPiece = nil
	s.ValidMoves = []Position{}
}

// applyMove assumes from->to has been validated as legal.
func (s *GameState) applyMove(from, to Position) Event {
	next := s.Board.Clone()
	piece := *next.At(from)

	record := Move{From: from, To: to, Piece: piece}
	if captured := next.At(to); captured != nil {
		cp := *captured
		record.CapturedPiece = &cp
	}

	moved := piece
	moved.HasMoved = true
	next.Set(to, &moved)
	next.Set(from, nil)
	s.Board = next
	s.clearSelection()

	if piece.Type == Pawn && to.Y == promotionRow(piece.Color) {
		// Turn does not pass until the promotion choice arrives.
		record.IsPromotion = true
		s.History = append(s.History, record)
		p := to
		s.PendingPromotion = &p
		return EventPromotion
	}

	s.CurrentPlayer = s.CurrentPlayer.Opposite()
	s.Status, s.Check = EvaluateStatus(s.Board, s.CurrentPlayer)
	record.Notation = record.Algebraic(s.Check.InCheck, s.Status == StatusCheckmate)
	s.History = append(s.History, record)

	return s.moveEvent(record.CapturedPiece != nil)
}

// ResolvePromotion replaces the pawn waiting on pos with a piece of the
// chosen type. It is a no-op unless a promotion is pending on pos and choice
// is queen, rook, bishop or knight.
func (s *GameState) ResolvePromotion(pos Position, choice PieceType) Event {
	if s.PendingPromotion == nil || *s.PendingPromotion != pos || !choice.IsPromotionChoice() {
		return EventNone
	}
	pawn := s.Board.At(pos)
	if pawn == nil {
		return EventNone
	}

	next := s.Board.Clone()
	next.Set(pos, &Piece{Type: choice, Color: pawn.Color, HasMoved: true})
	s.Board = next

	// The promoting side's move is complete here, so the turn passes before
	// the status is derived for the opponent.
	s.CurrentPlayer = pawn.Color.Opposite()
	s.Status, s.Check = EvaluateStatus(s.Board, s.CurrentPlayer)
	s.PendingPromotion = nil

	if n := len(s.History); n > 0 && s.History[n-1].IsPromotion {
		last := &s.History[n-1]
		last.PromotionPiece = choice
		last.Notation = last.Algebraic(s.Check.InCheck, s.Status == StatusCheckmate)
	}

	if ev := s.moveEvent(false); ev != EventMove {
		return ev
	}
	return EventPromoted
}

func (s *GameState) moveEvent(captured bool) Event {
	switch s.Status {
	case StatusCheckmate:
		return EventCheckmate
	case StatusStalemate:
		return EventStalemate
	case StatusCheck:
		return EventCheck
	}
	if captured {
		return EventCapture
	}
	return EventMove
}

// Restart replaces the game with the standard starting position, keeping
// only the session identity.
func (s *GameState) Restart() Event {
	*s = *NewGameState(s.Session)
	return EventRestart
}

// DeclareDraw ends a running game as drawn. No rule inside the engine
// produces a draw; it is an external override such as draw by agreement.
func (s *GameState) DeclareDraw() Event {
	if s.Status.IsOver() {
		return EventNone
	}
	s.Status = StatusDraw
	s.PendingPromotion = nil
	s.clearSelection()
	return EventDraw
}

// Snapshot returns a deep copy that shares nothing with s.
func (s *GameState) Snapshot() GameState {
	out := *s
	out.Board = s.Board.Clone()
	out.ValidMoves = append([]Position{}, s.ValidMoves...)
	out.History = make([]Move, len(s.History))
	for i, m := range s.History {
		if m.CapturedPiece != nil {
			cp := *m.CapturedPiece
			m.CapturedPiece = &cp
		}
		out.History[i] = m
	}
	out.SelectedPiece = copyPosition(s.SelectedPiece)
	out.PendingPromotion = copyPosition(s.PendingPromotion)
	out.Check.KingPosition = copyPosition(s.Check.KingPosition)
	return out
}

func copyPosition(p *Position) *Position {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
