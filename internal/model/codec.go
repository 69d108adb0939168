package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultTimerSeconds is the clock each side starts with.
const DefaultTimerSeconds = 600

var (
	ErrMalformedBoard   = errors.New("malformed board")
	ErrMalformedHistory = errors.New("malformed history")
	ErrMalformedTimers  = errors.New("malformed timers")
)

// Timers is the persisted clock pair in seconds. Each side's value is its
// time left when its clock last started or stopped; StartTime is the unix
// millisecond instant the running side's turn began, so that side has
// value - (now - StartTime) left. StartTime is zero while no clock runs.
type Timers struct {
	White     int   `json:"white"`
	Black     int   `json:"black"`
	StartTime int64 `json:"startTime,omitempty"`
}

func DefaultTimers() Timers {
	return Timers{White: DefaultTimerSeconds, Black: DefaultTimerSeconds}
}

func EncodeBoard(b *Board) ([]byte, error) {
	return json.Marshal(b)
}

// DecodeBoard parses an 8x8 array of null or piece objects.
func DecodeBoard(data []byte) (*Board, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBoard, err)
	}
	if len(rows) != 8 {
		return nil, fmt.Errorf("%w: %d rows", ErrMalformedBoard, len(rows))
	}

	b := NewEmptyBoard()
	for y, raw := range rows {
		var cells []*Piece
		if err := json.Unmarshal(raw, &cells); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedBoard, y, err)
		}
		if len(cells) != 8 {
			return nil, fmt.Errorf("%w: row %d has %d cells", ErrMalformedBoard, y, len(cells))
		}
		for x, pc := range cells {
			if pc == nil {
				continue
			}
			if !pc.Type.Valid() || !pc.Color.Valid() {
				return nil, fmt.Errorf("%w: bad piece at %s", ErrMalformedBoard, Position{X: x, Y: y}.Algebraic())
			}
			b[y][x] = pc
		}
	}
	return b, nil
}

// BoardOrDefault decodes data, substituting a standard board when the payload
// is not board-shaped. The board is always usable; err reports the
// substitution.
func BoardOrDefault(data []byte) (*Board, error) {
	b, err := DecodeBoard(data)
	if err != nil {
		return NewStandardBoard(), err
	}
	return b, nil
}

func EncodeHistory(history []Move) ([]byte, error) {
	if history == nil {
		history = []Move{}
	}
	return json.Marshal(history)
}

func DecodeHistory(data []byte) ([]Move, error) {
	var history []Move
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHistory, err)
	}
	if history == nil {
		return nil, fmt.Errorf("%w: not a list", ErrMalformedHistory)
	}
	for i, m := range history {
		if !m.From.InBounds() || !m.To.InBounds() || !m.Piece.Type.Valid() || !m.Piece.Color.Valid() {
			return nil, fmt.Errorf("%w: entry %d", ErrMalformedHistory, i)
		}
		if m.CapturedPiece != nil && (!m.CapturedPiece.Type.Valid() || !m.CapturedPiece.Color.Valid()) {
			return nil, fmt.Errorf("%w: entry %d captured piece", ErrMalformedHistory, i)
		}
		if m.PromotionPiece != "" && !m.PromotionPiece.IsPromotionChoice() {
			return nil, fmt.Errorf("%w: entry %d promotion piece %q", ErrMalformedHistory, i, m.PromotionPiece)
		}
	}
	return history, nil
}

func HistoryOrDefault(data []byte) ([]Move, error) {
	history, err := DecodeHistory(data)
	if err != nil {
		return []Move{}, err
	}
	return history, nil
}

func EncodeTimers(t Timers) ([]byte, error) {
	return json.Marshal(t)
}

func DecodeTimers(data []byte) (Timers, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Timers{}, fmt.Errorf("%w: absent", ErrMalformedTimers)
	}
	var raw struct {
		White     *int  `json:"white"`
		Black     *int  `json:"black"`
		StartTime int64 `json:"startTime"`
	}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return Timers{}, fmt.Errorf("%w: %v", ErrMalformedTimers, err)
	}
	if raw.White == nil || raw.Black == nil || *raw.White < 0 || *raw.Black < 0 {
		return Timers{}, fmt.Errorf("%w: missing or negative side", ErrMalformedTimers)
	}
	return Timers{White: *raw.White, Black: *raw.Black, StartTime: raw.StartTime}, nil
}

func TimersOrDefault(data []byte) (Timers, error) {
	t, err := DecodeTimers(data)
	if err != nil {
		return DefaultTimers(), err
	}
	return t, nil
}

// RestoreGameState rebuilds a game from persisted parts. Check info is
// recomputed, and a promotion left unresolved at the end of history is
// reopened.
func RestoreGameState(b *Board, toMove Color, status GameStatus, history []Move, session Session) *GameState {
	if !toMove.Valid() {
		toMove = White
	}
	s := NewGameStateFromBoard(b, toMove, session)
	if history != nil {
		s.History = history
	}
	if status == StatusDraw {
		s.Status = StatusDraw
	}

	if n := len(s.History); n > 0 {
		last := s.History[n-1]
		if last.IsPromotion && last.PromotionPiece == "" && !s.Status.IsOver() {
			if pc := b.At(last.To); pc != nil && pc.Type == Pawn && pc.Color == last.Piece.Color {
				to := last.To
				s.PendingPromotion = &to
				// The promoting side still holds the turn.
				s.CurrentPlayer = pc.Color
				s.Status, s.Check = StatusPlaying, CheckInfo{}
				if status == StatusCheck {
					s.Status = StatusCheck
				}
				if king, ok := b.FindKing(pc.Color); ok {
					s.Check.KingPosition = &king
				}
			}
		}
	}
	return s
}
