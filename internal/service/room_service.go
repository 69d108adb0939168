package service

import (
	"errors"
	"fmt"

	"github.com/benbeisheim/chessduo-backend/internal/model"
	"github.com/benbeisheim/chessduo-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

var (
	ErrInvalidSquare = errors.New("invalid square")
	ErrInvalidPiece  = errors.New("invalid promotion piece")
)

// Result is what every mutating call hands back to the transport layer.
type Result struct {
	Event model.Event        `json:"event"`
	Room  model.RoomSnapshot `json:"room"`
}

type RoomService struct {
	rooms *RoomManager
}

func NewRoomService(rooms *RoomManager) *RoomService {
	return &RoomService{
		rooms: rooms,
	}
}

func NewPlayerID() string {
	return model.NewPlayerID()
}

// CreateRoom creates a room (random id when roomID is empty) and seats the
// creator as white.
func (rs *RoomService) CreateRoom(roomID string, playerID string) (model.RoomSnapshot, error) {
	room, err := rs.rooms.CreateRoom(roomID)
	if err != nil {
		return model.RoomSnapshot{}, fmt.Errorf("failed to create room: %w", err)
	}
	if _, err := room.AddPlayer(playerID); err != nil {
		return model.RoomSnapshot{}, err
	}
	rs.rooms.Publish(room)
	return room.Snapshot(), nil
}

// JoinRoom seats playerID. A full room returns model.ErrRoomFull; the caller
// may still watch as a spectator.
func (rs *RoomService) JoinRoom(roomID string, playerID string) (model.Color, error) {
	room, err := rs.rooms.GetRoom(roomID)
	if err != nil {
		return "", err
	}
	color, err := room.AddPlayer(playerID)
	if err != nil {
		return "", err
	}
	rs.rooms.Publish(room)
	return color, nil
}

func (rs *RoomService) GetRoomState(roomID string) (model.RoomSnapshot, error) {
	room, err := rs.rooms.GetRoom(roomID)
	if err != nil {
		return model.RoomSnapshot{}, err
	}
	return room.Snapshot(), nil
}

func (rs *RoomService) LegalMoves(roomID string, square string) ([]string, error) {
	room, err := rs.rooms.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	from, err := parseSquare(square)
	if err != nil {
		return nil, err
	}
	moves := room.LegalMoves(from)
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.Algebraic())
	}
	return out, nil
}

// AllLegalMoves lists every legal move of the side to move, keyed by origin
// square.
func (rs *RoomService) AllLegalMoves(roomID string) (map[string][]string, error) {
	room, err := rs.rooms.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	return room.AllLegalMoves(), nil
}

func (rs *RoomService) FEN(roomID string) (string, error) {
	room, err := rs.rooms.GetRoom(roomID)
	if err != nil {
		return "", err
	}
	return room.FEN(), nil
}

func (rs *RoomService) SelectSquare(roomID, playerID, square string) (Result, error) {
	pos, err := parseSquare(square)
	if err != nil {
		return Result{}, err
	}
	return rs.mutate(roomID, func(room *model.Room) (model.Event, error) {
		return room.SelectSquare(playerID, pos)
	})
}

func (rs *RoomService) Move(roomID, playerID, fromSquare, toSquare string) (Result, error) {
	from, err := parseSquare(fromSquare)
	if err != nil {
		return Result{}, err
	}
	to, err := parseSquare(toSquare)
	if err != nil {
		return Result{}, err
	}
	return rs.mutate(roomID, func(room *model.Room) (model.Event, error) {
		return room.AttemptMove(playerID, from, to)
	})
}

func (rs *RoomService) Promote(roomID, playerID, square, piece string) (Result, error) {
	pos, err := parseSquare(square)
	if err != nil {
		return Result{}, err
	}
	choice := model.PieceType(piece)
	if !choice.IsPromotionChoice() {
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidPiece, piece)
	}
	return rs.mutate(roomID, func(room *model.Room) (model.Event, error) {
		return room.ResolvePromotion(playerID, pos, choice)
	})
}

func (rs *RoomService) Restart(roomID, playerID string) (Result, error) {
	return rs.mutate(roomID, func(room *model.Room) (model.Event, error) {
		return room.Restart(playerID)
	})
}

func (rs *RoomService) OfferDraw(roomID, playerID string) (Result, error) {
	return rs.mutate(roomID, func(room *model.Room) (model.Event, error) {
		return room.OfferDraw(playerID)
	})
}

// mutate runs fn against the room and publishes the new state when the
// transition changed anything.
func (rs *RoomService) mutate(roomID string, fn func(*model.Room) (model.Event, error)) (Result, error) {
	room, err := rs.rooms.GetRoom(roomID)
	if err != nil {
		return Result{}, err
	}
	ev, err := fn(room)
	if err != nil {
		return Result{}, err
	}
	if ev != model.EventNone {
		rs.rooms.Publish(room)
	}
	return Result{Event: ev, Room: room.Snapshot()}, nil
}

func (rs *RoomService) RegisterConnection(roomID string, playerID string, conn *websocket.Conn) error {
	_, err := rs.rooms.RegisterConnection(roomID, playerID, conn)
	return err
}

func (rs *RoomService) UnregisterConnection(roomID string, playerID string, conn *websocket.Conn) {
	rs.rooms.UnregisterConnection(roomID, playerID, conn)
}

// SendError delivers an error message to one player's connection.
func (rs *RoomService) SendError(roomID, playerID string, cause error) error {
	room, err := rs.rooms.GetRoom(roomID)
	if err != nil {
		return err
	}
	msg, err := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: cause.Error()})
	if err != nil {
		return err
	}
	return room.Send(playerID, msg)
}

func parseSquare(s string) (model.Position, error) {
	pos, ok := model.ParseAlgebraic(s)
	if !ok {
		return model.Position{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return pos, nil
}
