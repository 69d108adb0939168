package model

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chessduo-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"
)

var (
	ErrRoomFull    = errors.New("room is full")
	ErrNotInRoom   = errors.New("player not seated in room")
	ErrNotYourTurn = errors.New("not your turn")
)

// EventDrawOffered is reported when one side offers a draw and the other has
// not yet agreed.
const EventDrawOffered Event = "drawOffer"

// stateWriter is the part of a websocket connection a room writes to.
type stateWriter interface {
	WriteJSON(v interface{}) error
}

// RoomConnections are the live websocket connections of one room.
type RoomConnections struct {
	connections map[string]stateWriter // playerID -> connection
	mu          sync.RWMutex
	// sendMu serializes writers; a websocket connection allows one at a time.
	sendMu sync.Mutex
}

func NewRoomConnections() *RoomConnections {
	return &RoomConnections{
		connections: make(map[string]stateWriter),
	}
}

// Room is one online game. All game mutations run under mu, so at most one is
// in flight per room.
type Room struct {
	ID          string
	mu          sync.Mutex
	state       *GameState
	players     Players
	connections *RoomConnections
	whiteClock  *Clock
	blackClock  *Clock
	drawOffer   Color
	lastEvent   Event
	updatedAt   time.Time
	log         zerolog.Logger
}

// RoomSnapshot is the broadcast and persisted view of a room.
type RoomSnapshot struct {
	ID        string    `json:"roomId"`
	State     GameState `json:"state"`
	Players   Players   `json:"players"`
	Timers    Timers    `json:"timers"`
	MoveList  string    `json:"moveList"`
	Event     Event     `json:"event,omitempty"`
	DrawOffer Color     `json:"drawOffer,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewRoom(id string, logger zerolog.Logger) *Room {
	return RestoreRoom(id, NewGameState(Session{RoomID: id, Online: true}), Players{}, DefaultTimers(), time.Now(), logger)
}

// RestoreRoom rebuilds a room from persisted parts. When timers carry a turn
// start and the game is still running, the side to move's clock resumes from
// that instant.
func RestoreRoom(id string, state *GameState, players Players, timers Timers, updatedAt time.Time, logger zerolog.Logger) *Room {
	state.Session.RoomID = id
	state.Session.Online = true
	r := &Room{
		ID:          id,
		state:       state,
		players:     players,
		connections: NewRoomConnections(),
		whiteClock:  NewClock(time.Duration(timers.White) * time.Second),
		blackClock:  NewClock(time.Duration(timers.Black) * time.Second),
		updatedAt:   updatedAt,
		log:         logger,
	}
	if timers.StartTime > 0 && !state.Status.IsOver() {
		r.clockFor(state.CurrentPlayer).StartAt(time.UnixMilli(timers.StartTime))
	}
	return r
}

// AddPlayer seats playerID at the first free color. A player already seated
// gets their existing color back.
func (r *Room) AddPlayer(playerID string) (Color, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if color, ok := r.players.ColorOf(playerID); ok {
		return color, nil
	}
	switch {
	case r.players.White == "":
		r.players.White = playerID
		r.touch()
		return White, nil
	case r.players.Black == "":
		r.players.Black = playerID
		r.touch()
		return Black, nil
	}
	return "", ErrRoomFull
}

// seatedToMove returns the color of playerID after checking that it is that
// player's turn. Caller holds r.mu.
func (r *Room) seatedToMove(playerID string) (Color, error) {
	color, ok := r.players.ColorOf(playerID)
	if !ok {
		return "", ErrNotInRoom
	}
	if color != r.state.CurrentPlayer {
		return "", ErrNotYourTurn
	}
	return color, nil
}

func (r *Room) SelectSquare(playerID string, pos Position) (Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	color, err := r.seatedToMove(playerID)
	if err != nil {
		return EventNone, err
	}
	return r.record(color, r.state.SelectSquare(pos)), nil
}

func (r *Room) AttemptMove(playerID string, from, to Position) (Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	color, err := r.seatedToMove(playerID)
	if err != nil {
		return EventNone, err
	}
	return r.record(color, r.state.AttemptMove(from, to)), nil
}

func (r *Room) ResolvePromotion(playerID string, pos Position, choice PieceType) (Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	color, err := r.seatedToMove(playerID)
	if err != nil {
		return EventNone, err
	}
	return r.record(color, r.state.ResolvePromotion(pos, choice)), nil
}

func (r *Room) Restart(playerID string) (Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players.ColorOf(playerID); !ok {
		return EventNone, ErrNotInRoom
	}
	ev := r.state.Restart()
	r.whiteClock.Reset(DefaultTimerSeconds * time.Second)
	r.blackClock.Reset(DefaultTimerSeconds * time.Second)
	r.drawOffer = ""
	r.lastEvent = ev
	r.touch()
	r.log.Info().Str("player", playerID).Msg("game restarted")
	return ev, nil
}

// OfferDraw records a draw offer; when the opponent has already offered, the
// game ends in a draw.
func (r *Room) OfferDraw(playerID string) (Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	color, ok := r.players.ColorOf(playerID)
	if !ok {
		return EventNone, ErrNotInRoom
	}
	if r.state.Status.IsOver() {
		return EventNone, nil
	}
	if r.drawOffer == color.Opposite() {
		ev := r.state.DeclareDraw()
		r.drawOffer = ""
		r.whiteClock.Stop()
		r.blackClock.Stop()
		r.lastEvent = ev
		r.touch()
		r.log.Info().Msg("draw agreed")
		return ev, nil
	}
	r.drawOffer = color
	r.lastEvent = EventDrawOffered
	r.touch()
	return EventDrawOffered, nil
}

// record updates clocks and bookkeeping after an engine transition made by
// mover. Caller holds r.mu.
func (r *Room) record(mover Color, ev Event) Event {
	if ev == EventNone {
		return ev
	}
	r.lastEvent = ev
	r.touch()

	switch ev {
	case EventMove, EventCapture, EventCheck, EventCheckmate, EventStalemate, EventPromoted:
	default:
		return ev
	}

	// The turn passed to the opponent.
	r.drawOffer = ""
	r.clockFor(mover).Stop()
	if !r.state.Status.IsOver() {
		r.clockFor(mover.Opposite()).Start()
	}
	r.log.Debug().
		Str("mover", string(mover)).
		Str("event", string(ev)).
		Str("status", string(r.state.Status)).
		Int("ply", len(r.state.History)).
		Msg("move applied")
	return ev
}

func (r *Room) clockFor(c Color) *Clock {
	if c == White {
		return r.whiteClock
	}
	return r.blackClock
}

func (r *Room) touch() {
	r.updatedAt = time.Now()
}

// timers reports each side's time as of its last start or stop. The running
// side's remaining time is that value minus the time since StartTime.
func (r *Room) timers() Timers {
	t := Timers{
		White: roundSeconds(r.whiteClock.Banked()),
		Black: roundSeconds(r.blackClock.Banked()),
	}
	for _, c := range []*Clock{r.whiteClock, r.blackClock} {
		if c.IsRunning() {
			t.StartTime = c.StartedAt().UnixMilli()
		}
	}
	return t
}

func roundSeconds(d time.Duration) int {
	return int(d.Round(time.Second) / time.Second)
}

// LastActive is the time of the last change to the room.
func (r *Room) LastActive() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updatedAt
}

// LegalMoves lists destinations for the piece on from in the current position.
func (r *Room) LegalMoves(from Position) []Position {
	r.mu.Lock()
	defer r.mu.Unlock()
	return LegalMoves(r.state.Board, from)
}

// AllLegalMoves lists every legal move of the side to move, keyed by origin
// square. It is empty while the game is over or a promotion is pending.
func (r *Room) AllLegalMoves() map[string][]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string][]string)
	if r.state.Status.IsOver() || r.state.PendingPromotion != nil {
		return out
	}
	for from, tos := range AllLegalMoves(r.state.Board, r.state.CurrentPlayer) {
		squares := make([]string, 0, len(tos))
		for _, to := range tos {
			squares = append(squares, to.Algebraic())
		}
		out[from.Algebraic()] = squares
	}
	return out
}

func (r *Room) FEN() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.FEN()
}

func (r *Room) Snapshot() RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return RoomSnapshot{
		ID:        r.ID,
		State:     r.state.Snapshot(),
		Players:   r.players,
		Timers:    r.timers(),
		MoveList:  FormatMoveList(r.state.History),
		Event:     r.lastEvent,
		DrawOffer: r.drawOffer,
		UpdatedAt: r.updatedAt,
	}
}

// RegisterConnection attaches a websocket for playerID. Seated players and
// spectators may both connect; only seated players can act.
func (r *Room) RegisterConnection(playerID string, conn *websocket.Conn) error {
	if !r.addConnection(playerID, conn) {
		// Keep the healthy connection and reject the duplicate.
		_ = conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
		)
		conn.Close()
		return nil
	}
	go r.Broadcast()
	return nil
}

// addConnection registers conn unless playerID already has one.
func (r *Room) addConnection(playerID string, conn stateWriter) bool {
	r.connections.mu.Lock()
	if _, exists := r.connections.connections[playerID]; exists {
		r.connections.mu.Unlock()
		return false
	}
	r.connections.connections[playerID] = conn
	r.connections.mu.Unlock()

	r.log.Info().
		Str("player", playerID).
		Str("conn", fmt.Sprintf("%p", conn)).
		Int("connections", r.ConnectionCount()).
		Msg("connection registered")
	return true
}

// UnregisterConnection drops playerID's connection if conn is still the
// registered one.
func (r *Room) UnregisterConnection(playerID string, conn *websocket.Conn) {
	r.removeConnection(playerID, conn)
}

func (r *Room) removeConnection(playerID string, conn stateWriter) {
	r.connections.mu.Lock()
	defer r.connections.mu.Unlock()

	if current, exists := r.connections.connections[playerID]; exists && current == conn {
		delete(r.connections.connections, playerID)
		r.log.Info().Str("player", playerID).Msg("connection unregistered")
	}
}

func (r *Room) ConnectionCount() int {
	r.connections.mu.RLock()
	defer r.connections.mu.RUnlock()
	return len(r.connections.connections)
}

// Broadcast sends the current snapshot to every connection. Connections that
// fail to write are dropped. The snapshot is taken under sendMu, so states
// go out in the order they were produced.
func (r *Room) Broadcast() {
	r.connections.sendMu.Lock()
	defer r.connections.sendMu.Unlock()

	msg, err := ws.NewMessage(ws.MessageTypeGameState, r.Snapshot())
	if err != nil {
		r.log.Error().Err(err).Msg("marshal game state")
		return
	}

	r.connections.mu.RLock()
	active := make(map[string]stateWriter, len(r.connections.connections))
	for playerID, conn := range r.connections.connections {
		active[playerID] = conn
	}
	r.connections.mu.RUnlock()

	for playerID, conn := range active {
		if err := conn.WriteJSON(msg); err != nil {
			r.log.Warn().Err(err).Str("player", playerID).Msg("send state failed, dropping connection")
			r.removeConnection(playerID, conn)
		}
	}
}

// Send writes msg to a single player's connection, if any.
func (r *Room) Send(playerID string, msg ws.Message) error {
	r.connections.sendMu.Lock()
	defer r.connections.sendMu.Unlock()

	r.connections.mu.RLock()
	conn, ok := r.connections.connections[playerID]
	r.connections.mu.RUnlock()
	if !ok {
		return nil
	}
	return conn.WriteJSON(msg)
}
