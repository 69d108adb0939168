package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/benbeisheim/chessduo-backend/internal/model"
	"github.com/rs/zerolog"
)

// Record is the persisted form of a room. Board, history and timers are kept
// as raw JSON so a damaged field can be defaulted without losing the rest.
type Record struct {
	ID            string          `json:"id"`
	BoardState    json.RawMessage `json:"board_state"`
	CurrentPlayer string          `json:"current_player"`
	GameStatus    string          `json:"game_status"`
	History       json.RawMessage `json:"history"`
	Timers        json.RawMessage `json:"timers"`
	PlayerWhite   string          `json:"player_white,omitempty"`
	PlayerBlack   string          `json:"player_black,omitempty"`
	LastActive    time.Time       `json:"last_active"`
}

func RecordFromSnapshot(snap model.RoomSnapshot) (Record, error) {
	board, err := model.EncodeBoard(snap.State.Board)
	if err != nil {
		return Record{}, fmt.Errorf("encode board: %w", err)
	}
	history, err := model.EncodeHistory(snap.State.History)
	if err != nil {
		return Record{}, fmt.Errorf("encode history: %w", err)
	}
	timers, err := model.EncodeTimers(snap.Timers)
	if err != nil {
		return Record{}, fmt.Errorf("encode timers: %w", err)
	}
	return Record{
		ID:            snap.ID,
		BoardState:    board,
		CurrentPlayer: string(snap.State.CurrentPlayer),
		GameStatus:    string(snap.State.Status),
		History:       history,
		Timers:        timers,
		PlayerWhite:   snap.Players.White,
		PlayerBlack:   snap.Players.Black,
		LastActive:    snap.UpdatedAt,
	}, nil
}

// Restore rebuilds a room. Malformed board, history or timers are replaced
// by a standard board, an empty history and default clocks.
func (rec Record) Restore(logger zerolog.Logger) *model.Room {
	board, err := model.BoardOrDefault(rec.BoardState)
	if err != nil {
		logger.Warn().Err(err).Str("room", rec.ID).Msg("board defaulted")
	}
	history, err := model.HistoryOrDefault(rec.History)
	if err != nil {
		logger.Warn().Err(err).Str("room", rec.ID).Msg("history defaulted")
	}
	timers, err := model.TimersOrDefault(rec.Timers)
	if err != nil {
		logger.Warn().Err(err).Str("room", rec.ID).Msg("timers defaulted")
	}

	state := model.RestoreGameState(
		board,
		model.Color(rec.CurrentPlayer),
		model.GameStatus(rec.GameStatus),
		history,
		model.Session{RoomID: rec.ID, Online: true},
	)
	players := model.Players{White: rec.PlayerWhite, Black: rec.PlayerBlack}
	return model.RestoreRoom(rec.ID, state, players, timers, rec.LastActive, logger)
}
