package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chessduo-backend/internal/model"
	"github.com/benbeisheim/chessduo-backend/internal/store"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomExists    = errors.New("room already exists")
	ErrInvalidRoomID = errors.New("invalid room id")
)

// RoomStore is the persistence the manager writes through to.
type RoomStore interface {
	Save(rec store.Record) error
	Delete(id string) error
	LoadAll(ctx context.Context) ([]store.Record, error)
}

// RoomManager owns every live room. The map is guarded by mu; each room
// serializes its own mutations.
type RoomManager struct {
	rooms map[string]*model.Room
	mu    sync.RWMutex
	store RoomStore
	log   zerolog.Logger
	// publishMu keeps snapshot-then-save ordered so an older snapshot never
	// overwrites a newer one.
	publishMu sync.Mutex
}

// NewRoomManager builds a manager. A nil store disables persistence.
func NewRoomManager(st RoomStore, logger zerolog.Logger) *RoomManager {
	return &RoomManager{
		rooms: make(map[string]*model.Room),
		store: st,
		log:   logger,
	}
}

// Restore loads persisted rooms into memory.
func (rm *RoomManager) Restore(ctx context.Context) (int, error) {
	if rm.store == nil {
		return 0, nil
	}
	records, err := rm.store.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("load rooms: %w", err)
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	for _, rec := range records {
		id := NormalizeRoomID(rec.ID)
		if !ValidRoomID(id) {
			rm.log.Warn().Str("room", rec.ID).Msg("skipping record with invalid id")
			continue
		}
		rec.ID = id
		rm.rooms[id] = rec.Restore(rm.roomLogger(id))
	}
	return len(rm.rooms), nil
}

func (rm *RoomManager) roomLogger(id string) zerolog.Logger {
	return rm.log.With().Str("room", id).Logger()
}

// CreateRoom registers a new room. An empty id requests a random one.
func (rm *RoomManager) CreateRoom(id string) (*model.Room, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if id == "" {
		for {
			var err error
			if id, err = NewRoomID(); err != nil {
				return nil, fmt.Errorf("generate room id: %w", err)
			}
			if _, exists := rm.rooms[id]; !exists {
				break
			}
		}
	} else {
		id = NormalizeRoomID(id)
		if !ValidRoomID(id) {
			return nil, ErrInvalidRoomID
		}
		if _, exists := rm.rooms[id]; exists {
			return nil, ErrRoomExists
		}
	}

	room := model.NewRoom(id, rm.roomLogger(id))
	rm.rooms[id] = room
	rm.log.Info().Str("room", id).Msg("room created")
	return room, nil
}

func (rm *RoomManager) GetRoom(id string) (*model.Room, error) {
	id = NormalizeRoomID(id)
	if !ValidRoomID(id) {
		return nil, ErrInvalidRoomID
	}

	rm.mu.RLock()
	defer rm.mu.RUnlock()

	room, exists := rm.rooms[id]
	if !exists {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func (rm *RoomManager) RoomCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}

// Sweep removes rooms that have no connections and have not changed since
// before now-maxIdle, deleting their persisted records. It returns how many
// rooms were removed.
func (rm *RoomManager) Sweep(now time.Time, maxIdle time.Duration) int {
	cutoff := now.Add(-maxIdle)

	rm.mu.Lock()
	var expired []string
	for id, room := range rm.rooms {
		if room.ConnectionCount() == 0 && room.LastActive().Before(cutoff) {
			delete(rm.rooms, id)
			expired = append(expired, id)
		}
	}
	rm.mu.Unlock()

	if len(expired) == 0 {
		return 0
	}
	if rm.store != nil {
		rm.publishMu.Lock()
		for _, id := range expired {
			if err := rm.store.Delete(id); err != nil {
				rm.log.Error().Err(err).Str("room", id).Msg("delete expired room")
			}
		}
		rm.publishMu.Unlock()
	}
	rm.log.Info().
		Strs("rooms", expired).
		Int("remaining", rm.RoomCount()).
		Msg("expired idle rooms")
	return len(expired)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (rm *RoomManager) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rm.Sweep(now, maxIdle)
		}
	}
}

// Publish persists the room and pushes its state to connected clients.
func (rm *RoomManager) Publish(room *model.Room) {
	if rm.store != nil {
		rm.publishMu.Lock()
		defer rm.publishMu.Unlock()
		rec, err := store.RecordFromSnapshot(room.Snapshot())
		if err != nil {
			rm.log.Error().Err(err).Str("room", room.ID).Msg("build record")
		} else if err := rm.store.Save(rec); err != nil {
			rm.log.Error().Err(err).Str("room", room.ID).Msg("persist room")
		}
	}
	go room.Broadcast()
}

func (rm *RoomManager) RegisterConnection(id string, playerID string, conn *websocket.Conn) (*model.Room, error) {
	room, err := rm.GetRoom(id)
	if err != nil {
		return nil, err
	}
	return room, room.RegisterConnection(playerID, conn)
}

func (rm *RoomManager) UnregisterConnection(id string, playerID string, conn *websocket.Conn) {
	room, err := rm.GetRoom(id)
	if err != nil {
		return
	}
	room.UnregisterConnection(playerID, conn)
}
