package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbeisheim/chessduo-backend/internal/model"
	"github.com/rs/zerolog"
)

func openStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, dir
}

func playedRoom(t *testing.T, id string) *model.Room {
	t.Helper()
	room := model.NewRoom(id, zerolog.Nop())
	white, black := model.NewPlayerID(), model.NewPlayerID()
	room.AddPlayer(white)
	room.AddPlayer(black)
	e2, _ := model.ParseAlgebraic("e2")
	e4, _ := model.ParseAlgebraic("e4")
	if ev, err := room.AttemptMove(white, e2, e4); err != nil || ev != model.EventMove {
		t.Fatalf("e4 = %q, %v", ev, err)
	}
	return room
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, _ := openStore(t)
	room := playedRoom(t, "ABC123")
	want := room.Snapshot()

	rec, err := RecordFromSnapshot(want)
	if err != nil {
		t.Fatalf("RecordFromSnapshot: %v", err)
	}
	if err := s.Save(rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := s.Load("ABC123")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.CurrentPlayer != "black" || loaded.GameStatus != "playing" {
		t.Fatalf("loaded record = %+v", loaded)
	}

	got := loaded.Restore(zerolog.Nop()).Snapshot()
	if !got.State.Board.Equal(want.State.Board) {
		t.Fatal("board changed through the store")
	}
	if got.State.CurrentPlayer != model.Black || len(got.State.History) != 1 || got.State.History[0].Notation != "e4" {
		t.Fatalf("restored state = %+v", got.State)
	}
	if got.Players != want.Players {
		t.Fatalf("players = %+v, want %+v", got.Players, want.Players)
	}
	if got.Timers.White != want.Timers.White || got.Timers.Black != want.Timers.Black {
		t.Fatalf("timers = %+v, want %+v", got.Timers, want.Timers)
	}
	if !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Fatalf("updatedAt = %v, want %v", got.UpdatedAt, want.UpdatedAt)
	}
}

func TestSaveOverwrites(t *testing.T) {
	s, dir := openStore(t)
	room := playedRoom(t, "ABC123")

	rec, _ := RecordFromSnapshot(room.Snapshot())
	if err := s.Save(rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	rec.GameStatus = "draw"
	if err := s.Save(rec); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	loaded, err := s.Load("ABC123")
	if err != nil || loaded.GameStatus != "draw" {
		t.Fatalf("Load = %+v, %v", loaded, err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("%d files in store, want 1", len(entries))
	}
}

func TestLoadErrors(t *testing.T) {
	s, _ := openStore(t)

	if _, err := s.Load("NOPE00"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing record err = %v", err)
	}
	for _, id := range []string{"", "../etc", "a/b", "x.y"} {
		if _, err := s.Load(id); !errors.Is(err, ErrInvalidID) {
			t.Fatalf("Load(%q) err = %v", id, err)
		}
		if err := s.Save(Record{ID: id}); !errors.Is(err, ErrInvalidID) {
			t.Fatalf("Save(%q) err = %v", id, err)
		}
	}
}

func TestDelete(t *testing.T) {
	s, _ := openStore(t)
	rec, _ := RecordFromSnapshot(playedRoom(t, "ABC123").Snapshot())
	s.Save(rec)

	if err := s.Delete("ABC123"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Load("ABC123"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load after delete err = %v", err)
	}
	if err := s.Delete("ABC123"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestLoadAllSkipsCorrupt(t *testing.T) {
	s, dir := openStore(t)
	for _, id := range []string{"ROOM01", "ROOM02", "ROOM03"} {
		rec, _ := RecordFromSnapshot(playedRoom(t, id).Snapshot())
		if err := s.Save(rec); err != nil {
			t.Fatalf("Save(%s): %v", id, err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "BROKEN"+fileSuffix), []byte("not zstd"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Valid zstd around invalid JSON.
	bad := s.encoder.EncodeAll([]byte("{"), nil)
	if err := os.WriteFile(filepath.Join(dir, "BADJSN"+fileSuffix), bad, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	records, err := s.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("loaded %d records, want 3", len(records))
	}
}

func TestRestoreDefaultsMalformedFields(t *testing.T) {
	rec := Record{
		ID:            "ABC123",
		BoardState:    json.RawMessage(`"garbage"`),
		CurrentPlayer: "green",
		GameStatus:    "playing",
		History:       json.RawMessage(`null`),
		Timers:        json.RawMessage(`{"white":-5}`),
	}
	snap := rec.Restore(zerolog.Nop()).Snapshot()

	if !snap.State.Board.Equal(model.NewStandardBoard()) {
		t.Fatal("board not defaulted")
	}
	if snap.State.History == nil || len(snap.State.History) != 0 {
		t.Fatalf("history = %v", snap.State.History)
	}
	if snap.State.CurrentPlayer != model.White {
		t.Fatalf("current player = %s", snap.State.CurrentPlayer)
	}
	if snap.Timers != model.DefaultTimers() {
		t.Fatalf("timers = %+v", snap.Timers)
	}
	if snap.State.RoomID != "ABC123" || !snap.State.Online {
		t.Fatalf("session = %+v", snap.State.Session)
	}
}

func TestRestorePendingPromotion(t *testing.T) {
	at := func(s string) model.Position {
		p, _ := model.ParseAlgebraic(s)
		return p
	}
	b := model.NewEmptyBoard()
	b.Set(at("e1"), &model.Piece{Type: model.King, Color: model.White, HasMoved: true})
	b.Set(at("h6"), &model.Piece{Type: model.King, Color: model.Black, HasMoved: true})
	b.Set(at("a7"), &model.Piece{Type: model.Pawn, Color: model.White, HasMoved: true})

	white := model.NewPlayerID()
	state := model.NewGameStateFromBoard(b, model.White, model.Session{})
	room := model.RestoreRoom("PROMO1", state, model.Players{White: white}, model.DefaultTimers(), time.Now(), zerolog.Nop())
	if ev, err := room.AttemptMove(white, at("a7"), at("a8")); err != nil || ev != model.EventPromotion {
		t.Fatalf("a8 = %q, %v", ev, err)
	}

	rec, err := RecordFromSnapshot(room.Snapshot())
	if err != nil {
		t.Fatalf("RecordFromSnapshot: %v", err)
	}
	restored := rec.Restore(zerolog.Nop())
	snap := restored.Snapshot()
	if snap.State.PendingPromotion == nil || *snap.State.PendingPromotion != at("a8") {
		t.Fatalf("pending promotion = %v", snap.State.PendingPromotion)
	}

	ev, err := restored.ResolvePromotion(white, at("a8"), model.Queen)
	if err != nil || ev != model.EventPromoted {
		t.Fatalf("resolve = %q, %v", ev, err)
	}
	if restored.Snapshot().State.CurrentPlayer != model.Black {
		t.Fatal("turn did not pass")
	}
}
