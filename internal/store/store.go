// Package store persists room records as one zstd-compressed JSON file per
// room.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const fileSuffix = ".room.zst"

var (
	ErrNotFound  = errors.New("record not found")
	ErrCorrupt   = errors.New("record corrupt")
	ErrInvalidID = errors.New("invalid record id")
)

type Store struct {
	dir     string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	log     zerolog.Logger
	// writeMu serializes file replacement per store.
	writeMu sync.Mutex
}

func Open(dir string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &Store{
		dir:     dir,
		encoder: encoder,
		decoder: decoder,
		log:     logger,
	}, nil
}

func (s *Store) Close() error {
	s.decoder.Close()
	return s.encoder.Close()
}

func (s *Store) path(id string) (string, error) {
	if id == "" || filepath.Base(id) != id || strings.ContainsAny(id, `/\.`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return filepath.Join(s.dir, id+fileSuffix), nil
}

// Save writes rec atomically, replacing any previous record with the same id.
func (s *Store) Save(rec Record) error {
	path, err := s.path(rec.ID)
	if err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record %s: %w", rec.ID, err)
	}
	compressed := s.encoder.EncodeAll(data, make([]byte, 0, len(data)/2))

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, compressed, 0o644); err != nil {
		return fmt.Errorf("write record %s: %w", rec.ID, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename record %s: %w", rec.ID, err)
	}
	return nil
}

func (s *Store) Load(id string) (Record, error) {
	path, err := s.path(id)
	if err != nil {
		return Record{}, err
	}
	return s.loadFile(path)
}

func (s *Store) loadFile(path string) (Record, error) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	data, err := s.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, filepath.Base(path), err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, filepath.Base(path), err)
	}
	if rec.ID == "" {
		rec.ID = strings.TrimSuffix(filepath.Base(path), fileSuffix)
	}
	return rec, nil
}

func (s *Store) Delete(id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	return nil
}

// LoadAll reads every record in the store concurrently. Corrupt files are
// logged and skipped.
func (s *Store) LoadAll(ctx context.Context) ([]Record, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*"+fileSuffix))
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	var (
		mu      sync.Mutex
		records = make([]Record, 0, len(paths))
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec, err := s.loadFile(path)
			if errors.Is(err, ErrCorrupt) {
				s.log.Warn().Err(err).Msg("skipping corrupt record")
				return nil
			}
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			mu.Lock()
			records = append(records, rec)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}
