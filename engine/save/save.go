// Package save implements the single-slot progress snapshot: JSON
// encoding plus file and redis backed stores.
package save

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nathoo/antidote/types"
)

// FormatVersion is written into every snapshot.
const FormatVersion = "1"

// ErrNoSnapshot is returned by Load when the slot is empty.
var ErrNoSnapshot = errors.New("no saved snapshot")

// Snapshot is the JSON-serializable save format.
type Snapshot struct {
	ID          string          `json:"id"`
	Version     string          `json:"version"`
	SavedAt     time.Time       `json:"saved_at"`
	Character   string          `json:"character,omitempty"`
	Floor       int             `json:"floor,omitempty"`
	PlayerStats types.Stats     `json:"player_stats"`
	Flags       map[string]bool `json:"flags"`
	Mode        string          `json:"mode"`
	RNGSeed     int64           `json:"rng_seed,omitempty"`
	RNGPosition int64           `json:"rng_position,omitempty"`
}

// New builds a snapshot with a fresh id.
func New(stats types.Stats, flags map[types.Flag]bool, mode types.Mode, now time.Time) *Snapshot {
	s := &Snapshot{
		ID:          uuid.NewString(),
		Version:     FormatVersion,
		SavedAt:     now.UTC(),
		PlayerStats: stats,
		Flags:       make(map[string]bool, len(flags)),
		Mode:        mode.String(),
	}
	for f, v := range flags {
		s.Flags[string(f)] = v
	}
	return s
}

// Encode serializes a snapshot to JSON bytes.
func Encode(s *Snapshot) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Decode deserializes and checks a snapshot.
func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	// Ensure maps are never nil after load.
	if s.Flags == nil {
		s.Flags = map[string]bool{}
	}
	if _, ok := types.ParseMode(s.Mode); !ok {
		return nil, fmt.Errorf("decoding snapshot: unknown mode %q", s.Mode)
	}
	st := s.PlayerStats
	if st.MaxHP <= 0 || st.HP < 0 || st.HP > st.MaxHP || st.Level < 1 || st.EXP < 0 {
		return nil, fmt.Errorf("decoding snapshot: stats out of range: %+v", st)
	}
	return &s, nil
}

// GameMode returns the decoded mode.
func (s *Snapshot) GameMode() types.Mode {
	m, _ := types.ParseMode(s.Mode)
	return m
}

// TypedFlags returns the flags keyed by types.Flag.
func (s *Snapshot) TypedFlags() map[types.Flag]bool {
	out := make(map[types.Flag]bool, len(s.Flags))
	for k, v := range s.Flags {
		out[types.Flag(k)] = v
	}
	return out
}

// Store persists a single snapshot slot.
type Store interface {
	Save(ctx context.Context, s *Snapshot) error
	Load(ctx context.Context) (*Snapshot, error)
}

// FileStore keeps the snapshot in one JSON file.
type FileStore struct {
	Path string
}

// NewFileStore creates a store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Save writes the snapshot via a temp file and rename.
func (fs *FileStore) Save(_ context.Context, s *Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if dir := filepath.Dir(fs.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating save dir: %w", err)
		}
	}
	tmp := fs.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, fs.Path); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot file.
func (fs *FileStore) Load(_ context.Context) (*Snapshot, error) {
	data, err := os.ReadFile(fs.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return Decode(data)
}

// RedisStore keeps the snapshot as a JSON string under one key.
type RedisStore struct {
	client redis.Cmdable
	key    string
}

// NewRedisStore creates a store using client and key.
func NewRedisStore(client redis.Cmdable, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// Save writes the snapshot under the key.
func (rs *RedisStore) Save(ctx context.Context, s *Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := rs.client.Set(ctx, rs.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", rs.key, err)
	}
	return nil
}

// Load reads the snapshot under the key.
func (rs *RedisStore) Load(ctx context.Context) (*Snapshot, error) {
	data, err := rs.client.Get(ctx, rs.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("redis get %s: %w", rs.key, err)
	}
	return Decode(data)
}
