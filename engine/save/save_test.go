package save

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/antidote/types"
)

func testSnapshot() *Snapshot {
	stats := types.Stats{HP: 70, MaxHP: 120, Attack: 14, Defense: 7, Level: 2, EXP: 40}
	flags := map[types.Flag]bool{types.FlagHasKeycard: true, types.FlagFoundClue1: true}
	return New(stats, flags, types.ModeExploration, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
}

func TestNew(t *testing.T) {
	s := testSnapshot()
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, FormatVersion, s.Version)
	assert.Equal(t, "exploration", s.Mode)
	assert.True(t, s.Flags["has_keycard"])
	assert.NotEqual(t, s.ID, testSnapshot().ID)
}

func TestEncodeDecode(t *testing.T) {
	s := testSnapshot()
	data, err := Encode(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"player_stats"`)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, s.PlayerStats, got.PlayerStats)
	assert.Equal(t, s.Flags, got.Flags)
	assert.Equal(t, types.ModeExploration, got.GameMode())
	assert.True(t, got.TypedFlags()[types.FlagFoundClue1])
}

func TestDecode_NilFlagsNormalized(t *testing.T) {
	got, err := Decode([]byte(`{"player_stats":{"hp":10,"max_hp":10,"level":1},"mode":"intro"}`))
	require.NoError(t, err)
	assert.NotNil(t, got.Flags)
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", `{not json`},
		{"unknown mode", `{"player_stats":{"hp":1,"max_hp":1,"level":1},"mode":"flying"}`},
		{"hp above max", `{"player_stats":{"hp":20,"max_hp":10,"level":1},"mode":"exploration"}`},
		{"level zero", `{"player_stats":{"hp":1,"max_hp":10,"level":0},"mode":"exploration"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "saves", "slot.json"))

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	s := testSnapshot()
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, s.PlayerStats, got.PlayerStats)
}

func TestFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slot.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	_, err := NewFileStore(path).Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSnapshot)
}

func newRedisClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	client, mr := newRedisClient(t)
	store := NewRedisStore(client, "antidote:save")

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	s := testSnapshot()
	require.NoError(t, store.Save(ctx, s))
	assert.True(t, mr.Exists("antidote:save"))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, s.Flags, got.Flags)
}

func TestRedisStore_ServerDown(t *testing.T) {
	client, mr := newRedisClient(t)
	mr.Close()

	store := NewRedisStore(client, "antidote:save")
	err := store.Save(context.Background(), testSnapshot())
	assert.Error(t, err)

	_, err = store.Load(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSnapshot)
}
