package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avhall/alfred-mpd/internal/mpd"
)

func openTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

var someTracks = []mpd.Track{
	{Artist: "David Bowie", Album: "Low", Title: "Speed of Life", File: "bowie/low/01.flac"},
	{Artist: "David Bowie", Album: "Low", Title: "Breaking Glass", File: "bowie/low/02.flac"},
}

func TestPutGetRoundTrip(t *testing.T) {
	s := openTestStore(t, time.Minute)

	_, ok := s.GetTracks("search", "bowie")
	assert.False(t, ok)

	require.NoError(t, s.PutTracks("search", "bowie", someTracks))

	got, ok := s.GetTracks("search", "bowie")
	require.True(t, ok)
	assert.Equal(t, someTracks, got)

	// find results for the same query string are a separate key
	_, ok = s.GetTracks("find", "bowie")
	assert.False(t, ok)
}

func TestTTLExpiry(t *testing.T) {
	s := openTestStore(t, time.Minute)
	require.NoError(t, s.PutTracks("search", "bowie", someTracks))

	s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	_, ok := s.GetTracks("search", "bowie")
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	s := openTestStore(t, time.Minute)
	require.NoError(t, s.PutTracks("search", "bowie", someTracks))
	require.NoError(t, s.Clear())

	_, ok := s.GetTracks("search", "bowie")
	assert.False(t, ok)
}

func TestPrune(t *testing.T) {
	s := openTestStore(t, time.Minute)
	require.NoError(t, s.PutTracks("search", "old", someTracks))

	s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	require.NoError(t, s.PutTracks("search", "fresh", someTracks))
	require.NoError(t, s.Prune())

	_, ok := s.GetTracks("search", "fresh")
	assert.True(t, ok)

	// expired row is gone even when read with a reset clock
	s.now = time.Now
	_, ok = s.GetTracks("search", "old")
	assert.False(t, ok)
}

func TestReplaceExisting(t *testing.T) {
	s := openTestStore(t, time.Minute)
	require.NoError(t, s.PutTracks("search", "bowie", someTracks))
	require.NoError(t, s.PutTracks("search", "bowie", someTracks[:1]))

	got, ok := s.GetTracks("search", "bowie")
	require.True(t, ok)
	assert.Len(t, got, 1)
}
