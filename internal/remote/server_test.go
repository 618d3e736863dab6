package remote

import (
	"context"
	"testing"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avhall/alfred-mpd/internal/mpd"
)

type stubClient struct {
	mpd.Client // panic on anything not stubbed

	status      mpd.Status
	tracks      []mpd.Track
	searchCalls int
	toggles     int
	err         error
}

func (s *stubClient) Status(ctx context.Context) (mpd.Status, error) { return s.status, s.err }
func (s *stubClient) Toggle(ctx context.Context) error               { s.toggles++; return s.err }
func (s *stubClient) Next(ctx context.Context) error                 { return s.err }
func (s *stubClient) Prev(ctx context.Context) error                 { return s.err }
func (s *stubClient) Search(ctx context.Context, args []string) ([]mpd.Track, error) {
	s.searchCalls++
	return s.tracks, s.err
}

func newTestServer(t *testing.T, c mpd.Client) *Server {
	t.Helper()
	s := &Server{Client: c}
	var err error
	s.searches, err = lru.New[string, []mpd.Track](8)
	require.NoError(t, err)
	return s
}

func TestDispatchStatus(t *testing.T) {
	track := mpd.Track{Title: "Heroes", File: "f"}
	s := newTestServer(t, &stubClient{status: mpd.Status{Track: &track, Playing: true, Index: 1, Total: 3}})

	msg := s.dispatch(context.Background(), "status")

	assert.Equal(t, "status", msg.Type)
	require.NotNil(t, msg.Status)
	assert.True(t, msg.Status.Playing)
	assert.Equal(t, "Heroes", msg.Status.Track.Title)
}

func TestDispatchToggleRepliesWithStatus(t *testing.T) {
	c := &stubClient{}
	s := newTestServer(t, c)

	msg := s.dispatch(context.Background(), "toggle")

	assert.Equal(t, 1, c.toggles)
	assert.Equal(t, "status", msg.Type)
}

func TestDispatchSearchUsesCache(t *testing.T) {
	c := &stubClient{tracks: []mpd.Track{{Title: "Heroes", File: "f"}}}
	s := newTestServer(t, c)

	first := s.dispatch(context.Background(), "search artist:Bowie")
	second := s.dispatch(context.Background(), "search artist:Bowie")

	assert.Equal(t, "tracks", first.Type)
	assert.Equal(t, first.Tracks, second.Tracks)
	assert.Equal(t, 1, c.searchCalls)
}

func TestDispatchUnknownCommand(t *testing.T) {
	s := newTestServer(t, &stubClient{})

	msg := s.dispatch(context.Background(), "selfdestruct")

	assert.Equal(t, "error", msg.Type)
	assert.Contains(t, msg.Error, "unknown command")
}

func TestDispatchErrorsBecomeErrorMessages(t *testing.T) {
	s := newTestServer(t, &stubClient{err: mpd.ErrNotConnected})

	msg := s.dispatch(context.Background(), "status")

	assert.Equal(t, "error", msg.Type)
	assert.NotEmpty(t, msg.Error)
}

func TestJoinHostPort(t *testing.T) {
	assert.Equal(t, "localhost:6600", JoinHostPort("localhost", 6600))
}
