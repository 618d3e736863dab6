// Package mpd defines the domain types shared by all MPD backends.
package mpd

import (
	"context"
	"path"
)

// Track holds the metadata the workflow needs for a single song.
type Track struct {
	Artist  string `json:"artist"`
	Album   string `json:"album"`
	Disc    string `json:"disc"`
	TrackNo string `json:"track"`
	Title   string `json:"title"`
	File    string `json:"file"`
}

// DisplayTitle returns the track title, falling back to the file name
// for untagged files.
func (t Track) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	return path.Base(t.File)
}

// Status describes the player state at one point in time.
type Status struct {
	Track   *Track // nil when nothing is loaded
	Playing bool
	Index   int // 1-based position in the queue, 0 when stopped
	Total   int // queue length
	Percent int // progress through the current track
}

// Stats holds library-wide counters.
type Stats struct {
	Artists int
	Albums  int
	Songs   int
}

// Output is a single MPD audio output.
type Output struct {
	ID      int
	Name    string
	Enabled bool
}

// Client is the operation set the workflow needs from a backend.
// The default implementation shells out to mpc; a second one speaks
// the MPD protocol directly.
type Client interface {
	Version(ctx context.Context) (string, error)
	Current(ctx context.Context) (*Track, error)
	Status(ctx context.Context) (Status, error)
	Stats(ctx context.Context) (Stats, error)

	Queue(ctx context.Context) ([]Track, error)
	Search(ctx context.Context, args []string) ([]Track, error)
	Find(ctx context.Context, args []string) ([]Track, error)
	SearchTypes(ctx context.Context) ([]string, error)

	Playlists(ctx context.Context) ([]string, error)
	Load(ctx context.Context, name string) error

	Add(ctx context.Context, uri string) error
	Play(ctx context.Context) error
	PlayPos(ctx context.Context, pos int) error
	Pause(ctx context.Context) error
	Toggle(ctx context.Context) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	Clear(ctx context.Context) error

	Outputs(ctx context.Context) ([]Output, error)
	EnableOutput(ctx context.Context, id int) error
	DisableOutput(ctx context.Context, id int) error
	ToggleOutput(ctx context.Context, id int) error
}
