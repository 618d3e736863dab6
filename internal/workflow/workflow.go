// Package workflow builds the launcher feedback for each command and
// performs the actions selected items trigger.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/avhall/alfred-mpd/internal/alfred"
	"github.com/avhall/alfred-mpd/internal/cache"
	"github.com/avhall/alfred-mpd/internal/mpd"
	"github.com/avhall/alfred-mpd/internal/query"
)

// Workflow wires a backend and the optional result cache together.
type Workflow struct {
	Client mpd.Client
	Cache  *cache.Store // nil disables caching
}

// Search renders fuzzy search results for a launcher query.
func (w *Workflow) Search(ctx context.Context, q string) *alfred.Feedback {
	return w.searchWith(ctx, "search", q, w.Client.Search)
}

// Find renders exact-match results.
func (w *Workflow) Find(ctx context.Context, q string) *alfred.Feedback {
	return w.searchWith(ctx, "find", q, w.Client.Find)
}

func (w *Workflow) searchWith(ctx context.Context, kind, q string, fn func(context.Context, []string) ([]mpd.Track, error)) *alfred.Feedback {
	args := query.Parse(q)
	if args == nil {
		return w.StatusView(ctx)
	}

	if w.Cache != nil {
		if tracks, ok := w.Cache.GetTracks(kind, q); ok {
			slog.Debug("cache hit", "kind", kind, "query", q, "tracks", len(tracks))
			return trackFeedback(tracks, q)
		}
	}

	tracks, err := fn(ctx, args)
	if err != nil {
		return ErrorFeedback(err)
	}
	if w.Cache != nil {
		if err := w.Cache.PutTracks(kind, q, tracks); err != nil {
			slog.Warn("cache write failed", "err", err)
		}
	}
	return trackFeedback(tracks, q)
}

func trackFeedback(tracks []mpd.Track, q string) *alfred.Feedback {
	f := alfred.New()
	if len(tracks) == 0 {
		f.Warning("No matching tracks", fmt.Sprintf("Nothing in the library matches %q", q))
		return f
	}
	for _, t := range tracks {
		f.NewItem(t.DisplayTitle()).
			WithSubtitle(trackSubtitle(t)).
			WithAutocomplete(t.DisplayTitle()).
			WithArg(EncodeAction(ActionAdd, t.File)).
			WithIcon(alfred.IconTrack).
			WithMod("cmd", "Play now", EncodeAction(ActionPlayTrack, t.File))
	}
	return f
}

func trackSubtitle(t mpd.Track) string {
	parts := make([]string, 0, 2)
	if t.Artist != "" {
		parts = append(parts, t.Artist)
	}
	if t.Album != "" {
		parts = append(parts, t.Album)
	}
	return strings.Join(parts, " — ")
}

// Queue renders the current play queue, optionally filtered by a
// case-insensitive substring.
func (w *Workflow) Queue(ctx context.Context, filter string) *alfred.Feedback {
	tracks, err := w.Client.Queue(ctx)
	if err != nil {
		return ErrorFeedback(err)
	}

	f := alfred.New()
	needle := strings.ToLower(strings.TrimSpace(filter))
	shown := 0
	for i, t := range tracks {
		if needle != "" && !matchesTrack(t, needle) {
			continue
		}
		pos := i + 1
		f.NewItem(fmt.Sprintf("%d. %s", pos, t.DisplayTitle())).
			WithSubtitle(trackSubtitle(t)).
			WithAutocomplete(t.DisplayTitle()).
			WithArg(EncodeAction(ActionPlayPos, strconv.Itoa(pos))).
			WithIcon(alfred.IconTrack)
		shown++
	}
	if shown == 0 {
		f.Warning("Queue is empty", "Search the library to add tracks")
	}
	return f
}

func matchesTrack(t mpd.Track, needle string) bool {
	return strings.Contains(strings.ToLower(t.Title), needle) ||
		strings.Contains(strings.ToLower(t.Artist), needle) ||
		strings.Contains(strings.ToLower(t.Album), needle) ||
		strings.Contains(strings.ToLower(t.File), needle)
}

// Playlists renders the stored playlists.
func (w *Workflow) Playlists(ctx context.Context, filter string) *alfred.Feedback {
	names, err := w.Client.Playlists(ctx)
	if err != nil {
		return ErrorFeedback(err)
	}

	f := alfred.New()
	needle := strings.ToLower(strings.TrimSpace(filter))
	shown := 0
	for _, name := range names {
		if needle != "" && !strings.Contains(strings.ToLower(name), needle) {
			continue
		}
		f.NewItem(name).
			WithSubtitle("Load playlist").
			WithAutocomplete(name).
			WithArg(EncodeAction(ActionLoad, name)).
			WithIcon(alfred.IconPlaylist)
		shown++
	}
	if shown == 0 {
		f.Warning("No playlists", "MPD has no stored playlists")
	}
	return f
}

// Outputs renders the audio outputs; selecting one toggles it.
func (w *Workflow) Outputs(ctx context.Context) *alfred.Feedback {
	outputs, err := w.Client.Outputs(ctx)
	if err != nil {
		return ErrorFeedback(err)
	}

	f := alfred.New()
	if len(outputs) == 0 {
		f.Warning("No outputs", "MPD reports no audio outputs")
		return f
	}
	for _, o := range outputs {
		appendOutputItem(f, o)
	}
	return f
}

func appendOutputItem(f *alfred.Feedback, o mpd.Output) {
	state := "disabled"
	if o.Enabled {
		state = "enabled"
	}
	f.NewItem(o.Name).
		WithSubtitle(fmt.Sprintf("Output %d is %s — select to toggle", o.ID, state)).
		WithArg(EncodeAction(ActionToggleOutput, strconv.Itoa(o.ID))).
		WithIcon(alfred.IconOutput)
}

// StatusView is the default view for an empty query: the current track
// plus playback controls and outputs. The independent fetches run
// concurrently; library stats are only fetched when nothing is playing.
func (w *Workflow) StatusView(ctx context.Context) *alfred.Feedback {
	var (
		st      mpd.Status
		outputs []mpd.Output
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		st, err = w.Client.Status(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		outputs, err = w.Client.Outputs(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return ErrorFeedback(err)
	}

	f := alfred.New()
	if st.Track != nil {
		verb := "Paused"
		icon := alfred.IconPause
		if st.Playing {
			verb = "Playing"
			icon = alfred.IconPlay
		}
		f.NewItem(st.Track.DisplayTitle()).
			WithSubtitle(fmt.Sprintf("%s — %s (%d/%d, %d%%)", verb, trackSubtitle(*st.Track), st.Index, st.Total, st.Percent)).
			WithArg(EncodeAction(ActionPlayPause, "")).
			WithIcon(icon)
	} else {
		stats, err := w.Client.Stats(ctx)
		if err != nil {
			return ErrorFeedback(err)
		}
		f.NewItem("Nothing playing").
			WithSubtitle(fmt.Sprintf("Library: %d artists, %d albums, %d songs", stats.Artists, stats.Albums, stats.Songs)).
			WithIcon(alfred.IconPause)
	}

	f.NewItem("Play/Pause").
		WithArg(EncodeAction(ActionPlayPause, "")).
		WithIcon(alfred.IconPlay)
	f.NewItem("Next track").
		WithArg(EncodeAction(ActionNext, "")).
		WithIcon(alfred.IconTrack)
	f.NewItem("Previous track").
		WithArg(EncodeAction(ActionPrev, "")).
		WithIcon(alfred.IconTrack)
	f.NewItem("Clear queue").
		WithSubtitle(fmt.Sprintf("Remove all %d queued tracks", st.Total)).
		WithArg(EncodeAction(ActionClear, "")).
		WithIcon(alfred.IconWarning)

	for _, o := range outputs {
		appendOutputItem(f, o)
	}
	return f
}

// ErrorFeedback renders any backend failure as the single error item
// the launcher shows.
func ErrorFeedback(err error) *alfred.Feedback {
	f := alfred.New()

	var it *mpd.InvalidTypeError
	switch {
	case errors.Is(err, mpd.ErrNotConnected):
		f.Error("Can't connect to MPD",
			"Are your host & port settings correct? Is MPD running?")
	case errors.Is(err, mpd.ErrNoBinary):
		f.Error("mpc not found",
			"Install mpc or point the MPC setting at the binary")
	case errors.As(err, &it):
		f.Error(fmt.Sprintf("Invalid search type %q", it.What),
			"Choose from: "+strings.Join(it.Valid, ", "))
	default:
		f.Error("MPD error", err.Error())
	}

	slog.Error("command failed", "err", err)
	return f
}
