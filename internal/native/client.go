// Package native speaks the MPD protocol directly via gompd, as an
// alternative to shelling out to mpc.
package native

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	gompd "github.com/fhs/gompd/v2/mpd"

	"github.com/avhall/alfred-mpd/internal/mpd"
)

// Client dials a short-lived protocol connection per operation, so a
// keystroke-frequency caller never holds an idle connection open.
type Client struct {
	Host       string
	Port       int
	Password   string
	Timeout    time.Duration
	MaxResults int
}

func New(host string, port int) *Client {
	if host == "" {
		host = "localhost"
	}
	if port == 0 {
		port = 6600
	}
	return &Client{Host: host, Port: port, Timeout: 10 * time.Second}
}

func (c *Client) addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// do runs fn against a fresh connection. Context cancellation is
// checked up front; gompd commands themselves are not cancellable.
func (c *Client) do(ctx context.Context, fn func(*gompd.Client) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	conn, err := gompd.DialAuthenticated("tcp", c.addr(), c.Password)
	if err != nil {
		return fmt.Errorf("%w: %v", mpd.ErrNotConnected, err)
	}
	defer conn.Close()
	return fn(conn)
}

func trackFromAttrs(a gompd.Attrs) mpd.Track {
	return mpd.Track{
		Artist:  a["Artist"],
		Album:   a["Album"],
		Disc:    a["Disc"],
		TrackNo: a["Track"],
		Title:   a["Title"],
		File:    a["file"],
	}
}

func (c *Client) trackList(attrs []gompd.Attrs) []mpd.Track {
	var tracks []mpd.Track
	for _, a := range attrs {
		if a["file"] == "" {
			continue
		}
		tracks = append(tracks, trackFromAttrs(a))
		if c.MaxResults > 0 && len(tracks) >= c.MaxResults {
			break
		}
	}
	return tracks
}

// Version reads the protocol greeting ("OK MPD x.y.z"); gompd does not
// expose the handshake version.
func (c *Client) Version(ctx context.Context) (string, error) {
	d := net.Dialer{Timeout: c.Timeout}
	conn, err := d.DialContext(ctx, "tcp", c.addr())
	if err != nil {
		return "", fmt.Errorf("%w: %v", mpd.ErrNotConnected, err)
	}
	defer conn.Close()

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("%w: %v", mpd.ErrNotConnected, err)
	}
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), "OK MPD ")
	if !ok {
		return "", &mpd.CommandError{Cmd: "version", Reason: "unexpected greeting " + strconv.Quote(line)}
	}
	return rest, nil
}

func (c *Client) Current(ctx context.Context) (*mpd.Track, error) {
	var track *mpd.Track
	err := c.do(ctx, func(conn *gompd.Client) error {
		a, err := conn.CurrentSong()
		if err != nil {
			return err
		}
		if a["file"] != "" {
			t := trackFromAttrs(a)
			track = &t
		}
		return nil
	})
	return track, err
}

func (c *Client) Status(ctx context.Context) (mpd.Status, error) {
	var st mpd.Status
	err := c.do(ctx, func(conn *gompd.Client) error {
		attrs, err := conn.Status()
		if err != nil {
			return err
		}
		st.Playing = attrs["state"] == "play"
		if pos, err := strconv.Atoi(attrs["song"]); err == nil {
			st.Index = pos + 1 // mpc positions are 1-based
		}
		st.Total, _ = strconv.Atoi(attrs["playlistlength"])

		elapsed, _ := strconv.ParseFloat(attrs["elapsed"], 64)
		duration, _ := strconv.ParseFloat(attrs["duration"], 64)
		if duration > 0 {
			st.Percent = int(elapsed * 100 / duration)
		}

		if attrs["state"] != "stop" {
			song, err := conn.CurrentSong()
			if err != nil {
				return err
			}
			if song["file"] != "" {
				t := trackFromAttrs(song)
				st.Track = &t
			}
		}
		return nil
	})
	return st, err
}

func (c *Client) Stats(ctx context.Context) (mpd.Stats, error) {
	var stats mpd.Stats
	err := c.do(ctx, func(conn *gompd.Client) error {
		attrs, err := conn.Stats()
		if err != nil {
			return err
		}
		stats.Artists, _ = strconv.Atoi(attrs["artists"])
		stats.Albums, _ = strconv.Atoi(attrs["albums"])
		stats.Songs, _ = strconv.Atoi(attrs["songs"])
		return nil
	})
	return stats, err
}

func (c *Client) Queue(ctx context.Context) ([]mpd.Track, error) {
	var tracks []mpd.Track
	err := c.do(ctx, func(conn *gompd.Client) error {
		attrs, err := conn.PlaylistInfo(-1, -1)
		if err != nil {
			return err
		}
		tracks = c.trackList(attrs)
		return nil
	})
	return tracks, err
}

func (c *Client) Search(ctx context.Context, args []string) ([]mpd.Track, error) {
	var tracks []mpd.Track
	err := c.do(ctx, func(conn *gompd.Client) error {
		attrs, err := conn.Search(args...)
		if err != nil {
			return err
		}
		tracks = c.trackList(attrs)
		return nil
	})
	return tracks, err
}

func (c *Client) Find(ctx context.Context, args []string) ([]mpd.Track, error) {
	var tracks []mpd.Track
	err := c.do(ctx, func(conn *gompd.Client) error {
		attrs, err := conn.Find(args...)
		if err != nil {
			return err
		}
		tracks = c.trackList(attrs)
		return nil
	})
	return tracks, err
}

// searchTags is the protocol's stable tag list. The mpc backend learns
// this from the daemon; gompd surfaces no equivalent.
var searchTags = []string{
	"any", "artist", "albumartist", "album", "title", "track", "name",
	"genre", "date", "composer", "performer", "comment", "disc", "file",
}

func (c *Client) SearchTypes(ctx context.Context) ([]string, error) {
	return append([]string(nil), searchTags...), nil
}

func (c *Client) Playlists(ctx context.Context) ([]string, error) {
	var names []string
	err := c.do(ctx, func(conn *gompd.Client) error {
		attrs, err := conn.ListPlaylists()
		if err != nil {
			return err
		}
		for _, a := range attrs {
			if name := a["playlist"]; name != "" {
				names = append(names, name)
			}
		}
		return nil
	})
	return names, err
}

func (c *Client) Load(ctx context.Context, name string) error {
	return c.do(ctx, func(conn *gompd.Client) error {
		return conn.PlaylistLoad(name, -1, -1)
	})
}

func (c *Client) Add(ctx context.Context, uri string) error {
	return c.do(ctx, func(conn *gompd.Client) error { return conn.Add(uri) })
}

func (c *Client) Play(ctx context.Context) error {
	return c.do(ctx, func(conn *gompd.Client) error { return conn.Play(-1) })
}

func (c *Client) PlayPos(ctx context.Context, pos int) error {
	return c.do(ctx, func(conn *gompd.Client) error { return conn.Play(pos - 1) })
}

func (c *Client) Pause(ctx context.Context) error {
	return c.do(ctx, func(conn *gompd.Client) error { return conn.Pause(true) })
}

func (c *Client) Toggle(ctx context.Context) error {
	return c.do(ctx, func(conn *gompd.Client) error {
		st, err := conn.Status()
		if err != nil {
			return err
		}
		if st["state"] == "stop" {
			return conn.Play(-1)
		}
		return conn.Pause(st["state"] == "play")
	})
}

func (c *Client) Next(ctx context.Context) error {
	return c.do(ctx, func(conn *gompd.Client) error { return conn.Next() })
}

func (c *Client) Prev(ctx context.Context) error {
	return c.do(ctx, func(conn *gompd.Client) error { return conn.Previous() })
}

func (c *Client) Clear(ctx context.Context) error {
	return c.do(ctx, func(conn *gompd.Client) error { return conn.Clear() })
}

func (c *Client) Outputs(ctx context.Context) ([]mpd.Output, error) {
	var outputs []mpd.Output
	err := c.do(ctx, func(conn *gompd.Client) error {
		attrs, err := conn.ListOutputs()
		if err != nil {
			return err
		}
		for _, a := range attrs {
			id, _ := strconv.Atoi(a["outputid"])
			outputs = append(outputs, mpd.Output{
				ID:      id,
				Name:    a["outputname"],
				Enabled: a["outputenabled"] == "1",
			})
		}
		return nil
	})
	return outputs, err
}

func (c *Client) EnableOutput(ctx context.Context, id int) error {
	return c.do(ctx, func(conn *gompd.Client) error { return conn.EnableOutput(id) })
}

func (c *Client) DisableOutput(ctx context.Context, id int) error {
	return c.do(ctx, func(conn *gompd.Client) error { return conn.DisableOutput(id) })
}

func (c *Client) ToggleOutput(ctx context.Context, id int) error {
	outputs, err := c.Outputs(ctx)
	if err != nil {
		return err
	}
	for _, o := range outputs {
		if o.ID != id {
			continue
		}
		if o.Enabled {
			return c.DisableOutput(ctx, id)
		}
		return c.EnableOutput(ctx, id)
	}
	return &mpd.CommandError{Cmd: "toggleoutput", Reason: fmt.Sprintf("no output with id %d", id)}
}

var _ mpd.Client = (*Client)(nil)
