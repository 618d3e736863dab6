// Package mpc talks to MPD through the external mpc binary.
package mpc

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/avhall/alfred-mpd/internal/mpd"
)

// Client runs mpc subcommands and parses their plain-text output.
type Client struct {
	Bin        string
	Host       string
	Port       int
	Password   string
	Timeout    time.Duration
	MaxResults int // 0 = no limit
}

const defaultTimeout = 10 * time.Second

// New returns a Client with the usual defaults filled in.
func New(bin, host string, port int) *Client {
	if bin == "" {
		bin = "mpc"
	}
	if host == "" {
		host = "localhost"
	}
	if port == 0 {
		port = 6600
	}
	return &Client{Bin: bin, Host: host, Port: port, Timeout: defaultTimeout}
}

// hostArg renders the --host value. mpc takes the password as a
// password@host prefix.
func (c *Client) hostArg() string {
	if c.Password != "" {
		return c.Password + "@" + c.Host
	}
	return c.Host
}

// run executes one mpc subcommand and returns its stdout.
func (c *Client) run(ctx context.Context, opts []string, command string, args ...string) (string, error) {
	argv := []string{"--host", c.hostArg(), "--port", strconv.Itoa(c.Port)}
	argv = append(argv, opts...)
	argv = append(argv, command)
	argv = append(argv, args...)

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.Bin, argv...)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	slog.Debug("mpc", "cmd", command, "args", args, "elapsed", time.Since(start), "err", err)

	if err != nil {
		return "", classify(command, err, stderr.String())
	}
	return stdout.String(), nil
}

// classify maps a failed invocation onto the shared error taxonomy.
func classify(command string, err error, stderr string) error {
	reason := parseErrorMsg(stderr)

	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return mpd.ErrNoBinary
	}
	if strings.Contains(reason, "Connection refused") {
		return mpd.ErrNotConnected
	}
	if it, ok := mpd.ParseInvalidType(reason); ok {
		return it
	}

	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	return &mpd.CommandError{Cmd: command, ExitCode: code, Reason: reason}
}

// parseErrorMsg strips mpc's "mpd error:" prefix from stderr.
func parseErrorMsg(stderr string) string {
	msg := strings.TrimSpace(stderr)
	if rest, ok := strings.CutPrefix(msg, "mpd error:"); ok {
		return strings.TrimSpace(rest)
	}
	if rest, ok := strings.CutPrefix(msg, "MPD error:"); ok {
		return strings.TrimSpace(rest)
	}
	return msg
}

// tracks runs a subcommand with the track wire format and parses the result.
func (c *Client) tracks(ctx context.Context, command string, args ...string) ([]mpd.Track, error) {
	out, err := c.run(ctx, []string{"-f", resultFormat}, command, args...)
	if err != nil {
		return nil, err
	}
	return parseTracks(out, c.MaxResults), nil
}

func (c *Client) Version(ctx context.Context) (string, error) {
	out, err := c.run(ctx, nil, "version")
	if err != nil {
		return "", err
	}
	return parseVersion(out), nil
}

func (c *Client) Current(ctx context.Context) (*mpd.Track, error) {
	ts, err := c.tracks(ctx, "current")
	if err != nil || len(ts) == 0 {
		return nil, err
	}
	return &ts[0], nil
}

func (c *Client) Status(ctx context.Context) (mpd.Status, error) {
	out, err := c.run(ctx, []string{"-f", resultFormat}, "status")
	if err != nil {
		return mpd.Status{}, err
	}
	return parseStatus(out), nil
}

func (c *Client) Stats(ctx context.Context) (mpd.Stats, error) {
	out, err := c.run(ctx, nil, "stats")
	if err != nil {
		return mpd.Stats{}, err
	}
	return parseStats(out), nil
}

func (c *Client) Queue(ctx context.Context) ([]mpd.Track, error) {
	return c.tracks(ctx, "playlist")
}

func (c *Client) Search(ctx context.Context, args []string) ([]mpd.Track, error) {
	return c.tracks(ctx, "search", args...)
}

func (c *Client) Find(ctx context.Context, args []string) ([]mpd.Track, error) {
	return c.tracks(ctx, "find", args...)
}

// SearchTypes provokes the daemon's invalid-type error to learn the
// valid list; mpc offers no way to ask for it directly.
func (c *Client) SearchTypes(ctx context.Context) ([]string, error) {
	_, err := c.Search(ctx, []string{"whereverwhenever", "shakira!"})
	var it *mpd.InvalidTypeError
	if errors.As(err, &it) {
		return it.Valid, nil
	}
	if err != nil {
		return nil, err
	}
	return nil, &mpd.CommandError{Cmd: "search", Reason: "expected invalid-type error"}
}

func (c *Client) Playlists(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, nil, "lsplaylists")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

func (c *Client) Load(ctx context.Context, name string) error {
	_, err := c.run(ctx, nil, "load", name)
	return err
}

func (c *Client) Add(ctx context.Context, uri string) error {
	_, err := c.run(ctx, nil, "add", uri)
	return err
}

func (c *Client) Play(ctx context.Context) error {
	_, err := c.run(ctx, nil, "play")
	return err
}

func (c *Client) PlayPos(ctx context.Context, pos int) error {
	_, err := c.run(ctx, nil, "play", strconv.Itoa(pos))
	return err
}

func (c *Client) Pause(ctx context.Context) error {
	_, err := c.run(ctx, nil, "pause")
	return err
}

func (c *Client) Toggle(ctx context.Context) error {
	_, err := c.run(ctx, nil, "toggle")
	return err
}

func (c *Client) Next(ctx context.Context) error {
	_, err := c.run(ctx, nil, "next")
	return err
}

func (c *Client) Prev(ctx context.Context) error {
	_, err := c.run(ctx, nil, "prev")
	return err
}

func (c *Client) Clear(ctx context.Context) error {
	_, err := c.run(ctx, nil, "clear")
	return err
}

func (c *Client) Outputs(ctx context.Context) ([]mpd.Output, error) {
	out, err := c.run(ctx, nil, "outputs")
	if err != nil {
		return nil, err
	}
	return parseOutputs(out), nil
}

func (c *Client) EnableOutput(ctx context.Context, id int) error {
	_, err := c.run(ctx, nil, "enable", strconv.Itoa(id))
	return err
}

func (c *Client) DisableOutput(ctx context.Context, id int) error {
	_, err := c.run(ctx, nil, "disable", strconv.Itoa(id))
	return err
}

func (c *Client) ToggleOutput(ctx context.Context, id int) error {
	_, err := c.run(ctx, nil, "toggleoutput", strconv.Itoa(id))
	return err
}

var _ mpd.Client = (*Client)(nil)
