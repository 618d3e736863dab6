// Package remote runs the optional websocket remote: a long-lived
// process that pushes player state to connected clients and accepts the
// same commands the launcher actions trigger.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	gompd "github.com/fhs/gompd/v2/mpd"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/avhall/alfred-mpd/internal/mpd"
	"github.com/avhall/alfred-mpd/internal/query"
)

// Message is the frame sent to clients.
type Message struct {
	Type   string      `json:"type"` // status, tracks, error
	Status *StatusBody `json:"status,omitempty"`
	Tracks []mpd.Track `json:"tracks,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// StatusBody mirrors mpd.Status for the wire.
type StatusBody struct {
	Track   *mpd.Track `json:"track,omitempty"`
	Playing bool       `json:"playing"`
	Index   int        `json:"index"`
	Total   int        `json:"total"`
	Percent int        `json:"percent"`
}

// Server owns the listener, the MPD idle watcher and the client set.
type Server struct {
	Addr     string
	Client   mpd.Client
	MPDAddr  string // host:port the idle watcher dials
	Password string

	mu    sync.Mutex
	conns map[string]*websocket.Conn

	searches *lru.Cache[string, []mpd.Track]
}

const searchCacheSize = 128

// Run serves until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.conns = make(map[string]*websocket.Conn)

	var err error
	s.searches, err = lru.New[string, []mpd.Track](searchCacheSize)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)

	srv := &http.Server{Addr: s.Addr, Handler: mux}

	go s.watch(ctx)
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		srv.Shutdown(shutCtx)
	}()

	slog.Info("remote listening", "addr", s.Addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// watch subscribes to MPD idle events and pushes a fresh status to all
// clients whenever the player, mixer, outputs or queue change.
func (s *Server) watch(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		w, err := gompd.NewWatcher("tcp", s.MPDAddr, s.Password, "player", "mixer", "output", "playlist")
		if err != nil {
			slog.Warn("watcher connect failed, retrying", "err", err)
			select {
			case <-time.After(5 * time.Second):
				continue
			case <-ctx.Done():
				return
			}
		}

		func() {
			defer w.Close()
			for {
				select {
				case subsystem := <-w.Event:
					slog.Debug("mpd event", "subsystem", subsystem)
					s.broadcastStatus(ctx)
				case err := <-w.Error:
					slog.Warn("watcher error", "err", err)
					return
				case <-ctx.Done():
					return
				}
			}
		}()
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // remote is bound to loopback by default
	})
	if err != nil {
		slog.Warn("ws accept failed", "err", err)
		return
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.conns[id] = conn
	s.mu.Unlock()
	slog.Info("client connected", "id", id, "remote", r.RemoteAddr)

	defer func() {
		s.mu.Lock()
		delete(s.conns, id)
		s.mu.Unlock()
		conn.Close(websocket.StatusNormalClosure, "done")
		slog.Info("client disconnected", "id", id)
	}()

	ctx := r.Context()

	// greet with the current state
	s.send(ctx, conn, s.statusMessage(ctx))

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		s.send(ctx, conn, s.dispatch(ctx, strings.TrimSpace(string(data))))
	}
}

// dispatch executes one client command line and returns the reply.
func (s *Server) dispatch(ctx context.Context, line string) Message {
	cmd, arg, _ := strings.Cut(line, " ")
	switch cmd {
	case "status":
		return s.statusMessage(ctx)

	case "toggle", "next", "prev":
		var err error
		switch cmd {
		case "toggle":
			err = s.Client.Toggle(ctx)
		case "next":
			err = s.Client.Next(ctx)
		case "prev":
			err = s.Client.Prev(ctx)
		}
		if err != nil {
			return errorMessage(err)
		}
		return s.statusMessage(ctx)

	case "search":
		if tracks, ok := s.searches.Get(arg); ok {
			return Message{Type: "tracks", Tracks: tracks}
		}
		tracks, err := s.Client.Search(ctx, query.Parse(arg))
		if err != nil {
			return errorMessage(err)
		}
		s.searches.Add(arg, tracks)
		return Message{Type: "tracks", Tracks: tracks}

	default:
		return Message{Type: "error", Error: "unknown command " + cmd}
	}
}

func (s *Server) statusMessage(ctx context.Context) Message {
	st, err := s.Client.Status(ctx)
	if err != nil {
		return errorMessage(err)
	}
	return Message{Type: "status", Status: &StatusBody{
		Track:   st.Track,
		Playing: st.Playing,
		Index:   st.Index,
		Total:   st.Total,
		Percent: st.Percent,
	}}
}

func errorMessage(err error) Message {
	return Message{Type: "error", Error: err.Error()}
}

func (s *Server) send(ctx context.Context, conn *websocket.Conn, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		slog.Debug("ws write failed", "err", err)
	}
}

func (s *Server) broadcastStatus(ctx context.Context) {
	msg := s.statusMessage(ctx)
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		if err := c.Write(ctx, websocket.MessageText, data); err != nil {
			slog.Debug("broadcast write failed", "err", err)
		}
	}
}

// JoinHostPort is a convenience for callers building MPDAddr.
func JoinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
