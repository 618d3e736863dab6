package workflow

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Action names carried in item args. The launcher hands the selected
// item's arg to a second invocation (`do <arg>`), which decodes it here.
const (
	ActionAdd          = "add"
	ActionPlayTrack    = "play"
	ActionPlayPos      = "playpos"
	ActionPlayPause    = "playpause"
	ActionPause        = "pause"
	ActionNext         = "next"
	ActionPrev         = "prev"
	ActionClear        = "clear"
	ActionLoad         = "load"
	ActionEnable       = "enable"
	ActionDisable      = "disable"
	ActionToggleOutput = "toggleoutput"
)

// actionSep joins action and argument inside a single item arg. A tab
// cannot appear in MPD URIs or playlist names.
const actionSep = "\t"

// EncodeAction packs an action and its argument into an item arg.
func EncodeAction(action, arg string) string {
	if arg == "" {
		return action
	}
	return action + actionSep + arg
}

// DecodeAction splits an item arg back into action and argument.
func DecodeAction(s string) (action, arg string) {
	action, arg, _ = strings.Cut(s, actionSep)
	return action, arg
}

// Do performs an action and returns the one-line notification text the
// launcher displays.
func (w *Workflow) Do(ctx context.Context, action, arg string) (string, error) {
	switch action {
	case ActionAdd:
		if err := w.Client.Add(ctx, arg); err != nil {
			return "", err
		}
		return "Added to queue: " + arg, nil

	case ActionPlayTrack:
		// queue the track, then play it from the end of the queue;
		// Status.Total is the queue length unaffected by any result cap
		if err := w.Client.Add(ctx, arg); err != nil {
			return "", err
		}
		st, err := w.Client.Status(ctx)
		if err != nil {
			return "", err
		}
		if err := w.Client.PlayPos(ctx, st.Total); err != nil {
			return "", err
		}
		return "Playing: " + arg, nil

	case ActionPlayPos:
		pos, err := strconv.Atoi(arg)
		if err != nil {
			return "", fmt.Errorf("invalid queue position %q", arg)
		}
		if err := w.Client.PlayPos(ctx, pos); err != nil {
			return "", err
		}
		return fmt.Sprintf("Playing track %d", pos), nil

	case ActionPlayPause:
		if err := w.Client.Toggle(ctx); err != nil {
			return "", err
		}
		return "Toggled playback", nil

	case ActionPause:
		if err := w.Client.Pause(ctx); err != nil {
			return "", err
		}
		return "Paused", nil

	case ActionNext:
		if err := w.Client.Next(ctx); err != nil {
			return "", err
		}
		return "Skipped to next track", nil

	case ActionPrev:
		if err := w.Client.Prev(ctx); err != nil {
			return "", err
		}
		return "Back to previous track", nil

	case ActionClear:
		if err := w.Client.Clear(ctx); err != nil {
			return "", err
		}
		return "Cleared queue", nil

	case ActionLoad:
		if err := w.Client.Load(ctx, arg); err != nil {
			return "", err
		}
		return "Loaded playlist: " + arg, nil

	case ActionEnable, ActionDisable, ActionToggleOutput:
		id, err := strconv.Atoi(arg)
		if err != nil {
			return "", fmt.Errorf("invalid output id %q", arg)
		}
		switch action {
		case ActionEnable:
			err = w.Client.EnableOutput(ctx, id)
		case ActionDisable:
			err = w.Client.DisableOutput(ctx, id)
		default:
			err = w.Client.ToggleOutput(ctx, id)
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Output %d updated", id), nil

	default:
		return "", fmt.Errorf("unknown action %q", action)
	}
}
