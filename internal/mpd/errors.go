package mpd

import (
	"fmt"
	"regexp"
	"strings"
)

// Sentinel errors shared by the backends.
var (
	// ErrNotConnected means the daemon refused or dropped the connection.
	ErrNotConnected = fmt.Errorf("MPD_NOT_CONNECTED")
	// ErrNoBinary means the mpc binary could not be found.
	ErrNoBinary = fmt.Errorf("MPC_NOT_FOUND")
)

// InvalidTypeError is returned when a query names a search type the
// daemon does not know. Valid carries the daemon's own list.
type InvalidTypeError struct {
	What  string
	Valid []string
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("invalid search type %q (valid: %s)", e.What, strings.Join(e.Valid, ", "))
}

var invalidTypeRe = regexp.MustCompile(`"(.*?)" is not a valid search type: <(.+)>`)

// ParseInvalidType extracts the offending and valid types from the
// daemon's "is not a valid search type" message.
func ParseInvalidType(msg string) (*InvalidTypeError, bool) {
	m := invalidTypeRe.FindStringSubmatch(msg)
	if m == nil {
		return nil, false
	}
	return &InvalidTypeError{What: m[1], Valid: strings.Split(m[2], "|")}, true
}

// CommandError wraps a failed backend command.
type CommandError struct {
	Cmd      string
	ExitCode int
	Reason   string
}

func (e *CommandError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("MPD error (%s, exit %d): %s", e.Cmd, e.ExitCode, e.Reason)
	}
	return fmt.Sprintf("MPD error (%s, exit %d)", e.Cmd, e.ExitCode)
}
